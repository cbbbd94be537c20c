package style

// Role is one of the four rhythmic functions. Each role is played by two
// voices: a primary and an interlocking secondary.
type Role int

const (
	Timeline   Role = iota // hi-hat
	Foundation             // kick
	Groove                 // clap / snare
	Lead                   // perc
)

const (
	NumRoles  = 4
	NumVoices = NumRoles * 2

	// Steps is the resolution of every weight curve in the catalog.
	Steps = 16
)

var roleNames = [NumRoles]string{"Timeline", "Foundation", "Groove", "Lead"}

func (r Role) String() string {
	if !r.Valid() {
		return "Unknown"
	}
	return roleNames[r]
}

// Valid reports whether r is one of the four roles.
func (r Role) Valid() bool {
	return r >= 0 && r < NumRoles
}

// Roles returns all roles in voice order.
func Roles() [NumRoles]Role {
	return [NumRoles]Role{Timeline, Foundation, Groove, Lead}
}

// RoleOf returns the role a voice belongs to. Out-of-range voices map to
// Timeline.
func RoleOf(voice int) Role {
	if voice < 0 || voice >= NumVoices {
		return Timeline
	}
	return Role(voice / 2)
}

// VoiceOf returns the voice index for a role's primary or secondary voice.
func VoiceOf(r Role, secondary bool) int {
	if !r.Valid() {
		r = Timeline
	}
	v := int(r) * 2
	if secondary {
		v++
	}
	return v
}

// IsSecondary reports whether voice is the interlocking voice of its role.
func IsSecondary(voice int) bool {
	return voice%2 == 1
}
