package midi

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownKit is returned by LookupKit for names not in Kits.
var ErrUnknownKit = errors.New("unknown kit")

// Kit maps the eight voices to MIDI notes on a drum machine.
// Voices come in role pairs: hat, kick, clap, perc.
type Kit struct {
	Name  string
	Notes [8]uint8
}

// Voice order for reference
// 0: Closed HH   1: Open HH
// 2: Kick        3: Low Tom
// 4: Clap        5: Snare
// 6: Rimshot     7: Cowbell

// Kits contains all available kit mappings
var Kits = map[string]Kit{
	"gm": {
		Name:  "General MIDI",
		Notes: [8]uint8{42, 46, 36, 41, 39, 38, 37, 56},
	},
	"rd8": {
		Name: "Behringer RD-8",
		// RD-8 snare is on 40, not 38
		Notes: [8]uint8{42, 46, 36, 45, 39, 40, 37, 56},
	},
	"tr8s": {
		Name:  "Roland TR-8S",
		Notes: [8]uint8{42, 46, 36, 41, 39, 38, 37, 56},
	},
	"er1": {
		Name: "Korg ER-1",
		// Perc synths 3 and 4 stand in for the tom and cowbell
		Notes: [8]uint8{42, 46, 36, 40, 39, 38, 37, 41},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the available kit names, sorted.
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// LookupKit is GetKit for callers that must reject bad names.
func LookupKit(name string) (Kit, error) {
	kit, ok := Kits[name]
	if !ok {
		return Kit{}, fmt.Errorf("%w: %q", ErrUnknownKit, name)
	}
	return kit, nil
}

// VoiceFor returns the voice mapped to note, or -1.
func (k Kit) VoiceFor(note uint8) int {
	for v, n := range k.Notes {
		if n == note {
			return v
		}
	}
	return -1
}
