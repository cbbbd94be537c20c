package pattern

import "techno-machine/style"

// Pattern is a fixed-length velocity sequence. 0 means no onset, any value
// in (0,1] is an onset with that strength. Positions wrap modulo the length,
// negative positions included.
type Pattern struct {
	vel []float64
}

// New returns an empty pattern. Non-positive lengths become 1.
func New(length int) Pattern {
	return Pattern{vel: make([]float64, max(1, length))}
}

// Len returns the pattern length; a zero Pattern reports 1.
func (p Pattern) Len() int {
	if len(p.vel) == 0 {
		return 1
	}
	return len(p.vel)
}

func (p Pattern) index(pos int) int {
	n := len(p.vel)
	pos %= n
	if pos < 0 {
		pos += n
	}
	return pos
}

func (p Pattern) HasOnset(pos int) bool {
	return p.Velocity(pos) > 0
}

func (p Pattern) Velocity(pos int) float64 {
	if len(p.vel) == 0 {
		return 0
	}
	return p.vel[p.index(pos)]
}

// SetOnset stores an onset, clamping the velocity to [0.01, 1].
func (p Pattern) SetOnset(pos int, velocity float64) {
	if len(p.vel) == 0 {
		return
	}
	p.vel[p.index(pos)] = min(1, max(0.01, velocity))
}

func (p Pattern) ClearOnset(pos int) {
	if len(p.vel) == 0 {
		return
	}
	p.vel[p.index(pos)] = 0
}

// Clear removes every onset.
func (p Pattern) Clear() {
	clear(p.vel)
}

// Onsets counts the steps that fire.
func (p Pattern) Onsets() int {
	n := 0
	for _, v := range p.vel {
		if v > 0 {
			n++
		}
	}
	return n
}

func (p Pattern) Clone() Pattern {
	out := New(p.Len())
	copy(out.vel, p.vel)
	return out
}

// Velocities returns a copy of the raw velocity data.
func (p Pattern) Velocities() []float64 {
	out := make([]float64, len(p.vel))
	copy(out, p.vel)
	return out
}

// FromVelocities builds a pattern from raw data, clamping every non-zero
// value into the onset range.
func FromVelocities(vel []float64) Pattern {
	p := New(len(vel))
	for i, v := range vel {
		if v > 0 {
			p.SetOnset(i, v)
		}
	}
	return p
}

// Set is the 8-voice pattern group of one deck, in voice order.
type Set [style.NumVoices]Pattern

// NewSet returns 8 empty patterns of equal length.
func NewSet(length int) Set {
	var s Set
	for v := range s {
		s[v] = New(length)
	}
	return s
}

// Voice returns the pattern for voice v, or voice 0 when v is out of range.
func (s *Set) Voice(v int) Pattern {
	if v < 0 || v >= style.NumVoices {
		v = 0
	}
	return s[v]
}

func (s *Set) Len() int {
	return s[0].Len()
}

func (s *Set) Clone() Set {
	var out Set
	for v := range s {
		out[v] = s[v].Clone()
	}
	return out
}

// Densities holds one onset density per role.
type Densities [style.NumRoles]float64

// DefaultDensities are the engine's starting per-role densities.
var DefaultDensities = Densities{0.4, 0.2, 0.5, 0.5}

// MaxDensity caps every density handed to the generator.
const MaxDensity = 0.9

// ClampDensity limits d to [0, MaxDensity].
func ClampDensity(d float64) float64 {
	return min(MaxDensity, max(0, d))
}

// Clamped returns a copy with every density limited to [0, MaxDensity].
func (d Densities) Clamped() Densities {
	for r := range d {
		d[r] = ClampDensity(d[r])
	}
	return d
}

// FromContext derives densities from the style's ranges: min plus
// variation times the range width.
func FromContext(ctx style.Context, variation float64) Densities {
	var d Densities
	for _, r := range style.Roles() {
		lo, hi := ctx.DensityRange(r)
		d[r] = lo + variation*(hi-lo)
	}
	return d
}
