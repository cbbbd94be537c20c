package style

import "fmt"

// Context is a read-only view of the style a generator should follow.
// A single profile, a per-role composite and a morph blend all implement it.
type Context interface {
	RoleWeights(r Role) [Steps]float64
	DensityRange(r Role) (min, max float64)
	SwingRatio() float64
}

// Composite assigns a catalog style to each role.
type Composite [NumRoles]int

// Uniform returns a composite where every role follows idx.
func Uniform(idx int) Composite {
	return Composite{idx, idx, idx, idx}
}

// Dominant returns the most frequent style index. Ties go to the lowest
// index.
func (c Composite) Dominant() int {
	var counts [Count]int
	for _, idx := range c.Clamped() {
		counts[idx]++
	}
	best := 0
	for i := 1; i < Count; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}

// Clamped returns a copy with out-of-range entries replaced by style 0.
func (c Composite) Clamped() Composite {
	for r := range c {
		if !Valid(c[r]) {
			c[r] = Techno
		}
	}
	return c
}

// IsUniform reports whether all roles follow the same style.
func (c Composite) IsUniform() bool {
	return c[0] == c[1] && c[1] == c[2] && c[2] == c[3]
}

// Style returns the style index for role r.
func (c Composite) Style(r Role) int {
	if !r.Valid() {
		r = Timeline
	}
	idx := c[r]
	if !Valid(idx) {
		return Techno
	}
	return idx
}

func (c Composite) String() string {
	if c.IsUniform() {
		return Name(c.Style(Timeline))
	}
	return fmt.Sprintf("%s/%s/%s/%s",
		Name(c.Style(Timeline)), Name(c.Style(Foundation)),
		Name(c.Style(Groove)), Name(c.Style(Lead)))
}

// Composite implements Context: role r reads its curve and density range
// from the style assigned to r; swing comes from the dominant style.

func (c Composite) RoleWeights(r Role) [Steps]float64 {
	if !r.Valid() {
		r = Timeline
	}
	return Get(c.Style(r)).RoleWeights(r)
}

func (c Composite) DensityRange(r Role) (min, max float64) {
	if !r.Valid() {
		r = Timeline
	}
	return Get(c.Style(r)).DensityRange(r)
}

func (c Composite) SwingRatio() float64 {
	return Get(c.Dominant()).Swing
}
