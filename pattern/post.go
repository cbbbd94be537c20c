package pattern

import (
	"math/rand/v2"

	"techno-machine/style"
)

// AddGhostNotes scatters quiet onsets (velocity 0.25..0.32) on empty
// weak-beat steps that sit next to an onset. Probability grows with
// variation from 0.1 to 0.3.
func AddGhostNotes(set *Set, variation float64, rng *rand.Rand) {
	prob := 0.1 + clamp01(variation)*0.2
	for v := range set {
		p := set[v]
		for i := 0; i < p.Len(); i++ {
			if p.HasOnset(i) || i%4 == 0 {
				continue
			}
			if !p.HasOnset(i-1) && !p.HasOnset(i+1) {
				continue
			}
			if rng.Float64() < prob {
				p.SetOnset(i, 0.25+rng.Float64()*0.07)
			}
		}
	}
}

// Fills returns a denser copy of set for fill bars. Each voice gains
// random onsets up to its role's boosted density, and above variation 0.3
// the Groove voices get a roll over the last four steps.
func Fills(set Set, d Densities, variation float64, rng *rand.Rand) Set {
	variation = clamp01(variation)
	d = d.Clamped()
	boost := 1.5 + variation*0.5
	out := set.Clone()

	for v := range out {
		p := out[v]
		length := p.Len()
		r := style.RoleOf(v)

		base := d[r]
		extra := int((min(MaxDensity, base*boost) - base) * float64(length))
		for range extra {
			pos := int(rng.Float64() * float64(length))
			if !p.HasOnset(pos) {
				p.SetOnset(pos, 0.6+rng.Float64()*0.4)
			}
		}

		if r == style.Groove && variation > 0.3 {
			for i := length - 4; i < length; i++ {
				if rng.Float64() < 0.7 {
					p.SetOnset(i, 0.7+rng.Float64()*0.3)
				}
			}
		}
	}
	return out
}
