package pattern

import (
	"math"
	"math/rand/v2"

	"techno-machine/style"
)

const (
	// Below this density a voice stays silent.
	minDensity = 0.01

	// Weighted placement stops once the remaining weight drops under this.
	weightEpsilon = 0.001

	// Interlock shaping applied to secondary voices.
	interlockSuppress = 0.2
	interlockBoost    = 1.3

	secondaryVariationBoost = 0.2
)

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generator turns a style context into 8-voice pattern sets. Each
// Generator owns its random stream.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: NewRand(seed)}
}

// Seed restarts the random stream.
func (g *Generator) Seed(seed uint64) {
	g.rng = NewRand(seed)
}

// Rand exposes the stream so post-passes draw from the same sequence.
func (g *Generator) Rand() *rand.Rand {
	return g.rng
}

// Generate builds a set using densities derived from the context's ranges.
func (g *Generator) Generate(ctx style.Context, length int, variation float64) Set {
	variation = clamp01(variation)
	return g.GenerateWithDensities(ctx, length, variation, FromContext(ctx, variation))
}

// GenerateWithDensities builds a set with explicit per-role densities.
// Densities are clamped to [0, 0.9] and a non-positive length becomes 1.
func (g *Generator) GenerateWithDensities(ctx style.Context, length int, variation float64, d Densities) Set {
	length = max(1, length)
	variation = clamp01(variation)
	d = d.Clamped()

	set := NewSet(length)
	for _, r := range style.Roles() {
		primary := primaryStrategies[r](g, ctx, r, length, d[r], variation)
		set[style.VoiceOf(r, false)] = primary
		set[style.VoiceOf(r, true)] = g.interlock(ctx, r, length,
			d[r]*secondaryDensity[r],
			min(1, variation+secondaryVariationBoost),
			primary)
	}
	return set
}

type strategy func(g *Generator, ctx style.Context, r style.Role, length int, density, variation float64) Pattern

// primaryStrategies picks the primary-voice algorithm per role.
var primaryStrategies = [style.NumRoles]strategy{
	style.Timeline:   (*Generator).weighted,
	style.Foundation: (*Generator).skeleton,
	style.Groove:     (*Generator).backbeat,
	style.Lead:       (*Generator).weighted,
}

// secondaryDensity scales a role's density for its interlocking voice.
var secondaryDensity = [style.NumRoles]float64{0.5, 0.5, 0.6, 0.5}

// curve resamples a role's 16-step weights to length by nearest neighbour
// and flattens it toward uniform by variation.
func curve(ctx style.Context, r style.Role, length int, variation float64) []float64 {
	src := ctx.RoleWeights(r)
	w := make([]float64, length)
	for i := range w {
		w[i] = src[i*style.Steps/length]*(1-variation) + variation
	}
	return w
}

func targetOnsets(length int, density float64) int {
	return int(math.Round(float64(length) * density))
}

// jitter returns a uniform value in [-amount, amount).
func (g *Generator) jitter(amount float64) float64 {
	return (g.rng.Float64()*2 - 1) * amount
}

func (g *Generator) weighted(ctx style.Context, r style.Role, length int, density, variation float64) Pattern {
	p := New(length)
	if density < minDensity {
		return p
	}
	g.place(p, curve(ctx, r, length, variation), targetOnsets(length, density))
	return p
}

// skeleton places four strong quarter-note onsets, then sprinkles off-beat
// onsets from the style curve above variation 0.3.
func (g *Generator) skeleton(ctx style.Context, r style.Role, length int, density, variation float64) Pattern {
	p := New(length)
	if density < minDensity {
		return p
	}
	quarter := length / 4
	for i := range 4 {
		p.SetOnset(i*quarter, min(1, max(0.85, 0.9+g.jitter(0.05))))
	}
	if variation > 0.3 {
		src := ctx.RoleWeights(r)
		for i := 0; i < length; i++ {
			if p.HasOnset(i) {
				continue
			}
			w := src[i*style.Steps/length] * variation
			if g.rng.Float64() < w*0.3 {
				p.SetOnset(i, 0.5+g.jitter(0.05))
			}
		}
	}
	return p
}

// backbeat fixes onsets on the second and fourth quarter and adds
// syncopation on the last sixteenth of a beat above variation 0.4.
func (g *Generator) backbeat(_ style.Context, _ style.Role, length int, density, variation float64) Pattern {
	p := New(length)
	if density < minDensity {
		return p
	}
	quarter := length / 4
	p.SetOnset(quarter, 0.85+g.jitter(0.08))
	p.SetOnset(3*quarter, 0.85+g.jitter(0.08))
	if variation > 0.4 {
		for i := 0; i < length; i++ {
			if p.HasOnset(i) {
				continue
			}
			if i%4 == 3 && g.rng.Float64() < variation*0.25 {
				p.SetOnset(i, 0.4+g.jitter(0.08))
			}
		}
	}
	return p
}

// interlock generates a voice that avoids the reference onsets and leans
// on the steps next to them.
func (g *Generator) interlock(ctx style.Context, r style.Role, length int, density, variation float64, ref Pattern) Pattern {
	p := New(length)
	if density < minDensity {
		return p
	}
	w := curve(ctx, r, length, variation)
	for i := range w {
		if ref.HasOnset(i) {
			w[i] *= interlockSuppress
		}
		if ref.HasOnset(i-1) || ref.HasOnset(i+1) {
			w[i] *= interlockBoost
		}
	}
	g.place(p, w, targetOnsets(length, density))
	return p
}

// place draws up to target positions without replacement, proportional to
// the remaining weight. weights is consumed.
func (g *Generator) place(p Pattern, weights []float64, target int) {
	for placed := 0; placed < target; placed++ {
		total := 0.0
		for i, w := range weights {
			if !p.HasOnset(i) {
				total += w
			}
		}
		if total < weightEpsilon {
			return
		}

		pick := g.rng.Float64() * total
		sum := 0.0
		selected, last := -1, -1
		for i, w := range weights {
			if p.HasOnset(i) || w <= 0 {
				continue
			}
			last = i
			sum += w
			if sum >= pick {
				selected = i
				break
			}
		}
		if selected < 0 {
			// rounding left pick just above the final sum
			selected = last
		}
		if selected < 0 {
			return
		}

		vel := 0.6 + weights[selected]*0.3 + g.jitter(0.1)
		p.SetOnset(selected, min(1, max(0.3, vel)))
		weights[selected] = 0
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
