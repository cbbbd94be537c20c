package pattern

import (
	"math/rand/v2"

	"techno-machine/style"
)

// MarkovChain is a two-state (rest/hit) chain whose transition odds are
// shaped by the current step weight, a density and a temperature.
type MarkovChain struct {
	rng *rand.Rand
	hit bool

	restToHit, hitToHit float64
	weight, density     float64
	temperature         float64
}

func NewMarkovChain(seed uint64) *MarkovChain {
	c := &MarkovChain{rng: NewRand(seed), weight: 0.5, density: 0.5, temperature: 1}
	c.SetTransitions(0.3, 0.5)
	return c
}

// SetTransitions sets the base rest→hit and hit→hit probabilities.
func (c *MarkovChain) SetTransitions(restToHit, hitToHit float64) {
	c.restToHit = clamp01(restToHit)
	c.hitToHit = clamp01(hitToHit)
}

func (c *MarkovChain) SetStepWeight(weight, density float64) {
	c.weight = clamp01(weight)
	c.density = clamp01(density)
}

// SetTemperature clamps to [0.1, 2]. Low temperatures push probabilities
// away from 0.5, high ones pull them toward it.
func (c *MarkovChain) SetTemperature(t float64) {
	c.temperature = min(2, max(0.1, t))
}

// Prob returns the shaped probability of the next step being a hit.
func (c *MarkovChain) Prob(fillIntensity float64) float64 {
	var p float64
	if c.hit {
		p = c.hitToHit * c.weight * (0.7 + c.density*0.6)
	} else {
		p = c.restToHit * c.weight * (0.5 + c.density)
	}
	p = 0.5 + (p-0.5)/c.temperature
	p += clamp01(fillIntensity) * 0.4
	return clamp01(p)
}

// Step advances the chain and reports whether it hits. fillIntensity 0
// means no fill.
func (c *MarkovChain) Step(fillIntensity float64) bool {
	c.hit = c.rng.Float64() < c.Prob(fillIntensity)
	return c.hit
}

func (c *MarkovChain) Hit() bool { return c.hit }
func (c *MarkovChain) Reset()    { c.hit = false }

// markovBase holds the rest→hit and hit→hit odds per voice.
var markovBase = [style.NumVoices][2]float64{
	{0.6, 0.7}, {0.4, 0.5}, // timeline
	{0.25, 0.1}, {0.15, 0.1}, // foundation
	{0.3, 0.2}, {0.2, 0.15}, // groove
	{0.35, 0.4}, {0.25, 0.3}, // lead
}

// MarkovEngine runs one chain per voice. It is an alternative to
// Generator that decides onsets step by step instead of per bar.
type MarkovEngine struct {
	chains [style.NumVoices]*MarkovChain
}

func NewMarkovEngine(seed uint64) *MarkovEngine {
	e := &MarkovEngine{}
	for v := range e.chains {
		c := NewMarkovChain(seed + uint64(v)*7919)
		c.SetTransitions(markovBase[v][0], markovBase[v][1])
		e.chains[v] = c
	}
	return e
}

// Chain returns the chain for voice v, wrapping out-of-range indices.
func (e *MarkovEngine) Chain(v int) *MarkovChain {
	v %= style.NumVoices
	if v < 0 {
		v += style.NumVoices
	}
	return e.chains[v]
}

// UpdateStep loads per-voice step weights and per-role densities. The
// temperature of each chain follows its role density.
func (e *MarkovEngine) UpdateStep(weights [style.NumVoices]float64, d Densities) {
	for v, c := range e.chains {
		r := style.RoleOf(v)
		c.SetStepWeight(weights[v], d[r])
		c.SetTemperature(0.5 + d[r])
	}
}

// Step advances every chain once.
func (e *MarkovEngine) Step(fillIntensity float64) [style.NumVoices]bool {
	var out [style.NumVoices]bool
	for v, c := range e.chains {
		out[v] = c.Step(fillIntensity)
	}
	return out
}

func (e *MarkovEngine) Reset() {
	for _, c := range e.chains {
		c.Reset()
	}
}

// Generate walks the chains over length steps using the context's role
// curves and renders the hits as a pattern set. Hits take their velocity
// from the step weight.
func (e *MarkovEngine) Generate(ctx style.Context, length int, d Densities, fillIntensity float64) Set {
	length = max(1, length)
	d = d.Clamped()
	set := NewSet(length)

	var curves [style.NumRoles][style.Steps]float64
	for _, r := range style.Roles() {
		curves[r] = ctx.RoleWeights(r)
	}

	e.Reset()
	for i := 0; i < length; i++ {
		var w [style.NumVoices]float64
		for v := range w {
			w[v] = curves[style.RoleOf(v)][i*style.Steps/length]
		}
		e.UpdateStep(w, d)
		for v, hit := range e.Step(fillIntensity) {
			if hit {
				set[v].SetOnset(i, 0.5+w[v]*0.5)
			}
		}
	}
	return set
}
