package sequencer

import (
	"math/rand/v2"

	"techno-machine/pattern"
	"techno-machine/style"
)

// DeckID selects one of the two decks.
type DeckID int

const (
	DeckA DeckID = iota
	DeckB
)

func (id DeckID) Valid() bool { return id == DeckA || id == DeckB }

func (id DeckID) String() string {
	if id == DeckB {
		return "B"
	}
	return "A"
}

// Other returns the opposite deck.
func (id DeckID) Other() DeckID {
	if id == DeckB {
		return DeckA
	}
	return DeckB
}

// TimbreMods are per-voice multipliers on a preset's frequency and decay.
type TimbreMods struct {
	Freq  [style.NumVoices]float64
	Decay [style.NumVoices]float64
}

// NeutralMods leaves every preset unchanged.
func NeutralMods() TimbreMods {
	var m TimbreMods
	for v := range style.NumVoices {
		m.Freq[v], m.Decay[v] = 1, 1
	}
	return m
}

// newTimbreMods draws per-voice multipliers whose spread grows with
// variation: frequency within ±0.3·variation, decay within ±0.5·variation.
func newTimbreMods(variation float64, rng *rand.Rand) TimbreMods {
	var m TimbreMods
	for v := range style.NumVoices {
		m.Freq[v] = 1 + (rng.Float64()-0.5)*0.3*variation*2
		m.Decay[v] = 1 + (rng.Float64()-0.5)*0.5*variation*2
	}
	return m
}

// Deck is one side of the mixer: a pattern set, its fill variant and the
// timbre it should be played with. Patterns and Fills always come from the
// same Load call.
type Deck struct {
	Patterns  pattern.Set
	Fills     pattern.Set
	Styles    style.Composite
	Variation float64
	Densities pattern.Densities
	Mods      TimbreMods
}

func newDeck(length int) *Deck {
	return &Deck{
		Patterns:  pattern.NewSet(length),
		Fills:     pattern.NewSet(length),
		Styles:    style.Uniform(style.Techno),
		Variation: 0.5,
		Densities: pattern.DefaultDensities,
		Mods:      NeutralMods(),
	}
}

// Load regenerates patterns, ghost notes, timbre mods and fills in one go.
func (d *Deck) Load(gen *pattern.Generator, styles style.Composite, variation float64, densities pattern.Densities, length int) {
	styles = styles.Clamped()
	variation = min(1, max(0, variation))
	densities = densities.Clamped()

	set := gen.GenerateWithDensities(styles, length, variation, densities)
	pattern.AddGhostNotes(&set, variation, gen.Rand())

	d.Patterns = set
	d.Fills = pattern.Fills(set, densities, variation, gen.Rand())
	d.Mods = newTimbreMods(variation, gen.Rand())
	d.Styles = styles
	d.Variation = variation
	d.Densities = densities
}

// Length is the step count shared by all voices.
func (d *Deck) Length() int { return d.Patterns.Len() }

// active returns the pattern set playing right now.
func (d *Deck) active(fill bool) *pattern.Set {
	if fill {
		return &d.Fills
	}
	return &d.Patterns
}

// Presets returns the deck's eight voice timbres with its mods applied.
func (d *Deck) Presets() [style.NumVoices]style.VoicePreset {
	out := d.Styles.VoicePresets()
	for v := range out {
		out[v].Freq *= d.Mods.Freq[v]
		out[v].Decay *= d.Mods.Decay[v]
	}
	return out
}
