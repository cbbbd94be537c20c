package sequencer

import (
	"math/rand/v2"

	"techno-machine/arrangement"
	"techno-machine/pattern"
	"techno-machine/style"
)

const (
	DefaultPatternLength = 16
	DefaultFillInterval  = 4

	// MaxDensityOffset bounds the offset added to every role density on load.
	MaxDensityOffset = 0.5
)

// Decision is the outcome of mixing one voice at one step.
type Decision struct {
	ShouldTrigger bool
	Velocity      float64
}

// DJCurve is the quintic smoothstep 6p⁵-15p⁴+10p³. It is steep near the
// ends and flat around the middle, like a mixer's crossfader.
func DJCurve(p float64) float64 {
	p = min(1, max(0, p))
	return p * p * p * (p*(p*6-15) + 10)
}

// Engine mixes two decks step by step. It is not safe for concurrent use;
// Manager serializes access.
type Engine struct {
	gen *pattern.Generator
	rng *rand.Rand

	decks     [2]*Deck
	crossfade float64

	length        int
	densities     pattern.Densities
	densityOffset float64

	fillInterval  int
	fillActive    bool
	fillStepsLeft int
}

// NewEngine creates both decks on Techno at variation 0.5.
func NewEngine(seed uint64) *Engine {
	e := &Engine{
		gen:          pattern.NewGenerator(seed),
		rng:          pattern.NewRand(seed ^ 0xd1b54a32d192ed03),
		length:       DefaultPatternLength,
		densities:    pattern.DefaultDensities,
		fillInterval: DefaultFillInterval,
	}
	for id := range e.decks {
		e.decks[id] = newDeck(e.length)
		e.load(DeckID(id), style.Uniform(style.Techno), 0.5)
	}
	return e
}

func (e *Engine) load(id DeckID, styles style.Composite, variation float64) {
	e.decks[id].Load(e.gen, styles, variation, e.loadDensities(), e.length)
}

// loadDensities is the engine densities shifted by the offset.
func (e *Engine) loadDensities() pattern.Densities {
	d := e.densities
	for r := range d {
		d[r] += e.densityOffset
	}
	return d.Clamped()
}

// LoadToDeck regenerates a deck for the given styles and variation.
// Invalid deck ids are ignored.
func (e *Engine) LoadToDeck(id DeckID, styles style.Composite, variation float64) {
	if !id.Valid() {
		return
	}
	e.load(id, styles, variation)
}

// LoadSong loads a song's styles and variation into a deck.
func (e *Engine) LoadSong(id DeckID, s arrangement.Song) {
	e.LoadToDeck(id, s.Styles, s.Variation)
}

// RegenerateDeck reloads a deck with its current styles and variation.
func (e *Engine) RegenerateDeck(id DeckID) {
	if !id.Valid() {
		return
	}
	d := e.decks[id]
	e.load(id, d.Styles, d.Variation)
}

// Deck returns a deck, or nil for an invalid id.
func (e *Engine) Deck(id DeckID) *Deck {
	if !id.Valid() {
		return nil
	}
	return e.decks[id]
}

// SetCrossfader sets the mix position: 0 plays deck A only, 1 deck B only.
func (e *Engine) SetCrossfader(p float64) {
	e.crossfade = min(1, max(0, p))
}

func (e *Engine) Crossfader() float64 { return e.crossfade }

// Audible returns the deck the crossfader leans toward.
func (e *Engine) Audible() DeckID {
	if e.crossfade < 0.5 {
		return DeckA
	}
	return DeckB
}

// SetPatternLength sets the step count used by the next load (at least 1).
func (e *Engine) SetPatternLength(n int) { e.length = max(1, n) }
func (e *Engine) PatternLength() int     { return e.length }

// SetDensity sets one role's density, clamped to [0, 0.9]. Invalid roles
// are ignored. Takes effect on the next load.
func (e *Engine) SetDensity(r style.Role, d float64) {
	if !r.Valid() {
		return
	}
	e.densities[r] = pattern.ClampDensity(d)
}

// Density returns a role's density, or 0 for an invalid role.
func (e *Engine) Density(r style.Role) float64 {
	if !r.Valid() {
		return 0
	}
	return e.densities[r]
}

func (e *Engine) Densities() pattern.Densities { return e.densities }

// SetDensityOffset shifts every role density on the next load, clamped to
// [-0.5, 0.5].
func (e *Engine) SetDensityOffset(off float64) {
	e.densityOffset = min(MaxDensityOffset, max(-MaxDensityOffset, off))
}

func (e *Engine) DensityOffset() float64 { return e.densityOffset }

// MixDecision decides whether voice fires at step. When both decks have an
// onset one of them wins with probability given by the curved crossfader;
// a lone onset fires with its own deck's weight. The Foundation role never
// blends: below 0.5 only deck A can fire, from 0.5 on only deck B.
func (e *Engine) MixDecision(voice, step int) Decision {
	if voice < 0 || voice >= style.NumVoices {
		return Decision{}
	}
	a := e.decks[DeckA].active(e.fillActive).Voice(voice)
	b := e.decks[DeckB].active(e.fillActive).Voice(voice)

	if style.RoleOf(voice) == style.Foundation {
		src := a
		if e.crossfade >= 0.5 {
			src = b
		}
		if src.HasOnset(step) {
			return Decision{ShouldTrigger: true, Velocity: src.Velocity(step)}
		}
		return Decision{}
	}

	wB := DJCurve(e.crossfade)
	wA := 1 - wB
	hasA, hasB := a.HasOnset(step), b.HasOnset(step)

	switch {
	case hasA && hasB:
		if e.rng.Float64() < wB {
			return Decision{ShouldTrigger: true, Velocity: b.Velocity(step)}
		}
		return Decision{ShouldTrigger: true, Velocity: a.Velocity(step)}
	case hasA:
		if e.rng.Float64() < wA {
			return Decision{ShouldTrigger: true, Velocity: a.Velocity(step)}
		}
	case hasB:
		if e.rng.Float64() < wB {
			return Decision{ShouldTrigger: true, Velocity: b.Velocity(step)}
		}
	}
	return Decision{}
}

// MixedPresets blends both decks' timbres. The oscillator mode switches at
// the halfway point; frequency and decay follow the curved crossfader.
func (e *Engine) MixedPresets() [style.NumVoices]style.VoicePreset {
	a, b := e.decks[DeckA].Presets(), e.decks[DeckB].Presets()
	t := DJCurve(e.crossfade)
	var out [style.NumVoices]style.VoicePreset
	for v := range out {
		mode := a[v].Mode
		if e.crossfade >= 0.5 {
			mode = b[v].Mode
		}
		out[v] = style.VoicePreset{
			Mode:  mode,
			Freq:  style.Lerp(a[v].Freq, b[v].Freq, t),
			Decay: style.Lerp(a[v].Decay, b[v].Decay, t),
		}.Clamped()
	}
	return out
}

// ApplyPresets pushes the mixed timbres to the synth.
func (e *Engine) ApplyPresets(s Synth) {
	for v, p := range e.MixedPresets() {
		s.SetVoiceParams(v, p.Mode, p.Freq, p.Decay)
	}
}

// Step mixes all eight voices at step, triggers the synth for each fired
// onset and then counts the step toward the end of an active fill.
func (e *Engine) Step(step int, s Synth) [style.NumVoices]Decision {
	var out [style.NumVoices]Decision
	for v := range out {
		out[v] = e.MixDecision(v, step)
		if out[v].ShouldTrigger && s != nil {
			s.TriggerVoice(v, out[v].Velocity)
		}
	}
	e.AdvanceStep()
	return out
}

// SetFillInterval sets how often fills play, in bars (at least 1).
func (e *Engine) SetFillInterval(bars int) { e.fillInterval = max(1, bars) }
func (e *Engine) FillInterval() int        { return e.fillInterval }
func (e *Engine) FillActive() bool         { return e.fillActive }

// NotifyBarStart starts a fill on the last bar of every interval. Bar 0
// never fills.
func (e *Engine) NotifyBarStart(bar int) {
	if bar > 0 && bar%e.fillInterval == e.fillInterval-1 {
		e.fillActive = true
		e.fillStepsLeft = e.decks[e.Audible()].Length()
	}
}

// AdvanceStep counts one step off an active fill.
func (e *Engine) AdvanceStep() {
	if !e.fillActive {
		return
	}
	e.fillStepsLeft--
	if e.fillStepsLeft <= 0 {
		e.fillActive = false
	}
}
