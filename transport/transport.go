package transport

import "math"

const (
	SixteenthsPerBeat = 4
	BeatsPerBar       = 4
	StepsPerBar       = SixteenthsPerBeat * BeatsPerBar

	MaxSwing = 0.75
)

// SwingLevels are the selectable swing ratios, straight to triplet.
var SwingLevels = [4]float64{0.50, 0.54, 0.62, 0.67}

// Transport derives sixteenth, beat and bar events from a per-sample phase
// accumulator. Odd sixteenths are delayed by the swing ratio: within each
// eighth-note pair the second sixteenth starts at 2·ratio of the pair.
type Transport struct {
	clock   *Clock
	playing bool
	swing   float64

	pos       float64 // sixteenths elapsed
	nextIdx   int
	nextStart float64

	sixteenthStart, beatStart, barStart bool

	bar, beat, sixteenth, step int
}

func New() *Transport {
	return &Transport{clock: NewClock(), swing: SwingLevels[0]}
}

func (t *Transport) Prepare(sampleRate float64) {
	t.clock.Prepare(sampleRate)
	t.Reset()
}

func (t *Transport) SetTempo(bpm float64) { t.clock.SetTempo(bpm) }

func (t *Transport) Start() { t.playing = true }
func (t *Transport) Stop()  { t.playing = false }

// Reset rewinds to bar 0. The next Advance while playing emits bar 0,
// step 0.
func (t *Transport) Reset() {
	t.clock.Reset()
	t.pos = 0
	t.nextIdx = 0
	t.nextStart = 0
	t.sixteenthStart, t.beatStart, t.barStart = false, false, false
	t.bar, t.beat, t.sixteenth, t.step = 0, 0, 0, 0
}

// SetSwingLevel selects one of SwingLevels; out-of-range levels are
// clamped.
func (t *Transport) SetSwingLevel(level int) {
	t.SetSwingRatio(SwingLevels[min(len(SwingLevels)-1, max(0, level))])
}

// SetSwingRatio sets the swing ratio directly, clamped to [0.5, 0.75].
func (t *Transport) SetSwingRatio(ratio float64) {
	t.swing = min(MaxSwing, max(0.5, ratio))
	t.nextStart = t.startOf(t.nextIdx)
}

func (t *Transport) SwingRatio() float64 { return t.swing }

// SwingLevel returns the index of the level nearest the current ratio.
func (t *Transport) SwingLevel() int {
	return NearestSwingLevel(t.swing)
}

// NearestSwingLevel snaps a ratio to the closest entry of SwingLevels.
func NearestSwingLevel(ratio float64) int {
	best := 0
	for i, l := range SwingLevels {
		if math.Abs(l-ratio) < math.Abs(SwingLevels[best]-ratio) {
			best = i
		}
	}
	return best
}

// startOf returns the onset time of sixteenth n, in sixteenths.
func (t *Transport) startOf(n int) float64 {
	if n%2 == 0 {
		return float64(n)
	}
	return float64(n-1) + 2*t.swing
}

// Advance moves the transport by one sample and updates the event flags.
func (t *Transport) Advance() {
	t.sixteenthStart, t.beatStart, t.barStart = false, false, false
	if !t.playing {
		return
	}

	if t.pos >= t.nextStart {
		n := t.nextIdx
		t.sixteenthStart = true
		t.step = n % StepsPerBar
		t.sixteenth = n % SixteenthsPerBeat
		t.beat = t.step / SixteenthsPerBeat
		t.bar = n / StepsPerBar
		t.beatStart = t.sixteenth == 0
		t.barStart = t.step == 0

		t.nextIdx++
		t.nextStart = t.startOf(t.nextIdx)
	}

	t.pos += 1 / t.clock.SamplesPerSixteenth()
	t.clock.Advance()
}

func (t *Transport) IsPlaying() bool        { return t.playing }
func (t *Transport) IsSixteenthStart() bool { return t.sixteenthStart }
func (t *Transport) IsBeatStart() bool      { return t.beatStart }
func (t *Transport) IsBarStart() bool       { return t.barStart }

func (t *Transport) CurrentBar() int       { return t.bar }
func (t *Transport) CurrentBeat() int      { return t.beat }
func (t *Transport) CurrentSixteenth() int { return t.sixteenth }
func (t *Transport) StepInBar() int        { return t.step }

// PositionInBar is the unswung position within the bar, in [0,1).
func (t *Transport) PositionInBar() float64 {
	return math.Mod(t.pos, StepsPerBar) / StepsPerBar
}

func (t *Transport) Tempo() float64      { return t.clock.Tempo() }
func (t *Transport) SampleRate() float64 { return t.clock.SampleRate() }
func (t *Transport) Clock() *Clock       { return t.clock }
