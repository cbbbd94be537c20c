package transport

const (
	MinTempo          = 20.0
	MaxTempo          = 300.0
	DefaultTempo      = 128.0
	DefaultSampleRate = 48000.0
)

// Clock converts tempo into sample counts and keeps a beat-pulse phase.
type Clock struct {
	tempo          float64
	sampleRate     float64
	samplesPerBeat float64
	phase          float64
	pulse          bool
}

func NewClock() *Clock {
	c := &Clock{tempo: DefaultTempo, sampleRate: DefaultSampleRate}
	c.update()
	return c
}

// Prepare sets the sample rate and resets the phase. Non-positive rates
// keep the previous one.
func (c *Clock) Prepare(sampleRate float64) {
	if sampleRate > 0 {
		c.sampleRate = sampleRate
	}
	c.update()
	c.Reset()
}

// SetTempo clamps bpm to [20, 300].
func (c *Clock) SetTempo(bpm float64) {
	c.tempo = min(MaxTempo, max(MinTempo, bpm))
	c.update()
}

func (c *Clock) Reset() {
	c.phase = 0
	c.pulse = false
}

// Advance moves the beat phase forward by one sample.
func (c *Clock) Advance() {
	c.phase += 1 / c.samplesPerBeat
	c.pulse = c.phase >= 1
	if c.phase >= 1 {
		c.phase--
	}
}

func (c *Clock) update() {
	c.samplesPerBeat = 60 / c.tempo * c.sampleRate
}

func (c *Clock) Tempo() float64               { return c.tempo }
func (c *Clock) SampleRate() float64          { return c.sampleRate }
func (c *Clock) SamplesPerBeat() float64      { return c.samplesPerBeat }
func (c *Clock) SamplesPerSixteenth() float64 { return c.samplesPerBeat / 4 }

// Phase is the position within the current beat, in [0,1).
func (c *Clock) Phase() float64 { return c.phase }

// BeatPulse reports whether the last Advance crossed a beat boundary.
func (c *Clock) BeatPulse() bool { return c.pulse }
