package sequencer

// BuildupDurations are the lengths offered for a build, in bars.
var BuildupDurations = []int{4, 8, 16, 32}

const DefaultBuildupBars = 8

// Buildup raises density and fill rate over a number of bars, then hands
// the engine back the settings it had before.
type Buildup struct {
	active   bool
	startBar int
	bars     int
	progress float64

	savedInterval int
	savedOffset   float64
}

func NewBuildup() *Buildup {
	return &Buildup{bars: DefaultBuildupBars}
}

// Start begins a build at bar lasting bars bars, remembering the engine's
// fill interval and density offset.
func (b *Buildup) Start(e *Engine, bar, bars int) {
	if !b.active {
		b.savedInterval = e.FillInterval()
		b.savedOffset = e.DensityOffset()
	}
	b.active = true
	b.startBar = bar
	b.bars = max(1, bars)
	b.progress = 0
}

// Stop ends the build and restores the saved settings.
func (b *Buildup) Stop(e *Engine) {
	if !b.active {
		return
	}
	b.active = false
	b.progress = 0
	e.SetFillInterval(b.savedInterval)
	e.SetDensityOffset(b.savedOffset)
}

// Update recomputes progress from the transport position and applies it.
// It returns true once the build has run its full length.
func (b *Buildup) Update(e *Engine, bar, stepInBar int) bool {
	if !b.active {
		return false
	}
	elapsed := float64(bar-b.startBar) + float64(stepInBar)/16
	b.progress = min(1, max(0, elapsed/float64(b.bars)))

	e.SetDensityOffset(b.savedOffset + (MaxDensityOffset-b.savedOffset)*b.progress)
	switch {
	case b.progress < 0.3:
		e.SetFillInterval(b.savedInterval)
	case b.progress < 0.6:
		e.SetFillInterval(min(b.savedInterval, 2))
	default:
		e.SetFillInterval(1)
	}
	return b.progress >= 1
}

func (b *Buildup) Active() bool      { return b.active }
func (b *Buildup) Progress() float64 { return b.progress }
func (b *Buildup) Bars() int         { return b.bars }
