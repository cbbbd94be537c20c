package arrangement

import "techno-machine/style"

// State of the transition engine.
type State int

const (
	Idle State = iota
	Morphing
)

func (s State) String() string {
	if s == Morphing {
		return "morphing"
	}
	return "idle"
}

// FilterDirection is the current phase of the filter sweep envelope.
type FilterDirection int

const (
	FilterNone FilterDirection = iota
	HighPassUp
	LowPassDown
	HighPassDown
	LowPassUp
)

func (d FilterDirection) String() string {
	switch d {
	case HighPassUp:
		return "HP up"
	case LowPassDown:
		return "LP down"
	case HighPassDown:
		return "HP down"
	case LowPassUp:
		return "LP up"
	}
	return "none"
}

const (
	DefaultFilterSweepBars = 4

	filterFloor = 0.2
)

// Callbacks are invoked synchronously from NotifyBarStart and
// TriggerTransition. Nil callbacks are skipped.
type Callbacks struct {
	OnTransitionStart    func(from, to style.Composite)
	OnTransitionComplete func()
	OnSongChange         func(idx int)
}

// TransitionEngine coordinates the song manager, the style morpher and a
// filter sweep into one song-change sequence: Idle, then Morphing for the
// transition duration, then Idle on the next song.
type TransitionEngine struct {
	songs   *SongManager
	morpher *style.Morpher
	cb      Callbacks

	state    State
	progress float64
	fromSong int

	energy, variation           float64
	startEnergy, startVariation float64
	targetEnergy, targetVar     float64

	sweepEnabled bool
	direction    FilterDirection
	sweepBars    int
	sweepCount   int
	cutoff       float64
}

func NewTransitionEngine(songs *SongManager) *TransitionEngine {
	e := &TransitionEngine{
		songs:        songs,
		morpher:      style.NewMorpher(),
		sweepEnabled: true,
		sweepBars:    DefaultFilterSweepBars,
		cutoff:       1,
	}
	e.Initialize()
	return e
}

// Initialize rests the engine on the current song.
func (e *TransitionEngine) Initialize() {
	s := e.songs.Current()
	e.morpher.Snap(s.Styles)
	e.energy, e.variation = s.Energy, s.Variation
	e.state = Idle
	e.progress = 0
	e.direction = FilterNone
	e.sweepCount = 0
	e.cutoff = 1
}

// NotifyBarStart must be called once per bar.
func (e *TransitionEngine) NotifyBarStart() {
	if e.songs.NotifyBarStart() && e.state == Idle {
		e.startTransition()
	}
	if e.state == Morphing {
		e.morpher.NotifyBarStart()
		e.updateProgress()
	}
	if e.direction != FilterNone {
		e.updateSweep()
	}
}

// TriggerTransition starts a transition to the next song unless one is
// already running.
func (e *TransitionEngine) TriggerTransition() {
	if e.state == Idle {
		e.startTransition()
	}
}

// JumpToSong cuts straight to song idx without a morph. Out-of-range
// indices are ignored.
func (e *TransitionEngine) JumpToSong(idx int) {
	if idx < 0 || idx >= e.songs.Len() {
		return
	}
	e.songs.JumpTo(idx)
	e.Initialize()
	if e.cb.OnSongChange != nil {
		e.cb.OnSongChange(idx)
	}
}

func (e *TransitionEngine) startTransition() {
	cur, next := e.songs.Current(), e.songs.Next()
	e.morpher.SetComposites(cur.Styles, next.Styles)
	e.morpher.StartTransition(e.songs.TransitionDuration())

	e.fromSong = e.songs.CurrentIndex()
	e.startEnergy, e.startVariation = e.energy, e.variation
	e.targetEnergy, e.targetVar = next.Energy, next.Variation

	if e.sweepEnabled {
		e.direction = HighPassUp
		e.sweepCount = 0
		e.cutoff = 1
	}

	e.state = Morphing
	e.progress = 0
	if e.cb.OnTransitionStart != nil {
		e.cb.OnTransitionStart(cur.Styles, next.Styles)
	}
}

func (e *TransitionEngine) updateProgress() {
	e.progress = e.morpher.Progress()
	e.energy = style.Lerp(e.startEnergy, e.targetEnergy, e.progress)
	e.variation = style.Lerp(e.startVariation, e.targetVar, e.progress)
	if !e.morpher.IsMorphing() {
		e.complete()
	}
}

func (e *TransitionEngine) complete() {
	e.state = Idle
	e.progress = 1
	e.energy, e.variation = e.targetEnergy, e.targetVar

	// The song manager may already have moved on at the song's end.
	if e.songs.CurrentIndex() == e.fromSong {
		e.songs.AdvanceToNextSong()
	}

	if e.cb.OnTransitionComplete != nil {
		e.cb.OnTransitionComplete()
	}
	if e.cb.OnSongChange != nil {
		e.cb.OnSongChange(e.songs.CurrentIndex())
	}
}

func (e *TransitionEngine) updateSweep() {
	e.sweepCount++
	p := float64(e.sweepCount) / float64(e.sweepBars)
	if p >= 1 {
		if e.direction == HighPassUp {
			e.direction = HighPassDown
			e.sweepCount = 0
			e.cutoff = filterFloor
		} else {
			e.direction = FilterNone
			e.cutoff = 1
		}
		return
	}
	switch e.direction {
	case HighPassUp, LowPassDown:
		e.cutoff = 1 - p*(1-filterFloor)
	case HighPassDown, LowPassUp:
		e.cutoff = filterFloor + p*(1-filterFloor)
	}
}

func (e *TransitionEngine) State() State          { return e.state }
func (e *TransitionEngine) IsTransitioning() bool { return e.state != Idle }
func (e *TransitionEngine) Progress() float64     { return e.progress }
func (e *TransitionEngine) Energy() float64       { return e.energy }
func (e *TransitionEngine) Variation() float64    { return e.variation }
func (e *TransitionEngine) FilterCutoff() float64 { return e.cutoff }
func (e *TransitionEngine) Songs() *SongManager   { return e.songs }

func (e *TransitionEngine) Morpher() *style.Morpher { return e.morpher }

func (e *TransitionEngine) FilterDirection() FilterDirection { return e.direction }

// Style returns the current blended style.
func (e *TransitionEngine) Style() style.Context {
	return e.morpher.Current()
}

func (e *TransitionEngine) SetCallbacks(cb Callbacks) { e.cb = cb }

func (e *TransitionEngine) SetFilterSweepEnabled(on bool) { e.sweepEnabled = on }
func (e *TransitionEngine) FilterSweepEnabled() bool      { return e.sweepEnabled }

// SetFilterSweepBars sets the length of each sweep phase (at least 1).
func (e *TransitionEngine) SetFilterSweepBars(bars int) { e.sweepBars = max(1, bars) }

// SetFilterDirection starts a sweep phase by hand.
func (e *TransitionEngine) SetFilterDirection(d FilterDirection) {
	e.direction = d
	e.sweepCount = 0
	switch d {
	case FilterNone, HighPassUp, LowPassDown:
		e.cutoff = 1
	default:
		e.cutoff = filterFloor
	}
}
