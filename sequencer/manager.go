package sequencer

import (
	"runtime"
	"sync"
	"time"

	"techno-machine/arrangement"
	"techno-machine/debug"
	"techno-machine/midi"
	"techno-machine/style"
	"techno-machine/transport"
)

// Options configures a Manager.
type Options struct {
	Seed           uint64
	SampleRate     float64
	Tempo          float64
	SwingLevel     int
	FillInterval   int
	TransitionBars int
	PhraseLength   int
	SweepEnabled   bool
	SweepBars      int
	SongCount      int
	SongBars       int // 0 = random length per song
	Manual         bool
	AutoDJ         bool
	BuildupBars    int
}

// DefaultOptions mirrors the instrument's power-on state.
func DefaultOptions() Options {
	return Options{
		Seed:           1,
		SampleRate:     transport.DefaultSampleRate,
		Tempo:          transport.DefaultTempo,
		FillInterval:   DefaultFillInterval,
		TransitionBars: arrangement.DefaultTransitionBars,
		PhraseLength:   arrangement.DefaultPhraseLength,
		SweepEnabled:   true,
		SweepBars:      arrangement.DefaultFilterSweepBars,
		SongCount:      arrangement.DefaultSetSize,
		AutoDJ:         true,
		BuildupBars:    DefaultBuildupBars,
	}
}

// deckLoad is a queued deck regeneration. Loads run between sample blocks.
type deckLoad struct {
	deck      DeckID
	styles    style.Composite
	variation float64
	cut       bool // move the crossfader onto the deck once loaded
}

// Manager owns the transport, the mixing engine and the song arrangement
// and drives them from a single playback goroutine.
type Manager struct {
	transport   *transport.Transport
	engine      *Engine
	songs       *arrangement.SongManager
	transitions *arrangement.TransitionEngine
	buildup     *Buildup
	tracks      [style.NumVoices]*Track

	synth      trackSynth
	swingLevel int
	autoDJ     bool
	target     DeckID // deck the auto-DJ is fading toward
	xfadeFrom  float64
	landed     bool // a transition completed on the current bar
	loads      []deckLoad
	buildBars  int

	kit        midi.Kit
	controller midi.Controller

	stopChan chan struct{}
	shutdown sync.Once
	mu       sync.RWMutex // taken once per sample block by the playback loop

	devices []Device
	focused Device

	// MIDI input
	midiInputChan     chan midi.NoteEvent
	midiInputStopChan chan struct{}

	// LED rendering at fixed FPS
	ledDirty    bool                // true if LEDs need refresh
	prevLEDs    map[[2]int]LEDState // for diffing
	ledStopChan chan struct{}       // stop the LED loop

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// LED refresh rate
const ledFPS = 30

// maxBlock caps how much time one wake-up may catch up on.
const maxBlock = 100 * time.Millisecond

// NewManager creates a stopped manager with a fresh random set loaded into
// deck A.
func NewManager(opts Options) *Manager {
	tr := transport.New()
	tr.Prepare(opts.SampleRate)
	tr.SetTempo(opts.Tempo)

	songs := arrangement.NewSongManager(opts.Seed)
	if opts.SongCount > 0 && (opts.SongCount != songs.Len() || opts.SongBars > 0) {
		songs.GenerateRandomSet(opts.SongCount, opts.SongBars)
	}
	songs.SetTransitionDuration(opts.TransitionBars)
	songs.SetPhraseLength(opts.PhraseLength)
	if opts.Manual {
		songs.SetTriggerMode(arrangement.Manual)
	}

	te := arrangement.NewTransitionEngine(songs)
	te.SetFilterSweepEnabled(opts.SweepEnabled)
	te.SetFilterSweepBars(opts.SweepBars)

	m := &Manager{
		transport:   tr,
		engine:      NewEngine(opts.Seed),
		songs:       songs,
		transitions: te,
		buildup:     NewBuildup(),
		tracks:      NewTracks(),
		autoDJ:      opts.AutoDJ,
		buildBars:   max(1, opts.BuildupBars),
		kit:         midi.GetKit(midi.DefaultKit),
		prevLEDs:    make(map[[2]int]LEDState),
		ledStopChan: make(chan struct{}),
		UpdateChan:  make(chan struct{}, 1),
	}
	m.synth.tracks = m.tracks
	m.engine.SetFillInterval(opts.FillInterval)
	m.setSwingLevel(opts.SwingLevel)
	m.engine.LoadSong(DeckA, songs.Current())
	m.updateSwing()

	te.SetCallbacks(arrangement.Callbacks{
		OnTransitionStart:    m.onTransitionStart,
		OnTransitionComplete: m.onTransitionComplete,
		OnSongChange:         m.onSongChange,
	})

	m.devices = []Device{NewPerformDevice(m), NewSetDevice(m)}
	m.focused = m.devices[0]
	return m
}

// StartRuntime starts all runtime goroutines (called once at startup)
func (m *Manager) StartRuntime() {
	m.midiInputChan = make(chan midi.NoteEvent, 32)
	m.midiInputStopChan = make(chan struct{})
	m.stopChan = make(chan struct{})

	go m.ledLoop()
	go m.midiInputLoop()
	go m.playbackLoop()
}

// Shutdown stops playback and the runtime goroutines. Later calls do
// nothing.
func (m *Manager) Shutdown() {
	m.shutdown.Do(func() {
		m.Stop()
		for _, ch := range []chan struct{}{m.stopChan, m.midiInputStopChan, m.ledStopChan} {
			if ch != nil {
				close(ch)
			}
		}
	})
}

// SetSynth sets the voice output. Mute and solo are applied in front of it.
func (m *Manager) SetSynth(s Synth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synth.out = s
	if s != nil {
		m.engine.ApplyPresets(m.synth)
	}
}

// SetKit selects the kit used to map keyboard notes to voices.
func (m *Manager) SetKit(k midi.Kit) {
	m.mu.Lock()
	m.kit = k
	m.mu.Unlock()
}

// playbackLoop advances the transport in blocks paced by the wall clock.
func (m *Manager) playbackLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	last := time.Now()
	var debt float64
	for {
		select {
		case <-m.stopChan:
			return
		case now := <-ticker.C:
			elapsed := min(now.Sub(last), maxBlock)
			last = now

			m.mu.Lock()
			debt += elapsed.Seconds() * m.transport.SampleRate()
			n := int(debt)
			debt -= float64(n)
			changed := m.process(n)
			m.mu.Unlock()

			if changed {
				m.notifyUpdate()
			}
		}
	}
}

// process runs n samples and then any queued deck loads. It reports
// whether anything a UI shows has changed. Caller holds mu.
func (m *Manager) process(n int) bool {
	changed := false
	if m.transport.IsPlaying() {
		for range n {
			m.transport.Advance()
			if m.transport.IsBarStart() {
				m.onBar()
			}
			if m.transport.IsSixteenthStart() {
				m.onStep()
				changed = true
			}
		}
	}
	if m.flushLoads() {
		changed = true
	}
	return changed
}

// Render plays bars bars from the top into s as fast as possible, without
// the wall clock. at, if set, is called before every sixteenth with its
// time in quarter notes, swing included. The live output is restored
// afterwards and the transport is left stopped.
func (m *Manager) Render(bars int, s Synth, at func(beats float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.synth.out
	m.synth.out = s
	defer func() { m.synth.out = prev }()
	m.flushLoads()
	m.engine.ApplyPresets(m.synth)

	m.transport.Reset()
	m.transport.Start()
	defer m.transport.Stop()

	perBeat := m.transport.Clock().SamplesPerBeat()
	for sample := 0; ; sample++ {
		m.transport.Advance()
		if m.transport.IsBarStart() {
			if m.transport.CurrentBar() >= bars {
				break
			}
			m.onBar()
		}
		if m.transport.IsSixteenthStart() {
			if at != nil {
				at(float64(sample) / perBeat)
			}
			m.onStep()
			m.flushLoads()
		}
	}
	debug.Log("render", "rendered %d bars", bars)
}

func (m *Manager) onBar() {
	bar := m.transport.CurrentBar()
	m.engine.NotifyBarStart(bar)

	prev, morphing := m.songs.CurrentIndex(), m.transitions.IsTransitioning()
	m.landed = false
	m.transitions.NotifyBarStart()
	if m.autoDJ && m.songs.CurrentIndex() != prev && !morphing && !m.landed {
		// The song ended without a transition: cut to the new one.
		m.cutToCurrent()
	}

	if m.autoDJ && m.transitions.IsTransitioning() {
		pos := style.Lerp(m.xfadeFrom, deckPosition(m.target), m.transitions.Progress())
		m.engine.SetCrossfader(pos)
	}
	m.updateSwing()
	if m.synth.out != nil {
		m.engine.ApplyPresets(m.synth)
	}
	debug.LogEvery(8, "bar", "bar=%d song=%d xfade=%.2f", bar, m.songs.CurrentIndex(), m.engine.Crossfader())
}

func (m *Manager) onStep() {
	if m.buildup.Active() {
		m.buildup.Update(m.engine, m.transport.CurrentBar(), m.transport.StepInBar())
	}
	m.engine.Step(m.transport.StepInBar(), m.synth)
}

func deckPosition(id DeckID) float64 {
	if id == DeckB {
		return 1
	}
	return 0
}

// flushLoads runs queued deck loads. A load aimed at the audible deck is
// dropped. Caller holds mu.
func (m *Manager) flushLoads() bool {
	if len(m.loads) == 0 {
		return false
	}
	for _, l := range m.loads {
		if l.deck == m.engine.Audible() && !l.cut {
			debug.Log("deck", "refusing load into audible deck %s", l.deck)
			continue
		}
		m.engine.LoadToDeck(l.deck, l.styles, l.variation)
		debug.Log("deck", "loaded %s into deck %s (var %.2f)", l.styles, l.deck, l.variation)
		if l.cut {
			m.engine.SetCrossfader(deckPosition(l.deck))
		}
	}
	m.loads = m.loads[:0]
	m.updateSwing()
	if m.synth.out != nil {
		m.engine.ApplyPresets(m.synth)
	}
	return true
}

func (m *Manager) queueLoad(l deckLoad) {
	m.loads = append(m.loads, l)
}

// updateSwing applies the larger of the selected swing level and the
// style swing of the decks under the crossfader. Caller holds mu.
func (m *Manager) updateSwing() {
	a := m.engine.Deck(DeckA).Styles.SwingRatio()
	b := m.engine.Deck(DeckB).Styles.SwingRatio()
	styleSwing := style.Lerp(a, b, DJCurve(m.engine.Crossfader()))
	m.transport.SetSwingRatio(max(transport.SwingLevels[m.swingLevel], styleSwing))
}

// Transition callbacks run on the playback goroutine with mu held.

func (m *Manager) onTransitionStart(from, to style.Composite) {
	debug.Log("transition", "start %s -> %s", from, to)
	if !m.autoDJ {
		return
	}
	m.target = m.engine.Audible().Other()
	m.xfadeFrom = m.engine.Crossfader()
	next := m.songs.Next()
	m.queueLoad(deckLoad{deck: m.target, styles: next.Styles, variation: next.Variation})
}

func (m *Manager) onTransitionComplete() {
	debug.Log("transition", "complete")
	m.landed = true
	if m.autoDJ {
		m.engine.SetCrossfader(deckPosition(m.target))
	}
}

func (m *Manager) onSongChange(idx int) {
	debug.Log("song", "now playing song %d", idx+1)
}

// Play starts playback
func (m *Manager) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transport.IsPlaying() {
		return
	}
	m.transport.Start()
	debug.Log("transport", "play at %.1f bpm", m.transport.Tempo())
}

// Stop stops playback
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.transport.IsPlaying() {
		return
	}
	m.transport.Stop()
	m.buildup.Stop(m.engine)
}

// Rewind moves the transport back to bar 0.
func (m *Manager) Rewind() {
	m.mu.Lock()
	m.transport.Reset()
	m.mu.Unlock()
	m.notifyUpdate()
}

// TogglePlay starts or stops playback.
func (m *Manager) TogglePlay() {
	if m.IsPlaying() {
		m.Stop()
	} else {
		m.Play()
	}
	m.notifyUpdate()
}

func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transport.IsPlaying()
}

// SetTempo sets the BPM
func (m *Manager) SetTempo(bpm float64) {
	m.mu.Lock()
	m.transport.SetTempo(bpm)
	m.mu.Unlock()
	m.notifyUpdate()
}

// NudgeTempo changes the tempo by delta BPM.
func (m *Manager) NudgeTempo(delta float64) {
	m.mu.Lock()
	m.transport.SetTempo(m.transport.Tempo() + delta)
	m.mu.Unlock()
	m.notifyUpdate()
}

// SetSwingLevel selects the minimum swing (0 straight .. 3 triplet).
func (m *Manager) SetSwingLevel(level int) {
	m.mu.Lock()
	m.setSwingLevel(level)
	m.updateSwing()
	m.mu.Unlock()
	m.notifyUpdate()
}

func (m *Manager) setSwingLevel(level int) {
	m.swingLevel = min(len(transport.SwingLevels)-1, max(0, level))
}

// CycleSwing steps through the swing levels.
func (m *Manager) CycleSwing() {
	m.mu.RLock()
	next := (m.swingLevel + 1) % len(transport.SwingLevels)
	m.mu.RUnlock()
	m.SetSwingLevel(next)
}

// SetCrossfader moves the crossfader by hand.
func (m *Manager) SetCrossfader(p float64) {
	m.mu.Lock()
	m.engine.SetCrossfader(p)
	m.updateSwing()
	if m.synth.out != nil {
		m.engine.ApplyPresets(m.synth)
	}
	m.mu.Unlock()
	m.notifyUpdate()
}

// NudgeCrossfader moves the crossfader by delta.
func (m *Manager) NudgeCrossfader(delta float64) {
	m.mu.RLock()
	p := m.engine.Crossfader()
	m.mu.RUnlock()
	m.SetCrossfader(p + delta)
}

// LoadDeck queues the next song of the set into a deck. Loads into the
// audible deck are refused when they run.
func (m *Manager) LoadDeck(id DeckID) {
	if !id.Valid() {
		return
	}
	m.mu.Lock()
	next := m.songs.Next()
	m.queueLoad(deckLoad{deck: id, styles: next.Styles, variation: next.Variation})
	m.mu.Unlock()
}

// LoadStyles queues an explicit style selection into the inactive deck.
func (m *Manager) LoadStyles(styles style.Composite, variation float64) {
	m.mu.Lock()
	m.queueLoad(deckLoad{deck: m.engine.Audible().Other(), styles: styles, variation: variation})
	m.mu.Unlock()
}

// RegenerateInactive reloads the inactive deck with its current styles.
func (m *Manager) RegenerateInactive() {
	m.mu.Lock()
	id := m.engine.Audible().Other()
	d := m.engine.Deck(id)
	m.queueLoad(deckLoad{deck: id, styles: d.Styles, variation: d.Variation})
	m.mu.Unlock()
}

// TriggerTransition starts a transition to the next song now.
func (m *Manager) TriggerTransition() {
	m.mu.Lock()
	m.transitions.TriggerTransition()
	m.mu.Unlock()
	m.notifyUpdate()
}

// JumpToSong cuts to a song: it is loaded into the inactive deck and the
// crossfader moves onto it once loaded.
func (m *Manager) JumpToSong(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx < 0 || idx >= m.songs.Len() {
		return
	}
	m.transitions.JumpToSong(idx)
	m.cutToCurrent()
}

// cutToCurrent queues a cut load of the song under the cursor into the
// silent deck. Caller holds mu.
func (m *Manager) cutToCurrent() {
	s := m.songs.Current()
	m.queueLoad(deckLoad{deck: m.engine.Audible().Other(), styles: s.Styles, variation: s.Variation, cut: true})
}

// GenerateSet replaces the set with n random songs and cuts to the first.
func (m *Manager) GenerateSet(n, bars int) {
	m.mu.Lock()
	m.songs.GenerateRandomSet(n, bars)
	m.transitions.Initialize()
	m.cutToCurrent()
	m.mu.Unlock()
	m.notifyUpdate()
}

// SetSongs replaces the set and cuts to its first song.
func (m *Manager) SetSongs(songs []arrangement.Song) {
	m.mu.Lock()
	m.songs.SetSongs(songs)
	m.transitions.Initialize()
	m.cutToCurrent()
	m.mu.Unlock()
	m.notifyUpdate()
}

// Songs returns a copy of the set.
func (m *Manager) Songs() []arrangement.Song {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.songs.Songs()
}

// SetAutoDJ turns automatic deck loading and crossfading on or off.
func (m *Manager) SetAutoDJ(on bool) {
	m.mu.Lock()
	m.autoDJ = on
	m.mu.Unlock()
	m.notifyUpdate()
}

func (m *Manager) ToggleAutoDJ() {
	m.mu.Lock()
	m.autoDJ = !m.autoDJ
	m.mu.Unlock()
	m.notifyUpdate()
}

// StartBuildup begins a build over the configured number of bars.
func (m *Manager) StartBuildup() {
	m.mu.Lock()
	m.buildup.Start(m.engine, m.transport.CurrentBar(), m.buildBars)
	m.mu.Unlock()
	m.notifyUpdate()
}

// StopBuildup drops the build and restores density and fill rate.
func (m *Manager) StopBuildup() {
	m.mu.Lock()
	m.buildup.Stop(m.engine)
	m.mu.Unlock()
	m.notifyUpdate()
}

func (m *Manager) ToggleBuildup() {
	m.mu.RLock()
	active := m.buildup.Active()
	m.mu.RUnlock()
	if active {
		m.StopBuildup()
	} else {
		m.StartBuildup()
	}
}

// SetBuildupBars sets the length of the next build.
func (m *Manager) SetBuildupBars(bars int) {
	m.mu.Lock()
	m.buildBars = max(1, bars)
	m.mu.Unlock()
}

// SetDensity sets a role density for the next deck load.
func (m *Manager) SetDensity(r style.Role, d float64) {
	m.mu.Lock()
	m.engine.SetDensity(r, d)
	m.mu.Unlock()
}

// ToggleMute flips a voice's mute.
func (m *Manager) ToggleMute(v int) {
	if v < 0 || v >= style.NumVoices {
		return
	}
	m.mu.Lock()
	m.tracks[v].Muted = !m.tracks[v].Muted
	m.mu.Unlock()
	m.notifyUpdate()
}

// ToggleSolo flips a voice's solo.
func (m *Manager) ToggleSolo(v int) {
	if v < 0 || v >= style.NumVoices {
		return
	}
	m.mu.Lock()
	m.tracks[v].Solo = !m.tracks[v].Solo
	m.mu.Unlock()
	m.notifyUpdate()
}

// TriggerVoice plays a voice immediately, bypassing the mixer.
func (m *Manager) TriggerVoice(v int, velocity float64) {
	m.mu.Lock()
	m.synth.TriggerVoice(v, velocity)
	m.mu.Unlock()
}

// Snapshot copies everything a UI needs under the read lock.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	audible := m.engine.Audible()
	s := State{
		Tempo:         m.transport.Tempo(),
		SwingLevel:    m.swingLevel,
		Swing:         m.transport.SwingRatio(),
		Playing:       m.transport.IsPlaying(),
		Bar:           m.transport.CurrentBar(),
		Step:          m.transport.StepInBar(),
		Crossfader:    m.engine.Crossfader(),
		Audible:       audible,
		FillActive:    m.engine.FillActive(),
		Mix:           mixPreview(m.engine.Deck(audible).active(m.engine.FillActive())),
		Songs:         newSongStates(m.songs.Songs()),
		SongIndex:     m.songs.CurrentIndex(),
		SongBar:       m.songs.BarsInCurrentSong(),
		Transition:    m.transitions.IsTransitioning(),
		Progress:      m.transitions.Progress(),
		Energy:        m.transitions.Energy(),
		Variation:     m.transitions.Variation(),
		Filter:        m.transitions.FilterDirection().String(),
		FilterCutoff:  m.transitions.FilterCutoff(),
		AutoDJ:        m.autoDJ,
		Building:      m.buildup.Active(),
		BuildProgress: m.buildup.Progress(),
	}
	for id := range s.Decks {
		s.Decks[id] = newDeckState(m.engine.Deck(DeckID(id)))
	}
	for v, t := range m.tracks {
		s.Tracks[v] = *t
	}
	return s
}

// SetController sets the MIDI controller for LED feedback
func (m *Manager) SetController(c midi.Controller) {
	debug.Log("ctrl", "SetController called, resetting diff state")
	m.mu.Lock()
	m.controller = c
	m.prevLEDs = make(map[[2]int]LEDState) // reset state - diff will handle clearing
	m.ledDirty = true
	m.mu.Unlock()
}

// markLEDsDirty flags that LEDs need refresh (called from various places)
func (m *Manager) markLEDsDirty() {
	m.mu.Lock()
	m.ledDirty = true
	m.mu.Unlock()
}

// ledLoop runs at fixed FPS and flushes LED updates
func (m *Manager) ledLoop() {
	ticker := time.NewTicker(time.Second / ledFPS)
	defer ticker.Stop()

	for {
		select {
		case <-m.ledStopChan:
			return
		case <-ticker.C:
			m.mu.Lock()
			dirty := m.ledDirty
			m.ledDirty = false
			m.mu.Unlock()

			if dirty {
				m.flushLEDs()
			}
		}
	}
}

// renderLEDs is the focused device's grid plus the shared top row.
func (m *Manager) renderLEDs() []LEDState {
	focused := m.GetFocused()
	if focused == nil {
		return nil
	}
	s := m.Snapshot()
	return append(focused.RenderLEDs(), topRowLEDs(s)...)
}

// flushLEDs sends only changed LEDs to the controller (diffing + batching)
func (m *Manager) flushLEDs() {
	m.mu.RLock()
	ctrl := m.controller
	m.mu.RUnlock()
	if ctrl == nil {
		return
	}

	newLEDs := m.renderLEDs()
	newMap := make(map[[2]int]LEDState, len(newLEDs))

	m.mu.Lock()
	updates := diffLEDs(m.prevLEDs, newLEDs, newMap)
	prevCount := len(m.prevLEDs)
	m.prevLEDs = newMap
	m.mu.Unlock()

	if len(updates) > 0 {
		debug.Log("led", "flushLEDs: batch=%d prev=%d", len(updates), prevCount)
		if err := ctrl.SetLEDBatch(updates); err != nil {
			debug.Log("led", "send failed: %v", err)
		}
	}
}

// diffLEDs fills next from leds and returns the updates needed to move the
// controller from prev to next. LEDs missing from next are switched off.
func diffLEDs(prev map[[2]int]LEDState, leds []LEDState, next map[[2]int]LEDState) []midi.LEDUpdate {
	var updates []midi.LEDUpdate
	for _, led := range leds {
		key := [2]int{led.Row, led.Col}
		next[key] = led
		if p, ok := prev[key]; !ok || p != led {
			updates = append(updates, midi.LEDUpdate{
				Row:     led.Row,
				Col:     led.Col,
				Color:   led.Color,
				Channel: led.Channel,
			})
		}
	}
	for key := range prev {
		if _, ok := next[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}
	return updates
}

// midiInputLoop consumes MIDI keyboard input and plays the matching voice
func (m *Manager) midiInputLoop() {
	for {
		select {
		case <-m.midiInputStopChan:
			return
		case evt := <-m.midiInputChan:
			m.HandleNote(evt.Note, evt.Velocity)
		}
	}
}

// SetMIDIInput sets the MIDI keyboard input source
func (m *Manager) SetMIDIInput(ctrl midi.Controller) {
	if ctrl == nil {
		return
	}
	go func() {
		for evt := range ctrl.NoteEvents() {
			select {
			case m.midiInputChan <- evt:
			default:
				// Drop if channel full
			}
		}
	}()
}

// HandleNote plays the voice the kit maps note to.
func (m *Manager) HandleNote(note, velocity uint8) {
	if velocity == 0 {
		return
	}
	m.mu.Lock()
	v := m.kit.VoiceFor(note)
	if v >= 0 {
		m.synth.TriggerVoice(v, float64(velocity)/127)
	}
	m.mu.Unlock()
	debug.Log("input", "note=%d vel=%d voice=%d", note, velocity, v)
}

// Focus management

// Devices returns the focusable views.
func (m *Manager) Devices() []Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Device(nil), m.devices...)
}

// AddDevice appends a focusable view.
func (m *Manager) AddDevice(d Device) {
	m.mu.Lock()
	m.devices = append(m.devices, d)
	m.mu.Unlock()
}

// GetFocused returns the currently focused device. Device methods take the
// manager lock themselves, so callers must not hold mu while using it.
func (m *Manager) GetFocused() Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// SetFocused sets the focused device
func (m *Manager) SetFocused(d Device) {
	debug.Log("focus", "SetFocused called, resetting diff state")
	m.mu.Lock()
	m.focused = d
	m.prevLEDs = make(map[[2]int]LEDState)
	m.ledDirty = true
	m.mu.Unlock()
}

// FocusNext cycles focus through the devices.
func (m *Manager) FocusNext() {
	m.mu.RLock()
	var next Device
	for i, d := range m.devices {
		if d == m.focused {
			next = m.devices[(i+1)%len(m.devices)]
			break
		}
	}
	m.mu.RUnlock()
	if next != nil {
		m.SetFocused(next)
	}
}

// Input routing (to focused device)

// HandleKey routes a key press to the focused device
func (m *Manager) HandleKey(key string) {
	if focused := m.GetFocused(); focused != nil {
		focused.HandleKey(key)
		m.notifyUpdate()
	}
}

// HandlePad handles the shared top row and routes grid pads to the focused
// device.
func (m *Manager) HandlePad(row, col int) {
	if row == topRow {
		m.handleTopRow(col)
		return
	}
	if focused := m.GetFocused(); focused != nil {
		focused.HandlePad(row, col)
		m.notifyUpdate()
	}
}

func (m *Manager) handleTopRow(col int) {
	switch col {
	case PadPlay:
		m.TogglePlay()
	case PadLoadA:
		m.LoadDeck(DeckA)
	case PadLoadB:
		m.LoadDeck(DeckB)
	case PadTransition:
		m.TriggerTransition()
	case PadXfadeDown:
		m.NudgeCrossfader(-0.125)
	case PadXfadeUp:
		m.NudgeCrossfader(0.125)
	case PadBuild:
		m.ToggleBuildup()
	case PadAutoDJ:
		m.ToggleAutoDJ()
	}
	m.notifyUpdate()
}

// notifyUpdate refreshes LEDs and notifies TUI
func (m *Manager) notifyUpdate() {
	m.markLEDsDirty()
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// View returns the view of the focused device
func (m *Manager) View() string {
	if focused := m.GetFocused(); focused != nil {
		return focused.View()
	}
	return ""
}
