package sequencer

import (
	"testing"

	"techno-machine/arrangement"
	"techno-machine/midi"
	"techno-machine/style"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 42
	return NewManager(opts)
}

func TestNewManager(t *testing.T) {
	m := newTestManager(t)
	s := m.Snapshot()
	if s.Playing || s.Bar != 0 || s.Tempo != 128 {
		t.Errorf("unexpected power-on state %+v", s)
	}
	if len(s.Songs) != arrangement.DefaultSetSize {
		t.Errorf("set has %d songs", len(s.Songs))
	}
	if s.Decks[DeckA].Composite != m.Songs()[0].Styles {
		t.Errorf("deck A holds %s, want the first song %s", s.Decks[DeckA].Styles, m.Songs()[0].Styles)
	}
	if s.Audible != DeckA || !s.AutoDJ {
		t.Errorf("audible %s auto-DJ %v", s.Audible, s.AutoDJ)
	}
	if len(m.Devices()) != 2 || m.GetFocused() != m.Devices()[0] {
		t.Error("perform view should be focused first")
	}
}

func TestLoadIntoAudibleDeckRefused(t *testing.T) {
	m := newTestManager(t)
	before := m.engine.Deck(DeckA).Styles

	m.mu.Lock()
	m.queueLoad(deckLoad{deck: DeckA, styles: style.Uniform(style.Gamelan), variation: 0.5})
	m.flushLoads()
	m.mu.Unlock()

	if got := m.engine.Deck(DeckA).Styles; got != before {
		t.Errorf("audible deck reloaded to %s", got)
	}

	m.LoadStyles(style.Uniform(style.Gamelan), 0.5)
	m.mu.Lock()
	m.flushLoads()
	m.mu.Unlock()
	if got := m.engine.Deck(DeckB).Styles; got != style.Uniform(style.Gamelan) {
		t.Errorf("inactive deck holds %s", got)
	}
	if m.Snapshot().Crossfader != 0 {
		t.Error("a plain load moved the crossfader")
	}
}

func TestJumpToSongCuts(t *testing.T) {
	m := newTestManager(t)
	m.JumpToSong(3)
	m.mu.Lock()
	m.flushLoads()
	m.mu.Unlock()

	s := m.Snapshot()
	if s.SongIndex != 3 {
		t.Errorf("song index %d", s.SongIndex)
	}
	if s.Crossfader != 1 || s.Audible != DeckB {
		t.Errorf("crossfader %v audible %s, want a cut to deck B", s.Crossfader, s.Audible)
	}
	if s.Decks[DeckB].Composite != m.Songs()[3].Styles {
		t.Errorf("deck B holds %s", s.Decks[DeckB].Styles)
	}

	m.JumpToSong(99) // ignored
	if m.Snapshot().SongIndex != 3 {
		t.Error("out of range jump changed the song")
	}
}

func TestProcessPlaysSteps(t *testing.T) {
	m := newTestManager(t)
	var out recordingSynth
	m.SetSynth(&out)
	if out.paramSet != style.NumVoices {
		t.Errorf("SetSynth pushed %d voice presets", out.paramSet)
	}

	m.mu.Lock()
	changed := m.process(1000)
	m.mu.Unlock()
	if changed || len(out.triggers) != 0 {
		t.Error("stopped transport played")
	}

	m.Play()
	perBar := int(m.transport.Clock().SamplesPerBeat() * 4)
	m.mu.Lock()
	changed = m.process(perBar)
	m.mu.Unlock()
	if !changed {
		t.Error("a playing bar reported no change")
	}
	if len(out.triggers) == 0 {
		t.Error("no voices triggered in a whole bar")
	}
	if s := m.Snapshot(); s.Step != 15 {
		t.Errorf("after one bar step = %d, want 15", s.Step)
	}

	m.Stop()
	if m.IsPlaying() {
		t.Error("still playing")
	}
}

func TestRender(t *testing.T) {
	m := newTestManager(t)
	m.SetSwingLevel(0)
	var out recordingSynth
	var times []float64
	m.Render(4, &out, func(beats float64) { times = append(times, beats) })

	if len(times) != 4*16 {
		t.Fatalf("rendered %d steps, want 64", len(times))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("step %d at %v is not after %v", i, times[i], times[i-1])
		}
	}
	if times[0] != 0 || times[16] < 3.99 || times[16] > 4.01 {
		t.Errorf("bar 1 starts at %v beats", times[16])
	}
	if len(out.triggers) == 0 {
		t.Error("render produced no triggers")
	}
	if m.IsPlaying() {
		t.Error("render left the transport running")
	}
}

func TestAutoDJTransition(t *testing.T) {
	m := newTestManager(t)
	songs := []arrangement.Song{
		{Styles: style.Uniform(style.Techno), Variation: 0.4, Bars: 16, Energy: 0.5},
		{Styles: style.Uniform(style.Gamelan), Variation: 0.6, Bars: 64, Energy: 0.7},
	}
	m.SetSongs(songs)
	m.mu.Lock()
	m.flushLoads()
	m.mu.Unlock()
	if s := m.Snapshot(); s.Audible != DeckB {
		t.Fatalf("SetSongs should cut to deck B, audible %s", s.Audible)
	}

	m.Render(28, nil, nil)

	s := m.Snapshot()
	if s.SongIndex != 1 || s.Transition {
		t.Fatalf("song %d transitioning %v, want song 1 idle", s.SongIndex, s.Transition)
	}
	if s.Crossfader != 0 {
		t.Errorf("crossfader %v, want it resting on deck A", s.Crossfader)
	}
	if s.Decks[DeckA].Composite != songs[1].Styles {
		t.Errorf("deck A holds %s, want the next song", s.Decks[DeckA].Styles)
	}
}

func shortSet() []arrangement.Song {
	return []arrangement.Song{
		{Styles: style.Uniform(style.Techno), Variation: 0.4, Bars: 8, Energy: 0.5},
		{Styles: style.Uniform(style.Gamelan), Variation: 0.5, Bars: 8, Energy: 0.6},
		{Styles: style.Uniform(style.Jazz), Variation: 0.6, Bars: 8, Energy: 0.7},
	}
}

func TestShortSongsFollowSet(t *testing.T) {
	m := newTestManager(t)
	songs := shortSet()
	m.SetSongs(songs)

	m.Render(8, nil, nil)

	s := m.Snapshot()
	if s.SongIndex != 1 || s.Transition {
		t.Fatalf("song %d transitioning %v, want song 1 idle", s.SongIndex, s.Transition)
	}
	if got := s.Decks[s.Audible].Composite; got != songs[1].Styles {
		t.Errorf("audible deck %s holds %s, want %s", s.Audible, got, songs[1].Styles)
	}
}

func TestSongEndWithoutTransitionCuts(t *testing.T) {
	m := newTestManager(t)
	songs := shortSet()
	m.SetSongs(songs)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLoads()
	from := m.engine.Audible()

	// Count bars behind the transition engine's back so its start is missed.
	for range songs[0].Bars - 1 {
		m.songs.NotifyBarStart()
	}
	m.onBar()
	m.flushLoads()

	if m.songs.CurrentIndex() != 1 {
		t.Fatalf("song %d, want 1", m.songs.CurrentIndex())
	}
	if m.engine.Audible() == from {
		t.Errorf("audible deck stayed on %s", from)
	}
	if got := m.engine.Deck(m.engine.Audible()).Styles; got != songs[1].Styles {
		t.Errorf("audible deck holds %s, want %s", got, songs[1].Styles)
	}
}

func TestManualModeKeepsCrossfader(t *testing.T) {
	m := newTestManager(t)
	m.SetAutoDJ(false)
	m.TriggerTransition()
	m.Render(12, nil, nil)
	if s := m.Snapshot(); s.Crossfader != 0 {
		t.Errorf("crossfader moved to %v with auto-DJ off", s.Crossfader)
	}
}

func TestTopRowPads(t *testing.T) {
	m := newTestManager(t)

	m.HandlePad(topRow, PadXfadeUp)
	m.HandlePad(topRow, PadXfadeUp)
	if got := m.Snapshot().Crossfader; !approx(got, 0.25) {
		t.Errorf("crossfader = %v", got)
	}
	m.HandlePad(topRow, PadXfadeDown)
	if got := m.Snapshot().Crossfader; !approx(got, 0.125) {
		t.Errorf("crossfader = %v", got)
	}

	m.HandlePad(topRow, PadAutoDJ)
	if m.Snapshot().AutoDJ {
		t.Error("auto-DJ pad did not toggle")
	}

	m.HandlePad(topRow, PadBuild)
	if !m.Snapshot().Building {
		t.Error("build pad did not start a build")
	}
	m.HandlePad(topRow, PadBuild)
	if m.Snapshot().Building {
		t.Error("build pad did not drop the build")
	}

	m.HandlePad(topRow, PadPlay)
	if !m.IsPlaying() {
		t.Error("play pad did not start playback")
	}
	m.Stop()
}

func TestSwing(t *testing.T) {
	m := newTestManager(t)
	m.SetSwingLevel(3)
	if got := m.Snapshot().SwingLevel; got != 3 {
		t.Errorf("swing level %d", got)
	}
	m.CycleSwing()
	if got := m.Snapshot().SwingLevel; got != 0 {
		t.Errorf("swing level after cycling past the end = %d", got)
	}
	m.SetSwingLevel(9)
	if got := m.Snapshot().SwingLevel; got != 3 {
		t.Errorf("swing level %d, want clamp to 3", got)
	}

	m.LoadStyles(style.Uniform(style.Breakbeat), 0.5)
	m.mu.Lock()
	m.flushLoads()
	m.mu.Unlock()
	m.SetSwingLevel(0)
	m.SetCrossfader(1)
	if got, want := m.Snapshot().Swing, style.Get(style.Breakbeat).Swing; !approx(got, want) {
		t.Errorf("swing %v, want the breakbeat deck's %v", got, want)
	}
}

func TestMuteSolo(t *testing.T) {
	m := newTestManager(t)
	var out recordingSynth
	m.SetSynth(&out)

	m.ToggleMute(2)
	m.TriggerVoice(2, 1)
	if len(out.triggers) != 0 {
		t.Error("muted voice played")
	}
	m.ToggleMute(2)
	m.ToggleSolo(5)
	m.TriggerVoice(2, 1)
	m.TriggerVoice(5, 1)
	if len(out.triggers) != 1 || out.triggers[0].voice != 5 {
		t.Errorf("triggers %+v, want only the soloed voice", out.triggers)
	}
	if s := m.Snapshot(); !s.Tracks[5].Solo || s.Tracks[2].Muted {
		t.Errorf("tracks %+v", s.Tracks)
	}
	m.ToggleMute(-1) // ignored
}

func TestHandleNote(t *testing.T) {
	m := newTestManager(t)
	var out recordingSynth
	m.SetSynth(&out)
	m.SetKit(midi.GetKit("gm"))

	m.HandleNote(36, 127) // kick
	m.HandleNote(36, 0)   // note off
	m.HandleNote(100, 90) // unmapped
	if len(out.triggers) != 1 || out.triggers[0].voice != 2 || out.triggers[0].velocity != 1 {
		t.Errorf("triggers %+v", out.triggers)
	}
}

func TestGenerateSet(t *testing.T) {
	m := newTestManager(t)
	m.GenerateSet(3, 32)
	songs := m.Songs()
	if len(songs) != 3 {
		t.Fatalf("got %d songs", len(songs))
	}
	for i, s := range songs {
		if s.Bars != 32 {
			t.Errorf("song %d has %d bars", i, s.Bars)
		}
	}
}

func TestFocus(t *testing.T) {
	m := newTestManager(t)
	first := m.GetFocused()
	m.FocusNext()
	if m.GetFocused() == first {
		t.Error("focus did not move")
	}
	if _, ok := m.GetFocused().(*SetDevice); !ok {
		t.Errorf("focused %T, want the set view", m.GetFocused())
	}
	m.FocusNext()
	if m.GetFocused() != first {
		t.Error("focus did not wrap")
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestFocusWhileRenderingLEDs(t *testing.T) {
	m := newTestManager(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			if len(m.renderLEDs()) == 0 {
				t.Error("focused view rendered no LEDs")
				return
			}
		}
	}()
	for range 200 {
		m.FocusNext()
	}
	<-done
}

func TestShutdown(t *testing.T) {
	m := newTestManager(t)
	m.StartRuntime()
	m.Shutdown()
	m.Shutdown()

	for name, ch := range map[string]chan struct{}{
		"playback": m.stopChan,
		"input":    m.midiInputStopChan,
		"leds":     m.ledStopChan,
	} {
		select {
		case <-ch:
		default:
			t.Errorf("%s loop still running", name)
		}
	}
	if m.IsPlaying() {
		t.Error("transport still playing")
	}
}

func TestShutdownWithoutRuntime(t *testing.T) {
	m := newTestManager(t)
	m.Shutdown()
	m.Shutdown()
}

func TestSetDevice(t *testing.T) {
	m := newTestManager(t)
	d := NewSetDevice(m)

	d.HandleKey("j")
	d.HandleKey("j")
	d.HandleKey("enter")
	if got := m.Snapshot().SongIndex; got != 2 {
		t.Errorf("song index %d after selecting the third row", got)
	}

	d.HandlePad(7, 0) // top grid row is the first song
	if got := m.Snapshot().SongIndex; got != 0 {
		t.Errorf("song index %d after tapping row 7", got)
	}

	leds := d.RenderLEDs()
	if len(leds) != 8*9 {
		t.Errorf("got %d LEDs, want a full grid with side column", len(leds))
	}

	mixed := style.Composite{style.Jazz, style.Techno, style.Balkan, style.Gamelan}
	m.SetSongs([]arrangement.Song{{Styles: mixed, Variation: 0.5, Bars: 32, Energy: 0.5}})
	if got := m.Snapshot().Songs[0].Composite; got != mixed {
		t.Fatalf("song state composite = %v, want %v", got, mixed)
	}
	for _, led := range d.RenderLEDs() {
		if led.Row == 7 && led.Col < style.NumRoles && led.Color != styleColor(mixed[led.Col]) {
			t.Errorf("role %d pad color %v, want %v", led.Col, led.Color, styleColor(mixed[led.Col]))
		}
	}
}

func TestPerformDeviceLEDs(t *testing.T) {
	m := newTestManager(t)
	d := NewPerformDevice(m)
	leds := d.RenderLEDs()
	if len(leds) != 8*9 {
		t.Fatalf("got %d LEDs", len(leds))
	}

	m.ToggleMute(0)
	for _, led := range d.RenderLEDs() {
		if led.Row == 7 && led.Color != mutedColor {
			t.Errorf("muted voice 0 pad %d lit %v", led.Col, led.Color)
		}
	}

	d.HandleKey("j")
	d.HandleKey("s")
	if !m.Snapshot().Tracks[1].Solo {
		t.Error("s did not solo the selected voice")
	}
}

func TestDiffLEDs(t *testing.T) {
	red := [3]uint8{255, 0, 0}
	prev := map[[2]int]LEDState{
		{0, 0}: {Row: 0, Col: 0, Color: red},
		{0, 1}: {Row: 0, Col: 1, Color: red},
		{0, 2}: {Row: 0, Col: 2, Color: red},
	}
	leds := []LEDState{
		{Row: 0, Col: 0, Color: red},                             // unchanged
		{Row: 0, Col: 1, Color: [3]uint8{0, 255, 0}},             // changed
		{Row: 1, Col: 0, Color: red, Channel: midi.ChannelPulse}, // new
	}
	next := make(map[[2]int]LEDState)
	updates := diffLEDs(prev, leds, next)

	if len(next) != 3 {
		t.Errorf("next has %d LEDs", len(next))
	}
	want := map[[2]int][3]uint8{
		{0, 1}: {0, 255, 0},
		{1, 0}: red,
		{0, 2}: {}, // dropped LEDs are switched off
	}
	if len(updates) != len(want) {
		t.Fatalf("got %d updates, want %d: %+v", len(updates), len(want), updates)
	}
	for _, u := range updates {
		c, ok := want[[2]int{u.Row, u.Col}]
		if !ok || c != u.Color {
			t.Errorf("unexpected update %+v", u)
		}
	}
}

func TestSnapshotTopRow(t *testing.T) {
	m := newTestManager(t)
	m.SetAutoDJ(true)
	leds := topRowLEDs(m.Snapshot())
	if len(leds) != 8 {
		t.Fatalf("got %d top row LEDs", len(leds))
	}
	if leds[PadAutoDJ].Color != topRowOn || leds[PadPlay].Color != topRowColor {
		t.Errorf("top row %+v", leds)
	}
}
