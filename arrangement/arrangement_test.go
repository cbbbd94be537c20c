package arrangement

import (
	"math"
	"testing"

	"techno-machine/style"
)

func TestPhraseAlignedStart(t *testing.T) {
	tests := []struct {
		duration, transition, phrase, want int
	}{
		{64, 8, 8, 56},
		{100, 8, 8, 88},
		{37, 8, 8, 24},
		{16, 8, 4, 8},
		{8, 8, 8, 0},
		{4, 8, 8, 0},
		{64, 0, 0, 63},
	}
	for _, tt := range tests {
		if got := PhraseAlignedStart(tt.duration, tt.transition, tt.phrase); got != tt.want {
			t.Errorf("PhraseAlignedStart(%d,%d,%d) = %d, want %d",
				tt.duration, tt.transition, tt.phrase, got, tt.want)
		}
	}
}

func TestPhraseAlignedStartProperties(t *testing.T) {
	for duration := 1; duration <= 160; duration++ {
		for tb := 1; tb <= 16; tb++ {
			for phrase := 1; phrase <= 16; phrase++ {
				start := PhraseAlignedStart(duration, tb, phrase)
				if start < 0 || start%phrase != 0 {
					t.Fatalf("(%d,%d,%d): start %d not a phrase multiple", duration, tb, phrase, start)
				}
				if duration >= tb && duration-start < tb {
					t.Fatalf("(%d,%d,%d): start %d leaves %d bars", duration, tb, phrase, start, duration-start)
				}
			}
		}
	}
}

func TestRandomSetRanges(t *testing.T) {
	m := NewSongManager(1)
	if m.Len() != DefaultSetSize {
		t.Fatalf("Len() = %d, want %d", m.Len(), DefaultSetSize)
	}
	m.GenerateRandomSet(50, 0)
	for i, s := range m.Songs() {
		if s.Bars < 32 || s.Bars > 128 {
			t.Errorf("song %d: bars %d", i, s.Bars)
		}
		if s.Variation < 0.2 || s.Variation > 0.8 {
			t.Errorf("song %d: variation %v", i, s.Variation)
		}
		if s.Energy < 0.3 || s.Energy > 0.9 {
			t.Errorf("song %d: energy %v", i, s.Energy)
		}
		for _, idx := range s.Styles {
			if !style.Valid(idx) {
				t.Errorf("song %d: style %d", i, idx)
			}
		}
	}

	m.GenerateRandomSet(4, 48)
	for _, s := range m.Songs() {
		if s.Bars != 48 {
			t.Errorf("fixed bars: got %d", s.Bars)
		}
	}
}

func TestRandomSetContinuityAndContrast(t *testing.T) {
	for seed := range uint64(200) {
		m := NewSongManager(seed)
		songs := m.Songs()
		for i := 1; i < len(songs); i++ {
			prev, next := songs[i-1].Styles, songs[i].Styles
			kept, contrasted := 0, 0
			for r := range style.NumRoles {
				if prev[r] == next[r] {
					kept++
				}
				if style.Dissimilarity(prev[r], next[r]) >= 0.5 {
					contrasted++
				}
			}
			if kept < 1 {
				t.Fatalf("seed %d song %d: no role kept (%v -> %v)", seed, i, prev, next)
			}
			if contrasted < 2 {
				t.Fatalf("seed %d song %d: only %d contrasting roles (%v -> %v)", seed, i, contrasted, prev, next)
			}
		}
	}
}

func TestSetAllSongDuration(t *testing.T) {
	m := NewSongManager(3)
	m.SetAllSongDuration(2)
	for _, s := range m.Songs() {
		if s.Bars != MinSongBars {
			t.Fatalf("bars = %d, want %d", s.Bars, MinSongBars)
		}
	}
}

func TestEmptySetDefaults(t *testing.T) {
	m := NewSongManager(4)
	m.Clear()
	if m.Current() != DefaultSong || m.Next() != DefaultSong {
		t.Error("empty set should return DefaultSong")
	}
	if m.NotifyBarStart() {
		t.Error("empty set should never start a transition")
	}
	m.AdvanceToNextSong()
	if m.CurrentIndex() != 0 || m.Progress() != 0 {
		t.Error("empty set cursor moved")
	}
}

func twoSongs(bars int) []Song {
	return []Song{
		{Styles: style.Uniform(style.Techno), Variation: 0.2, Bars: bars, Energy: 0.2},
		{Styles: style.Uniform(style.Gamelan), Variation: 0.6, Bars: bars, Energy: 0.6},
	}
}

func TestFixedBarsFlow(t *testing.T) {
	tests := []struct {
		name  string
		bars  int
		start int
	}{
		{"phrase aligned", 16, 8},
		{"song as long as the transition", 8, 1},
		{"song shorter than the transition", 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSongManager(5)
			m.SetSongs(twoSongs(tt.bars))
			if m.TransitionStart() != tt.start {
				t.Fatalf("TransitionStart() = %d, want %d", m.TransitionStart(), tt.start)
			}
			for bar := 1; bar <= tt.bars; bar++ {
				if got := m.NotifyBarStart(); got != (bar == tt.start) {
					t.Fatalf("bar %d: NotifyBarStart() = %v", bar, got)
				}
			}
			if m.CurrentIndex() != 1 || m.BarsInCurrentSong() != 0 {
				t.Errorf("after %d bars: song %d bar %d", tt.bars, m.CurrentIndex(), m.BarsInCurrentSong())
			}
		})
	}
}

func TestShortSongsTransition(t *testing.T) {
	m := NewSongManager(5)
	m.SetSongs(twoSongs(8))
	e := NewTransitionEngine(m)

	var started, changes []int
	e.SetCallbacks(Callbacks{
		OnTransitionStart: func(from, to style.Composite) { started = append(started, m.CurrentIndex()) },
		OnSongChange:      func(idx int) { changes = append(changes, idx) },
	})

	for range 8 {
		e.NotifyBarStart()
	}
	if len(started) != 1 || started[0] != 0 {
		t.Fatalf("transitions started from %v, want one from song 0", started)
	}
	if e.IsTransitioning() || m.CurrentIndex() != 1 {
		t.Fatalf("after 8 bars: transitioning %v song %d", e.IsTransitioning(), m.CurrentIndex())
	}
	if len(changes) != 1 || changes[0] != 1 {
		t.Errorf("song changes %v, want [1]", changes)
	}
	if e.Energy() != m.Current().Energy || e.Progress() != 1 {
		t.Errorf("energy %v progress %v, want the second song's energy at full progress", e.Energy(), e.Progress())
	}
}

func TestManualMode(t *testing.T) {
	m := NewSongManager(6)
	m.SetSongs(twoSongs(16))
	m.TriggerNextSong()
	if m.CurrentIndex() != 0 {
		t.Fatal("TriggerNextSong should do nothing in fixed mode")
	}

	m.SetTriggerMode(Manual)
	for range 40 {
		if m.NotifyBarStart() {
			t.Fatal("manual mode requested a transition")
		}
	}
	if m.CurrentIndex() != 0 {
		t.Fatal("manual mode advanced on its own")
	}
	m.TriggerNextSong()
	if m.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", m.CurrentIndex())
	}
	m.JumpTo(5)
	if m.CurrentIndex() != 1 {
		t.Error("out-of-range jump should be ignored")
	}
}

func TestSettersClamp(t *testing.T) {
	m := NewSongManager(7)
	m.SetTransitionDuration(0)
	m.SetPhraseLength(-2)
	if m.TransitionDuration() != 1 || m.PhraseLength() != 1 {
		t.Errorf("got %d/%d, want 1/1", m.TransitionDuration(), m.PhraseLength())
	}
	m.AddSong(Song{Styles: style.Composite{-1, 99, 2, 3}, Variation: 3, Bars: 0, Energy: -1})
	s := m.Songs()[m.Len()-1]
	if s.Styles != (style.Composite{0, 0, 2, 3}) || s.Variation != 1 || s.Bars != 1 || s.Energy != 0 {
		t.Errorf("AddSong did not clamp: %+v", s)
	}
}

func TestTransitionLifecycle(t *testing.T) {
	m := NewSongManager(8)
	m.SetSongs(twoSongs(16))
	e := NewTransitionEngine(m)

	var started, completed int
	changed := -1
	e.SetCallbacks(Callbacks{
		OnTransitionStart: func(from, to style.Composite) {
			started++
			if from != style.Uniform(style.Techno) || to != style.Uniform(style.Gamelan) {
				t.Errorf("start callback got %v -> %v", from, to)
			}
		},
		OnTransitionComplete: func() { completed++ },
		OnSongChange:         func(idx int) { changed = idx },
	})

	for range 7 {
		e.NotifyBarStart()
	}
	if e.IsTransitioning() {
		t.Fatal("transitioning before bar 8")
	}

	e.NotifyBarStart() // bar 8
	if e.State() != Morphing || started != 1 {
		t.Fatalf("state %v, started %d", e.State(), started)
	}
	if !approx(e.Progress(), 0.125) || !approx(e.Energy(), 0.25) {
		t.Errorf("progress %v energy %v", e.Progress(), e.Energy())
	}

	for range 6 {
		e.NotifyBarStart()
	}
	if !e.IsTransitioning() {
		t.Fatal("finished early")
	}
	e.NotifyBarStart() // bar 15
	if e.IsTransitioning() || completed != 1 || changed != 1 {
		t.Fatalf("state %v completed %d changed %d", e.State(), completed, changed)
	}
	if e.Energy() != 0.6 || e.Variation() != 0.6 {
		t.Errorf("energy %v variation %v, want targets", e.Energy(), e.Variation())
	}
	if m.CurrentIndex() != 1 || m.BarsInCurrentSong() != 0 {
		t.Errorf("song %d bar %d", m.CurrentIndex(), m.BarsInCurrentSong())
	}
	if e.Style().RoleWeights(style.Groove) != style.Get(style.Gamelan).Weights[style.Groove] {
		t.Error("style should rest on the new song")
	}

	e.NotifyBarStart()
	if m.CurrentIndex() != 1 || m.BarsInCurrentSong() != 1 {
		t.Errorf("next bar: song %d bar %d", m.CurrentIndex(), m.BarsInCurrentSong())
	}
}

func TestTransitionDoesNotDoubleAdvance(t *testing.T) {
	m := NewSongManager(9)
	songs := twoSongs(10)
	songs = append(songs, Song{Styles: style.Uniform(style.Jazz), Variation: 0.5, Bars: 10, Energy: 0.5})
	m.SetSongs(songs)
	e := NewTransitionEngine(m)

	for range 4 {
		e.NotifyBarStart()
	}
	e.TriggerTransition()
	for range 20 {
		e.NotifyBarStart()
		if !e.IsTransitioning() {
			break
		}
	}
	if m.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", m.CurrentIndex())
	}
}

func TestFilterSweep(t *testing.T) {
	m := NewSongManager(10)
	m.SetSongs(twoSongs(64))
	m.SetTriggerMode(Manual)
	e := NewTransitionEngine(m)
	e.SetFilterSweepBars(4)
	e.TriggerTransition()

	want := []struct {
		dir    FilterDirection
		cutoff float64
	}{
		{HighPassUp, 0.8},
		{HighPassUp, 0.6},
		{HighPassUp, 0.4},
		{HighPassDown, 0.2},
		{HighPassDown, 0.4},
		{HighPassDown, 0.6},
		{HighPassDown, 0.8},
		{FilterNone, 1},
	}
	for i, w := range want {
		e.NotifyBarStart()
		if e.FilterDirection() != w.dir || !approx(e.FilterCutoff(), w.cutoff) {
			t.Fatalf("bar %d: %v %.3f, want %v %.3f", i+1, e.FilterDirection(), e.FilterCutoff(), w.dir, w.cutoff)
		}
	}
}

func TestFilterSweepDisabled(t *testing.T) {
	m := NewSongManager(11)
	e := NewTransitionEngine(m)
	e.SetFilterSweepEnabled(false)
	e.TriggerTransition()
	e.NotifyBarStart()
	if e.FilterDirection() != FilterNone || e.FilterCutoff() != 1 {
		t.Errorf("sweep ran while disabled: %v %v", e.FilterDirection(), e.FilterCutoff())
	}
}

func TestJumpToSong(t *testing.T) {
	m := NewSongManager(12)
	m.SetSongs(twoSongs(32))
	e := NewTransitionEngine(m)
	changed := -1
	e.SetCallbacks(Callbacks{OnSongChange: func(idx int) { changed = idx }})

	e.TriggerTransition()
	e.JumpToSong(1)
	if e.IsTransitioning() || changed != 1 || m.CurrentIndex() != 1 {
		t.Fatalf("jump: transitioning %v changed %d song %d", e.IsTransitioning(), changed, m.CurrentIndex())
	}
	if e.Energy() != 0.6 || e.Morpher().From() != style.Uniform(style.Gamelan) {
		t.Error("jump should rest on the target song")
	}

	e.JumpToSong(7)
	if m.CurrentIndex() != 1 {
		t.Error("out-of-range jump should be ignored")
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
