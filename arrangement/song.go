package arrangement

import (
	"math/rand/v2"

	"techno-machine/style"
)

// Song is one entry of a set.
type Song struct {
	Styles    style.Composite
	Variation float64
	Bars      int
	Energy    float64
}

// DefaultSong is returned when a set is empty.
var DefaultSong = Song{Styles: style.Uniform(style.Techno), Variation: 0.5, Bars: 64, Energy: 0.5}

func (s Song) normalized() Song {
	s.Styles = s.Styles.Clamped()
	s.Variation = clamp01(s.Variation)
	s.Energy = clamp01(s.Energy)
	s.Bars = max(1, s.Bars)
	return s
}

// TriggerMode decides who starts song changes.
type TriggerMode int

const (
	FixedBars TriggerMode = iota // transition starts at the phrase-aligned point
	Manual                       // only explicit triggers change songs
)

func (m TriggerMode) String() string {
	if m == Manual {
		return "manual"
	}
	return "fixed"
}

const (
	DefaultSetSize        = 8
	DefaultTransitionBars = 8
	DefaultPhraseLength   = 8
	MinSongBars           = 8

	// continuityMinDissimilarity is the contrast floor for roles that change
	// between consecutive songs.
	continuityMinDissimilarity = 0.5
)

// PhraseAlignedStart returns the bar at which a transition of
// transitionBars should begin in a song of duration bars: the last multiple
// of phraseLength that still leaves room for the whole transition.
// Non-positive transition or phrase lengths count as 1.
func PhraseAlignedStart(duration, transitionBars, phraseLength int) int {
	transitionBars = max(1, transitionBars)
	phraseLength = max(1, phraseLength)
	basic := max(0, duration-transitionBars)
	return basic / phraseLength * phraseLength
}

// SongManager holds an ordered set of songs and a play cursor.
type SongManager struct {
	rng    *rand.Rand
	songs  []Song
	cursor int
	bars   int

	mode           TriggerMode
	transitionBars int
	phraseLength   int
}

// NewSongManager starts with a random set of DefaultSetSize songs.
func NewSongManager(seed uint64) *SongManager {
	m := &SongManager{
		rng:            rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
		transitionBars: DefaultTransitionBars,
		phraseLength:   DefaultPhraseLength,
	}
	m.GenerateRandomSet(DefaultSetSize, 0)
	return m
}

// GenerateRandomSet replaces the set with n random songs. fixedBars <= 0
// picks a length between 32 and 128 bars per song.
//
// Consecutive songs share one or two role styles; every other role moves
// to a style at least 0.5 away from the previous song's style for that
// role, falling back to any style when none qualifies.
func (m *SongManager) GenerateRandomSet(n, fixedBars int) {
	m.songs = m.songs[:0]
	for i := 0; i < n; i++ {
		var styles style.Composite
		if i == 0 {
			styles = style.Uniform(m.rng.IntN(style.Count))
		} else {
			styles = m.nextStyles(m.songs[i-1].Styles)
		}

		bars := fixedBars
		if bars <= 0 {
			bars = 32 + m.rng.IntN(97)
		}
		m.songs = append(m.songs, Song{
			Styles:    styles,
			Variation: 0.2 + m.rng.Float64()*0.6,
			Bars:      bars,
			Energy:    0.3 + m.rng.Float64()*0.6,
		})
	}
	m.cursor = 0
	m.bars = 0
}

func (m *SongManager) nextStyles(prev style.Composite) style.Composite {
	next := prev
	order := m.rng.Perm(style.NumRoles)
	keep := 1 + m.rng.IntN(2)
	for _, r := range order[keep:] {
		candidates := style.FindDissimilar(prev[r], continuityMinDissimilarity)
		if len(candidates) == 0 {
			next[r] = m.rng.IntN(style.Count)
			continue
		}
		next[r] = candidates[m.rng.IntN(len(candidates))]
	}
	return next
}

// AddSong appends a song, clamping its fields into range.
func (m *SongManager) AddSong(s Song) {
	m.songs = append(m.songs, s.normalized())
}

// SetSongs replaces the set and rewinds the cursor.
func (m *SongManager) SetSongs(songs []Song) {
	m.Clear()
	for _, s := range songs {
		m.AddSong(s)
	}
}

func (m *SongManager) Clear() {
	m.songs = m.songs[:0]
	m.cursor = 0
	m.bars = 0
}

// Songs returns a copy of the set.
func (m *SongManager) Songs() []Song {
	out := make([]Song, len(m.songs))
	copy(out, m.songs)
	return out
}

func (m *SongManager) Len() int { return len(m.songs) }

// Current returns the song under the cursor, or DefaultSong for an empty
// set.
func (m *SongManager) Current() Song {
	if len(m.songs) == 0 {
		return DefaultSong
	}
	return m.songs[m.cursor%len(m.songs)]
}

// Next returns the song after the cursor, wrapping to the start.
func (m *SongManager) Next() Song {
	if len(m.songs) == 0 {
		return DefaultSong
	}
	return m.songs[(m.cursor+1)%len(m.songs)]
}

func (m *SongManager) CurrentIndex() int      { return m.cursor }
func (m *SongManager) BarsInCurrentSong() int { return m.bars }

// Progress is the fraction of the current song played so far.
func (m *SongManager) Progress() float64 {
	if len(m.songs) == 0 {
		return 0
	}
	return float64(m.bars) / float64(max(1, m.Current().Bars))
}

// SetAllSongDuration sets every song to bars (at least 8).
func (m *SongManager) SetAllSongDuration(bars int) {
	bars = max(MinSongBars, bars)
	for i := range m.songs {
		m.songs[i].Bars = bars
	}
}

func (m *SongManager) SetTriggerMode(mode TriggerMode) { m.mode = mode }
func (m *SongManager) TriggerMode() TriggerMode        { return m.mode }

func (m *SongManager) SetTransitionDuration(bars int) { m.transitionBars = max(1, bars) }
func (m *SongManager) TransitionDuration() int        { return m.transitionBars }

func (m *SongManager) SetPhraseLength(bars int) { m.phraseLength = max(1, bars) }
func (m *SongManager) PhraseLength() int        { return m.phraseLength }

// TransitionStart is the bar of the current song at which a transition
// begins in FixedBars mode. Bars are counted from 1, so a song too short
// for a phrase-aligned start transitions on its first bar.
func (m *SongManager) TransitionStart() int {
	return max(1, PhraseAlignedStart(m.Current().Bars, m.transitionBars, m.phraseLength))
}

// NotifyBarStart counts a bar and reports whether a transition should
// begin now. In FixedBars mode the cursor advances once the song's
// duration is reached.
func (m *SongManager) NotifyBarStart() bool {
	m.bars++
	if m.mode != FixedBars || len(m.songs) == 0 {
		return false
	}
	if m.bars == m.TransitionStart() {
		return true
	}
	if m.bars >= m.Current().Bars {
		m.AdvanceToNextSong()
	}
	return false
}

// TriggerNextSong advances the cursor in Manual mode; it does nothing in
// FixedBars mode.
func (m *SongManager) TriggerNextSong() {
	if m.mode == Manual {
		m.AdvanceToNextSong()
	}
}

// AdvanceToNextSong moves the cursor forward, wrapping at the end.
func (m *SongManager) AdvanceToNextSong() {
	if len(m.songs) == 0 {
		return
	}
	m.cursor = (m.cursor + 1) % len(m.songs)
	m.bars = 0
}

// JumpTo moves the cursor to idx. Out-of-range indices are ignored.
func (m *SongManager) JumpTo(idx int) {
	if idx < 0 || idx >= len(m.songs) {
		return
	}
	m.cursor = idx
	m.bars = 0
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
