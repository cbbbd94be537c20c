package sequencer

import (
	"techno-machine/arrangement"
	"techno-machine/pattern"
	"techno-machine/style"
)

// State is a read-only copy of the runtime taken under the manager lock.
// UIs render from it instead of touching the engine.
type State struct {
	Tempo      float64 `json:"tempo"`
	SwingLevel int     `json:"swingLevel"`
	Swing      float64 `json:"swing"`
	Playing    bool    `json:"playing"`
	Bar        int     `json:"bar"`
	Step       int     `json:"step"`

	Crossfader float64                 `json:"crossfader"`
	Audible    DeckID                  `json:"audible"`
	Decks      [2]DeckState            `json:"decks"`
	Mix        [style.NumVoices][]bool `json:"-"`
	FillActive bool                    `json:"fillActive"`

	Songs        []SongState `json:"songs"`
	SongIndex    int         `json:"songIndex"`
	SongBar      int         `json:"songBar"`
	Transition   bool        `json:"transition"`
	Progress     float64     `json:"progress"`
	Energy       float64     `json:"energy"`
	Variation    float64     `json:"variation"`
	Filter       string      `json:"filter"`
	FilterCutoff float64     `json:"filterCutoff"`
	AutoDJ       bool        `json:"autoDJ"`

	Building      bool    `json:"building"`
	BuildProgress float64 `json:"buildProgress"`

	Tracks [style.NumVoices]Track `json:"tracks"`
}

// DeckState describes what a deck holds.
type DeckState struct {
	Styles    string                     `json:"styles"`
	Composite style.Composite            `json:"composite"`
	Variation float64                    `json:"variation"`
	Onsets    [style.NumVoices][]float64 `json:"-"`
}

// SongState is one entry of the set list.
type SongState struct {
	Styles    string          `json:"styles"`
	Composite style.Composite `json:"composite"`
	Bars      int             `json:"bars"`
	Variation float64         `json:"variation"`
	Energy    float64         `json:"energy"`
}

func newDeckState(d *Deck) DeckState {
	ds := DeckState{
		Styles:    d.Styles.String(),
		Composite: d.Styles,
		Variation: d.Variation,
	}
	for v := range ds.Onsets {
		ds.Onsets[v] = d.Patterns[v].Velocities()
	}
	return ds
}

func newSongStates(songs []arrangement.Song) []SongState {
	out := make([]SongState, len(songs))
	for i, s := range songs {
		out[i] = SongState{
			Styles:    s.Styles.String(),
			Composite: s.Styles,
			Bars:      s.Bars,
			Variation: s.Variation,
			Energy:    s.Energy,
		}
	}
	return out
}

// mixPreview marks the steps where each voice has an onset on the audible
// deck, the one the grid controller shows.
func mixPreview(set *pattern.Set) [style.NumVoices][]bool {
	var out [style.NumVoices][]bool
	for v := range out {
		p := set.Voice(v)
		out[v] = make([]bool, p.Len())
		for i := range out[v] {
			out[v][i] = p.HasOnset(i)
		}
	}
	return out
}
