package sequencer

import (
	"fmt"
	"strings"

	"techno-machine/midi"
	"techno-machine/style"
	"techno-machine/widgets"
)

// Colors - TODO: move to theme
var (
	roleColors = [style.NumRoles][3]uint8{
		{253, 157, 110}, // timeline - orange
		{234, 73, 116},  // foundation - pink
		{148, 18, 126},  // groove - purple
		{111, 10, 126},  // lead - violet
	}
	dimColor      = [3]uint8{30, 8, 28}
	playheadColor = [3]uint8{255, 255, 255}
	mutedColor    = [3]uint8{80, 20, 20}
	topRowColor   = [3]uint8{71, 13, 121}
	topRowOn      = [3]uint8{255, 200, 0}
)

// PerformDevice is the main performance view: both decks, the crossfader
// and the voice lanes. On the grid each row is a voice and the eight
// columns show the half bar being played.
type PerformDevice struct {
	m      *Manager
	cursor int // selected voice
}

func NewPerformDevice(m *Manager) *PerformDevice {
	return &PerformDevice{m: m}
}

func (d *PerformDevice) View() string {
	s := d.m.Snapshot()
	var out strings.Builder

	fmt.Fprintf(&out, "PERFORM  Song %d/%d  bar %d  %s\n\n",
		s.SongIndex+1, len(s.Songs), s.SongBar+1, transitionStatus(s))

	for id, deck := range s.Decks {
		marker := " "
		if DeckID(id) == s.Audible {
			marker = "▶"
		}
		fmt.Fprintf(&out, "%s Deck %s  %-40s var %.2f\n", marker, DeckID(id), deck.Styles, deck.Variation)
		for v := range style.NumVoices {
			out.WriteString(d.laneRow(s, deck, v))
		}
		out.WriteString("\n")
	}

	out.WriteString(crossfaderBar(s.Crossfader, 33))
	out.WriteString("\n\n")

	out.WriteString(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "[ / ]", Desc: "crossfader toward A / B"},
			{Key: "a / b", Desc: "load next song into deck A / B"},
			{Key: "t", Desc: "start transition"},
			{Key: "r", Desc: "regenerate the inactive deck"},
			{Key: "g", Desc: "build up / drop"},
			{Key: "d", Desc: "auto-DJ on/off"},
			{Key: "w", Desc: "cycle swing"},
			{Key: "j / k", Desc: "select voice"},
			{Key: "m / s", Desc: "mute / solo voice"},
			{Key: "space", Desc: "trigger voice"},
		}},
	}))

	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLegend([]widgets.Zone{
		{Name: "Voices", Color: roleColors[style.Foundation], Desc: "rows are voices, columns the half bar playing"},
		{Name: "Mute", Color: mutedColor, Desc: "right column mutes a voice"},
		{Name: "Transport", Color: topRowColor, Desc: "play, load, transition, crossfader, build, auto-DJ"},
	}))
	return out.String()
}

func (d *PerformDevice) laneRow(s State, deck DeckState, v int) string {
	t := s.Tracks[v]
	flag := " "
	switch {
	case t.Solo:
		flag = "S"
	case t.Muted:
		flag = "M"
	}
	cursor := " "
	if v == d.cursor {
		cursor = ">"
	}

	var row strings.Builder
	fmt.Fprintf(&row, "  %s%s %-7s", cursor, flag, t.Name)
	for i, vel := range deck.Onsets[v] {
		switch {
		case s.Playing && i == s.Step:
			row.WriteString("▶")
		case vel >= 0.5:
			row.WriteString("●")
		case vel > 0:
			row.WriteString("•")
		default:
			row.WriteString("·")
		}
	}
	row.WriteString("\n")
	return row.String()
}

func transitionStatus(s State) string {
	status := "idle"
	if s.Transition {
		status = fmt.Sprintf("morphing %3.0f%%", s.Progress*100)
	}
	if s.Filter != "none" {
		status += fmt.Sprintf("  filter %s %.2f", s.Filter, s.FilterCutoff)
	}
	if s.Building {
		status += fmt.Sprintf("  build %3.0f%%", s.BuildProgress*100)
	}
	if s.FillActive {
		status += "  FILL"
	}
	return status
}

// crossfaderBar draws "A [----|----] B" with the handle at p.
func crossfaderBar(p float64, width int) string {
	pos := int(p*float64(width-1) + 0.5)
	bar := []rune(strings.Repeat("─", width))
	bar[pos] = '┃'
	return fmt.Sprintf("A %s B  %3.0f%%", string(bar), p*100)
}

func (d *PerformDevice) RenderLEDs() []LEDState {
	s := d.m.Snapshot()
	var leds []LEDState

	half := 0
	if s.Step >= 8 {
		half = 8
	}
	for v := range style.NumVoices {
		row := 7 - v
		audible := s.Tracks[v].Solo || (!s.Tracks[v].Muted && !anySolo(s))
		for col := range 8 {
			step := half + col
			color := dimColor
			var channel uint8 = midi.ChannelStatic
			if step < len(s.Mix[v]) && s.Mix[v][step] {
				color = roleColors[style.RoleOf(v)]
			}
			if !audible {
				color = mutedColor
			}
			if s.Playing && step == s.Step {
				color = playheadColor
				channel = midi.ChannelPulse
			}
			leds = append(leds, LEDState{Row: row, Col: col, Color: color, Channel: channel})
		}

		side := roleColors[style.RoleOf(v)]
		if !audible {
			side = mutedColor
		}
		leds = append(leds, LEDState{Row: row, Col: 8, Color: side, Channel: midi.ChannelStatic})
	}
	return leds
}

func anySolo(s State) bool {
	for _, t := range s.Tracks {
		if t.Solo {
			return true
		}
	}
	return false
}

// topRowLEDs lights the shared command row; toggles show their state.
func topRowLEDs(s State) []LEDState {
	on := [8]bool{
		PadPlay:       s.Playing,
		PadLoadA:      s.Audible == DeckB,
		PadLoadB:      s.Audible == DeckA,
		PadTransition: s.Transition,
		PadBuild:      s.Building,
		PadAutoDJ:     s.AutoDJ,
	}
	leds := make([]LEDState, 0, 8)
	for col := range 8 {
		color, channel := topRowColor, midi.ChannelStatic
		if on[col] {
			color = topRowOn
		}
		if col == PadTransition && s.Transition {
			channel = midi.ChannelPulse
		}
		leds = append(leds, LEDState{Row: topRow, Col: col, Color: color, Channel: channel})
	}
	return leds
}

func (d *PerformDevice) HandleKey(key string) {
	switch key {
	case "[":
		d.m.NudgeCrossfader(-0.05)
	case "]":
		d.m.NudgeCrossfader(0.05)
	case "a":
		d.m.LoadDeck(DeckA)
	case "b":
		d.m.LoadDeck(DeckB)
	case "t":
		d.m.TriggerTransition()
	case "r":
		d.m.RegenerateInactive()
	case "g":
		d.m.ToggleBuildup()
	case "d":
		d.m.ToggleAutoDJ()
	case "w":
		d.m.CycleSwing()
	case "j", "down":
		if d.cursor < style.NumVoices-1 {
			d.cursor++
		}
	case "k", "up":
		if d.cursor > 0 {
			d.cursor--
		}
	case "m":
		d.m.ToggleMute(d.cursor)
	case "s":
		d.m.ToggleSolo(d.cursor)
	case " ":
		d.m.TriggerVoice(d.cursor, 0.8)
	}
}

func (d *PerformDevice) HandlePad(row, col int) {
	if row < 0 || row > 7 {
		return
	}
	v := 7 - row
	d.cursor = v
	if col == 8 {
		d.m.ToggleMute(v)
		return
	}
	d.m.TriggerVoice(v, 0.8)
}

func (d *PerformDevice) HelpLayout() widgets.LaunchpadLayout {
	var layout widgets.LaunchpadLayout

	layout.TopRow = topRowLayout()
	for row := range 8 {
		v := 7 - row
		for col := range 8 {
			layout.Grid[row][col] = widgets.PadConfig{
				Color:   roleColors[style.RoleOf(v)],
				Tooltip: fmt.Sprintf("%s step", voiceNames[v]),
			}
		}
		layout.RightCol[row] = widgets.PadConfig{Color: mutedColor, Tooltip: "Mute " + voiceNames[v]}
	}
	return layout
}

func topRowLayout() [8]widgets.PadConfig {
	names := [8]string{"Play/Stop", "Load A", "Load B", "Transition", "Crossfade A", "Crossfade B", "Build", "Auto-DJ"}
	var row [8]widgets.PadConfig
	for i, n := range names {
		row[i] = widgets.PadConfig{Color: topRowColor, Tooltip: n}
	}
	return row
}
