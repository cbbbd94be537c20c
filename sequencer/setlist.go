package sequencer

import (
	"fmt"
	"strings"

	"techno-machine/midi"
	"techno-machine/style"
	"techno-machine/widgets"
)

// SetDevice shows the song list. Each grid row is a song: the first four
// pads are its role styles, the next four its energy.
type SetDevice struct {
	m *Manager

	// UI state
	cursorRow  int
	viewRows   int
	viewOffset int
}

func NewSetDevice(m *Manager) *SetDevice {
	return &SetDevice{m: m, viewRows: 8}
}

// styleColor spreads the catalog over a hue wheel so neighbouring pads
// with different styles are easy to tell apart.
func styleColor(idx int) [3]uint8 {
	palette := [style.Count][3]uint8{
		{255, 0, 0}, {255, 100, 0}, {255, 200, 0}, {0, 180, 0}, {0, 200, 200},
		{0, 100, 255}, {150, 0, 200}, {255, 80, 180}, {180, 80, 40}, {255, 255, 255},
	}
	if !style.Valid(idx) {
		return dimColor
	}
	return palette[idx]
}

func (d *SetDevice) View() string {
	s := d.m.Snapshot()
	var out strings.Builder

	fmt.Fprintf(&out, "SET  %d songs  playing %d  %s\n\n", len(s.Songs), s.SongIndex+1, transitionStatus(s))
	fmt.Fprintf(&out, "      %-44s %5s %5s %6s\n", "Styles (hat/kick/clap/perc)", "bars", "var", "energy")

	for row := d.viewOffset; row < d.viewOffset+d.viewRows && row < len(s.Songs); row++ {
		song := s.Songs[row]
		char := " "
		if row == s.SongIndex {
			char = "▶"
		}
		cursor := " "
		if row == d.cursorRow {
			cursor = ">"
		}
		fmt.Fprintf(&out, "%s%s %2d  %-44s %5d %5.2f %6.2f\n",
			cursor, char, row+1, song.Styles, song.Bars, song.Variation, song.Energy)
	}

	out.WriteString("\n")
	out.WriteString(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "j / k", Desc: "move cursor"},
			{Key: "enter", Desc: "cut to song"},
			{Key: "n", Desc: "generate a new set"},
			{Key: "t", Desc: "start transition"},
		}},
	}))

	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLegend([]widgets.Zone{
		{Name: "Styles", Color: styleColor(style.Techno), Desc: "one pad per role, colored by style"},
		{Name: "Energy", Color: roleColors[style.Foundation], Desc: "tap a row to cut to that song"},
	}))
	return out.String()
}

func (d *SetDevice) RenderLEDs() []LEDState {
	s := d.m.Snapshot()
	var leds []LEDState

	for lpRow := range 8 {
		idx := d.viewOffset + (7 - lpRow)
		if idx >= len(s.Songs) {
			for col := range 9 {
				leds = append(leds, LEDState{Row: lpRow, Col: col, Color: [3]uint8{}, Channel: midi.ChannelStatic})
			}
			continue
		}

		song := s.Songs[idx]
		for r := range style.NumRoles {
			leds = append(leds, LEDState{Row: lpRow, Col: r, Color: styleColor(song.Composite[r]), Channel: midi.ChannelStatic})
		}
		lit := int(song.Energy*4 + 0.5)
		for i := range 4 {
			color := dimColor
			if i < lit {
				color = roleColors[style.Foundation]
			}
			leds = append(leds, LEDState{Row: lpRow, Col: 4 + i, Color: color, Channel: midi.ChannelStatic})
		}

		side, channel := dimColor, midi.ChannelStatic
		if idx == s.SongIndex {
			side, channel = playheadColor, midi.ChannelPulse
		}
		leds = append(leds, LEDState{Row: lpRow, Col: 8, Color: side, Channel: channel})
	}
	return leds
}

func (d *SetDevice) HandleKey(key string) {
	n := len(d.m.Songs())
	switch key {
	case "j", "down":
		if d.cursorRow < n-1 {
			d.cursorRow++
			if d.cursorRow >= d.viewOffset+d.viewRows {
				d.viewOffset = d.cursorRow - d.viewRows + 1
			}
		}
	case "k", "up":
		if d.cursorRow > 0 {
			d.cursorRow--
			if d.cursorRow < d.viewOffset {
				d.viewOffset = d.cursorRow
			}
		}
	case " ", "enter":
		d.m.JumpToSong(d.cursorRow)
	case "n":
		d.m.GenerateSet(max(1, n), 0)
		d.cursorRow, d.viewOffset = 0, 0
	case "t":
		d.m.TriggerTransition()
	}
}

func (d *SetDevice) HandlePad(row, col int) {
	idx := d.viewOffset + (7 - row)
	if row < 0 || row > 7 || idx >= len(d.m.Songs()) {
		return
	}
	d.cursorRow = idx
	d.m.JumpToSong(idx)
}

func (d *SetDevice) HelpLayout() widgets.LaunchpadLayout {
	var layout widgets.LaunchpadLayout
	layout.TopRow = topRowLayout()
	for row := range 8 {
		for col := range 4 {
			layout.Grid[row][col] = widgets.PadConfig{Color: styleColor(col), Tooltip: style.Role(col).String() + " style"}
		}
		for col := 4; col < 8; col++ {
			layout.Grid[row][col] = widgets.PadConfig{Color: roleColors[style.Foundation], Tooltip: "Energy"}
		}
		layout.RightCol[row] = widgets.PadConfig{Color: playheadColor, Tooltip: "Playing song"}
	}
	return layout
}
