package sequencer

import (
	"fmt"
	"strings"

	"techno-machine/config"
	"techno-machine/debug"
	"techno-machine/midi"
	"techno-machine/widgets"
)

// InputMode for text input
type InputMode int

const (
	InputNone InputMode = iota
	InputSaveSet
	InputRenameSet
)

// TextInput is implemented by devices that sometimes want every key,
// including the ones the TUI normally handles itself.
type TextInput interface {
	IsInputMode() bool
}

var (
	setColor      = [3]uint8{100, 200, 100}
	selectedColor = [3]uint8{255, 255, 255}
)

// LibraryDevice saves the running set to a library of set files and loads
// sets back. Each grid pad is one set, newest top left.
type LibraryDevice struct {
	m   *Manager
	lib *config.Library

	sets   []config.SetInfo
	cursor int
	status string

	// Input mode (for save / rename)
	inputMode   InputMode
	inputBuffer string

	// Confirmation dialog
	confirmMode   bool
	confirmMsg    string
	confirmAction func() error
}

func NewLibraryDevice(m *Manager, lib *config.Library) *LibraryDevice {
	d := &LibraryDevice{m: m, lib: lib}
	d.Refresh()
	return d
}

// IsInputMode returns true if the device is accepting text input
func (d *LibraryDevice) IsInputMode() bool {
	return d.inputMode != InputNone || d.confirmMode
}

// Refresh reloads the set list
func (d *LibraryDevice) Refresh() {
	sets, err := d.lib.List()
	if err != nil {
		d.status = err.Error()
	}
	d.sets = sets
	if d.cursor >= len(d.sets) {
		d.cursor = max(0, len(d.sets)-1)
	}
}

func (d *LibraryDevice) View() string {
	var out strings.Builder

	fmt.Fprintf(&out, "LIBRARY  %d sets  %s\n\n", len(d.sets), d.lib.Dir)

	// Confirmation dialog takes over
	if d.confirmMode {
		out.WriteString("─────────────────────────────────────────────────\n")
		fmt.Fprintf(&out, "\n%s\n\n", d.confirmMsg)
		out.WriteString("  [y] Yes    [n] No\n")
		out.WriteString("\n─────────────────────────────────────────────────\n")
		return out.String()
	}

	// Input mode takes over
	if d.inputMode != InputNone {
		label := "Save set as"
		if d.inputMode == InputRenameSet {
			label = "Rename set to"
		}
		out.WriteString("─────────────────────────────────────────────────\n")
		fmt.Fprintf(&out, "\n%s: %s_\n", label, d.inputBuffer)
		out.WriteString("\n[enter] confirm  [esc] cancel\n")
		out.WriteString("\n─────────────────────────────────────────────────\n")
		return out.String()
	}

	for i, set := range d.sets {
		if i >= 12 {
			fmt.Fprintf(&out, "  ... %d more\n", len(d.sets)-i)
			break
		}
		prefix := "  "
		if i == d.cursor {
			prefix = "> "
		}
		name := set.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		fmt.Fprintf(&out, "%s%-28s  %s\n", prefix, name, set.Modified.Format("01-02 15:04"))
	}
	if len(d.sets) == 0 {
		out.WriteString("  (no sets yet)\n")
	}
	if d.status != "" {
		fmt.Fprintf(&out, "\n%s\n", d.status)
	}

	out.WriteString("\n")
	out.WriteString(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "j / k", Desc: "navigate list"},
			{Key: "enter", Desc: "load selected"},
			{Key: "s", Desc: "save current set"},
			{Key: "r", Desc: "rename"},
			{Key: "d", Desc: "delete"},
		}},
	}))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLegend([]widgets.Zone{
		{Name: "Sets", Color: setColor, Desc: "tap to select, tap again to load"},
	}))
	return out.String()
}

func (d *LibraryDevice) RenderLEDs() []LEDState {
	var leds []LEDState
	for row := range 8 {
		for col := range 8 {
			idx := row*8 + col
			color := [3]uint8{}
			switch {
			case idx == d.cursor && idx < len(d.sets):
				color = selectedColor
			case idx < len(d.sets):
				color = setColor
			}
			leds = append(leds, LEDState{Row: 7 - row, Col: col, Color: color, Channel: midi.ChannelStatic})
		}
		leds = append(leds, LEDState{Row: 7 - row, Col: 8, Color: dimColor, Channel: midi.ChannelStatic})
	}
	return leds
}

func (d *LibraryDevice) HandleKey(key string) {
	// Confirmation mode
	if d.confirmMode {
		switch key {
		case "y", "Y":
			if d.confirmAction != nil {
				d.report(d.confirmAction())
			}
			d.confirmMode = false
			d.confirmAction = nil
			d.Refresh()
		case "n", "N", "esc", "q":
			d.confirmMode = false
			d.confirmAction = nil
		}
		return
	}

	// Input mode
	if d.inputMode != InputNone {
		switch key {
		case "enter":
			d.commitInput()
		case "esc":
			d.inputMode = InputNone
			d.inputBuffer = ""
		case "backspace":
			if len(d.inputBuffer) > 0 {
				d.inputBuffer = d.inputBuffer[:len(d.inputBuffer)-1]
			}
		default:
			// Only accept printable characters
			if len(key) == 1 && key[0] >= 32 && key[0] < 127 && key != "/" && key != "\\" {
				d.inputBuffer += key
			}
		}
		return
	}

	switch key {
	case "j", "down":
		if d.cursor < len(d.sets)-1 {
			d.cursor++
		}
	case "k", "up":
		if d.cursor > 0 {
			d.cursor--
		}
	case "enter", " ":
		d.loadSelected()
	case "s":
		d.inputMode = InputSaveSet
		d.inputBuffer = ""
	case "r":
		if len(d.sets) > 0 {
			d.inputMode = InputRenameSet
			d.inputBuffer = d.sets[d.cursor].Name
		}
	case "d":
		if len(d.sets) > 0 {
			name := d.sets[d.cursor].Name
			d.confirmMsg = fmt.Sprintf("Delete set '%s'?", name)
			d.confirmAction = func() error { return d.lib.Delete(name) }
			d.confirmMode = true
		}
	}
}

func (d *LibraryDevice) commitInput() {
	name := strings.TrimSpace(d.inputBuffer)

	switch d.inputMode {
	case InputSaveSet:
		saved, err := d.lib.Save(name, d.m.Songs())
		if err == nil {
			d.status = "saved " + saved
		}
		d.report(err)
	case InputRenameSet:
		if name != "" && len(d.sets) > 0 {
			d.report(d.lib.Rename(d.sets[d.cursor].Name, name))
		}
	}

	d.inputMode = InputNone
	d.inputBuffer = ""
	d.Refresh()
}

func (d *LibraryDevice) loadSelected() {
	if len(d.sets) == 0 {
		return
	}
	name := d.sets[d.cursor].Name
	songs, err := d.lib.Load(name)
	if err == nil && len(songs) == 0 {
		err = fmt.Errorf("set %s has no songs", name)
	}
	if err != nil {
		d.report(err)
		return
	}
	d.m.SetSongs(songs)
	d.status = fmt.Sprintf("loaded %s (%d songs)", name, len(songs))
}

func (d *LibraryDevice) report(err error) {
	if err != nil {
		d.status = err.Error()
		debug.Log("library", "%v", err)
	}
}

func (d *LibraryDevice) HandlePad(row, col int) {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return
	}
	idx := (7-row)*8 + col
	if idx >= len(d.sets) {
		return
	}
	if idx == d.cursor {
		d.loadSelected()
		return
	}
	d.cursor = idx
}

func (d *LibraryDevice) HelpLayout() widgets.LaunchpadLayout {
	var layout widgets.LaunchpadLayout
	layout.TopRow = topRowLayout()
	for row := range 8 {
		for col := range 8 {
			idx := row*8 + col
			pad := widgets.PadConfig{Color: dimColor}
			if idx < len(d.sets) {
				pad = widgets.PadConfig{Color: setColor, Tooltip: d.sets[idx].Name}
			}
			layout.Grid[7-row][col] = pad
		}
	}
	return layout
}
