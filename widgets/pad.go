package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// unlit is shown for pads whose LED is off.
var unlit = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")).Render("·")

// RenderPad draws one pad in its LED color.
func RenderPad(color [3]uint8) string {
	if color == ([3]uint8{}) {
		return unlit
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(color))).Render("■")
}

// RenderLegendItem draws "■ Name - description".
func RenderLegendItem(color [3]uint8, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color), name, desc)
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// KeySection groups related key bindings under an optional title.
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// RenderKeyHelp lists key bindings with the descriptions in one column.
func RenderKeyHelp(sections []KeySection) string {
	width := 0
	for _, sec := range sections {
		for _, k := range sec.Keys {
			width = max(width, len(k.Key))
		}
	}

	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-*s  %s", width, k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

func hexColor(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
