package widgets

import "strings"

// PadConfig describes what one pad does in a view.
type PadConfig struct {
	Color   [3]uint8
	Tooltip string
}

// LaunchpadLayout describes a whole surface. Grid row 0 is the bottom row,
// as on the hardware.
type LaunchpadLayout struct {
	TopRow   [8]PadConfig
	Grid     [8][8]PadConfig
	RightCol [8]PadConfig
}

// Zone is a legend entry for a group of pads.
type Zone struct {
	Name  string
	Color [3]uint8
	Desc  string
}

// padWidth is the width of one rendered pad including its gap.
const padWidth = 2

// RenderLaunchpad draws the layout: top row, then the grid with the side
// column, top grid row first.
func RenderLaunchpad(l LaunchpadLayout) string {
	var lines []string

	var top strings.Builder
	for col := range 8 {
		top.WriteString(renderCell(l.TopRow[col]))
		top.WriteString(" ")
	}
	lines = append(lines, top.String())

	for row := 7; row >= 0; row-- {
		var line strings.Builder
		for col := range 8 {
			line.WriteString(renderCell(l.Grid[row][col]))
			line.WriteString(" ")
		}
		line.WriteString(renderCell(l.RightCol[row]))
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func renderCell(p PadConfig) string {
	if p.Tooltip == "" {
		return "□"
	}
	return RenderPad(p.Color)
}

// RenderLegend lists the zones of a layout.
func RenderLegend(zones []Zone) string {
	lines := make([]string, len(zones))
	for i, z := range zones {
		lines[i] = RenderLegendItem(z.Color, z.Name, z.Desc)
	}
	return strings.Join(lines, "\n")
}

// LaunchpadHelp is a mouse-aware rendering of the focused layout.
type LaunchpadHelp struct {
	layout LaunchpadLayout
}

func NewLaunchpadHelp() *LaunchpadHelp {
	return &LaunchpadHelp{}
}

func (h *LaunchpadHelp) SetLayout(l LaunchpadLayout) {
	h.layout = l
}

func (h *LaunchpadHelp) View() string {
	return RenderLaunchpad(h.layout)
}

// HitTest returns the tooltip of the pad under (x, y), relative to the top
// left of View.
func (h *LaunchpadHelp) HitTest(x, y int) (bool, string) {
	if x < 0 || y < 0 || x%padWidth != 0 {
		return false, ""
	}
	col := x / padWidth
	var p PadConfig
	switch {
	case y == 0 && col < 8:
		p = h.layout.TopRow[col]
	case y >= 1 && y <= 8 && col < 8:
		p = h.layout.Grid[8-y][col]
	case y >= 1 && y <= 8 && col == 8:
		p = h.layout.RightCol[8-y]
	default:
		return false, ""
	}
	if p.Tooltip == "" {
		return false, ""
	}
	return true, p.Tooltip
}
