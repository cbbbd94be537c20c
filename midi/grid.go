package midi

// Launchpad X programmer-mode layout. Grid rows count up from the bottom:
// row r, col c is note (r+1)*10 + c+1, so the side buttons (col 8) are
// 19, 29 ... 89. The top row (row 8) sends CC 91-98 and is lit with notes
// 91-98. There is no pad at row 8, col 8.
const (
	gridSize    = 8
	topRow      = 8
	sideCol     = 8
	topRowFirst = 91
)

func rowColToNote(row, col int) uint8 {
	if row == topRow {
		return uint8(topRowFirst + col)
	}
	return uint8(10*(row+1) + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if r, c := ccToRowCol(note); r >= 0 {
		return r, c
	}
	row, col = int(note)/10-1, int(note)%10-1
	if row >= 0 && row < gridSize && col >= 0 && col <= sideCol {
		return row, col
	}
	return -1, -1
}

func ccToRowCol(cc uint8) (row, col int) {
	if cc < topRowFirst || cc >= topRowFirst+gridSize {
		return -1, -1
	}
	return topRow, int(cc - topRowFirst)
}

// blankSurface addresses every LED with the zero color.
func blankSurface() []LEDUpdate {
	updates := make([]LEDUpdate, 0, 9*9-1)
	for row := 0; row <= topRow; row++ {
		for col := 0; col <= sideCol; col++ {
			if row != topRow || col != sideCol {
				updates = append(updates, LEDUpdate{Row: row, Col: col})
			}
		}
	}
	return updates
}

type paletteEntry struct {
	velocity uint8
	rgb      [3]uint8
}

// padPalette is the subset of the Launchpad X color table the views use.
var padPalette = []paletteEntry{
	{0, [3]uint8{0, 0, 0}},
	{5, [3]uint8{255, 0, 0}},
	{6, [3]uint8{255, 80, 80}},
	{7, [3]uint8{180, 60, 60}},
	{9, [3]uint8{255, 100, 0}},
	{11, [3]uint8{180, 80, 40}},
	{13, [3]uint8{255, 200, 0}},
	{17, [3]uint8{0, 180, 0}},
	{19, [3]uint8{0, 100, 0}},
	{21, [3]uint8{0, 255, 0}},
	{37, [3]uint8{0, 200, 200}},
	{43, [3]uint8{40, 60, 120}},
	{45, [3]uint8{0, 100, 255}},
	{47, [3]uint8{80, 150, 255}},
	{49, [3]uint8{150, 0, 200}},
	{53, [3]uint8{255, 80, 180}},
	{55, [3]uint8{110, 10, 126}},
	{71, [3]uint8{30, 8, 28}},
	{78, [3]uint8{100, 100, 255}},
	{84, [3]uint8{255, 150, 50}},
	{87, [3]uint8{150, 255, 100}},
	{97, [3]uint8{180, 180, 60}},
	{119, [3]uint8{255, 255, 255}},
}

// mapRGBToLaunchpad returns the velocity of the palette color closest to
// rgb in squared RGB distance.
func mapRGBToLaunchpad(rgb [3]uint8) uint8 {
	best, bestDist := padPalette[0].velocity, -1
	for _, e := range padPalette {
		d := 0
		for i := range rgb {
			diff := int(rgb[i]) - int(e.rgb[i])
			d += diff * diff
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = e.velocity, d
		}
	}
	return best
}
