package renderer

import (
	"strconv"

	"github.com/dshills/keypad/internal/renderer/core"
)

// runeCells is the display width of r at display column col. Tabs run to
// the next tab stop; control characters take no space.
func runeCells(r rune, col, tabSize int) int {
	if r == '\t' {
		return tabSize - col%tabSize
	}
	return core.RuneWidth(r)
}

// displayCol converts a rune column of line to a display column.
func displayCol(line []rune, col, tabSize int) int {
	d := 0
	for i := 0; i < col && i < len(line); i++ {
		d += runeCells(line[i], d, tabSize)
	}
	return d
}

// runeColAt returns the rune column whose cell covers display column d,
// clamped to the end of the line.
func runeColAt(line []rune, d, tabSize int) int {
	x := 0
	for i, r := range line {
		w := runeCells(r, x, tabSize)
		if d < x+max(w, 1) {
			return i
		}
		x += w
	}
	return len(line)
}

// wrapLine splits line into visual rows of at most width cells. It returns
// the rune index at which each row starts; there is always at least one.
func wrapLine(line []rune, width, tabSize int) []int {
	starts := []int{0}
	if width <= 0 {
		return starts
	}
	x := 0
	for i, r := range line {
		w := runeCells(r, x, tabSize)
		if x > 0 && x+w > width {
			starts = append(starts, i)
			x = 0
			w = runeCells(r, 0, tabSize)
		}
		x += w
	}
	return starts
}

// gutterWidth returns the width of the line number column, including one
// column of padding, or zero when numbers are off.
func gutterWidth(lineCount int, numbers bool) int {
	if !numbers {
		return 0
	}
	return max(len(strconv.Itoa(lineCount)), 3) + 1
}
