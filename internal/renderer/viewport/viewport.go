// Package viewport tracks which part of a document is on screen.
package viewport

// Margins are the lines and columns kept between the cursor and the edges.
type Margins struct {
	Top, Bottom, Left, Right int
}

// DefaultMargins suit a terminal-sized editor.
func DefaultMargins() Margins {
	return Margins{Top: 2, Bottom: 2, Left: 4, Right: 4}
}

// maxMarginRatio limits each margin to a third of the viewport.
const maxMarginRatio = 3

// Viewport is the visible window onto a document. Lines are zero-based;
// columns are display columns.
type Viewport struct {
	top, left     int
	width, height int
	margins       Margins
	lineCount     int
}

// New creates a viewport of the given size with default margins.
func New(width, height int) *Viewport {
	v := &Viewport{margins: DefaultMargins()}
	v.Resize(width, height)
	return v
}

// Resize changes the size. Sizes below one are raised to one.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// Width returns the width in columns.
func (v *Viewport) Width() int { return v.width }

// Height returns the height in rows.
func (v *Viewport) Height() int { return v.height }

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int { return v.top }

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int { return v.left }

// SetMargins replaces the scroll margins.
func (v *Viewport) SetMargins(m Margins) {
	v.margins = m
}

// SetLineCount records the document length so scrolling stays in range.
func (v *Viewport) SetLineCount(n int) {
	v.lineCount = max(n, 1)
	if v.top >= v.lineCount {
		v.top = v.lineCount - 1
	}
}

func (v *Viewport) effectiveMargins() Margins {
	m := v.margins
	m.Top = min(m.Top, v.height/maxMarginRatio)
	m.Bottom = min(m.Bottom, v.height/maxMarginRatio)
	m.Left = min(m.Left, v.width/maxMarginRatio)
	m.Right = min(m.Right, v.width/maxMarginRatio)
	return m
}

// ScrollToReveal scrolls the least amount that shows (line, col) inside the
// margins. It reports whether the viewport moved.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	m := v.effectiveMargins()
	top, left := v.top, v.left

	switch {
	case line < top+m.Top:
		top = max(line-m.Top, 0)
	case line > top+v.height-1-m.Bottom:
		top = line - v.height + 1 + m.Bottom
	}

	switch {
	case col < left+m.Left:
		left = max(col-m.Left, 0)
	case col > left+v.width-1-m.Right:
		left = col - v.width + 1 + m.Right
	}

	if v.lineCount > 0 && top >= v.lineCount {
		top = v.lineCount - 1
	}
	top = max(top, 0)

	moved := top != v.top || left != v.left
	v.top, v.left = top, left
	return moved
}

// SetTopLine makes line the first visible line, staying in range.
func (v *Viewport) SetTopLine(line int) {
	v.top = 0
	v.ScrollBy(line)
}

// ScrollBy moves the viewport by delta lines, staying in range.
func (v *Viewport) ScrollBy(delta int) {
	top := v.top + delta
	if v.lineCount > 0 && top > v.lineCount-1 {
		top = v.lineCount - 1
	}
	v.top = max(top, 0)
}

// IsLineVisible reports whether line is on screen.
func (v *Viewport) IsLineVisible(line int) bool {
	return line >= v.top && line < v.top+v.height
}

// ScreenToBuffer converts a position relative to the viewport's origin to
// a document line and display column.
func (v *Viewport) ScreenToBuffer(row, col int) (line, column int) {
	return v.top + row, v.left + col
}

// BufferToScreen converts a document position to viewport coordinates. ok
// is false when the position is off screen.
func (v *Viewport) BufferToScreen(line, col int) (row, column int, ok bool) {
	row, column = line-v.top, col-v.left
	ok = row >= 0 && row < v.height && column >= 0 && column < v.width
	return row, column, ok
}
