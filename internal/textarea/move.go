package textarea

// Direction is a cursor movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	WordLeft
	WordRight
)

// beginMove starts or drops the selection before the cursor moves.
func (a *Area) beginMove(extend bool) {
	if extend {
		if !a.sel {
			a.anchor = a.cursor
			a.sel = true
		}
		return
	}
	a.sel = false
}

// Move moves the cursor one step. With extend the selection grows;
// without it an existing selection collapses toward dir.
func (a *Area) Move(dir Direction, extend bool) {
	defer a.emit()

	if sel, ok := a.Selection(); ok && !extend && (dir == Left || dir == Right) {
		a.sel = false
		a.goal = -1
		if dir == Left {
			a.cursor = sel.Start
		} else {
			a.cursor = sel.End
		}
		return
	}

	a.beginMove(extend)
	c := a.cursor
	switch dir {
	case Left:
		a.goal = -1
		if c.Col > 0 {
			c.Col--
		} else if c.Line > 0 {
			c = Pos{Line: c.Line - 1, Col: len(a.lines[c.Line-1])}
		}
	case Right:
		a.goal = -1
		if c.Col < len(a.lines[c.Line]) {
			c.Col++
		} else if c.Line < len(a.lines)-1 {
			c = Pos{Line: c.Line + 1}
		}
	case Up:
		c = a.vertical(-1)
	case Down:
		c = a.vertical(1)
	case WordLeft:
		a.goal = -1
		c = a.wordLeft(c)
	case WordRight:
		a.goal = -1
		c = a.wordRight(c)
	}
	a.cursor = c
	a.hist.seal()
}

func (a *Area) vertical(n int) Pos {
	if a.goal < 0 {
		a.goal = a.cursor.Col
	}
	line := a.cursor.Line + n
	switch {
	case line < 0:
		return Pos{}
	case line >= len(a.lines):
		last := len(a.lines) - 1
		return Pos{Line: last, Col: len(a.lines[last])}
	}
	return a.clamp(Pos{Line: line, Col: a.goal})
}

func runeClass(r rune) int {
	switch {
	case r == ' ' || r == '\t':
		return 0
	case isWordRune(r):
		return 1
	}
	return 2
}

func (a *Area) wordLeft(c Pos) Pos {
	if c.Col == 0 {
		if c.Line == 0 {
			return c
		}
		return Pos{Line: c.Line - 1, Col: len(a.lines[c.Line-1])}
	}
	line := a.lines[c.Line]
	i := c.Col
	for i > 0 && runeClass(line[i-1]) == 0 {
		i--
	}
	if i > 0 {
		class := runeClass(line[i-1])
		for i > 0 && runeClass(line[i-1]) == class {
			i--
		}
	}
	return Pos{Line: c.Line, Col: i}
}

func (a *Area) wordRight(c Pos) Pos {
	line := a.lines[c.Line]
	if c.Col >= len(line) {
		if c.Line == len(a.lines)-1 {
			return c
		}
		return Pos{Line: c.Line + 1}
	}
	i := c.Col
	for i < len(line) && runeClass(line[i]) == 0 {
		i++
	}
	if i < len(line) {
		class := runeClass(line[i])
		for i < len(line) && runeClass(line[i]) == class {
			i++
		}
	}
	return Pos{Line: c.Line, Col: i}
}

// Home moves to the first non-blank column, or to column 0 when already
// there.
func (a *Area) Home(extend bool) {
	defer a.emit()
	a.beginMove(extend)
	indent := len(leadingSpace(a.lines[a.cursor.Line]))
	if a.cursor.Col == indent {
		indent = 0
	}
	a.cursor.Col = indent
	a.goal = -1
}

// End moves to the end of the line.
func (a *Area) End(extend bool) {
	defer a.emit()
	a.beginMove(extend)
	a.cursor.Col = len(a.lines[a.cursor.Line])
	a.goal = -1
}

// PageUp moves up n lines.
func (a *Area) PageUp(n int, extend bool) {
	defer a.emit()
	a.beginMove(extend)
	a.cursor = a.vertical(-max(n, 1))
}

// PageDown moves down n lines.
func (a *Area) PageDown(n int, extend bool) {
	defer a.emit()
	a.beginMove(extend)
	a.cursor = a.vertical(max(n, 1))
}

// DocStart moves to the first position.
func (a *Area) DocStart(extend bool) {
	defer a.emit()
	a.beginMove(extend)
	a.cursor = Pos{}
	a.goal = -1
}

// DocEnd moves to the last position.
func (a *Area) DocEnd(extend bool) {
	defer a.emit()
	a.beginMove(extend)
	last := len(a.lines) - 1
	a.cursor = Pos{Line: last, Col: len(a.lines[last])}
	a.goal = -1
}

// SetCursor moves the cursor to p, clamped to the content, and drops the
// selection.
func (a *Area) SetCursor(p Pos) {
	a.cursor = a.clamp(p)
	a.sel = false
	a.goal = -1
	a.hist.seal()
	a.emit()
}

// Select sets the selection from anchor to head.
func (a *Area) Select(anchor, head Pos) {
	a.anchor = a.clamp(anchor)
	a.cursor = a.clamp(head)
	a.sel = true
	a.goal = -1
	a.emit()
}

// SelectAll selects the whole document.
func (a *Area) SelectAll() {
	last := len(a.lines) - 1
	a.Select(Pos{}, Pos{Line: last, Col: len(a.lines[last])})
}
