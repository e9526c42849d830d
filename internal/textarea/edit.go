package textarea

import (
	"strings"
	"unicode"
)

var closers = map[rune]rune{
	'(':  ')',
	'[':  ']',
	'{':  '}',
	'"':  '"',
	'\'': '\'',
	'`':  '`',
}

func isCloser(r rune) bool {
	switch r {
	case ')', ']', '}', '"', '\'', '`':
		return true
	}
	return false
}

func isQuote(r rune) bool {
	return r == '"' || r == '\'' || r == '`'
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// selectionOrCursor returns the selected range, or an empty range at the
// cursor.
func (a *Area) selectionOrCursor() Range {
	r, _ := a.Selection()
	return r
}

func (a *Area) runeAt(p Pos) (rune, bool) {
	line := a.lines[p.Line]
	if p.Col < 0 || p.Col >= len(line) {
		return 0, false
	}
	return line[p.Col], true
}

func (a *Area) runeBefore(p Pos) (rune, bool) {
	return a.runeAt(Pos{Line: p.Line, Col: p.Col - 1})
}

// InsertText replaces the selection, or inserts at the cursor.
func (a *Area) InsertText(s string) {
	a.edit(a.selectionOrCursor(), normalizeNewlines(s), "", nil)
	a.emit()
}

// InsertRune types r. With AutoCloseBrackets, openers insert their closer,
// a selection is wrapped, and typing a closer in front of the same closer
// steps over it.
func (a *Area) InsertRune(r rune) {
	defer a.emit()

	if r == '\n' {
		a.newline()
		return
	}

	sel, hasSel := a.Selection()
	if !a.opts.AutoCloseBrackets {
		a.edit(sel, string(r), "typing", nil)
		return
	}

	next, hasNext := a.runeAt(a.cursor)
	if !hasSel && isCloser(r) && hasNext && next == r {
		a.cursor.Col++
		a.goal = -1
		a.hist.seal()
		return
	}

	closer, opener := closers[r]
	if !opener {
		a.edit(sel, string(r), "typing", nil)
		return
	}

	if hasSel {
		text := string(r) + a.textIn(sel) + string(closer)
		a.edit(sel, text, "", func(start, end Pos) Pos {
			return Pos{Line: end.Line, Col: end.Col - 1}
		})
		return
	}

	if isQuote(r) {
		prev, hasPrev := a.runeBefore(a.cursor)
		if (hasNext && isWordRune(next)) || (hasPrev && isWordRune(prev)) {
			a.edit(sel, string(r), "typing", nil)
			return
		}
	} else if hasNext && !unicode.IsSpace(next) && !isCloser(next) {
		a.edit(sel, string(r), "typing", nil)
		return
	}

	a.edit(sel, string(r)+string(closer), "", func(start, _ Pos) Pos {
		return Pos{Line: start.Line, Col: start.Col + 1}
	})
}

// Newline breaks the line and keeps the current indentation. Between a
// bracket pair it opens an indented empty line.
func (a *Area) Newline() {
	a.newline()
	a.emit()
}

func (a *Area) newline() {
	sel := a.selectionOrCursor()
	line := a.lines[sel.Start.Line]
	indent := string(leadingSpace(line[:sel.Start.Col]))

	prev, hasPrev := a.runeBefore(sel.Start)
	next, hasNext := a.runeAt(sel.End)
	if a.opts.AutoCloseBrackets && hasPrev && hasNext && !isQuote(prev) && closers[prev] == next {
		inner := indent + a.indentUnit(0)
		a.edit(sel, "\n"+inner+"\n"+indent, "", func(start, _ Pos) Pos {
			return Pos{Line: start.Line + 1, Col: len([]rune(inner))}
		})
		return
	}
	a.edit(sel, "\n"+indent, "", nil)
}

func leadingSpace(line []rune) []rune {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}

// indentUnit returns one level of indentation as typed at column col.
func (a *Area) indentUnit(col int) string {
	if a.opts.IndentWithTabs {
		return "\t"
	}
	n := a.opts.TabSize - col%a.opts.TabSize
	return strings.Repeat(" ", n)
}

// Tab indents. With a multi-line selection every selected line is
// indented; otherwise one unit is inserted at the cursor.
func (a *Area) Tab() {
	defer a.emit()

	sel, hasSel := a.Selection()
	if hasSel && sel.Start.Line != sel.End.Line {
		a.indentLines(sel)
		return
	}
	a.edit(sel, a.indentUnit(sel.Start.Col), "", nil)
}

func (a *Area) indentLines(sel Range) {
	last := sel.End.Line
	if sel.End.Col == 0 {
		last--
	}
	block := Range{Start: Pos{Line: sel.Start.Line}, End: Pos{Line: last, Col: len(a.lines[last])}}
	unit := a.indentUnit(0)

	lines := strings.Split(a.textIn(block), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = unit + l
		}
	}
	a.edit(block, strings.Join(lines, "\n"), "", nil)

	a.anchor = Pos{Line: block.Start.Line}
	a.cursor = Pos{Line: last, Col: len(a.lines[last])}
	a.sel = true
}

// Backspace deletes the selection or the rune before the cursor, joining
// lines at column 0. An empty auto-closed pair is removed as a whole.
func (a *Area) Backspace() {
	defer a.emit()

	if sel, ok := a.Selection(); ok {
		a.edit(sel, "", "", nil)
		return
	}

	c := a.cursor
	switch {
	case c.Col > 0:
		start := Pos{Line: c.Line, Col: c.Col - 1}
		end := c
		prev, _ := a.runeBefore(c)
		if next, ok := a.runeAt(c); ok && a.opts.AutoCloseBrackets {
			if closer, pair := closers[prev]; pair && closer == next {
				end.Col++
			}
		}
		a.edit(Range{Start: start, End: end}, "", "", nil)
	case c.Line > 0:
		prevLen := len(a.lines[c.Line-1])
		a.edit(Range{Start: Pos{Line: c.Line - 1, Col: prevLen}, End: c}, "", "", nil)
	}
}

// DeleteForward deletes the selection or the rune after the cursor,
// joining the next line at end of line.
func (a *Area) DeleteForward() {
	defer a.emit()

	if sel, ok := a.Selection(); ok {
		a.edit(sel, "", "", nil)
		return
	}

	c := a.cursor
	switch {
	case c.Col < len(a.lines[c.Line]):
		a.edit(Range{Start: c, End: Pos{Line: c.Line, Col: c.Col + 1}}, "", "", nil)
	case c.Line < len(a.lines)-1:
		a.edit(Range{Start: c, End: Pos{Line: c.Line + 1}}, "", "", nil)
	}
}

// Delete removes the selection. It does nothing without one.
func (a *Area) Delete() bool {
	sel, ok := a.Selection()
	if !ok {
		return false
	}
	a.edit(sel, "", "", nil)
	a.emit()
	return true
}
