package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/keypad/internal/renderer/core"
	"github.com/dshills/keypad/internal/renderer/viewport"
	"github.com/dshills/keypad/internal/textarea"
	"github.com/dshills/keypad/internal/workspace"
)

// rowRef records which part of the document an editor row shows. line is
// -1 for rows past the end.
type rowRef struct {
	line       int
	start, end int
	scroll     int
}

// tabHit is the column span of a tab label.
type tabHit struct {
	left, right int
	index       int
}

// maxTabLabel bounds the width of a tab name.
const maxTabLabel = 24

// draw repaints the whole screen.
func (a *App) draw() {
	w, h := a.be.Size()
	a.lay = computeLayout(w, h, a.fullscreen, a.devtools.Load())
	a.be.Clear()

	a.drawMenuBar()
	a.drawTabBar()
	cx, cy, cursor := a.drawEditor()
	a.drawDevtools()
	if px, ok := a.drawMessage(); ok {
		cx, cy, cursor = px, a.lay.message.Top, true
	}
	a.drawStatus()
	if a.menus.isOpen() {
		a.drawDropdown()
		cursor = false
	}

	if cursor {
		a.be.ShowCursor(cx, cy)
	} else {
		a.be.HideCursor()
	}
	a.be.Show()
}

// putText writes s at (x, y), stopping before column right. It returns the
// column after the last cell written.
func (a *App) putText(x, y, right int, s string, style core.Style) int {
	for _, r := range s {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > right {
			break
		}
		a.be.SetCell(x, y, core.Cell{Rune: r, Width: w, Style: style})
		if w == 2 {
			a.be.SetCell(x+1, y, core.Cell{Style: style})
		}
		x += w
	}
	return x
}

func (a *App) fill(r core.Rect, style core.Style) {
	a.be.Fill(r, core.Cell{Rune: ' ', Width: 1, Style: style})
}

func (a *App) drawMenuBar() {
	bar := a.lay.menuBar
	if bar.IsEmpty() {
		return
	}
	a.fill(bar, a.pal.menuStyle())
	for i, span := range a.menus.titleSpans() {
		style := a.pal.menuStyle()
		if i == a.menus.open {
			style = a.pal.menuSelected()
		}
		a.putText(span[0], bar.Top, bar.Right, " "+a.menus.menus[i].Label+" ", style)
	}
}

func tabLabel(t *workspace.Tab) string {
	label := " " + core.Truncate(t.Name, maxTabLabel)
	if t.Doc.Modified() {
		label += " *"
	}
	return label + " "
}

// drawTabBar draws the tab labels, scrolled so the active tab is visible.
func (a *App) drawTabBar() {
	a.tabHits = a.tabHits[:0]
	bar := a.lay.tabBar
	if bar.IsEmpty() {
		return
	}
	a.fill(bar, a.pal.tabStyle(false))

	tabs := a.ws.Tabs()
	active := a.ws.ActiveIndex()
	labels := make([]string, len(tabs))
	widths := make([]int, len(tabs))
	for i, t := range tabs {
		labels[i] = tabLabel(t)
		widths[i] = core.StringWidth(labels[i])
	}

	first := 0
	if active >= 0 {
		used := 0
		for i := active; i >= 0; i-- {
			if used+widths[i] > bar.Width()-1 && i != active {
				break
			}
			used += widths[i]
			first = i
		}
	}

	x := bar.Left
	if first > 0 {
		x = a.putText(x, bar.Top, bar.Right, "<", a.pal.tabStyle(false))
	}
	for i := first; i < len(tabs); i++ {
		if x+widths[i] > bar.Right {
			a.putText(bar.Right-1, bar.Top, bar.Right, ">", a.pal.tabStyle(false))
			break
		}
		end := a.putText(x, bar.Top, bar.Right, labels[i], a.pal.tabStyle(i == active))
		a.tabHits = append(a.tabHits, tabHit{left: x, right: end, index: i})
		x = end
	}
}

// drawEditor draws the active tab and returns the cursor's screen position.
func (a *App) drawEditor() (cx, cy int, visible bool) {
	ed := a.lay.editor
	a.rows = a.rows[:0]
	if ed.IsEmpty() {
		return 0, 0, false
	}
	a.fill(ed, a.pal.editor())

	tab := a.ws.Active()
	if tab == nil {
		hint := workspace.NoFileOpen
		x := ed.Left + max((ed.Width()-core.StringWidth(hint))/2, 0)
		a.putText(x, ed.Top+ed.Height()/2, ed.Right, hint, a.pal.gutter(false))
		return 0, 0, false
	}

	doc := tab.Doc
	opts := doc.Options()
	gw := gutterWidth(doc.LineCount(), opts.LineNumbers)
	if gw >= ed.Width() {
		gw = 0
	}
	textX := ed.Left + gw
	textW := ed.Width() - gw
	a.textX = textX

	v := a.view(tab)
	v.Resize(textW, ed.Height())
	v.SetLineCount(doc.LineCount())
	cur := doc.Cursor()
	if a.reveal {
		if opts.LineWrapping {
			revealWrapped(v, doc, textW)
		} else {
			v.ScrollToReveal(cur.Line, displayCol(doc.LineRunes(cur.Line), cur.Col, opts.TabSize))
		}
		a.reveal = false
	}

	sel, hasSel := doc.Selection()
	var brackets []textarea.Pos
	if opts.MatchBrackets {
		if from, to, ok := doc.BracketPair(); ok {
			brackets = []textarea.Pos{from, to}
		}
	}

	y := ed.Top
	for line := v.TopLine(); y < ed.Bottom; line++ {
		if line >= doc.LineCount() {
			a.rows = append(a.rows, rowRef{line: -1})
			y++
			continue
		}
		runes := doc.LineRunes(line)
		base := a.pal.editor()
		gutter := a.pal.gutter(line == cur.Line)
		if opts.StyleActiveLine && line == cur.Line && !hasSel {
			base.Background = a.pal.lineHighlight
			gutter.Background = a.pal.lineHighlight
			a.fill(core.RectFromSize(y, ed.Left, 1, ed.Width()), base)
		}

		starts := []int{0}
		scroll := v.LeftColumn()
		if opts.LineWrapping {
			starts = wrapLine(runes, textW, opts.TabSize)
			scroll = 0
		}

		seg := lineStyler{pal: a.pal, base: base, spans: doc.Highlight(line), line: line, brackets: brackets}
		if hasSel {
			seg.sel = &sel
		}
		for k, start := range starts {
			if y >= ed.Bottom {
				break
			}
			end := len(runes)
			if k+1 < len(starts) {
				end = starts[k+1]
			}
			if gw > 0 && k == 0 {
				num := strconv.Itoa(line + 1)
				a.putText(textX-1-core.StringWidth(num), y, textX, num, gutter)
			}
			a.drawSegment(y, textX, textW, runes[start:end], start, scroll, opts.TabSize, &seg)

			a.rows = append(a.rows, rowRef{line: line, start: start, end: end, scroll: scroll})
			if line == cur.Line && cur.Col >= start && (cur.Col < end || k == len(starts)-1) {
				x := textX + displayCol(runes[start:], cur.Col-start, opts.TabSize) - scroll
				if x >= textX && x < ed.Right {
					cx, cy, visible = x, y, true
				}
			}
			y++
		}
	}
	return cx, cy, visible
}

// drawSegment draws runes, which start at rune column offset of their
// line, skipping the first scroll display columns.
func (a *App) drawSegment(y, textX, textW int, runes []rune, offset, scroll, tabSize int, st *lineStyler) {
	d := 0
	for i, r := range runes {
		w := runeCells(r, d, tabSize)
		sx := d - scroll
		d += w
		if sx+w <= 0 {
			continue
		}
		if sx >= textW {
			return
		}
		if w == 0 {
			continue
		}
		style := st.at(offset + i)
		switch {
		case r == '\t':
			for k := max(sx, 0); k < sx+w && k < textW; k++ {
				a.be.SetCell(textX+k, y, core.Cell{Rune: ' ', Width: 1, Style: style})
			}
		case sx < 0 || sx+w > textW:
			// A wide rune cut by an edge.
			a.be.SetCell(textX+max(sx, 0), y, core.Cell{Rune: ' ', Width: 1, Style: style})
		default:
			a.be.SetCell(textX+sx, y, core.Cell{Rune: r, Width: w, Style: style})
			if w == 2 {
				a.be.SetCell(textX+sx+1, y, core.Cell{Style: style})
			}
		}
	}
}

// lineStyler works out the style of each rune of one line.
type lineStyler struct {
	pal      palette
	base     core.Style
	spans    []textarea.Span
	line     int
	sel      *textarea.Range
	brackets []textarea.Pos
}

func (s *lineStyler) at(col int) core.Style {
	style := s.base
	for _, sp := range s.spans {
		if col >= sp.Start && col < sp.End {
			style.Foreground = s.pal.color(sp.Color)
			if sp.Bold {
				style = style.With(core.AttrBold)
			}
			if sp.Italic {
				style = style.With(core.AttrItalic)
			}
			if sp.Underline {
				style = style.With(core.AttrUnderline)
			}
			break
		}
	}
	p := textarea.Pos{Line: s.line, Col: col}
	if s.sel != nil && s.sel.Contains(p) {
		style.Background = s.pal.selection
	}
	for _, b := range s.brackets {
		if b == p {
			style = style.With(core.AttrUnderline).Bold()
		}
	}
	return style
}

// revealWrapped scrolls a wrapping viewport so the cursor's visual row is
// on screen.
func revealWrapped(v *viewport.Viewport, doc *textarea.Area, width int) {
	cur := doc.Cursor()
	tabSize := doc.Options().TabSize
	top := v.TopLine()
	if cur.Line < top {
		v.SetTopLine(cur.Line)
		return
	}

	rowsOf := func(line int) int {
		return len(wrapLine(doc.LineRunes(line), width, tabSize))
	}
	starts := wrapLine(doc.LineRunes(cur.Line), width, tabSize)
	k := 0
	for i, s := range starts {
		if s <= cur.Col {
			k = i
		}
	}

	need := k + 1
	for l := top; l < cur.Line; l++ {
		need += rowsOf(l)
	}
	for need > v.Height() && top < cur.Line {
		need -= rowsOf(top)
		top++
	}
	v.SetTopLine(top)
}

func (a *App) drawDevtools() {
	panel := a.lay.devtools
	if panel.IsEmpty() {
		return
	}
	style := a.pal.menuStyle()
	a.fill(panel, style)
	title := fmt.Sprintf(" Bridge traffic (%d) ", a.traffic.Len())
	a.putText(panel.Left, panel.Top, panel.Right, title, style.Bold())
	for i, e := range a.traffic.Last(panel.Height() - 1) {
		a.putText(panel.Left+1, panel.Top+1+i, panel.Right, core.Truncate(e.String(), panel.Width()-1), style)
	}
}

// drawMessage draws the prompt or the transient message. With a file
// prompt it returns the column of the input cursor.
func (a *App) drawMessage() (int, bool) {
	line := a.lay.message
	if line.IsEmpty() {
		return 0, false
	}
	a.fill(line, a.pal.editor())

	p := a.prompts.current()
	if p == nil {
		if a.message.text != "" {
			text := core.Truncate(a.message.text, line.Width())
			a.putText(line.Left, line.Top, line.Right, text, a.pal.messageStyle(a.message.isError()))
		}
		return 0, false
	}

	label := p.label()
	if p.isMessage() {
		a.putText(line.Left, line.Top, line.Right, core.Truncate(label, line.Width()), a.pal.editor().Bold())
		return 0, false
	}
	x := a.putText(line.Left, line.Top, line.Right, core.Truncate(label, line.Width()/2), a.pal.editor().Bold())

	// Keep the end of a long path and the cursor in view.
	room := line.Right - x - 1
	input := p.input
	cursor := displayCol(input, p.cursor, 1)
	skip := 0
	if room > 0 && cursor > room {
		skip = runeColAt(input, cursor-room, 1) + 1
	}
	visible := string(input[min(skip, len(input)):])
	a.putText(x, line.Top, line.Right, visible, a.pal.editor())
	return x + cursor - displayCol(input, min(skip, len(input)), 1), true
}

func (a *App) drawStatus() {
	bar := a.lay.status
	if bar.IsEmpty() {
		return
	}
	style := a.pal.statusStyle()
	a.fill(bar, style)

	st := a.ws.StatusBar()
	left := " " + st.FileInfo
	if st.Modified {
		left += " [+]"
	}
	var right []string
	if st.Mode != "" {
		right = append(right, st.Mode)
	}
	right = append(right, st.Cursor)
	rightText := strings.Join(right, "  ") + " "
	rw := core.StringWidth(rightText)

	a.putText(bar.Left, bar.Top, bar.Right, core.Truncate(left, bar.Width()-rw-1), style)
	if rw < bar.Width() {
		a.putText(bar.Right-rw, bar.Top, bar.Right, rightText, style)
	}
}

func (a *App) drawDropdown() {
	rect := a.menus.dropdownRect(a.lay.menuBar.Bottom, a.lay.width)
	items := a.menus.items()
	for i, it := range items {
		y := rect.Top + i
		if y >= a.lay.height {
			break
		}
		style := a.pal.menuStyle()
		if i == a.menus.sel {
			style = a.pal.menuSelected()
		}
		a.fill(core.RectFromSize(y, rect.Left, 1, rect.Width()), style)
		if it.Type == "separator" {
			a.putText(rect.Left, y, rect.Right, strings.Repeat("─", rect.Width()), style)
			continue
		}
		if !selectable(it) {
			style = style.With(core.AttrDim)
		}
		a.putText(rect.Left+1, y, rect.Right, core.Truncate(it.Label, rect.Width()-2), style)
		if hint := a.menus.hint[it.ID]; hint != "" {
			hw := core.StringWidth(hint)
			a.putText(rect.Right-hw-1, y, rect.Right, hint, style)
		}
	}
}
