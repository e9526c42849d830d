package textarea

import (
	"strings"
)

// Options are the widget settings.
type Options struct {
	Theme             string
	TabSize           int
	IndentWithTabs    bool
	LineNumbers       bool
	AutoCloseBrackets bool
	MatchBrackets     bool
	StyleActiveLine   bool
	LineWrapping      bool
}

// DefaultOptions returns the stock widget settings.
func DefaultOptions() Options {
	return Options{
		Theme:             "monokai",
		TabSize:           2,
		IndentWithTabs:    false,
		LineNumbers:       true,
		AutoCloseBrackets: true,
		MatchBrackets:     true,
		StyleActiveLine:   true,
		LineWrapping:      false,
	}
}

// Mode selects the highlighting language. JSON marks the JSON flavour of
// the javascript mode.
type Mode struct {
	Name string
	JSON bool
}

// DefaultMode is used when nothing better is known.
var DefaultMode = Mode{Name: "javascript"}

// String returns "javascript", or "json" for the JSON flavour.
func (m Mode) String() string {
	if m.JSON {
		return "json"
	}
	return m.Name
}

// Option configures New.
type Option func(*Area)

// WithOptions sets the widget settings.
func WithOptions(o Options) Option {
	return func(a *Area) { a.opts = o }
}

// WithMode sets the initial mode.
func WithMode(m Mode) Option {
	return func(a *Area) { a.mode = m }
}

// WithClipboard sets the clipboard used by Cut, Copy and Paste.
func WithClipboard(c Clipboard) Option {
	return func(a *Area) { a.clip = c }
}

// Area is the text editing widget.
type Area struct {
	lines [][]rune

	cursor Pos
	anchor Pos
	sel    bool
	goal   int

	mode Mode
	opts Options
	clip Clipboard

	hist     *history
	cleanSeq uint64

	rev      uint64
	hl       highlightCache
	onCursor []func(Pos)
}

// New creates an empty Area.
func New(opts ...Option) *Area {
	a := &Area{
		lines: [][]rune{{}},
		goal:  -1,
		mode:  DefaultMode,
		opts:  DefaultOptions(),
		hist:  newHistory(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.clip == nil {
		a.clip = NewClipboard()
	}
	if a.opts.TabSize < 1 {
		a.opts.TabSize = 1
	}
	return a
}

// SetValue replaces the content, moves the cursor to the start, clears the
// history and marks the area clean.
func (a *Area) SetValue(s string) {
	s = normalizeNewlines(s)
	parts := strings.Split(s, "\n")
	a.lines = make([][]rune, len(parts))
	for i, p := range parts {
		a.lines[i] = []rune(p)
	}
	a.cursor = Pos{}
	a.sel = false
	a.goal = -1
	a.hist.reset()
	a.cleanSeq = 0
	a.rev++
	a.emit()
}

// Value returns the content joined with "\n".
func (a *Area) Value() string {
	var b strings.Builder
	for i, l := range a.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(l))
	}
	return b.String()
}

// LineCount returns the number of lines, at least 1.
func (a *Area) LineCount() int {
	return len(a.lines)
}

// Line returns line i, or "" when out of range.
func (a *Area) Line(i int) string {
	if i < 0 || i >= len(a.lines) {
		return ""
	}
	return string(a.lines[i])
}

// LineRunes returns line i without copying. Callers must not modify it.
func (a *Area) LineRunes(i int) []rune {
	if i < 0 || i >= len(a.lines) {
		return nil
	}
	return a.lines[i]
}

// Cursor returns the cursor position.
func (a *Area) Cursor() Pos {
	return a.cursor
}

// Selection returns the normalized selection and whether one exists.
func (a *Area) Selection() (Range, bool) {
	if !a.sel || a.anchor == a.cursor {
		return Range{Start: a.cursor, End: a.cursor}, false
	}
	return Range{Start: a.anchor, End: a.cursor}.normalize(), true
}

// SelectedText returns the selected text, or "".
func (a *Area) SelectedText() string {
	r, ok := a.Selection()
	if !ok {
		return ""
	}
	return a.textIn(r)
}

// Modified reports whether the content differs from the last clean mark.
func (a *Area) Modified() bool {
	return a.hist.top() != a.cleanSeq
}

// MarkClean records the current state as unmodified.
func (a *Area) MarkClean() {
	a.MarkCleanAt(a.Checkpoint())
}

// Checkpoint returns a token for the current state. Later edits start a
// new undo step, so the token stays valid until the history is reset.
func (a *Area) Checkpoint() uint64 {
	a.hist.seal()
	return a.hist.top()
}

// MarkCleanAt records the state identified by a Checkpoint token as
// unmodified. Edits made after the checkpoint keep the area modified.
func (a *Area) MarkCleanAt(token uint64) {
	a.cleanSeq = token
}

// Mode returns the highlighting mode.
func (a *Area) Mode() Mode {
	return a.mode
}

// SetMode changes the highlighting mode.
func (a *Area) SetMode(m Mode) {
	a.mode = m
}

// Options returns the widget settings.
func (a *Area) Options() Options {
	return a.opts
}

// SetOptions changes the widget settings.
func (a *Area) SetOptions(o Options) {
	if o.TabSize < 1 {
		o.TabSize = 1
	}
	a.opts = o
}

// Revision increases on every content change.
func (a *Area) Revision() uint64 {
	return a.rev
}

// OnCursorActivity registers fn to run after the cursor, selection or
// content changes.
func (a *Area) OnCursorActivity(fn func(Pos)) {
	a.onCursor = append(a.onCursor, fn)
}

func (a *Area) emit() {
	for _, fn := range a.onCursor {
		fn(a.cursor)
	}
}

func (a *Area) clamp(p Pos) Pos {
	if p.Line < 0 {
		return Pos{}
	}
	if p.Line >= len(a.lines) {
		last := len(a.lines) - 1
		return Pos{Line: last, Col: len(a.lines[last])}
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if n := len(a.lines[p.Line]); p.Col > n {
		p.Col = n
	}
	return p
}

func (a *Area) textIn(r Range) string {
	r = r.normalize()
	if r.Start.Line == r.End.Line {
		return string(a.lines[r.Start.Line][r.Start.Col:r.End.Col])
	}
	var b strings.Builder
	b.WriteString(string(a.lines[r.Start.Line][r.Start.Col:]))
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		b.WriteByte('\n')
		b.WriteString(string(a.lines[i]))
	}
	b.WriteByte('\n')
	b.WriteString(string(a.lines[r.End.Line][:r.End.Col]))
	return b.String()
}

// replace swaps the text in r for text and returns the end of the
// inserted text. It does not touch history or the cursor.
func (a *Area) replace(r Range, text string) Pos {
	r = r.normalize()
	parts := strings.Split(text, "\n")
	inserted := make([][]rune, len(parts))
	for i, p := range parts {
		inserted[i] = []rune(p)
	}

	head := a.lines[r.Start.Line][:r.Start.Col]
	tail := a.lines[r.End.Line][r.End.Col:]
	last := len(inserted) - 1

	end := Pos{Line: r.Start.Line + last, Col: len(inserted[last])}
	if last == 0 {
		end.Col += r.Start.Col
	}

	first := make([]rune, 0, len(head)+len(inserted[0]))
	first = append(append(first, head...), inserted[0]...)
	inserted[0] = first
	inserted[last] = append(append([]rune(nil), inserted[last]...), tail...)

	rest := a.lines[r.End.Line+1:]
	lines := make([][]rune, 0, r.Start.Line+len(inserted)+len(rest))
	lines = append(lines, a.lines[:r.Start.Line]...)
	lines = append(lines, inserted...)
	lines = append(lines, rest...)
	a.lines = lines
	a.rev++
	return end
}

// edit replaces r with text as one undoable step. place chooses the
// cursor from the inserted span; nil puts it at the end.
func (a *Area) edit(r Range, text, group string, place func(start, end Pos) Pos) {
	r = Range{Start: a.clamp(r.Start), End: a.clamp(r.End)}.normalize()
	old := a.textIn(r)
	if old == "" && text == "" {
		return
	}

	before := a.cursor
	end := a.replace(r, text)
	a.cursor = end
	if place != nil {
		a.cursor = a.clamp(place(r.Start, end))
	}
	a.sel = false
	a.goal = -1

	a.hist.push(&operation{
		start:   r.Start,
		oldText: old,
		newText: text,
		before:  before,
		after:   a.cursor,
		group:   group,
	})
}

// Undo reverts the newest step.
func (a *Area) Undo() error {
	op, err := a.hist.popUndo()
	if err != nil {
		return err
	}
	a.replace(Range{Start: op.start, End: endOf(op.start, op.newText)}, op.oldText)
	a.cursor = a.clamp(op.before)
	a.sel = false
	a.goal = -1
	a.emit()
	return nil
}

// Redo reapplies the newest undone step.
func (a *Area) Redo() error {
	op, err := a.hist.popRedo()
	if err != nil {
		return err
	}
	a.replace(Range{Start: op.start, End: endOf(op.start, op.oldText)}, op.newText)
	a.cursor = a.clamp(op.after)
	a.sel = false
	a.goal = -1
	a.emit()
	return nil
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
