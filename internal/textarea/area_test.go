package textarea

import (
	"testing"
)

func newArea(t *testing.T, value string) *Area {
	t.Helper()
	a := New(WithClipboard(&MemoryClipboard{}))
	a.SetValue(value)
	return a
}

func TestDefaults(t *testing.T) {
	a := New(WithClipboard(&MemoryClipboard{}))
	o := a.Options()
	if o.Theme != "monokai" || o.TabSize != 2 || o.IndentWithTabs || !o.LineNumbers ||
		!o.AutoCloseBrackets || !o.MatchBrackets || !o.StyleActiveLine || o.LineWrapping {
		t.Errorf("DefaultOptions = %+v", o)
	}
	if a.Mode() != DefaultMode || a.Mode().String() != "javascript" {
		t.Errorf("Mode = %+v", a.Mode())
	}
	if a.Value() != "" || a.LineCount() != 1 || a.Modified() {
		t.Errorf("new area not empty and clean")
	}
}

func TestSetValue(t *testing.T) {
	a := newArea(t, "one\r\ntwo\rthree")
	if got := a.Value(); got != "one\ntwo\nthree" {
		t.Errorf("Value() = %q", got)
	}
	if a.LineCount() != 3 || a.Line(1) != "two" || a.Line(9) != "" {
		t.Errorf("lines wrong: %d %q", a.LineCount(), a.Line(1))
	}
	if a.Cursor() != (Pos{}) || a.Modified() {
		t.Errorf("cursor %v modified %v", a.Cursor(), a.Modified())
	}
}

func TestInsertAndModified(t *testing.T) {
	a := newArea(t, "")
	a.InsertRune('h')
	a.InsertRune('i')
	if a.Value() != "hi" || a.Cursor() != (Pos{0, 2}) {
		t.Fatalf("Value=%q Cursor=%v", a.Value(), a.Cursor())
	}
	if !a.Modified() {
		t.Error("expected modified after typing")
	}
	a.MarkClean()
	if a.Modified() {
		t.Error("expected clean after MarkClean")
	}
	a.InsertRune('!')
	if !a.Modified() {
		t.Error("typing after MarkClean must modify")
	}
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.Value() != "hi" || a.Modified() {
		t.Errorf("after undo Value=%q Modified=%v", a.Value(), a.Modified())
	}
}

func TestInsertTextMultiline(t *testing.T) {
	a := newArea(t, "ac")
	a.SetCursor(Pos{0, 1})
	a.InsertText("1\n2\r\n3")
	if a.Value() != "a1\n2\n3c" {
		t.Errorf("Value() = %q", a.Value())
	}
	if a.Cursor() != (Pos{2, 1}) {
		t.Errorf("Cursor() = %v", a.Cursor())
	}
}

func TestInsertReplacesSelection(t *testing.T) {
	a := newArea(t, "hello world")
	a.Select(Pos{0, 0}, Pos{0, 5})
	a.InsertText("bye")
	if a.Value() != "bye world" {
		t.Errorf("Value() = %q", a.Value())
	}
	if _, ok := a.Selection(); ok {
		t.Error("selection should be cleared")
	}
}

func TestAutoCloseBrackets(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		cursor Pos
		typed  string
		want   string
		at     Pos
	}{
		{"paren pair", "", Pos{}, "(", "()", Pos{0, 1}},
		{"step over closer", "", Pos{}, "()", "()", Pos{0, 2}},
		{"nested", "", Pos{}, "([{", "([{}])", Pos{0, 3}},
		{"quote pair", "x = ", Pos{0, 4}, `"`, `x = ""`, Pos{0, 5}},
		{"quote after word", "don", Pos{0, 3}, "'", "don'", Pos{0, 4}},
		{"opener before word", "abc", Pos{}, "(", "(abc", Pos{0, 1}},
		{"plain rune", "", Pos{}, "a", "a", Pos{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newArea(t, tt.start)
			a.SetCursor(tt.cursor)
			for _, r := range tt.typed {
				a.InsertRune(r)
			}
			if a.Value() != tt.want || a.Cursor() != tt.at {
				t.Errorf("got %q at %v, want %q at %v", a.Value(), a.Cursor(), tt.want, tt.at)
			}
		})
	}
}

func TestAutoCloseDisabled(t *testing.T) {
	a := newArea(t, "")
	o := a.Options()
	o.AutoCloseBrackets = false
	a.SetOptions(o)
	a.InsertRune('(')
	if a.Value() != "(" {
		t.Errorf("Value() = %q", a.Value())
	}
}

func TestAutoCloseWrapsSelection(t *testing.T) {
	a := newArea(t, "abc")
	a.Select(Pos{0, 0}, Pos{0, 3})
	a.InsertRune('[')
	if a.Value() != "[abc]" || a.Cursor() != (Pos{0, 4}) {
		t.Errorf("got %q at %v", a.Value(), a.Cursor())
	}
}

func TestNewlineKeepsIndent(t *testing.T) {
	a := newArea(t, "    foo")
	a.End(false)
	a.Newline()
	if a.Value() != "    foo\n    " || a.Cursor() != (Pos{1, 4}) {
		t.Errorf("got %q at %v", a.Value(), a.Cursor())
	}
}

func TestNewlineBetweenBrackets(t *testing.T) {
	a := newArea(t, "f() ")
	a.SetCursor(Pos{0, 4})
	a.InsertRune('{')
	a.InsertRune('\n')
	if a.Value() != "f() {\n  \n}" {
		t.Errorf("Value() = %q", a.Value())
	}
	if a.Cursor() != (Pos{1, 2}) {
		t.Errorf("Cursor() = %v", a.Cursor())
	}
}

func TestBackspace(t *testing.T) {
	a := newArea(t, "ab\ncd")
	a.SetCursor(Pos{1, 0})
	a.Backspace()
	if a.Value() != "abcd" || a.Cursor() != (Pos{0, 2}) {
		t.Errorf("join: got %q at %v", a.Value(), a.Cursor())
	}
	a.Backspace()
	if a.Value() != "acd" {
		t.Errorf("delete: got %q", a.Value())
	}

	a.SetValue("")
	a.InsertRune('(')
	a.Backspace()
	if a.Value() != "" {
		t.Errorf("pair: got %q", a.Value())
	}

	a.SetValue("x")
	a.Backspace()
	if a.Value() != "x" {
		t.Errorf("at start: got %q", a.Value())
	}
}

func TestDeleteForward(t *testing.T) {
	a := newArea(t, "ab\ncd")
	a.SetCursor(Pos{0, 2})
	a.DeleteForward()
	if a.Value() != "abcd" {
		t.Errorf("join: got %q", a.Value())
	}
	a.DeleteForward()
	if a.Value() != "abd" {
		t.Errorf("delete: got %q", a.Value())
	}
	a.DocEnd(false)
	a.DeleteForward()
	if a.Value() != "abd" {
		t.Errorf("at end: got %q", a.Value())
	}
}

func TestTab(t *testing.T) {
	a := newArea(t, "x")
	a.End(false)
	a.Tab()
	if a.Value() != "x " {
		t.Errorf("next stop: got %q", a.Value())
	}

	a.SetValue("a\nb\n")
	a.Select(Pos{0, 0}, Pos{2, 0})
	a.Tab()
	if a.Value() != "  a\n  b\n" {
		t.Errorf("block: got %q", a.Value())
	}
	if sel, ok := a.Selection(); !ok || sel.Start != (Pos{0, 0}) || sel.End != (Pos{1, 3}) {
		t.Errorf("selection after block indent = %v %v", sel, ok)
	}

	o := a.Options()
	o.IndentWithTabs = true
	a.SetOptions(o)
	a.SetValue("")
	a.Tab()
	if a.Value() != "\t" {
		t.Errorf("tabs: got %q", a.Value())
	}
}

func TestUndoRedo(t *testing.T) {
	a := newArea(t, "")
	if err := a.Undo(); err != ErrNothingToUndo {
		t.Errorf("Undo on empty = %v", err)
	}
	for _, r := range "abc" {
		a.InsertRune(r)
	}
	a.Newline()
	a.InsertText("def")

	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.Value() != "abc\n" {
		t.Errorf("undo 1: %q", a.Value())
	}
	a.Undo()
	if a.Value() != "abc" {
		t.Errorf("undo 2: %q", a.Value())
	}
	a.Undo()
	if a.Value() != "" || a.Cursor() != (Pos{}) {
		t.Errorf("undo 3 (typing merged): %q %v", a.Value(), a.Cursor())
	}
	if a.Modified() {
		t.Error("fully undone should be clean")
	}

	a.Redo()
	a.Redo()
	if a.Value() != "abc\n" || a.Cursor() != (Pos{1, 0}) {
		t.Errorf("redo: %q %v", a.Value(), a.Cursor())
	}

	a.InsertRune('x')
	if err := a.Redo(); err != ErrNothingToRedo {
		t.Errorf("redo after edit = %v", err)
	}
}

func TestCursorActivity(t *testing.T) {
	a := newArea(t, "abc")
	var seen []Pos
	a.OnCursorActivity(func(p Pos) { seen = append(seen, p) })

	a.Move(Right, false)
	a.InsertRune('x')
	a.End(false)

	want := []Pos{{0, 1}, {0, 2}, {0, 4}}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestRevision(t *testing.T) {
	a := newArea(t, "")
	r := a.Revision()
	a.Move(Right, false)
	if a.Revision() != r {
		t.Error("movement must not bump revision")
	}
	a.InsertRune('a')
	if a.Revision() == r {
		t.Error("edit must bump revision")
	}
}

func TestCheckpoint(t *testing.T) {
	a := newArea(t, "")
	a.InsertRune('a')
	token := a.Checkpoint()
	a.InsertRune('b')
	a.MarkCleanAt(token)
	if !a.Modified() {
		t.Error("edit after checkpoint must stay modified")
	}
	a.Undo()
	if a.Modified() {
		t.Error("undoing back to the checkpoint must be clean")
	}
}

func TestTrimmedHistoryStaysModified(t *testing.T) {
	a := newArea(t, "")
	for i := 0; i < maxHistory+5; i++ {
		a.InsertText("x")
	}
	for a.Undo() == nil {
	}
	if a.Value() == "" {
		t.Fatal("trimmed steps must not be undoable")
	}
	if !a.Modified() {
		t.Errorf("undo past the trim point reports clean with %d chars left", len(a.Value()))
	}

	a.MarkClean()
	a.InsertText("y")
	a.Undo()
	if a.Modified() {
		t.Error("undoing back to a clean checkpoint on a trimmed history must be clean")
	}
}
