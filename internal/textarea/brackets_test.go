package textarea

import "testing"

func TestMatchBracket(t *testing.T) {
	src := "f(a, [b]) {\n  g()\n}"
	tests := []struct {
		name   string
		cursor Pos
		want   Pos
		ok     bool
	}{
		{"after open paren", Pos{0, 2}, Pos{0, 8}, true},
		{"on open paren", Pos{0, 1}, Pos{0, 8}, true},
		{"after close bracket", Pos{0, 8}, Pos{0, 5}, true},
		{"brace across lines", Pos{0, 11}, Pos{2, 0}, true},
		{"closing brace backwards", Pos{2, 1}, Pos{0, 10}, true},
		{"no bracket", Pos{0, 3}, Pos{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(WithClipboard(&MemoryClipboard{}))
			a.SetValue(src)
			a.SetCursor(tt.cursor)
			got, ok := a.MatchBracket()
			if ok != tt.ok || got != tt.want {
				t.Errorf("MatchBracket() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMatchBracketUnbalanced(t *testing.T) {
	a := New(WithClipboard(&MemoryClipboard{}))
	a.SetValue("((x)")
	a.SetCursor(Pos{0, 1})
	if _, ok := a.MatchBracket(); ok {
		t.Error("unbalanced open paren should not match")
	}

	from, to, ok := a.BracketPair()
	if ok {
		t.Errorf("BracketPair() = %v %v", from, to)
	}
}
