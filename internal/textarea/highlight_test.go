package textarea

import (
	"strings"
	"testing"
)

func TestLexerFor(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Mode{Name: "javascript"}, "JavaScript"},
		{Mode{Name: "javascript", JSON: true}, "JSON"},
		{Mode{Name: "htmlmixed"}, "HTML"},
		{Mode{Name: "css"}, "CSS"},
		{Mode{Name: "markdown"}, "markdown"},
		{Mode{Name: "xml"}, "XML"},
		{Mode{Name: "go"}, "Go"},
	}
	for _, tt := range tests {
		got := LexerFor(tt.mode).Config().Name
		if !strings.EqualFold(got, tt.want) {
			t.Errorf("LexerFor(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}

	if LexerFor(Mode{Name: "no-such-language"}) == nil {
		t.Error("unknown mode must fall back to a lexer")
	}
}

func TestHighlight(t *testing.T) {
	a := New(WithClipboard(&MemoryClipboard{}))
	a.SetValue("/* a\nb */ var x = 1;")

	first := a.Highlight(0)
	if len(first) == 0 {
		t.Fatal("no spans for line 0")
	}
	second := a.Highlight(1)
	if len(second) == 0 || second[0].Start != 0 {
		t.Fatalf("line 1 spans = %+v", second)
	}
	if second[0].Color != first[0].Color {
		t.Errorf("comment continuation colour %q differs from comment start %q", second[0].Color, first[0].Color)
	}

	last := second[len(second)-1]
	if last.End != len([]rune(a.Line(1))) {
		t.Errorf("spans end at %d, line length %d", last.End, len([]rune(a.Line(1))))
	}

	if a.Highlight(-1) != nil || a.Highlight(5) != nil {
		t.Error("out of range lines must have no spans")
	}
}

func TestHighlightCacheInvalidation(t *testing.T) {
	a := New(WithClipboard(&MemoryClipboard{}))
	a.SetValue("x")
	before := a.Highlight(0)
	a.InsertText("yz")
	after := a.Highlight(0)
	if len(before) > 0 && len(after) > 0 && before[len(before)-1].End == after[len(after)-1].End {
		t.Error("cache not refreshed after edit")
	}
}

func TestThemeColors(t *testing.T) {
	a := New(WithClipboard(&MemoryClipboard{}))
	th := a.ThemeColors()
	if th.Background == "" || !strings.HasPrefix(th.Background, "#") {
		t.Errorf("monokai background = %q", th.Background)
	}
}
