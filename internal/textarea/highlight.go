package textarea

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Span styles columns [Start, End) of one line. Colors are "#rrggbb", or
// "" for the theme default.
type Span struct {
	Start     int
	End       int
	Color     string
	Bold      bool
	Italic    bool
	Underline bool
}

// Theme holds the chrome colours of a highlighting style.
type Theme struct {
	Foreground    string
	Background    string
	LineHighlight string
	LineNumber    string
}

// lexerNames maps editor modes to chroma lexer names.
var lexerNames = map[string]string{
	"javascript": "javascript",
	"htmlmixed":  "html",
	"css":        "css",
	"markdown":   "markdown",
	"xml":        "xml",
}

// LexerFor returns the chroma lexer for m, falling back to plain text.
func LexerFor(m Mode) chroma.Lexer {
	name := m.Name
	if m.JSON {
		name = "json"
	} else if n, ok := lexerNames[name]; ok {
		name = n
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// StyleFor returns the chroma style for a theme name, falling back to the
// chroma default.
func StyleFor(theme string) *chroma.Style {
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	return style
}

func colour(c chroma.Colour) string {
	if !c.IsSet() {
		return ""
	}
	return c.String()
}

// ThemeColors returns the chrome colours of the configured theme.
func (a *Area) ThemeColors() Theme {
	style := StyleFor(a.opts.Theme)
	bg := style.Get(chroma.Background)
	return Theme{
		Foreground:    colour(bg.Colour),
		Background:    colour(bg.Background),
		LineHighlight: colour(style.Get(chroma.LineHighlight).Background),
		LineNumber:    colour(style.Get(chroma.LineNumbers).Colour),
	}
}

type highlightCache struct {
	rev   uint64
	mode  Mode
	theme string
	valid bool
	lines [][]Span
}

// Highlight returns the styled spans of line i. The whole document is
// tokenised once per revision so multi-line tokens are coloured correctly.
func (a *Area) Highlight(i int) []Span {
	if i < 0 || i >= len(a.lines) {
		return nil
	}
	c := &a.hl
	if !c.valid || c.rev != a.rev || c.mode != a.mode || c.theme != a.opts.Theme {
		c.lines = a.tokenise()
		c.rev, c.mode, c.theme, c.valid = a.rev, a.mode, a.opts.Theme, true
	}
	if i >= len(c.lines) {
		return nil
	}
	return c.lines[i]
}

func (a *Area) tokenise() [][]Span {
	out := make([][]Span, len(a.lines))
	iter, err := LexerFor(a.mode).Tokenise(nil, a.Value())
	if err != nil {
		return out
	}
	style := StyleFor(a.opts.Theme)

	line, col := 0, 0
	for _, tok := range iter.Tokens() {
		entry := style.Get(tok.Type)
		for j, part := range strings.Split(tok.Value, "\n") {
			if j > 0 {
				line++
				col = 0
			}
			n := len([]rune(part))
			if n > 0 && line < len(out) {
				out[line] = append(out[line], Span{
					Start:     col,
					End:       col + n,
					Color:     colour(entry.Colour),
					Bold:      entry.Bold == chroma.Yes,
					Italic:    entry.Italic == chroma.Yes,
					Underline: entry.Underline == chroma.Yes,
				})
			}
			col += n
		}
	}
	return out
}
