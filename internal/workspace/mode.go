package workspace

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/keypad/internal/textarea"
)

var builtinModes = map[string]textarea.Mode{
	"js":   {Name: "javascript"},
	"html": {Name: "htmlmixed"},
	"css":  {Name: "css"},
	"json": {Name: "javascript", JSON: true},
	"md":   {Name: "markdown"},
	"xml":  {Name: "xml"},
}

// Extension returns the lowercased text after the last dot, or the whole
// lowercased name when there is no dot.
func Extension(fileName string) string {
	if i := strings.LastIndexByte(fileName, '.'); i >= 0 {
		return strings.ToLower(fileName[i+1:])
	}
	return strings.ToLower(fileName)
}

// ParseMode turns a configured mode name into a Mode. "json" selects the
// JSON flavour of javascript.
func ParseMode(name string) textarea.Mode {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "json" {
		return textarea.Mode{Name: "javascript", JSON: true}
	}
	return textarea.Mode{Name: name}
}

// ModeFor picks the editor mode for fileName: the built-in extension table
// first, then overrides keyed by extension, then a chroma filename match,
// and finally javascript.
func ModeFor(fileName string, overrides map[string]string) textarea.Mode {
	ext := Extension(fileName)
	if m, ok := builtinModes[ext]; ok {
		return m
	}
	if name, ok := overrides[ext]; ok && name != "" {
		return ParseMode(name)
	}
	if lexer := lexers.Match(fileName); lexer != nil {
		return textarea.Mode{Name: strings.ToLower(lexer.Config().Name)}
	}
	return textarea.DefaultMode
}

// BaseName returns the last element of path, split on '/' and '\'.
func BaseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
