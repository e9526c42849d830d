package menu

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Accelerator parse errors.
var (
	ErrEmptyAccelerator   = errors.New("empty accelerator")
	ErrInvalidAccelerator = errors.New("invalid accelerator")
)

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Super, or Cmd on macOS).
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns the modifiers joined by "+", Ctrl first.
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Terminals have no Command key, so Cmd and CmdOrCtrl both mean Control.
var modifierNames = map[string]Modifier{
	"cmdorctrl":        ModCtrl,
	"commandorcontrol": ModCtrl,
	"ctrl":             ModCtrl,
	"control":          ModCtrl,
	"cmd":              ModCtrl,
	"command":          ModCtrl,
	"shift":            ModShift,
	"alt":              ModAlt,
	"option":           ModAlt,
	"altgr":            ModAlt,
	"meta":             ModMeta,
	"super":            ModMeta,
}

// Key identifies a non-character key. Character keys use KeyRune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = [...]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyEscape:    "Esc",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}

var keyAliases = map[string]Key{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"tab":       KeyTab,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"insert":    KeyInsert,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
}

func init() {
	for k := KeyF1; k <= KeyF12; k++ {
		keyAliases[strings.ToLower(keyNames[k])] = k
	}
}

// String returns the canonical key name.
func (k Key) String() string {
	if int(k) < len(keyNames) && keyNames[k] != "" {
		return keyNames[k]
	}
	if k == KeyRune {
		return "Rune"
	}
	return "None"
}

// Chord is a key plus modifiers. Letters are stored lowercase; Shift is
// always explicit. Chord is comparable and used as a map key.
type Chord struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// RuneChord builds a character chord.
func RuneChord(r rune, mods Modifier) Chord {
	return Chord{Key: KeyRune, Rune: unicode.ToLower(r), Mods: mods}
}

// KeyChord builds a named-key chord.
func KeyChord(k Key, mods Modifier) Chord {
	return Chord{Key: k, Mods: mods}
}

// IsZero reports whether c is the zero chord.
func (c Chord) IsZero() bool {
	return c.Key == KeyNone
}

// String returns the canonical form, e.g. "Ctrl+Shift+S".
func (c Chord) String() string {
	var key string
	switch c.Key {
	case KeyNone:
		return ""
	case KeyRune:
		switch c.Rune {
		case ' ':
			key = "Space"
		case '+':
			key = "Plus"
		default:
			key = string(unicode.ToUpper(c.Rune))
		}
	default:
		key = c.Key.String()
	}
	if mods := c.Mods.String(); mods != "" {
		return mods + "+" + key
	}
	return key
}

// ParseAccelerator parses an accelerator such as "CmdOrCtrl+Shift+S",
// "F12" or "Alt+Plus".
func ParseAccelerator(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptyAccelerator
	}

	parts := strings.Split(spec, "+")
	// "Ctrl++" splits into a trailing empty pair.
	if len(parts) >= 2 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		parts = append(parts[:len(parts)-2], "Plus")
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidAccelerator, p, spec)
		}
		mods |= mod
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidAccelerator, spec)
	}

	lower := strings.ToLower(keyPart)
	switch lower {
	case "space":
		return RuneChord(' ', mods), nil
	case "plus":
		return RuneChord('+', mods), nil
	}
	if k, ok := keyAliases[lower]; ok {
		return KeyChord(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidAccelerator, keyPart, spec)
	}
	return RuneChord(runes[0], mods), nil
}

// MustParseAccelerator is ParseAccelerator for known-valid specs.
func MustParseAccelerator(spec string) Chord {
	c, err := ParseAccelerator(spec)
	if err != nil {
		panic(err)
	}
	return c
}
