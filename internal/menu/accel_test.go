package menu

import (
	"errors"
	"testing"
)

func TestParseAccelerator(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
		str  string
	}{
		{"CmdOrCtrl+N", RuneChord('n', ModCtrl), "Ctrl+N"},
		{"CmdOrCtrl+Shift+S", RuneChord('s', ModCtrl|ModShift), "Ctrl+Shift+S"},
		{"Shift+CmdOrCtrl+s", RuneChord('s', ModCtrl|ModShift), "Ctrl+Shift+S"},
		{"Control+o", RuneChord('o', ModCtrl), "Ctrl+O"},
		{"Cmd+Q", RuneChord('q', ModCtrl), "Ctrl+Q"},
		{"F12", KeyChord(KeyF12, ModNone), "F12"},
		{"f1", KeyChord(KeyF1, ModNone), "F1"},
		{"Alt+Enter", KeyChord(KeyEnter, ModAlt), "Alt+Enter"},
		{"Option+Return", KeyChord(KeyEnter, ModAlt), "Alt+Enter"},
		{"Ctrl+PageDown", KeyChord(KeyPageDown, ModCtrl), "Ctrl+PageDown"},
		{"Esc", KeyChord(KeyEscape, ModNone), "Esc"},
		{"Super+Left", KeyChord(KeyLeft, ModMeta), "Meta+Left"},
		{"Ctrl+Space", RuneChord(' ', ModCtrl), "Ctrl+Space"},
		{"Ctrl+Plus", RuneChord('+', ModCtrl), "Ctrl+Plus"},
		{"Ctrl++", RuneChord('+', ModCtrl), "Ctrl+Plus"},
		{" Ctrl + Z ", RuneChord('z', ModCtrl), "Ctrl+Z"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseAccelerator(tt.spec)
			if err != nil {
				t.Fatalf("ParseAccelerator(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseAccelerator(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}

			again, err := ParseAccelerator(got.String())
			if err != nil || again != got {
				t.Errorf("canonical form %q does not round-trip: %+v, %v", got.String(), again, err)
			}
		})
	}
}

func TestParseAcceleratorErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptyAccelerator},
		{"   ", ErrEmptyAccelerator},
		{"Hyper+A", ErrInvalidAccelerator},
		{"Ctrl+", ErrInvalidAccelerator},
		{"Ctrl+Foo", ErrInvalidAccelerator},
		{"F13", ErrInvalidAccelerator},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := ParseAccelerator(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseAccelerator(%q) error = %v, want %v", tt.spec, err, tt.want)
			}
		})
	}
}

func TestMustParseAcceleratorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseAccelerator("Ctrl+Nope")
}

func TestChordZero(t *testing.T) {
	var c Chord
	if !c.IsZero() || c.String() != "" {
		t.Errorf("zero chord = %q", c.String())
	}
}
