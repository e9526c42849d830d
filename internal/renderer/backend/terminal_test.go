package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/core"
)

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Event
	}{
		{
			"rune",
			tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
			Event{Type: EventKey, Chord: menu.RuneChord('q', 0), Rune: 'q'},
		},
		{
			"shifted rune keeps case",
			tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift),
			Event{Type: EventKey, Chord: menu.RuneChord('q', 0), Rune: 'Q'},
		},
		{
			"control letter",
			tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl),
			Event{Type: EventKey, Chord: menu.MustParseAccelerator("Ctrl+S")},
		},
		{
			"control letter as rune",
			tcell.NewEventKey(tcell.KeyRune, 'o', tcell.ModCtrl),
			Event{Type: EventKey, Chord: menu.MustParseAccelerator("Ctrl+O")},
		},
		{
			"function key",
			tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone),
			Event{Type: EventKey, Chord: menu.MustParseAccelerator("F12")},
		},
		{
			"control page down",
			tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModCtrl),
			Event{Type: EventKey, Chord: menu.MustParseAccelerator("Ctrl+PageDown")},
		},
		{
			"backspace",
			tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
			Event{Type: EventKey, Chord: menu.KeyChord(menu.KeyBackspace, 0)},
		},
		{
			"backtab",
			tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone),
			Event{Type: EventKey, Chord: menu.KeyChord(menu.KeyTab, menu.ModShift)},
		},
		{
			"enter",
			tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
			Event{Type: EventKey, Chord: menu.KeyChord(menu.KeyEnter, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, convertKey(tt.ev)); diff != "" {
				t.Errorf("convertKey mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToTcellKeyRoundTrip(t *testing.T) {
	for _, ev := range []Event{
		RuneEvent('x', 0),
		KeyEvent(menu.KeyF10, 0),
		KeyEvent(menu.KeyBackspace, 0),
		KeyEvent(menu.KeyLeft, menu.ModShift),
	} {
		got := convertKey(toTcellKey(ev))
		if got.Chord != ev.Chord {
			t.Errorf("round trip of %s gave %s", ev.Chord, got.Chord)
		}
	}
}

func TestTerminalSimulation(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer term.Shutdown()
	screen.SetSize(12, 2)

	red := core.DefaultStyle().WithForeground(core.ColorFromRGB(255, 0, 0)).Bold()
	term.SetCell(3, 1, core.NewStyledCell('k', red))
	term.Show()

	mainc, _, style, _ := screen.GetContent(3, 1) //nolint:staticcheck // GetContent is the simulation read-back
	if mainc != 'k' {
		t.Fatalf("rune = %q", mainc)
	}
	fg, _, attrs := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold attribute missing")
	}

	term.Interrupt()
	if ev := term.PollEvent(); ev.Type != EventInterrupt {
		t.Errorf("PollEvent type = %v, want interrupt", ev.Type)
	}
}
