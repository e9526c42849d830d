package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/core"
)

// Terminal implements Backend with tcell.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal creates a Terminal on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalScreen wraps an existing screen, such as a simulation screen.
func NewTerminalScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Fill(rect core.Rect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := convertStyle(cell.Style)
	width, height := t.screen.Size()
	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Sync()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// PollEvent must not hold the lock: tcell blocks here until input arrives.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventClosed}
	}
	return convertEvent(ev)
}

// PostEvent supports key events only.
func (t *Terminal) PostEvent(ev Event) {
	if ev.Type != EventKey {
		return
	}
	_ = t.screen.PostEvent(toTcellKey(ev)) // queue full: drop
}

func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // queue full: the next one wakes us
}

func convertColor(c core.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))
	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKey(e)

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:   EventMouse,
			MouseX: x,
			MouseY: y,
			Button: convertButtons(e.Buttons()),
			Chord:  menu.Chord{Mods: convertMod(e.Modifiers())},
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventPaste:
		return Event{Type: EventPaste, PasteStart: e.Start()}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}
	}
	return Event{Type: EventNone}
}

var namedKeys = map[tcell.Key]menu.Key{
	tcell.KeyEnter:      menu.KeyEnter,
	tcell.KeyTab:        menu.KeyTab,
	tcell.KeyBacktab:    menu.KeyTab,
	tcell.KeyEscape:     menu.KeyEscape,
	tcell.KeyBackspace:  menu.KeyBackspace,
	tcell.KeyBackspace2: menu.KeyBackspace,
	tcell.KeyDelete:     menu.KeyDelete,
	tcell.KeyInsert:     menu.KeyInsert,
	tcell.KeyHome:       menu.KeyHome,
	tcell.KeyEnd:        menu.KeyEnd,
	tcell.KeyPgUp:       menu.KeyPageUp,
	tcell.KeyPgDn:       menu.KeyPageDown,
	tcell.KeyUp:         menu.KeyUp,
	tcell.KeyDown:       menu.KeyDown,
	tcell.KeyLeft:       menu.KeyLeft,
	tcell.KeyRight:      menu.KeyRight,
}

// convertKey maps a tcell key to a chord. Control letters arrive either as
// KeyCtrlA..KeyCtrlZ or as runes with ModCtrl depending on the terminal;
// both become a lowercase rune chord with ModCtrl.
func convertKey(e *tcell.EventKey) Event {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	if named, ok := namedKeys[k]; ok {
		if k == tcell.KeyBacktab {
			mods |= menu.ModShift
		}
		// Backspace and Ctrl+H share a code; so do Tab and Ctrl+I.
		if k == tcell.KeyBackspace || k == tcell.KeyTab || k == tcell.KeyEnter {
			mods &^= menu.ModCtrl
		}
		return Event{Type: EventKey, Chord: menu.KeyChord(named, mods)}
	}

	switch {
	case k == tcell.KeyRune:
		r := e.Rune()
		return Event{Type: EventKey, Chord: menu.RuneChord(r, mods), Rune: r}

	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return Event{Type: EventKey, Chord: menu.KeyChord(menu.KeyF1+menu.Key(k-tcell.KeyF1), mods)}

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		r := 'a' + rune(k-tcell.KeyCtrlA)
		return Event{Type: EventKey, Chord: menu.RuneChord(r, mods|menu.ModCtrl)}

	case k == tcell.KeyCtrlSpace:
		return Event{Type: EventKey, Chord: menu.RuneChord(' ', mods|menu.ModCtrl)}
	}
	return Event{Type: EventNone}
}

func toTcellKey(ev Event) *tcell.EventKey {
	var mods tcell.ModMask
	if ev.Chord.Mods.Has(menu.ModShift) {
		mods |= tcell.ModShift
	}
	if ev.Chord.Mods.Has(menu.ModCtrl) {
		mods |= tcell.ModCtrl
	}
	if ev.Chord.Mods.Has(menu.ModAlt) {
		mods |= tcell.ModAlt
	}
	if ev.Chord.Mods.Has(menu.ModMeta) {
		mods |= tcell.ModMeta
	}
	if ev.Chord.Key == menu.KeyRune {
		r := ev.Rune
		if r == 0 {
			r = ev.Chord.Rune
		}
		return tcell.NewEventKey(tcell.KeyRune, r, mods)
	}
	for tk, mk := range namedKeys {
		if mk == ev.Chord.Key && tk != tcell.KeyBacktab && tk != tcell.KeyBackspace {
			return tcell.NewEventKey(tk, 0, mods)
		}
	}
	if ev.Chord.Key >= menu.KeyF1 && ev.Chord.Key <= menu.KeyF12 {
		return tcell.NewEventKey(tcell.KeyF1+tcell.Key(ev.Chord.Key-menu.KeyF1), 0, mods)
	}
	return tcell.NewEventKey(tcell.KeyRune, 0, mods)
}

func convertMod(m tcell.ModMask) menu.Modifier {
	var out menu.Modifier
	if m&tcell.ModShift != 0 {
		out |= menu.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= menu.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= menu.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= menu.ModMeta
	}
	return out
}

func convertButtons(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	}
	return MouseNone
}
