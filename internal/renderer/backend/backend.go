// Package backend abstracts the terminal the renderer draws on.
package backend

import (
	"strings"
	"sync"

	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/core"
)

// EventType identifies the kind of Event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	// EventInterrupt wakes the UI goroutine to drain queued work.
	EventInterrupt
	// EventClosed is returned by PollEvent after Shutdown.
	EventClosed
)

// MouseButton is the button state of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is an input event.
type Event struct {
	Type EventType

	// Chord is the key with modifiers, as matched against accelerators.
	Chord menu.Chord
	// Rune is the typed character with its case preserved.
	Rune rune

	MouseX, MouseY int
	Button         MouseButton

	Width, Height int

	// PasteStart is true at the start of a bracketed paste, false at its end.
	PasteStart bool
}

// KeyEvent builds a key event for a named key.
func KeyEvent(k menu.Key, mods menu.Modifier) Event {
	return Event{Type: EventKey, Chord: menu.KeyChord(k, mods)}
}

// RuneEvent builds a key event for a character.
func RuneEvent(r rune, mods menu.Modifier) Event {
	return Event{Type: EventKey, Chord: menu.RuneChord(r, mods), Rune: r}
}

// Backend is a drawing surface with an input queue.
type Backend interface {
	// Init prepares the backend. It must be called first.
	Init() error

	// Shutdown restores the terminal. PollEvent returns EventClosed after it.
	Shutdown()

	Size() (width, height int)
	SetCell(x, y int, cell core.Cell)
	Fill(rect core.Rect, cell core.Cell)
	Clear()

	// Show flushes changes to the display.
	Show()

	// Sync redraws the whole display, discarding what the terminal shows.
	Sync()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks for the next event.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(ev Event)

	// Interrupt queues an EventInterrupt. It is safe from any goroutine.
	Interrupt()
}

// NullBackend keeps cells in memory. It is used by tests.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	syncs         int

	events    chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

// NewNullBackend creates a NullBackend of the given size.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 256),
		closed: make(chan struct{}),
	}
	b.allocate()
	return b
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for y := range b.cells {
		b.cells[y] = make([]core.Cell, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.closeOnce.Do(func() { close(b.closed) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at (x, y), or an empty cell outside the screen.
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.Rect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := max(rect.Top, 0); y < rect.Bottom && y < b.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < b.width; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	w, h := b.Size()
	b.Fill(core.Rect{Bottom: h, Right: w}, core.EmptyCell())
}

func (b *NullBackend) Show() {}

func (b *NullBackend) Sync() {
	b.mu.Lock()
	b.syncs++
	b.mu.Unlock()
}

// Syncs returns how many times Sync was called.
func (b *NullBackend) Syncs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.syncs
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY, b.cursorVisible = x, y, true
}

func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

// CursorPosition returns the cursor position and visibility.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventClosed}
	}
}

// PostEvent queues ev. Events posted after Shutdown are dropped.
func (b *NullBackend) PostEvent(ev Event) {
	select {
	case b.events <- ev:
	case <-b.closed:
	}
}

func (b *NullBackend) Interrupt() {
	b.PostEvent(Event{Type: EventInterrupt})
}

// Row returns the text of row y with continuation cells skipped and
// trailing spaces trimmed.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		if c.IsContinuation() {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Resize changes the size and queues an EventResize.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.allocate()
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
