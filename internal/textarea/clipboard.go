package textarea

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard stores cut and copied text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// MemoryClipboard is a process-local clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// ReadAll implements Clipboard.
func (m *MemoryClipboard) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// WriteAll implements Clipboard.
func (m *MemoryClipboard) WriteAll(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	return nil
}

// systemClipboard uses the desktop clipboard and keeps a local copy for
// when the system one fails, as it does over SSH or without xclip.
type systemClipboard struct {
	local MemoryClipboard
}

// NewClipboard returns the system clipboard with an in-memory fallback,
// or a plain MemoryClipboard when no system clipboard is supported.
func NewClipboard() Clipboard {
	if clipboard.Unsupported {
		return &MemoryClipboard{}
	}
	return &systemClipboard{}
}

func (s *systemClipboard) ReadAll() (string, error) {
	if text, err := clipboard.ReadAll(); err == nil {
		return text, nil
	}
	return s.local.ReadAll()
}

func (s *systemClipboard) WriteAll(text string) error {
	_ = s.local.WriteAll(text)
	_ = clipboard.WriteAll(text)
	return nil
}

// Copy puts the selection on the clipboard. It reports false without a
// selection.
func (a *Area) Copy() (bool, error) {
	text := a.SelectedText()
	if text == "" {
		return false, nil
	}
	return true, a.clip.WriteAll(text)
}

// Cut copies and then deletes the selection.
func (a *Area) Cut() (bool, error) {
	ok, err := a.Copy()
	if !ok || err != nil {
		return ok, err
	}
	a.Delete()
	return true, nil
}

// Paste inserts the clipboard text, replacing the selection.
func (a *Area) Paste() error {
	text, err := a.clip.ReadAll()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	a.InsertText(text)
	return nil
}
