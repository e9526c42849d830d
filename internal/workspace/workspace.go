package workspace

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keypad/internal/textarea"
)

// UntitledName is the name of the first unsaved tab.
const UntitledName = "untitled"

// Tab is one open document.
type Tab struct {
	// ID is stable for the life of the tab.
	ID string

	// Name is the display name: the file's base name or an untitled name.
	Name string

	// Path is the file path, empty until the tab is first saved.
	Path string

	// Doc is the tab's own editing widget.
	Doc *textarea.Area

	saving    bool
	saveToken uint64
}

// Untitled reports whether the tab has never been saved or opened from disk.
func (t *Tab) Untitled() bool {
	return t.Path == ""
}

// Saving reports whether a save is waiting for its result.
func (t *Tab) Saving() bool {
	return t.saving
}

// EventKind says what changed.
type EventKind int

const (
	TabAdded EventKind = iota
	TabSwitched
	TabRenamed
	TabClosed
	TabReloaded
)

// String returns a lowercase name for the kind.
func (k EventKind) String() string {
	switch k {
	case TabAdded:
		return "added"
	case TabSwitched:
		return "switched"
	case TabRenamed:
		return "renamed"
	case TabClosed:
		return "closed"
	case TabReloaded:
		return "reloaded"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes a change. Tab is the affected tab; Active is the active
// index after the change.
type Event struct {
	Kind   EventKind
	Tab    *Tab
	Active int
}

// Option configures a Manager.
type Option func(*Manager)

// WithEditorOptions sets the options every new tab's widget starts with.
func WithEditorOptions(o textarea.Options) Option {
	return func(m *Manager) { m.editor = o }
}

// WithClipboard shares one clipboard across tabs.
func WithClipboard(c textarea.Clipboard) Option {
	return func(m *Manager) { m.clip = c }
}

// WithModes sets extension to mode overrides.
func WithModes(modes map[string]string) Option {
	return func(m *Manager) { m.modes = modes }
}

// Manager owns the tab list and the active index.
type Manager struct {
	mu     sync.RWMutex
	tabs   []*Tab
	active int

	editor textarea.Options
	clip   textarea.Clipboard
	modes  map[string]string

	listeners []func(Event)
}

// NewManager creates a Manager with no tabs.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		active: -1,
		editor: textarea.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clip == nil {
		m.clip = textarea.NewClipboard()
	}
	return m
}

// OnChange registers fn for every tab change. Listeners run after the
// Manager's lock is released.
func (m *Manager) OnChange(fn func(Event)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) notify(events ...Event) {
	m.mu.RLock()
	listeners := slices.Clone(m.listeners)
	m.mu.RUnlock()
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

func (m *Manager) newArea(mode textarea.Mode) *textarea.Area {
	return textarea.New(
		textarea.WithOptions(m.editor),
		textarea.WithClipboard(m.clip),
		textarea.WithMode(mode),
	)
}

// untitledNameLocked returns "untitled", or "untitled-N" with the smallest
// N >= 2 not used by an open tab.
func (m *Manager) untitledNameLocked() string {
	used := make(map[string]bool, len(m.tabs))
	for _, t := range m.tabs {
		used[t.Name] = true
	}
	if !used[UntitledName] {
		return UntitledName
	}
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s-%d", UntitledName, n)
		if !used[name] {
			return name
		}
	}
}

func (m *Manager) addLocked(tab *Tab) Event {
	m.tabs = append(m.tabs, tab)
	m.active = len(m.tabs) - 1
	return Event{Kind: TabAdded, Tab: tab, Active: m.active}
}

// NewFile adds an empty untitled tab in the default mode and activates it.
func (m *Manager) NewFile() *Tab {
	m.mu.Lock()
	tab := &Tab{
		ID:   uuid.NewString(),
		Name: m.untitledNameLocked(),
		Doc:  m.newArea(textarea.DefaultMode),
	}
	ev := m.addLocked(tab)
	m.mu.Unlock()

	m.notify(ev)
	return tab
}

// OpenFile shows content in a tab for path. A tab already holding path is
// activated and its content replaced; otherwise a new tab is added.
func (m *Manager) OpenFile(path, content string) *Tab {
	name := BaseName(path)
	mode := ModeFor(name, m.modes)

	m.mu.Lock()
	for i, t := range m.tabs {
		if t.Path != path {
			continue
		}
		m.active = i
		t.Doc.SetMode(mode)
		t.Doc.SetValue(content)
		t.saving = false
		m.mu.Unlock()

		m.notify(
			Event{Kind: TabSwitched, Tab: t, Active: i},
			Event{Kind: TabReloaded, Tab: t, Active: i},
		)
		return t
	}

	tab := &Tab{
		ID:   uuid.NewString(),
		Name: name,
		Path: path,
		Doc:  m.newArea(mode),
	}
	tab.Doc.SetValue(content)
	ev := m.addLocked(tab)
	m.mu.Unlock()

	m.notify(ev)
	return tab
}

// SaveFile returns the active tab's content for writing to path. If the
// tab's path differs (an untitled tab, or Save As) the tab is renamed and
// its mode re-detected. The tab stays marked as saving until MarkSaved.
func (m *Manager) SaveFile(path string) (string, error) {
	m.mu.Lock()
	tab := m.activeLocked()
	if tab == nil {
		m.mu.Unlock()
		return "", ErrNoActiveTab
	}

	var events []Event
	if tab.Path != path {
		tab.Path = path
		tab.Name = BaseName(path)
		tab.Doc.SetMode(ModeFor(tab.Name, m.modes))
		events = append(events, Event{Kind: TabRenamed, Tab: tab, Active: m.active})
	}
	tab.saving = true
	tab.saveToken = tab.Doc.Checkpoint()
	content := tab.Doc.Value()
	m.mu.Unlock()

	m.notify(events...)
	return content, nil
}

// MarkSaved records the result of the save for path. On success the tab is
// clean as of the moment SaveFile ran; edits made since stay modified.
func (m *Manager) MarkSaved(path string, saveErr error) (*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tab *Tab
	for _, t := range m.tabs {
		if t.Path == path && t.saving {
			tab = t
			break
		}
	}
	if tab == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotSaving, path)
	}

	tab.saving = false
	if saveErr == nil {
		tab.Doc.MarkCleanAt(tab.saveToken)
	}
	return tab, nil
}

// SwitchTo activates the tab at index.
func (m *Manager) SwitchTo(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.tabs) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	m.active = index
	ev := Event{Kind: TabSwitched, Tab: m.tabs[index], Active: index}
	m.mu.Unlock()

	m.notify(ev)
	return nil
}

// Next activates the following tab, wrapping around.
func (m *Manager) Next() error {
	return m.step(1)
}

// Prev activates the preceding tab, wrapping around.
func (m *Manager) Prev() error {
	return m.step(-1)
}

func (m *Manager) step(delta int) error {
	m.mu.RLock()
	n, active := len(m.tabs), m.active
	m.mu.RUnlock()
	if n == 0 {
		return ErrNoActiveTab
	}
	return m.SwitchTo(((active+delta)%n + n) % n)
}

// Close removes the tab at index. Closing the active tab activates its
// right neighbour, or the new last tab; closing the last tab leaves none
// active.
func (m *Manager) Close(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.tabs) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	tab := m.tabs[index]
	m.tabs = append(m.tabs[:index], m.tabs[index+1:]...)

	switch {
	case len(m.tabs) == 0:
		m.active = -1
	case index < m.active:
		m.active--
	case index == m.active && m.active >= len(m.tabs):
		m.active = len(m.tabs) - 1
	}
	ev := Event{Kind: TabClosed, Tab: tab, Active: m.active}
	m.mu.Unlock()

	m.notify(ev)
	return nil
}

func (m *Manager) activeLocked() *Tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

// Active returns the active tab, or nil.
func (m *Manager) Active() *Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeLocked()
}

// ActiveIndex returns the active index, -1 when none.
func (m *Manager) ActiveIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// ActivePath returns the active tab's path, "" for untitled or none.
func (m *Manager) ActivePath() string {
	if t := m.Active(); t != nil {
		return t.Path
	}
	return ""
}

// Tabs returns the tabs in order.
func (m *Manager) Tabs() []*Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Tab(nil), m.tabs...)
}

// Len returns the number of tabs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tabs)
}

// Modified reports whether any tab has unsaved changes.
func (m *Manager) Modified() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tabs {
		if t.Doc.Modified() {
			return true
		}
	}
	return false
}

// SetEditorOptions applies o to every open tab and to tabs opened later.
func (m *Manager) SetEditorOptions(o textarea.Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editor = o
	for _, t := range m.tabs {
		t.Doc.SetOptions(o)
	}
}

// SetModes replaces the extension overrides. Open tabs keep their mode.
func (m *Manager) SetModes(modes map[string]string) {
	m.mu.Lock()
	m.modes = modes
	m.mu.Unlock()
}
