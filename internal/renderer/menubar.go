package renderer

import (
	"go.uber.org/zap"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/core"
)

// Keys the renderer handles itself.
var (
	keyOpenMenu = menu.KeyChord(menu.KeyF10, menu.ModNone)
	keyCloseTab = menu.RuneChord('w', menu.ModCtrl)
	keyPrevTab  = menu.KeyChord(menu.KeyPageUp, menu.ModCtrl)
	keyNextTab  = menu.KeyChord(menu.KeyPageDown, menu.ModCtrl)
)

// menuBar is the renderer's copy of the host menu plus dropdown state.
type menuBar struct {
	menus []bridge.MenuDescriptor
	accel map[menu.Chord]string
	hint  map[string]string

	// open is the index of the open dropdown, -1 when closed.
	open int
	sel  int
}

// set installs a new menu. Unparseable accelerators are logged and skipped.
func (m *menuBar) set(menus []bridge.MenuDescriptor, log *zap.SugaredLogger) {
	m.menus = menus
	m.accel = make(map[menu.Chord]string)
	m.hint = make(map[string]string)
	m.open = -1

	var walk func(items []bridge.MenuDescriptor)
	walk = func(items []bridge.MenuDescriptor) {
		for _, it := range items {
			for i, spec := range it.Accelerators {
				chord, err := menu.ParseAccelerator(spec)
				if err != nil {
					log.Warnw("skipping accelerator", "id", it.ID, "accelerator", spec, "error", err)
					continue
				}
				if prev, dup := m.accel[chord]; dup {
					log.Warnw("duplicate accelerator", "accelerator", chord.String(), "id", it.ID, "kept", prev)
					continue
				}
				m.accel[chord] = it.ID
				if i == 0 {
					m.hint[it.ID] = chord.String()
				}
			}
			walk(it.Submenu)
		}
	}
	walk(menus)
}

// match returns the item bound to c.
func (m *menuBar) match(c menu.Chord) (string, bool) {
	id, ok := m.accel[c]
	return id, ok
}

func (m *menuBar) isOpen() bool {
	return m.open >= 0 && m.open < len(m.menus)
}

func (m *menuBar) close() {
	m.open = -1
}

// openMenu opens dropdown i with its first selectable item highlighted.
func (m *menuBar) openMenu(i int) {
	if len(m.menus) == 0 {
		m.open = -1
		return
	}
	m.open = (i%len(m.menus) + len(m.menus)) % len(m.menus)
	m.sel = -1
	m.move(1)
}

// items returns the entries of the open dropdown.
func (m *menuBar) items() []bridge.MenuDescriptor {
	if !m.isOpen() {
		return nil
	}
	return m.menus[m.open].Submenu
}

func selectable(it bridge.MenuDescriptor) bool {
	return it.Type != "separator" && len(it.Submenu) == 0
}

// move steps the highlight by delta, skipping separators and wrapping.
func (m *menuBar) move(delta int) {
	items := m.items()
	n := len(items)
	if n == 0 {
		return
	}
	i := m.sel
	for range n {
		i = ((i+delta)%n + n) % n
		if selectable(items[i]) {
			m.sel = i
			return
		}
	}
}

// selected returns the highlighted item.
func (m *menuBar) selected() (bridge.MenuDescriptor, bool) {
	items := m.items()
	if m.sel < 0 || m.sel >= len(items) || !selectable(items[m.sel]) {
		return bridge.MenuDescriptor{}, false
	}
	return items[m.sel], true
}

// titleSpans returns the column span of each top-level title on the bar.
func (m *menuBar) titleSpans() [][2]int {
	spans := make([][2]int, len(m.menus))
	x := 1
	for i, mn := range m.menus {
		w := core.StringWidth(mn.Label) + 2
		spans[i] = [2]int{x, x + w}
		x += w
	}
	return spans
}

// titleAt returns the top-level menu under column x.
func (m *menuBar) titleAt(x int) (int, bool) {
	for i, s := range m.titleSpans() {
		if x >= s[0] && x < s[1] {
			return i, true
		}
	}
	return 0, false
}

// dropdownRect returns where the open dropdown is drawn, given the row
// below the menu bar and the screen width.
func (m *menuBar) dropdownRect(top, screenWidth int) core.Rect {
	items := m.items()
	width := 0
	for _, it := range items {
		w := core.StringWidth(it.Label) + 4
		if h := m.hint[it.ID]; h != "" {
			w += core.StringWidth(h) + 2
		}
		width = max(width, w)
	}
	left := m.titleSpans()[m.open][0]
	if left+width > screenWidth {
		left = max(screenWidth-width, 0)
	}
	return core.RectFromSize(top, left, len(items), min(width, screenWidth))
}
