package renderer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/core"
)

func TestMenuBarAccelerators(t *testing.T) {
	var m menuBar
	m.set([]bridge.MenuDescriptor{
		{ID: "file", Label: "File", Submenu: []bridge.MenuDescriptor{
			{ID: "file.saveAs", Label: "Save As...", Accelerators: []string{"CmdOrCtrl+Shift+S", "F12"}},
			{ID: "file.bad", Label: "Bad", Accelerators: []string{"Ctrl+Nope"}},
			{ID: "file.dup", Label: "Dup", Accelerators: []string{"F12"}},
		}},
	}, zap.NewNop().Sugar())

	id, ok := m.match(menu.RuneChord('s', menu.ModCtrl|menu.ModShift))
	require.True(t, ok)
	require.Equal(t, "file.saveAs", id)

	id, ok = m.match(menu.KeyChord(menu.KeyF12, menu.ModNone))
	require.True(t, ok)
	require.Equal(t, "file.saveAs", id, "first binding wins")

	require.Equal(t, "Ctrl+Shift+S", m.hint["file.saveAs"])
	require.Empty(t, m.hint["file.bad"])
	require.False(t, m.isOpen())
}

func TestMenuBarNavigation(t *testing.T) {
	var m menuBar
	m.set(testMenus(), zap.NewNop().Sugar())

	m.openMenu(0)
	it, ok := m.selected()
	require.True(t, ok)
	require.Equal(t, "file.new", it.ID)

	m.move(1)
	it, _ = m.selected()
	require.Equal(t, "file.save", it.ID, "separator skipped")

	m.move(1)
	it, _ = m.selected()
	require.Equal(t, "file.new", it.ID, "wraps")

	m.openMenu(-1)
	require.Equal(t, 1, m.open, "left from the first menu wraps to the last")
	m.openMenu(2)
	require.Equal(t, 0, m.open)

	m.close()
	_, ok = m.selected()
	require.False(t, ok)
}

func TestMenuBarGeometry(t *testing.T) {
	var m menuBar
	m.set(testMenus(), zap.NewNop().Sugar())

	require.Equal(t, [][2]int{{1, 7}, {7, 13}}, m.titleSpans())

	i, ok := m.titleAt(3)
	require.True(t, ok)
	require.Equal(t, 0, i)
	i, ok = m.titleAt(12)
	require.True(t, ok)
	require.Equal(t, 1, i)
	_, ok = m.titleAt(0)
	require.False(t, ok)

	m.openMenu(1)
	require.Equal(t, core.RectFromSize(1, 7, 1, 16), m.dropdownRect(1, 80))
	require.Equal(t, core.RectFromSize(1, 4, 1, 16), m.dropdownRect(1, 20), "shifted to fit")
}
