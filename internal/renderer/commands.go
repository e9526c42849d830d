package renderer

import (
	"errors"
	"fmt"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/textarea"
)

// runRole performs an edit or view role on the active tab.
func (a *App) runRole(role string) {
	switch role {
	case menu.RoleReload, menu.RoleForceReload:
		a.be.Sync()
		return
	case menu.RoleToggleDevTools:
		a.devtools.Store(!a.devtools.Load())
		return
	case menu.RoleToggleFullScreen:
		a.fullscreen = !a.fullscreen
		a.menus.close()
		return
	case menu.RoleResetZoom, menu.RoleZoomIn, menu.RoleZoomOut:
		// The terminal owns the font size.
		a.message.set("Zoom is controlled by the terminal", bridge.StatusInfo)
		return
	}

	tab := a.ws.Active()
	if tab == nil {
		return
	}
	doc := tab.Doc
	a.reveal = true

	var err error
	switch role {
	case menu.RoleUndo:
		err = doc.Undo()
		if errors.Is(err, textarea.ErrNothingToUndo) {
			err = nil
		}
	case menu.RoleRedo:
		err = doc.Redo()
		if errors.Is(err, textarea.ErrNothingToRedo) {
			err = nil
		}
	case menu.RoleCut:
		_, err = doc.Cut()
	case menu.RoleCopy:
		_, err = doc.Copy()
	case menu.RolePaste:
		err = doc.Paste()
	case menu.RoleDelete:
		doc.Delete()
	case menu.RoleSelectAll:
		doc.SelectAll()
	default:
		a.log.Debugw("ignoring unknown role", "role", role)
		return
	}
	if err != nil {
		a.message.set(fmt.Sprintf("%s: %v", role, err), bridge.StatusError)
	}
}
