package app

import (
	"context"
	"runtime/debug"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/menu"
)

// Menu item IDs with host click handlers.
const (
	ItemNew    = "file.new"
	ItemOpen   = "file.open"
	ItemSave   = "file.save"
	ItemSaveAs = "file.save-as"
	ItemExit   = "file.exit"
	ItemAbout  = "help.about"
)

// About dialog text.
const (
	aboutMessage = "Simple Code Editor"
	aboutDetail  = "A lightweight code editor built with Go"
)

// template returns the application menu. Role items have no click handler;
// the renderer runs them.
func (app *Application) template() menu.Template {
	return menu.Template{
		{Label: "File", Submenu: []menu.Item{
			{ID: ItemNew, Label: "New File", Accelerators: []string{"CmdOrCtrl+N"}, Click: app.action("new file", app.NewFile)},
			{ID: ItemOpen, Label: "Open...", Accelerators: []string{"CmdOrCtrl+O"}, Click: app.action("open", app.Open)},
			{Type: menu.TypeSeparator},
			{ID: ItemSave, Label: "Save", Accelerators: []string{"CmdOrCtrl+S"}, Click: app.action("save", app.Save)},
			// Terminals rarely deliver Ctrl+Shift+S, so Save As also has F12.
			{ID: ItemSaveAs, Label: "Save As...", Accelerators: []string{"CmdOrCtrl+Shift+S", "F12"}, Click: app.action("save as", app.SaveAs)},
			{Type: menu.TypeSeparator},
			{ID: ItemExit, Label: "Exit", Accelerators: []string{"CmdOrCtrl+Q"}, Click: app.action("exit", app.Exit)},
		}},
		{Label: "Edit", Submenu: []menu.Item{
			{Role: menu.RoleUndo},
			{Role: menu.RoleRedo},
			{Type: menu.TypeSeparator},
			{Role: menu.RoleCut},
			{Role: menu.RoleCopy},
			{Role: menu.RolePaste},
			{Role: menu.RoleDelete},
			{Type: menu.TypeSeparator},
			{Role: menu.RoleSelectAll},
		}},
		{Label: "View", Submenu: []menu.Item{
			{Role: menu.RoleReload},
			{Role: menu.RoleForceReload},
			{Role: menu.RoleToggleDevTools},
			{Type: menu.TypeSeparator},
			{Role: menu.RoleResetZoom},
			{Role: menu.RoleZoomIn},
			{Role: menu.RoleZoomOut},
			{Type: menu.TypeSeparator},
			{Role: menu.RoleToggleFullScreen},
		}},
		{Label: "Help", Role: menu.RoleHelp, Submenu: []menu.Item{
			{ID: ItemAbout, Label: "About", Click: app.action("about", app.About)},
		}},
	}
}

// action adapts an operation to a click handler. Failures are logged and
// shown on the renderer's status line; panics are recovered.
func (app *Application) action(name string, fn func(ctx context.Context) error) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := NewRecoveredPanicError(r, string(debug.Stack()))
				app.log.Errorw("menu action panicked", "action", name, "error", err)
				app.reportError(ctx, err)
			}
		}()

		if err := fn(ctx); err != nil {
			app.log.Warnw("menu action failed", "action", name, "error", err)
			app.reportError(ctx, err)
		}
	}
}

// invoke runs the item with the given ID the way a renderer activation
// would. Click handlers run on their own goroutine: they may wait on a
// dialog whose answer arrives on the bridge reader.
func (app *Application) invoke(ctx context.Context, id string) error {
	item, ok := app.menu.Lookup(id)
	if !ok {
		return menu.ErrUnknownItem
	}
	if menu.IsEditRole(item.Role) {
		return app.main.SendEditCommand(ctx, item.Role)
	}
	if item.Click == nil {
		app.log.Debugw("menu item has no action", "id", id)
		return nil
	}
	go item.Click(app.ctx)
	return nil
}

func (app *Application) reportError(ctx context.Context, err error) {
	app.status(ctx, userMessage(err), bridge.StatusError)
}

func (app *Application) status(ctx context.Context, text, level string) {
	if app.main == nil {
		return
	}
	if err := app.main.SendStatus(ctx, text, level); err != nil {
		app.log.Debugw("send status failed", "text", text, "error", err)
	}
}
