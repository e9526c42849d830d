package app

import (
	"context"
	"errors"
	"io/fs"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/dialog"
	"github.com/dshills/keypad/internal/vfs"
)

// filePerm is the mode of files created by Save.
const filePerm fs.FileMode = 0o644

// NewFile opens an untitled tab in the renderer.
func (app *Application) NewFile(ctx context.Context) error {
	if err := app.main.SendFileNew(ctx); err != nil {
		return NewOperationError("new file", "", err)
	}
	app.setCurrent("")
	return nil
}

// Open asks the user for a file and opens it. Cancelling does nothing.
func (app *Application) Open(ctx context.Context) error {
	res, err := app.dlg.ShowOpen(ctx, dialog.OpenOptions{
		Title:   "Open File",
		Filters: app.dialogFilters(),
	})
	if err != nil {
		return NewOperationError("show open dialog", "", err)
	}
	if res.Canceled || res.Path() == "" {
		return nil
	}
	return app.OpenPath(ctx, res.Path())
}

// OpenPath reads path and sends it to the renderer as a new tab.
func (app *Application) OpenPath(ctx context.Context, path string) error {
	abs, err := app.fs.Abs(path)
	if err != nil {
		return NewOperationError("open", path, err)
	}
	data, err := app.fs.ReadFile(abs)
	if err != nil {
		return NewOperationError("open", abs, err)
	}
	if vfs.IsBinary(data) {
		return NewOperationError("open", abs, ErrBinaryFile)
	}

	if err := app.main.SendFileOpened(ctx, abs, vfs.DecodeText(data)); err != nil {
		return NewOperationError("open", abs, err)
	}
	app.setCurrent(abs)
	app.log.Infow("opened file", "path", abs, "bytes", len(data))
	return nil
}

// openStartup opens a file named on the command line. A missing file
// becomes an empty tab that saves to that path.
func (app *Application) openStartup(ctx context.Context, path string) error {
	err := app.OpenPath(ctx, path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	abs, absErr := app.fs.Abs(path)
	if absErr != nil {
		return err
	}
	if err := app.main.SendFileOpened(ctx, abs, ""); err != nil {
		return NewOperationError("open", abs, err)
	}
	app.setCurrent(abs)
	app.log.Infow("new file from command line", "path", abs)
	return nil
}

// Save writes the active tab to its path, or falls back to SaveAs for an
// untitled tab.
func (app *Application) Save(ctx context.Context) error {
	path := app.CurrentPath()
	if path == "" {
		return app.SaveAs(ctx)
	}
	if err := app.main.SendFileSave(ctx, path); err != nil {
		return NewOperationError("save", path, err)
	}
	return nil
}

// SaveAs asks the user for a destination and saves the active tab there.
// Cancelling does nothing.
func (app *Application) SaveAs(ctx context.Context) error {
	def := app.CurrentPath()
	if def == "" {
		def, _ = app.fs.Abs("untitled.txt")
	}
	res, err := app.dlg.ShowSave(ctx, dialog.SaveOptions{
		Title:       "Save File",
		DefaultPath: def,
		Filters:     app.dialogFilters(),
	})
	if err != nil {
		return NewOperationError("show save dialog", "", err)
	}
	if res.Canceled || res.Path() == "" {
		return nil
	}

	abs, err := app.fs.Abs(res.Path())
	if err != nil {
		return NewOperationError("save", res.Path(), err)
	}
	if err := app.main.SendFileSave(ctx, abs); err != nil {
		return NewOperationError("save", abs, err)
	}
	app.setCurrent(abs)
	return nil
}

// Exit tells the renderer to quit. Unsaved changes are discarded.
func (app *Application) Exit(ctx context.Context) error {
	app.log.Infow("exit requested")
	if err := app.main.SendQuit(ctx); err != nil {
		app.Shutdown()
		return NewOperationError("exit", "", err)
	}
	return nil
}

// About shows the about message.
func (app *Application) About(ctx context.Context) error {
	return app.dlg.ShowMessage(ctx, dialog.MessageOptions{
		Title:   "About",
		Message: aboutMessage,
		Detail:  aboutDetail,
	})
}

// writeContent stores a save-content payload and returns the path written.
func (app *Application) writeContent(p bridge.SaveContent) (string, error) {
	if p.FilePath == "" {
		return "", NewOperationError("save", "", ErrNoPath)
	}
	if err := app.fs.WriteFile(p.FilePath, vfs.EncodeText(p.Content), filePerm); err != nil {
		return p.FilePath, NewOperationError("save", p.FilePath, err)
	}
	app.log.Infow("saved file", "path", p.FilePath, "bytes", len(p.Content))
	return p.FilePath, nil
}
