package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/keypad/internal/bridge"
)

// registerHandlers installs the host side of the bridge protocol. Handlers
// run on the bridge reader and must not wait for other messages.
func (app *Application) registerHandlers() {
	app.main.OnReady(app.handleReady)
	app.main.OnSaveContent(app.handleSaveContent)
	app.main.OnMenuInvoke(app.handleMenuInvoke)
	app.main.OnDialogResponse(app.handleDialogResponse)
	app.main.OnActiveChanged(app.handleActiveChanged)
}

// handleReady configures a fresh renderer and opens the startup files.
func (app *Application) handleReady(ctx context.Context) error {
	app.log.Infow("renderer ready")

	if err := app.main.SendConfig(ctx, app.rendererConfig()); err != nil {
		return fmt.Errorf("send config: %w", err)
	}
	if err := app.main.SendMenu(ctx, app.menu.Descriptors()); err != nil {
		return fmt.Errorf("send menu: %w", err)
	}

	opened := 0
	for _, path := range app.opts.Files {
		if err := app.openStartup(ctx, path); err != nil {
			app.log.Warnw("cannot open startup file", "path", path, "error", err)
			app.reportError(ctx, err)
			continue
		}
		opened++
	}
	if opened == 0 {
		if err := app.NewFile(ctx); err != nil {
			return err
		}
	}

	app.mu.RLock()
	notice := app.notice
	app.mu.RUnlock()
	if notice != "" {
		app.status(ctx, notice, bridge.StatusError)
	}
	return nil
}

// handleSaveContent writes the active document and acknowledges it.
func (app *Application) handleSaveContent(ctx context.Context, p bridge.SaveContent) error {
	path, err := app.writeContent(p)
	if err != nil {
		app.log.Warnw("save failed", "path", p.FilePath, "error", err)
		cause := err
		var op *OperationError
		if errors.As(err, &op) && op.Err != nil {
			cause = op.Err
		}
		return app.main.SendSaveResult(ctx, path, cause)
	}
	app.setCurrent(path)
	return app.main.SendSaveResult(ctx, path, nil)
}

func (app *Application) handleMenuInvoke(ctx context.Context, p bridge.MenuInvoke) error {
	app.log.Debugw("menu invoked", "id", p.ID)
	if err := app.invoke(ctx, p.ID); err != nil {
		return fmt.Errorf("%w: %s", err, p.ID)
	}
	return nil
}

func (app *Application) handleDialogResponse(_ context.Context, p bridge.DialogResponse) error {
	if !app.prompt.Resolve(p) {
		app.log.Debugw("stale dialog response", "id", p.ID)
	}
	return nil
}

// handleActiveChanged tracks the active tab so Save targets the right file.
func (app *Application) handleActiveChanged(_ context.Context, p bridge.ActiveChanged) error {
	app.setCurrent(p.FilePath)
	return nil
}
