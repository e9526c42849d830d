package renderer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/textarea"
	"github.com/dshills/keypad/internal/workspace"
)

// registerHandlers installs the bridge handlers. Each one only queues work
// for the UI goroutine, so the reader never touches screen state.
func (a *App) registerHandlers() {
	a.rend.OnFileNew(func(context.Context) error {
		a.post(func() {
			a.ws.NewFile()
			a.reveal = true
		})
		return nil
	})

	a.rend.OnFileOpened(func(_ context.Context, p bridge.FileOpened) error {
		a.post(func() {
			tab := a.ws.OpenFile(p.FilePath, p.Content)
			a.view(tab).SetTopLine(0)
			a.reveal = true
		})
		return nil
	})

	a.rend.OnFileSave(func(_ context.Context, p bridge.FileSave) error {
		a.post(func() { a.saveActive(p.FilePath) })
		return nil
	})

	a.rend.OnSaveResult(func(_ context.Context, p bridge.SaveResult) error {
		a.post(func() { a.saveDone(p) })
		return nil
	})

	a.rend.OnEditCommand(func(_ context.Context, p bridge.EditCommand) error {
		a.post(func() { a.runRole(p.Role) })
		return nil
	})

	a.rend.OnMenu(func(_ context.Context, p bridge.MenuSet) error {
		a.post(func() { a.menus.set(p.Menus, a.log) })
		return nil
	})

	a.rend.OnConfig(func(_ context.Context, p bridge.RendererConfig) error {
		a.post(func() { a.applyConfig(p) })
		return nil
	})

	a.rend.OnDialogRequest(func(_ context.Context, p bridge.DialogRequest) error {
		a.post(func() {
			a.menus.close()
			a.prompts.push(p)
		})
		return nil
	})

	a.rend.OnStatus(func(_ context.Context, p bridge.StatusMessage) error {
		a.post(func() { a.message.set(p.Text, p.Level) })
		return nil
	})

	a.rend.OnQuit(func(context.Context) error {
		a.post(func() { a.quit = true })
		return nil
	})
}

// saveActive answers a file-save request with the active tab's content.
func (a *App) saveActive(path string) {
	content, err := a.ws.SaveFile(path)
	if err != nil {
		if errors.Is(err, workspace.ErrNoActiveTab) {
			a.message.set("Nothing to save", bridge.StatusError)
		} else {
			a.message.set(fmt.Sprintf("Save failed: %v", err), bridge.StatusError)
		}
		return
	}
	a.send(string(bridge.ChannelSaveContent), func(ctx context.Context) error {
		return a.rend.SaveContent(ctx, path, content)
	})
}

func (a *App) saveDone(p bridge.SaveResult) {
	var saveErr error
	if p.Error != "" {
		saveErr = errors.New(p.Error)
	}
	tab, err := a.ws.MarkSaved(p.FilePath, saveErr)
	if err != nil {
		a.log.Warnw("unexpected save result", "path", p.FilePath, "error", err)
		return
	}
	if saveErr != nil {
		a.message.set(fmt.Sprintf("Failed to save %s: %s", tab.Name, p.Error), bridge.StatusError)
		return
	}
	a.message.set("Saved "+tab.Name, bridge.StatusInfo)
}

// applyConfig installs new editor settings and chrome colours.
func (a *App) applyConfig(cfg bridge.RendererConfig) {
	a.cfg = cfg
	opts := editorOptions(cfg)
	a.ws.SetEditorOptions(opts)
	a.ws.SetModes(cfg.Modes)

	probe := textarea.New(
		textarea.WithOptions(opts),
		textarea.WithClipboard(&textarea.MemoryClipboard{}),
	)
	a.pal = newPalette(cfg, probe.ThemeColors())
	a.reveal = true
}

// editorOptions converts the bridge settings, keeping defaults for values
// that make no sense.
func editorOptions(cfg bridge.RendererConfig) textarea.Options {
	o := textarea.DefaultOptions()
	if cfg.Theme != "" {
		o.Theme = cfg.Theme
	}
	if cfg.TabSize > 0 {
		o.TabSize = cfg.TabSize
	}
	o.IndentWithTabs = cfg.IndentWithTabs
	o.LineNumbers = cfg.LineNumbers
	o.AutoCloseBrackets = cfg.AutoCloseBrackets
	o.MatchBrackets = cfg.MatchBrackets
	o.StyleActiveLine = cfg.StyleActiveLine
	o.LineWrapping = cfg.LineWrapping
	return o
}
