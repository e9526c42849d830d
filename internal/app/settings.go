package app

import (
	"context"
	"errors"
	"io/fs"
	"maps"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/config"
	"github.com/dshills/keypad/internal/dialog"
	"github.com/dshills/keypad/internal/script"
)

// scriptState is what the init script declared. Its filters are listed
// before the configured ones.
type scriptState struct {
	filters []dialog.Filter
	modes   map[string]string
}

// runScript executes the configured init script, if the file exists.
func (app *Application) runScript() error {
	path := app.cfg.Script.Path
	if path == "" {
		return nil
	}
	src, err := app.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	runner := script.NewRunner(script.WithLogger(app.log.Named("script")))
	res, err := runner.Run(context.Background(), path, string(src))
	if err != nil {
		return err
	}

	st := scriptState{modes: res.Modes}
	for _, f := range res.Filters {
		st.filters = append(st.filters, dialog.Filter{Name: f.Name, Extensions: f.Extensions})
	}
	app.script = st
	app.log.Infow("init script loaded", "path", path, "filters", len(st.filters), "modes", len(st.modes))
	return nil
}

// buildFilters combines script and configured dialog filters.
func (app *Application) buildFilters(cfg config.Config) []dialog.Filter {
	out := append([]dialog.Filter(nil), app.script.filters...)
	for _, f := range cfg.Files.Filters {
		out = append(out, dialog.Filter{Name: f.Name, Extensions: f.Extensions})
	}
	if len(out) == 0 {
		return dialog.DefaultFilters()
	}
	return out
}

func (app *Application) dialogFilters() []dialog.Filter {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.filters
}

// rendererConfig is the part of the configuration the renderer applies.
func (app *Application) rendererConfig() bridge.RendererConfig {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return toRendererConfig(app.cfg, app.script.modes)
}

func toRendererConfig(cfg config.Config, modes map[string]string) bridge.RendererConfig {
	rc := bridge.RendererConfig{
		Theme:             cfg.Editor.Theme,
		TabSize:           cfg.Editor.TabSize,
		IndentWithTabs:    cfg.Editor.IndentWithTabs,
		LineNumbers:       cfg.Editor.LineNumbers,
		AutoCloseBrackets: cfg.Editor.AutoCloseBrackets,
		MatchBrackets:     cfg.Editor.MatchBrackets,
		StyleActiveLine:   cfg.Editor.StyleActiveLine,
		LineWrapping:      cfg.Editor.LineWrapping,
		MenuBarColor:      cfg.UI.MenuBarColor,
		TabBarColor:       cfg.UI.TabBarColor,
		StatusBarColor:    cfg.UI.StatusBarColor,
	}
	if len(modes) > 0 {
		rc.Modes = maps.Clone(modes)
	}
	return rc
}

// watchConfig pushes configuration edits to the renderer. Process, dialog
// and logging settings apply on the next start.
func (app *Application) watchConfig() {
	if app.store == nil {
		return
	}
	app.store.Watch(app.applyConfig, func(err error) {
		app.log.Warnw("config reload failed", "path", app.store.Path(), "error", err)
		app.status(app.ctx, "Config: "+err.Error(), bridge.StatusError)
	})
}

// applyConfig installs a reloaded configuration.
func (app *Application) applyConfig(cfg config.Config) {
	app.mu.Lock()
	cfg.Logging = app.cfg.Logging
	cfg.Process = app.cfg.Process
	cfg.Dialog = app.cfg.Dialog
	app.cfg = cfg
	app.filters = app.buildFilters(cfg)
	app.mu.Unlock()

	app.log.Infow("config reloaded")
	if err := app.main.SendConfig(app.ctx, app.rendererConfig()); err != nil {
		app.log.Warnw("send config failed", "error", err)
		return
	}
	app.status(app.ctx, "Configuration reloaded", bridge.StatusInfo)
}
