// Package app is the privileged host: it owns configuration, the menu
// template, dialogs and the file system, and drives a renderer over the
// bridge. The renderer runs as a supervised child process or, in
// single-process mode, as a goroutine.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/config"
	"github.com/dshills/keypad/internal/dialog"
	"github.com/dshills/keypad/internal/logging"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/process"
	"github.com/dshills/keypad/internal/vfs"
)

const (
	// quitTimeout bounds how long the renderer gets to exit after app-quit.
	quitTimeout = 2 * time.Second

	// shutdownTimeout bounds supervisor shutdown.
	shutdownTimeout = 3 * time.Second
)

// RendererFunc runs a renderer over conn until the connection ends or ctx
// is cancelled.
type RendererFunc func(ctx context.Context, conn io.ReadWriteCloser) error

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Files are files to open on startup.
	Files []string

	// SingleProcess runs the renderer in-process, overriding process.isolate.
	SingleProcess bool

	// LogLevel overrides logging.level.
	LogLevel string

	// Renderer runs the renderer in single-process mode.
	Renderer RendererFunc

	// Executable is started with RendererFlag in isolated mode.
	// Defaults to os.Executable().
	Executable string

	// Config skips loading and watching a configuration file.
	Config *config.Config

	// FS defaults to the operating system file system.
	FS vfs.VFS

	// Logger defaults to a file logger built from the configuration.
	Logger *zap.SugaredLogger

	// Dialog overrides the configured dialog backend.
	Dialog dialog.Dialog
}

// Application is the host process.
type Application struct {
	opts Options

	log      *zap.SugaredLogger
	closeLog func() error
	store    *config.Store
	fs       vfs.VFS
	menu     *menu.Menu
	sup      *process.Supervisor

	// Set by Run.
	ep     *bridge.Endpoint
	main   *bridge.Main
	prompt *dialog.Prompt
	dlg    dialog.Dialog
	ctx    context.Context

	mu          sync.RWMutex
	cfg         config.Config
	filters     []dialog.Filter
	script      scriptState
	notice      string
	currentPath string
	cancel      context.CancelFunc

	running atomic.Bool
}

// New creates the application, loading configuration, the logger and the
// init script.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:     opts,
		closeLog: func() error { return nil },
		ctx:      context.Background(),
	}

	if err := app.bootstrap(); err != nil {
		_ = app.closeLog()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	if app.opts.Config != nil {
		app.cfg = *app.opts.Config
	} else {
		store, err := config.Load(app.opts.ConfigPath)
		if err != nil {
			return NewComponentError("config", "load", err)
		}
		app.store = store
		app.cfg = store.Config()
	}
	if app.opts.LogLevel != "" {
		app.cfg.Logging.Level = app.opts.LogLevel
	}
	if app.opts.SingleProcess {
		app.cfg.Process.Isolate = false
	}

	// 2. Logger
	if app.opts.Logger != nil {
		app.log = app.opts.Logger
	} else {
		log, closeFn, err := logging.New(logging.Config{
			Level: app.cfg.Logging.Level,
			File:  app.cfg.Logging.File,
		})
		if err != nil {
			return NewComponentError("logging", "open", err)
		}
		app.log = log.Named("host")
		app.closeLog = closeFn
	}

	// 3. File system
	app.fs = app.opts.FS
	if app.fs == nil {
		app.fs = vfs.NewOSFS()
	}

	// 4. Init script; failures are reported once the renderer is up.
	if err := app.runScript(); err != nil {
		app.log.Warnw("init script failed", "path", app.cfg.Script.Path, "error", err)
		app.notice = "Init script: " + err.Error()
	}
	app.filters = app.buildFilters(app.cfg)

	// 5. Menu
	m, err := menu.Build(app.template())
	if err != nil {
		return NewComponentError("menu", "build", err)
	}
	app.menu = m

	// 6. Supervisor
	app.sup = process.NewSupervisor(process.WithProcessExitCallback(func(p *process.Process) {
		app.log.Debugw("process exited", "name", p.Name, "id", p.ID, "code", p.ExitCode())
	}))

	app.log.Infow("host initialized",
		"isolate", app.cfg.Process.Isolate,
		"dialog", app.cfg.Dialog.Backend,
		"files", len(app.opts.Files))
	return nil
}

// Run starts the renderer and serves it until the renderer exits, the
// user quits, ctx is cancelled or the process receives SIGINT or SIGTERM.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer func() { _ = app.closeLog() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()

	native, err := app.nativeDialog()
	if err != nil {
		return NewComponentError("dialog", "select", err)
	}

	// The link outlives ctx so app-quit can still be sent on shutdown.
	linkCtx, linkCancel := context.WithCancel(context.Background())
	defer linkCancel()

	link, err := app.startRenderer(linkCtx)
	if err != nil {
		app.sup.Shutdown(shutdownTimeout)
		return NewComponentError("renderer", "start", err)
	}

	app.ctx = linkCtx
	app.ep = bridge.NewEndpoint(link.conn, bridge.WithLogger(app.log.Named("bridge")))
	app.main = bridge.NewMain(app.ep)
	app.prompt = dialog.NewPrompt(app.main)
	app.dlg = app.opts.Dialog
	if app.dlg == nil {
		// Backend names were validated with the config; Select can only
		// fail for native, which nativeDialog already checked.
		app.dlg, _ = dialog.Select(app.cfg.Dialog.Backend, native, app.prompt)
	}
	app.registerHandlers()
	app.watchConfig()

	bridgeDone := make(chan error, 1)
	go func() { bridgeDone <- app.ep.Run(linkCtx) }()

	var runErr error
	select {
	case <-ctx.Done():
		app.log.Infow("shutting down", "reason", context.Cause(ctx))
		app.quitRenderer(link)
	case err := <-bridgeDone:
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bridge.ErrClosed) {
			runErr = NewComponentError("bridge", "read", err)
		}
		app.log.Infow("renderer disconnected", "error", err)
	case <-link.done:
		app.log.Infow("renderer exited")
	}

	_ = app.ep.Close()
	select {
	case <-link.done:
	case <-time.After(quitTimeout):
		app.log.Warnw("renderer did not stop in time")
	}
	linkCancel()
	app.sup.Shutdown(shutdownTimeout)

	if err := link.Err(); err != nil && runErr == nil {
		runErr = NewComponentError("renderer", "run", err)
	}
	return runErr
}

// quitRenderer asks the renderer to quit and waits briefly for it.
func (app *Application) quitRenderer(link *rendererLink) {
	ctx, cancel := context.WithTimeout(context.Background(), quitTimeout)
	defer cancel()

	if err := app.main.SendQuit(ctx); err != nil {
		app.log.Debugw("send quit failed", "error", err)
		return
	}
	select {
	case <-link.done:
	case <-ctx.Done():
	}
}

// Shutdown stops a running application. Run returns once the renderer is
// gone.
func (app *Application) Shutdown() {
	app.mu.RLock()
	cancel := app.cancel
	app.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Logger returns the host logger.
func (app *Application) Logger() *zap.SugaredLogger {
	return app.log
}

// Menu returns the built application menu.
func (app *Application) Menu() *menu.Menu {
	return app.menu
}

// CurrentPath returns the path Save writes to, empty when the active tab is
// untitled.
func (app *Application) CurrentPath() string {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.currentPath
}

func (app *Application) setCurrent(path string) {
	app.mu.Lock()
	app.currentPath = path
	app.mu.Unlock()
}

// nativeDialog returns the desktop dialog helper, or nil when the session
// has none. It fails only when the native backend is required.
func (app *Application) nativeDialog() (dialog.Dialog, error) {
	if app.opts.Dialog != nil || app.cfg.Dialog.Backend == dialog.BackendPrompt {
		return nil, nil
	}
	n, err := dialog.NewNative(app.sup)
	if err != nil {
		if app.cfg.Dialog.Backend == dialog.BackendNative {
			return nil, err
		}
		app.log.Debugw("native dialogs unavailable", "error", err)
		return nil, nil
	}
	app.log.Debugw("using native dialogs", "helper", n.Helper())
	return n, nil
}
