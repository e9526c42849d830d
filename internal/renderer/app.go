package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/renderer/backend"
	"github.com/dshills/keypad/internal/renderer/viewport"
	"github.com/dshills/keypad/internal/textarea"
	"github.com/dshills/keypad/internal/workspace"
)

// Options configures an App.
type Options struct {
	// Backend is the drawing surface. Required.
	Backend backend.Backend

	// Conn carries the bridge to the host. Required.
	Conn io.ReadWriteCloser

	// Logger defaults to a no-op logger.
	Logger *zap.SugaredLogger

	// Clipboard defaults to the system clipboard.
	Clipboard textarea.Clipboard

	// TrafficSize bounds the developer tools log. Zero uses 200.
	TrafficSize int
}

// App is the renderer: tabs, widget, menu bar, dialogs and status bar.
type App struct {
	be   backend.Backend
	ep   *bridge.Endpoint
	rend *bridge.Renderer
	log  *zap.SugaredLogger

	ws      *workspace.Manager
	views   map[string]*viewport.Viewport
	traffic *Traffic

	inboxMu sync.Mutex
	inbox   []func()

	// ctx is the context of the running loop, used for sends from the UI
	// goroutine.
	ctx     context.Context
	running atomic.Bool
	quit    bool

	cfg        bridge.RendererConfig
	pal        palette
	menus      menuBar
	prompts    promptQueue
	message    statusLine
	fullscreen bool
	devtools   atomic.Bool
	pasting    bool
	pasted     strings.Builder
	dragging   bool
	dragAnchor textarea.Pos
	closeArmed string

	// reveal asks the next draw to scroll the cursor into view. Wheel
	// scrolling leaves it unset so the cursor may go off screen.
	reveal bool

	// Hit-testing state recorded by the last draw.
	lay     layout
	rows    []rowRef
	textX   int
	tabHits []tabHit
}

// New creates an App. Handlers are registered immediately; nothing is
// read from the connection until Run.
func New(opts Options) (*App, error) {
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}
	if opts.Conn == nil {
		return nil, ErrNoConn
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	size := opts.TrafficSize
	if size <= 0 {
		size = 200
	}

	a := &App{
		be:      opts.Backend,
		log:     log,
		views:   make(map[string]*viewport.Viewport),
		traffic: NewTraffic(size),
		ctx:     context.Background(),
		cfg:     defaultRendererConfig(),
	}

	var wsOpts []workspace.Option
	if opts.Clipboard != nil {
		wsOpts = append(wsOpts, workspace.WithClipboard(opts.Clipboard))
	}
	a.ws = workspace.NewManager(wsOpts...)
	a.ws.OnChange(a.onTabChange)
	a.pal = newPalette(a.cfg, textarea.New().ThemeColors())

	a.ep = bridge.NewEndpoint(opts.Conn,
		bridge.WithLogger(log.Named("bridge")),
		bridge.WithObserver(a.observe),
	)
	a.rend = bridge.NewRenderer(a.ep)
	a.registerHandlers()
	return a, nil
}

func defaultRendererConfig() bridge.RendererConfig {
	o := textarea.DefaultOptions()
	return bridge.RendererConfig{
		Theme:             o.Theme,
		TabSize:           o.TabSize,
		IndentWithTabs:    o.IndentWithTabs,
		LineNumbers:       o.LineNumbers,
		AutoCloseBrackets: o.AutoCloseBrackets,
		MatchBrackets:     o.MatchBrackets,
		StyleActiveLine:   o.StyleActiveLine,
		LineWrapping:      o.LineWrapping,
	}
}

// Workspace returns the tab manager.
func (a *App) Workspace() *workspace.Manager {
	return a.ws
}

// Traffic returns the bridge traffic log shown by the developer tools.
func (a *App) Traffic() *Traffic {
	return a.traffic
}

// post queues fn for the UI goroutine. The queue is unbounded so the
// bridge reader never blocks on a busy screen.
func (a *App) post(fn func()) {
	a.inboxMu.Lock()
	a.inbox = append(a.inbox, fn)
	a.inboxMu.Unlock()
	a.be.Interrupt()
}

func (a *App) drain() {
	a.inboxMu.Lock()
	work := a.inbox
	a.inbox = nil
	a.inboxMu.Unlock()
	for _, fn := range work {
		fn()
	}
}

// observe records bridge traffic. While the developer tools are open the
// UI is woken so the panel stays current.
func (a *App) observe(dir bridge.Direction, msg bridge.Message) {
	a.traffic.Observe(dir, msg)
	if a.devtools.Load() && a.running.Load() {
		a.post(func() {})
	}
}

// Run draws the screen and processes input and bridge messages until the
// host sends app-quit, the bridge closes or ctx ends.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.be.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.be.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	bridgeErr := make(chan error, 1)
	go func() {
		err := a.ep.Run(ctx)
		bridgeErr <- err
		a.post(func() { a.quit = true })
	}()
	go func() {
		<-ctx.Done()
		a.post(func() { a.quit = true })
	}()

	if err := a.rend.Ready(ctx); err != nil {
		return fmt.Errorf("send ready: %w", err)
	}

	a.draw()
	for !a.quit {
		ev := a.be.PollEvent()
		if ev.Type == backend.EventClosed {
			break
		}
		a.handleEvent(ev)
		if a.quit {
			break
		}
		a.draw()
	}

	a.ep.Close()
	cancel()
	err := <-bridgeErr
	switch {
	case err == nil,
		errors.Is(err, bridge.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.EOF):
		return nil
	}
	return err
}

// send runs a bridge send from the UI goroutine, reporting failures on the
// status line.
func (a *App) send(what string, fn func(ctx context.Context) error) {
	if err := fn(a.ctx); err != nil {
		a.log.Warnw("bridge send failed", "message", what, "error", err)
		a.message.set(fmt.Sprintf("Lost contact with host: %v", err), bridge.StatusError)
	}
}

// onTabChange keeps the host's notion of the current file in step with
// the active tab.
func (a *App) onTabChange(ev workspace.Event) {
	if ev.Kind == workspace.TabClosed && ev.Tab != nil {
		delete(a.views, ev.Tab.ID)
	}
	a.closeArmed = ""
	path := a.ws.ActivePath()
	a.send(string(bridge.ChannelActiveChanged), func(ctx context.Context) error {
		return a.rend.ActiveChanged(ctx, path)
	})
}

// view returns the viewport of tab, creating it on first use.
func (a *App) view(tab *workspace.Tab) *viewport.Viewport {
	v, ok := a.views[tab.ID]
	if !ok {
		v = viewport.New(1, 1)
		a.views[tab.ID] = v
	}
	return v
}
