package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/config"
	"github.com/dshills/keypad/internal/dialog"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/vfs"
)

const waitFor = 2 * time.Second

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for message")
	}
	var zero T
	return zero
}

// fakeRenderer is a bridge peer that records what the host sends.
type fakeRenderer struct {
	rend  *bridge.Renderer
	ready chan struct{}

	news     chan struct{}
	opened   chan bridge.FileOpened
	saves    chan bridge.FileSave
	results  chan bridge.SaveResult
	edits    chan bridge.EditCommand
	menus    chan bridge.MenuSet
	configs  chan bridge.RendererConfig
	dialogs  chan bridge.DialogRequest
	statuses chan bridge.StatusMessage
	quits    chan struct{}
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		ready:    make(chan struct{}),
		news:     make(chan struct{}, 16),
		opened:   make(chan bridge.FileOpened, 16),
		saves:    make(chan bridge.FileSave, 16),
		results:  make(chan bridge.SaveResult, 16),
		edits:    make(chan bridge.EditCommand, 16),
		menus:    make(chan bridge.MenuSet, 16),
		configs:  make(chan bridge.RendererConfig, 16),
		dialogs:  make(chan bridge.DialogRequest, 16),
		statuses: make(chan bridge.StatusMessage, 16),
		quits:    make(chan struct{}, 1),
	}
}

func (f *fakeRenderer) run(ctx context.Context, conn io.ReadWriteCloser) error {
	ep := bridge.NewEndpoint(conn)
	f.rend = bridge.NewRenderer(ep)

	f.rend.OnFileNew(func(context.Context) error { f.news <- struct{}{}; return nil })
	f.rend.OnFileOpened(func(_ context.Context, p bridge.FileOpened) error { f.opened <- p; return nil })
	f.rend.OnFileSave(func(_ context.Context, p bridge.FileSave) error { f.saves <- p; return nil })
	f.rend.OnSaveResult(func(_ context.Context, p bridge.SaveResult) error { f.results <- p; return nil })
	f.rend.OnEditCommand(func(_ context.Context, p bridge.EditCommand) error { f.edits <- p; return nil })
	f.rend.OnMenu(func(_ context.Context, p bridge.MenuSet) error { f.menus <- p; return nil })
	f.rend.OnConfig(func(_ context.Context, p bridge.RendererConfig) error { f.configs <- p; return nil })
	f.rend.OnDialogRequest(func(_ context.Context, p bridge.DialogRequest) error { f.dialogs <- p; return nil })
	f.rend.OnStatus(func(_ context.Context, p bridge.StatusMessage) error { f.statuses <- p; return nil })
	f.rend.OnQuit(func(context.Context) error {
		f.quits <- struct{}{}
		return ep.Close()
	})

	errc := make(chan error, 1)
	go func() { errc <- ep.Run(ctx) }()

	if err := f.rend.Ready(ctx); err != nil {
		return err
	}
	close(f.ready)

	err := <-errc
	switch {
	case errors.Is(err, bridge.ErrClosed), errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		return nil
	}
	return err
}

// fakeDialog answers dialogs from canned results.
type fakeDialog struct {
	mu   sync.Mutex
	open dialog.Result
	save dialog.Result
	err  error

	saveOpts chan dialog.SaveOptions
	messages chan dialog.MessageOptions
}

func newFakeDialog() *fakeDialog {
	return &fakeDialog{
		saveOpts: make(chan dialog.SaveOptions, 16),
		messages: make(chan dialog.MessageOptions, 16),
	}
}

func (d *fakeDialog) answerOpen(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if path == "" {
		d.open = dialog.Result{Canceled: true}
		return
	}
	d.open = dialog.Result{Paths: []string{path}}
}

func (d *fakeDialog) answerSave(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if path == "" {
		d.save = dialog.Result{Canceled: true}
		return
	}
	d.save = dialog.Result{Paths: []string{path}}
}

func (d *fakeDialog) ShowOpen(context.Context, dialog.OpenOptions) (dialog.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open, d.err
}

func (d *fakeDialog) ShowSave(_ context.Context, opts dialog.SaveOptions) (dialog.Result, error) {
	d.saveOpts <- opts
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save, d.err
}

func (d *fakeDialog) ShowMessage(_ context.Context, opts dialog.MessageOptions) error {
	d.messages <- opts
	return nil
}

type harness struct {
	t    *testing.T
	app  *Application
	fs   *vfs.MemFS
	fr   *fakeRenderer
	dlg  *fakeDialog
	logs *observer.ObservedLogs

	done   chan struct{}
	runErr error
}

// wait returns Run's result once it has returned.
func (h *harness) wait() error {
	h.t.Helper()
	recv(h.t, h.done)
	return h.runErr
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Process.Isolate = false
	cfg.Script.Path = ""
	return &cfg
}

// newHarness runs an Application against a fakeRenderer. setup may adjust
// the options and seed the file system before New.
func newHarness(t *testing.T, setup func(*Options, *vfs.MemFS)) *harness {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	h := &harness{
		t:    t,
		fs:   vfs.NewMemFS(),
		fr:   newFakeRenderer(),
		dlg:  newFakeDialog(),
		logs: logs,
		done: make(chan struct{}),
	}
	require.NoError(t, h.fs.MkdirAll("/work", 0o755))

	opts := Options{
		Config:   testConfig(),
		FS:       h.fs,
		Logger:   zap.New(core).Sugar(),
		Dialog:   h.dlg,
		Renderer: h.fr.run,
	}
	if setup != nil {
		setup(&opts, h.fs)
	}

	a, err := New(opts)
	require.NoError(t, err)
	h.app = a

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		h.runErr = a.Run(ctx)
		close(h.done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(5 * time.Second):
			t.Error("Run did not return")
		}
	})

	recv(t, h.fr.ready)
	return h
}

// started waits for the startup sequence: config, menu, and a new file when
// no files were given.
func (h *harness) started() {
	h.t.Helper()
	recv(h.t, h.fr.configs)
	recv(h.t, h.fr.menus)
	recv(h.t, h.fr.news)
}

func (h *harness) invoke(id string) {
	h.t.Helper()
	require.NoError(h.t, h.fr.rend.InvokeMenu(context.Background(), id))
}

func (h *harness) currentPathIs(path string) {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return h.app.CurrentPath() == path },
		waitFor, 5*time.Millisecond, "current path %q, want %q", h.app.CurrentPath(), path)
}

func TestNewConfigError(t *testing.T) {
	_, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})

	var ce *ComponentError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "config", ce.Component)
}

func TestReadyConfiguresRenderer(t *testing.T) {
	h := newHarness(t, nil)

	cfg := recv(t, h.fr.configs)
	require.Equal(t, "monokai", cfg.Theme)
	require.Equal(t, 2, cfg.TabSize)

	menus := recv(t, h.fr.menus)
	var labels []string
	for _, m := range menus.Menus {
		labels = append(labels, m.Label)
	}
	require.Equal(t, []string{"File", "Edit", "View", "Help"}, labels)

	recv(t, h.fr.news)
	require.Empty(t, h.app.CurrentPath())
}

func TestStartupFiles(t *testing.T) {
	h := newHarness(t, func(o *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/work/a.txt", "\ufeffhello"))
		require.NoError(t, fs.AddFile("/work/bin.dat", "\x00\x01\x02"))
		o.Files = []string{"/work/a.txt", "/work/missing.txt", "/work/bin.dat"}
	})
	recv(t, h.fr.configs)
	recv(t, h.fr.menus)

	require.Equal(t, bridge.FileOpened{FilePath: "/work/a.txt", Content: "hello"}, recv(t, h.fr.opened))
	require.Equal(t, bridge.FileOpened{FilePath: "/work/missing.txt"}, recv(t, h.fr.opened))

	st := recv(t, h.fr.statuses)
	require.Equal(t, bridge.StatusError, st.Level)
	require.Equal(t, "Failed to open /work/bin.dat: binary file", st.Text)

	require.Empty(t, h.fr.news)
	h.currentPathIs("/work/missing.txt")
}

func TestSaveAsThenSave(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	// An untitled tab falls back to Save As.
	h.dlg.answerSave("/work/out.txt")
	h.invoke(ItemSave)
	opts := recv(t, h.dlg.saveOpts)
	require.Equal(t, "/untitled.txt", opts.DefaultPath)
	require.Equal(t, bridge.FileSave{FilePath: "/work/out.txt"}, recv(t, h.fr.saves))

	require.NoError(t, h.fr.rend.SaveContent(context.Background(), "/work/out.txt", "data"))
	require.Equal(t, bridge.SaveResult{FilePath: "/work/out.txt"}, recv(t, h.fr.results))

	got, err := h.fs.ReadFile("/work/out.txt")
	require.NoError(t, err)
	require.Equal(t, "data", string(got))
	h.currentPathIs("/work/out.txt")

	// A named tab saves without asking.
	h.invoke(ItemSave)
	require.Equal(t, bridge.FileSave{FilePath: "/work/out.txt"}, recv(t, h.fr.saves))
	require.Empty(t, h.dlg.saveOpts)
}

func TestSaveAsCanceled(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.dlg.answerSave("")
	h.invoke(ItemSaveAs)
	recv(t, h.dlg.saveOpts)
	require.Never(t, func() bool { return len(h.fr.saves) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestSaveFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.fs.FailWrites(errors.New("disk full"))
	require.NoError(t, h.fr.rend.SaveContent(context.Background(), "/work/a.txt", "x"))

	res := recv(t, h.fr.results)
	require.Equal(t, "/work/a.txt", res.FilePath)
	require.Contains(t, res.Error, "disk full")
	require.Empty(t, h.app.CurrentPath())
}

func TestSaveContentWithoutPath(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	require.NoError(t, h.fr.rend.SaveContent(context.Background(), "", "x"))
	require.Equal(t, bridge.SaveResult{Error: ErrNoPath.Error()}, recv(t, h.fr.results))
}

func TestOpenMenu(t *testing.T) {
	h := newHarness(t, func(_ *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/work/a.txt", "alpha"))
	})
	h.started()

	h.dlg.answerOpen("")
	h.invoke(ItemOpen)
	require.Never(t, func() bool { return len(h.fr.opened) > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	h.dlg.answerOpen("/work/a.txt")
	h.invoke(ItemOpen)
	require.Equal(t, bridge.FileOpened{FilePath: "/work/a.txt", Content: "alpha"}, recv(t, h.fr.opened))
	h.currentPathIs("/work/a.txt")
}

func TestOpenReadError(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.dlg.answerOpen("/work/none.txt")
	h.invoke(ItemOpen)

	st := recv(t, h.fr.statuses)
	require.Equal(t, bridge.StatusError, st.Level)
	require.Contains(t, st.Text, "Failed to open /work/none.txt")
	require.Empty(t, h.app.CurrentPath())
}

func TestOpenRefusesBinaryFile(t *testing.T) {
	h := newHarness(t, func(_ *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/work/a.txt", "alpha"))
		require.NoError(t, fs.AddFile("/work/image.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	})
	h.started()

	h.dlg.answerOpen("/work/a.txt")
	h.invoke(ItemOpen)
	recv(t, h.fr.opened)
	h.currentPathIs("/work/a.txt")

	h.dlg.answerOpen("/work/image.png")
	h.invoke(ItemOpen)

	st := recv(t, h.fr.statuses)
	require.Equal(t, bridge.StatusError, st.Level)
	require.Contains(t, st.Text, "binary file")
	require.Contains(t, st.Text, "/work/image.png")
	require.Empty(t, h.fr.opened)
	require.Equal(t, "/work/a.txt", h.app.CurrentPath())
}

func TestNewFileClearsPath(t *testing.T) {
	h := newHarness(t, func(o *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/work/a.txt", "alpha"))
		o.Files = []string{"/work/a.txt"}
	})
	recv(t, h.fr.opened)
	h.currentPathIs("/work/a.txt")

	h.invoke(ItemNew)
	recv(t, h.fr.news)
	h.currentPathIs("")
}

func TestRoleItemsForwarded(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.invoke("edit.undo")
	require.Equal(t, menu.RoleUndo, recv(t, h.fr.edits).Role)
	h.invoke("edit.selectAll")
	require.Equal(t, menu.RoleSelectAll, recv(t, h.fr.edits).Role)
	h.invoke("view.toggleDevTools")
	require.Equal(t, menu.RoleToggleDevTools, recv(t, h.fr.edits).Role)
	h.invoke("view.zoomIn")
	require.Equal(t, menu.RoleZoomIn, recv(t, h.fr.edits).Role)
}

func TestActiveChangedTracksPath(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	require.NoError(t, h.fr.rend.ActiveChanged(context.Background(), "/work/b.txt"))
	h.currentPathIs("/work/b.txt")

	h.invoke(ItemSave)
	require.Equal(t, bridge.FileSave{FilePath: "/work/b.txt"}, recv(t, h.fr.saves))
}

func TestUnknownMenuItem(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.invoke("file.nope")
	require.Eventually(t, func() bool {
		return h.logs.FilterMessage("bridge error").Len() == 1
	}, waitFor, 5*time.Millisecond)
}

func TestAbout(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.invoke(ItemAbout)
	msg := recv(t, h.dlg.messages)
	require.Equal(t, aboutMessage, msg.Message)
	require.Equal(t, aboutDetail, msg.Detail)
}

func TestPromptDialogRoundTrip(t *testing.T) {
	h := newHarness(t, func(o *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/work/a.txt", "alpha"))
		o.Dialog = nil
		o.Config.Dialog.Backend = dialog.BackendPrompt
	})
	h.started()

	h.invoke(ItemOpen)
	req := recv(t, h.fr.dialogs)
	require.Equal(t, bridge.DialogOpen, req.Kind)
	require.NotEmpty(t, req.ID)
	require.Equal(t, "Text Files", req.Filters[0].Name)

	require.NoError(t, h.fr.rend.RespondDialog(context.Background(), bridge.DialogResponse{ID: req.ID, FilePath: "/work/a.txt"}))
	require.Equal(t, "/work/a.txt", recv(t, h.fr.opened).FilePath)
	require.Zero(t, h.app.prompt.Pending())
}

func TestActionRecoversPanic(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.app.action("boom", func(context.Context) error { panic("boom") })(context.Background())

	st := recv(t, h.fr.statuses)
	require.Equal(t, "Internal error: boom", st.Text)
	require.Equal(t, 1, h.logs.FilterMessage("menu action panicked").Len())
}

func TestExitStopsRun(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	h.invoke(ItemExit)
	recv(t, h.fr.quits)
	require.NoError(t, h.wait())
}

func TestShutdownSendsQuit(t *testing.T) {
	h := newHarness(t, nil)
	h.started()
	require.True(t, h.app.IsRunning())

	h.app.Shutdown()
	recv(t, h.fr.quits)
	require.NoError(t, h.wait())
	require.False(t, h.app.IsRunning())
}

func TestRunTwice(t *testing.T) {
	h := newHarness(t, nil)
	require.ErrorIs(t, h.app.Run(context.Background()), ErrAlreadyRunning)
}

func TestRunWithoutRenderer(t *testing.T) {
	a, err := New(Options{Config: testConfig(), FS: vfs.NewMemFS(), Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	require.ErrorIs(t, a.Run(context.Background()), ErrNoRenderer)
}

func TestInitScript(t *testing.T) {
	h := newHarness(t, func(o *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/cfg/init.lua", `
keypad.filter("Go", {"go", "mod"})
keypad.mode(".GO", "go")
`))
		o.Config.Script.Path = "/cfg/init.lua"
	})

	cfg := recv(t, h.fr.configs)
	require.Equal(t, map[string]string{"go": "go"}, cfg.Modes)
	require.Equal(t, dialog.Filter{Name: "Go", Extensions: []string{"go", "mod"}}, h.app.dialogFilters()[0])
	require.Len(t, h.app.dialogFilters(), 3)
}

func TestInitScriptErrorReported(t *testing.T) {
	h := newHarness(t, func(o *Options, fs *vfs.MemFS) {
		require.NoError(t, fs.AddFile("/cfg/init.lua", `keypad.filter(`))
		o.Config.Script.Path = "/cfg/init.lua"
	})
	h.started()

	st := recv(t, h.fr.statuses)
	require.Equal(t, bridge.StatusError, st.Level)
	require.Contains(t, st.Text, "Init script:")
}

func TestApplyConfig(t *testing.T) {
	h := newHarness(t, nil)
	h.started()

	cfg := config.Defaults()
	cfg.Editor.Theme = "dracula"
	cfg.Process.Isolate = true
	cfg.Files.Filters = []config.FilterConfig{{Name: "Markdown", Extensions: []string{"md"}}}
	h.app.applyConfig(cfg)

	require.Equal(t, "dracula", recv(t, h.fr.configs).Theme)
	require.Equal(t, "Configuration reloaded", recv(t, h.fr.statuses).Text)
	require.False(t, h.app.Config().Process.Isolate)
	require.Equal(t, []dialog.Filter{{Name: "Markdown", Extensions: []string{"md"}}}, h.app.dialogFilters())
}

func TestToRendererConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Editor.LineWrapping = true
	modes := map[string]string{"go": "go"}

	got := toRendererConfig(cfg, modes)
	want := bridge.RendererConfig{
		Theme:             "monokai",
		TabSize:           2,
		LineNumbers:       true,
		AutoCloseBrackets: true,
		MatchBrackets:     true,
		StyleActiveLine:   true,
		LineWrapping:      true,
		MenuBarColor:      "#3e3d32",
		TabBarColor:       "#1e1f1c",
		StatusBarColor:    "#414339",
		Modes:             map[string]string{"go": "go"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toRendererConfig mismatch (-want +got):\n%s", diff)
	}

	modes["go"] = "changed"
	require.Equal(t, "go", got.Modes["go"])
}

func TestTemplateAccelerators(t *testing.T) {
	a, err := New(Options{Config: testConfig(), FS: vfs.NewMemFS(), Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	tests := []struct {
		chord menu.Chord
		id    string
	}{
		{menu.RuneChord('n', menu.ModCtrl), ItemNew},
		{menu.RuneChord('o', menu.ModCtrl), ItemOpen},
		{menu.RuneChord('s', menu.ModCtrl), ItemSave},
		{menu.RuneChord('s', menu.ModCtrl|menu.ModShift), ItemSaveAs},
		{menu.KeyChord(menu.KeyF12, menu.ModNone), ItemSaveAs},
		{menu.RuneChord('q', menu.ModCtrl), ItemExit},
		{menu.RuneChord('z', menu.ModCtrl), "edit.undo"},
		{menu.RuneChord('0', menu.ModCtrl), "view.resetZoom"},
		{menu.RuneChord('+', menu.ModCtrl), "view.zoomIn"},
		{menu.RuneChord('-', menu.ModCtrl), "view.zoomOut"},
	}
	for _, tt := range tests {
		t.Run(tt.chord.String(), func(t *testing.T) {
			item, ok := a.Menu().Match(tt.chord)
			require.True(t, ok)
			require.Equal(t, tt.id, item.ID)
		})
	}
}
