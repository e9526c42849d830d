package bridge

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func facades(t *testing.T) (*Main, *Renderer) {
	t.Helper()
	a, b := net.Pipe()
	host := NewMain(NewEndpoint(a))
	ui := NewRenderer(NewEndpoint(b))
	t.Cleanup(func() {
		host.Endpoint().Close()
		ui.Endpoint().Close()
	})
	go host.Endpoint().Run(context.Background())
	go ui.Endpoint().Run(context.Background())
	return host, ui
}

func TestHostToRenderer(t *testing.T) {
	host, ui := facades(t)
	ctx := context.Background()

	opened := make(chan FileOpened, 1)
	saves := make(chan FileSave, 1)
	results := make(chan SaveResult, 2)
	menus := make(chan MenuSet, 1)
	configs := make(chan RendererConfig, 1)
	dialogs := make(chan DialogRequest, 1)
	edits := make(chan EditCommand, 1)
	statuses := make(chan StatusMessage, 1)
	signals := make(chan Channel, 2)

	ui.OnFileNew(func(context.Context) error { signals <- ChannelFileNew; return nil })
	ui.OnQuit(func(context.Context) error { signals <- ChannelAppQuit; return nil })
	ui.OnFileOpened(func(_ context.Context, p FileOpened) error { opened <- p; return nil })
	ui.OnFileSave(func(_ context.Context, p FileSave) error { saves <- p; return nil })
	ui.OnSaveResult(func(_ context.Context, p SaveResult) error { results <- p; return nil })
	ui.OnMenu(func(_ context.Context, p MenuSet) error { menus <- p; return nil })
	ui.OnConfig(func(_ context.Context, p RendererConfig) error { configs <- p; return nil })
	ui.OnDialogRequest(func(_ context.Context, p DialogRequest) error { dialogs <- p; return nil })
	ui.OnEditCommand(func(_ context.Context, p EditCommand) error { edits <- p; return nil })
	ui.OnStatus(func(_ context.Context, p StatusMessage) error { statuses <- p; return nil })

	require.NoError(t, host.SendFileNew(ctx))
	require.Equal(t, ChannelFileNew, recv(t, signals))

	require.NoError(t, host.SendFileOpened(ctx, "/tmp/a.js", "let a = 1\n"))
	require.Equal(t, FileOpened{FilePath: "/tmp/a.js", Content: "let a = 1\n"}, recv(t, opened))

	require.NoError(t, host.SendFileSave(ctx, "/tmp/a.js"))
	require.Equal(t, "/tmp/a.js", recv(t, saves).FilePath)

	require.NoError(t, host.SendSaveResult(ctx, "/tmp/a.js", nil))
	require.Equal(t, SaveResult{FilePath: "/tmp/a.js"}, recv(t, results))
	require.NoError(t, host.SendSaveResult(ctx, "/tmp/a.js", errors.New("disk full")))
	require.Equal(t, "disk full", recv(t, results).Error)

	want := []MenuDescriptor{{
		ID:    "file",
		Label: "File",
		Type:  "submenu",
		Submenu: []MenuDescriptor{
			{ID: "file.new", Label: "New File", Accelerators: []string{"CmdOrCtrl+N"}},
			{ID: "file.sep1", Type: "separator"},
		},
	}}
	require.NoError(t, host.SendMenu(ctx, want))
	if diff := cmp.Diff(want, recv(t, menus).Menus); diff != "" {
		t.Errorf("menu mismatch (-want +got):\n%s", diff)
	}

	cfg := RendererConfig{Theme: "monokai", TabSize: 2, LineNumbers: true, Modes: map[string]string{"go": "go"}}
	require.NoError(t, host.SendConfig(ctx, cfg))
	if diff := cmp.Diff(cfg, recv(t, configs)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	req := DialogRequest{ID: "d1", Kind: DialogOpen, Title: "Open", Filters: []Filter{{Name: "All Files", Extensions: []string{"*"}}}}
	require.NoError(t, host.SendDialogRequest(ctx, req))
	if diff := cmp.Diff(req, recv(t, dialogs)); diff != "" {
		t.Errorf("dialog mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, host.SendEditCommand(ctx, "undo"))
	require.Equal(t, "undo", recv(t, edits).Role)

	require.NoError(t, host.SendStatus(ctx, "saved", StatusInfo))
	require.Equal(t, StatusMessage{Text: "saved", Level: StatusInfo}, recv(t, statuses))

	require.NoError(t, host.SendQuit(ctx))
	require.Equal(t, ChannelAppQuit, recv(t, signals))
}

func TestRendererToHost(t *testing.T) {
	host, ui := facades(t)
	ctx := context.Background()

	ready := make(chan struct{}, 1)
	contents := make(chan SaveContent, 1)
	invokes := make(chan MenuInvoke, 1)
	responses := make(chan DialogResponse, 1)
	active := make(chan ActiveChanged, 1)

	host.OnReady(func(context.Context) error { ready <- struct{}{}; return nil })
	host.OnSaveContent(func(_ context.Context, p SaveContent) error { contents <- p; return nil })
	host.OnMenuInvoke(func(_ context.Context, p MenuInvoke) error { invokes <- p; return nil })
	host.OnDialogResponse(func(_ context.Context, p DialogResponse) error { responses <- p; return nil })
	host.OnActiveChanged(func(_ context.Context, p ActiveChanged) error { active <- p; return nil })

	require.NoError(t, ui.Ready(ctx))
	recv(t, ready)

	require.NoError(t, ui.SaveContent(ctx, "/tmp/b.md", "# hi"))
	require.Equal(t, SaveContent{FilePath: "/tmp/b.md", Content: "# hi"}, recv(t, contents))

	require.NoError(t, ui.InvokeMenu(ctx, "file.open"))
	require.Equal(t, "file.open", recv(t, invokes).ID)

	require.NoError(t, ui.RespondDialog(ctx, DialogResponse{ID: "d1", FilePath: "/tmp/c.css"}))
	require.Equal(t, DialogResponse{ID: "d1", FilePath: "/tmp/c.css"}, recv(t, responses))

	require.NoError(t, ui.ActiveChanged(ctx, ""))
	require.Equal(t, ActiveChanged{}, recv(t, active))
}

func TestPayloadDecodeError(t *testing.T) {
	errs := make(chan error, 1)
	a, b := net.Pipe()
	defer a.Close()
	ep := NewEndpoint(b, WithErrorHandler(func(err error) { errs <- err }))
	defer ep.Close()

	ui := NewRenderer(ep)
	ui.OnFileOpened(func(context.Context, FileOpened) error {
		t.Error("handler should not run")
		return nil
	})
	go ep.Run(context.Background())

	_, err := a.Write([]byte(`{"channel":"file-opened","seq":1,"payload":{"filePath":3}}` + "\n"))
	require.NoError(t, err)

	var derr *DecodeError
	require.True(t, errors.As(recv(t, errs), &derr))
	require.Equal(t, ChannelFileOpened, derr.Channel)
}

func TestChannelKnown(t *testing.T) {
	require.True(t, ChannelActiveChanged.Known())
	require.True(t, ChannelRendererConfig.Known())
	require.False(t, Channel("zoom-in").Known())
	require.Equal(t, "menu-set", ChannelMenuSet.String())
}
