package bridge

import "context"

func on[T any](ep *Endpoint, channel Channel, fn func(context.Context, T) error) {
	ep.Handle(channel, func(ctx context.Context, msg Message) error {
		var p T
		if err := msg.Decode(&p); err != nil {
			return err
		}
		return fn(ctx, p)
	})
}

func onSignal(ep *Endpoint, channel Channel, fn func(context.Context) error) {
	ep.Handle(channel, func(ctx context.Context, _ Message) error {
		return fn(ctx)
	})
}

// Main is the host side of the bridge.
type Main struct {
	ep *Endpoint
}

// NewMain wraps ep for the host.
func NewMain(ep *Endpoint) *Main {
	return &Main{ep: ep}
}

// Endpoint returns the underlying endpoint.
func (m *Main) Endpoint() *Endpoint { return m.ep }

// SendFileNew asks the renderer to open an empty tab.
func (m *Main) SendFileNew(ctx context.Context) error {
	return m.ep.Send(ctx, ChannelFileNew, nil)
}

// SendFileOpened delivers a file's content to the renderer.
func (m *Main) SendFileOpened(ctx context.Context, filePath, content string) error {
	return m.ep.Send(ctx, ChannelFileOpened, FileOpened{FilePath: filePath, Content: content})
}

// SendFileSave asks the renderer to send back the active tab's content.
func (m *Main) SendFileSave(ctx context.Context, filePath string) error {
	return m.ep.Send(ctx, ChannelFileSave, FileSave{FilePath: filePath})
}

// SendSaveResult acknowledges a save. A nil err means success.
func (m *Main) SendSaveResult(ctx context.Context, filePath string, err error) error {
	res := SaveResult{FilePath: filePath}
	if err != nil {
		res.Error = err.Error()
	}
	return m.ep.Send(ctx, ChannelSaveResult, res)
}

// SendEditCommand forwards an edit or view role.
func (m *Main) SendEditCommand(ctx context.Context, role string) error {
	return m.ep.Send(ctx, ChannelEditCommand, EditCommand{Role: role})
}

// SendMenu installs the application menu.
func (m *Main) SendMenu(ctx context.Context, menus []MenuDescriptor) error {
	return m.ep.Send(ctx, ChannelMenuSet, MenuSet{Menus: menus})
}

// SendConfig pushes renderer settings.
func (m *Main) SendConfig(ctx context.Context, cfg RendererConfig) error {
	return m.ep.Send(ctx, ChannelRendererConfig, cfg)
}

// SendDialogRequest asks the renderer to prompt the user.
func (m *Main) SendDialogRequest(ctx context.Context, req DialogRequest) error {
	return m.ep.Send(ctx, ChannelDialogRequest, req)
}

// SendQuit tells the renderer to exit.
func (m *Main) SendQuit(ctx context.Context) error {
	return m.ep.Send(ctx, ChannelAppQuit, nil)
}

// SendStatus shows a transient notice.
func (m *Main) SendStatus(ctx context.Context, text, level string) error {
	return m.ep.Send(ctx, ChannelStatusMessage, StatusMessage{Text: text, Level: level})
}

// OnReady is called once the renderer has registered its handlers.
func (m *Main) OnReady(fn func(ctx context.Context) error) {
	onSignal(m.ep, ChannelRendererReady, fn)
}

// OnSaveContent receives the active tab's content after SendFileSave.
func (m *Main) OnSaveContent(fn func(ctx context.Context, p SaveContent) error) {
	on(m.ep, ChannelSaveContent, fn)
}

// OnMenuInvoke receives menu activations.
func (m *Main) OnMenuInvoke(fn func(ctx context.Context, p MenuInvoke) error) {
	on(m.ep, ChannelMenuInvoke, fn)
}

// OnDialogResponse receives answers to SendDialogRequest.
func (m *Main) OnDialogResponse(fn func(ctx context.Context, p DialogResponse) error) {
	on(m.ep, ChannelDialogResponse, fn)
}

// OnActiveChanged receives tab switches.
func (m *Main) OnActiveChanged(fn func(ctx context.Context, p ActiveChanged) error) {
	on(m.ep, ChannelActiveChanged, fn)
}

// Renderer is the renderer side of the bridge. It is the only way the
// renderer reaches the host.
type Renderer struct {
	ep *Endpoint
}

// NewRenderer wraps ep for the renderer.
func NewRenderer(ep *Endpoint) *Renderer {
	return &Renderer{ep: ep}
}

// Endpoint returns the underlying endpoint.
func (r *Renderer) Endpoint() *Endpoint { return r.ep }

// Ready tells the host the renderer's handlers are installed.
func (r *Renderer) Ready(ctx context.Context) error {
	return r.ep.Send(ctx, ChannelRendererReady, nil)
}

// SaveContent replies to a file-save request.
func (r *Renderer) SaveContent(ctx context.Context, filePath, content string) error {
	return r.ep.Send(ctx, ChannelSaveContent, SaveContent{FilePath: filePath, Content: content})
}

// InvokeMenu reports a menu activation.
func (r *Renderer) InvokeMenu(ctx context.Context, id string) error {
	return r.ep.Send(ctx, ChannelMenuInvoke, MenuInvoke{ID: id})
}

// RespondDialog answers a dialog request.
func (r *Renderer) RespondDialog(ctx context.Context, resp DialogResponse) error {
	return r.ep.Send(ctx, ChannelDialogResponse, resp)
}

// ActiveChanged reports the active tab's path.
func (r *Renderer) ActiveChanged(ctx context.Context, filePath string) error {
	return r.ep.Send(ctx, ChannelActiveChanged, ActiveChanged{FilePath: filePath})
}

// OnFileNew registers the file-new handler.
func (r *Renderer) OnFileNew(fn func(ctx context.Context) error) {
	onSignal(r.ep, ChannelFileNew, fn)
}

// OnFileOpened registers the file-opened handler.
func (r *Renderer) OnFileOpened(fn func(ctx context.Context, p FileOpened) error) {
	on(r.ep, ChannelFileOpened, fn)
}

// OnFileSave registers the file-save handler.
func (r *Renderer) OnFileSave(fn func(ctx context.Context, p FileSave) error) {
	on(r.ep, ChannelFileSave, fn)
}

// OnSaveResult registers the save-result handler.
func (r *Renderer) OnSaveResult(fn func(ctx context.Context, p SaveResult) error) {
	on(r.ep, ChannelSaveResult, fn)
}

// OnEditCommand registers the edit-command handler.
func (r *Renderer) OnEditCommand(fn func(ctx context.Context, p EditCommand) error) {
	on(r.ep, ChannelEditCommand, fn)
}

// OnMenu registers the menu-set handler.
func (r *Renderer) OnMenu(fn func(ctx context.Context, p MenuSet) error) {
	on(r.ep, ChannelMenuSet, fn)
}

// OnConfig registers the renderer-config handler.
func (r *Renderer) OnConfig(fn func(ctx context.Context, p RendererConfig) error) {
	on(r.ep, ChannelRendererConfig, fn)
}

// OnDialogRequest registers the dialog-request handler.
func (r *Renderer) OnDialogRequest(fn func(ctx context.Context, p DialogRequest) error) {
	on(r.ep, ChannelDialogRequest, fn)
}

// OnQuit registers the app-quit handler.
func (r *Renderer) OnQuit(fn func(ctx context.Context) error) {
	onSignal(r.ep, ChannelAppQuit, fn)
}

// OnStatus registers the status-message handler.
func (r *Renderer) OnStatus(fn func(ctx context.Context, p StatusMessage) error) {
	on(r.ep, ChannelStatusMessage, fn)
}
