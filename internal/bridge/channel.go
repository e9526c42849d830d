package bridge

// Channel names a message stream.
type Channel string

// Host to renderer.
const (
	ChannelFileNew        Channel = "file-new"
	ChannelFileOpened     Channel = "file-opened"
	ChannelFileSave       Channel = "file-save"
	ChannelSaveResult     Channel = "save-result"
	ChannelEditCommand    Channel = "edit-command"
	ChannelMenuSet        Channel = "menu-set"
	ChannelRendererConfig Channel = "renderer-config"
	ChannelDialogRequest  Channel = "dialog-request"
	ChannelAppQuit        Channel = "app-quit"
	ChannelStatusMessage  Channel = "status-message"
)

// Renderer to host.
const (
	ChannelRendererReady  Channel = "renderer-ready"
	ChannelSaveContent    Channel = "save-content"
	ChannelMenuInvoke     Channel = "menu-invoke"
	ChannelDialogResponse Channel = "dialog-response"
	ChannelActiveChanged  Channel = "active-changed"
)

// String returns the channel name.
func (c Channel) String() string {
	return string(c)
}

// Known reports whether c is one of the channels above.
func (c Channel) Known() bool {
	switch c {
	case ChannelFileNew, ChannelFileOpened, ChannelFileSave, ChannelSaveResult,
		ChannelEditCommand, ChannelMenuSet, ChannelRendererConfig, ChannelDialogRequest,
		ChannelAppQuit, ChannelStatusMessage,
		ChannelRendererReady, ChannelSaveContent, ChannelMenuInvoke,
		ChannelDialogResponse, ChannelActiveChanged:
		return true
	}
	return false
}
