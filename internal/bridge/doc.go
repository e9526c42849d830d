// Package bridge is the message boundary between the Keypad host process
// and its renderer.
//
// The host owns files, menus and dialogs. The renderer owns the screen and
// the open documents. Neither calls the other directly; they exchange
// messages on named channels over a single duplex stream, which is either
// a pair of OS pipes (renderer running as a child process) or a net.Pipe
// (renderer running in-process).
//
// # Wire Format
//
// Each message is one line of JSON:
//
//	{"channel":"file-opened","seq":3,"payload":{"filePath":"/tmp/a.js","content":"x"}}
//
// seq starts at 1 and increases by one for every message an endpoint sends.
//
// # Usage
//
// The host wraps its endpoint in a Main and the renderer in a Renderer;
// both expose typed send methods and typed handler registration:
//
//	ep := bridge.NewEndpoint(conn, bridge.WithLogger(log))
//	main := bridge.NewMain(ep)
//	main.OnSaveContent(func(ctx context.Context, p bridge.SaveContent) error {
//		return save(p.FilePath, p.Content)
//	})
//	go ep.Run(ctx)
//	main.SendFileNew(ctx)
package bridge
