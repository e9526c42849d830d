package renderer

import (
	"context"
	"strings"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/menu"
	"github.com/dshills/keypad/internal/renderer/backend"
)

// prompt is a dialog shown on the message line. File dialogs edit a path;
// message dialogs wait for any key.
type prompt struct {
	req    bridge.DialogRequest
	input  []rune
	cursor int
}

func newPrompt(req bridge.DialogRequest) *prompt {
	p := &prompt{req: req, input: []rune(req.DefaultPath)}
	p.cursor = len(p.input)
	return p
}

func (p *prompt) isMessage() bool {
	return p.req.Kind == bridge.DialogMessage
}

// label is the text in front of the input.
func (p *prompt) label() string {
	title := p.req.Title
	if p.isMessage() {
		text := p.req.Message
		if p.req.Detail != "" {
			text += " (" + p.req.Detail + ")"
		}
		if title != "" {
			text = title + ": " + text
		}
		return text + "  [Enter]"
	}
	if title == "" {
		title = "Path"
	}
	if exts := filterHint(p.req.Filters); exts != "" {
		title += " [" + exts + "]"
	}
	return title + ": "
}

func filterHint(filters []bridge.Filter) string {
	var exts []string
	for _, f := range filters {
		for _, e := range f.Extensions {
			if e == "*" {
				return ""
			}
			exts = append(exts, "."+e)
		}
	}
	return strings.Join(exts, " ")
}

// key edits the input. It returns done when the prompt should close, with
// the response to send.
func (p *prompt) key(ev backend.Event) (resp bridge.DialogResponse, done bool) {
	resp.ID = p.req.ID
	c := ev.Chord

	if p.isMessage() {
		return resp, true
	}

	switch c.Key {
	case menu.KeyEscape:
		resp.Canceled = true
		return resp, true
	case menu.KeyEnter:
		path := strings.TrimSpace(string(p.input))
		if path == "" {
			resp.Canceled = true
		}
		resp.FilePath = path
		return resp, true
	case menu.KeyBackspace:
		if p.cursor > 0 {
			p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
			p.cursor--
		}
	case menu.KeyDelete:
		if p.cursor < len(p.input) {
			p.input = append(p.input[:p.cursor], p.input[p.cursor+1:]...)
		}
	case menu.KeyLeft:
		p.cursor = max(p.cursor-1, 0)
	case menu.KeyRight:
		p.cursor = min(p.cursor+1, len(p.input))
	case menu.KeyHome:
		p.cursor = 0
	case menu.KeyEnd:
		p.cursor = len(p.input)
	case menu.KeyRune:
		if c.Mods.Has(menu.ModCtrl) {
			if c.Rune == 'u' {
				p.input, p.cursor = nil, 0
			}
			break
		}
		if ev.Rune != 0 {
			p.input = append(p.input[:p.cursor], append([]rune{ev.Rune}, p.input[p.cursor:]...)...)
			p.cursor++
		}
	}
	return resp, false
}

// promptQueue shows dialog requests one at a time in arrival order.
type promptQueue struct {
	items []*prompt
}

func (q *promptQueue) push(req bridge.DialogRequest) {
	q.items = append(q.items, newPrompt(req))
}

func (q *promptQueue) current() *prompt {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

func (q *promptQueue) pop() {
	if len(q.items) > 0 {
		q.items = q.items[1:]
	}
}

func (q *promptQueue) active() bool {
	return len(q.items) > 0
}

// promptKey routes a key to the current prompt and answers the host when
// it closes.
func (a *App) promptKey(ev backend.Event) {
	p := a.prompts.current()
	resp, done := p.key(ev)
	if !done {
		return
	}
	a.prompts.pop()
	a.send(string(bridge.ChannelDialogResponse), func(ctx context.Context) error {
		return a.rend.RespondDialog(ctx, resp)
	})
}
