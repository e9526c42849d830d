package dialog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keypad/internal/bridge"
)

// Requester sends dialog requests to the renderer. *bridge.Main satisfies it.
type Requester interface {
	SendDialogRequest(ctx context.Context, req bridge.DialogRequest) error
}

// Prompt asks the renderer to collect dialog answers. Responses must be
// passed to Resolve, typically from the host's dialog-response handler.
// Callers must not block the goroutine that delivers responses.
type Prompt struct {
	req Requester

	mu      sync.Mutex
	pending map[string]chan bridge.DialogResponse
}

// NewPrompt creates a Prompt that sends through req.
func NewPrompt(req Requester) *Prompt {
	return &Prompt{
		req:     req,
		pending: make(map[string]chan bridge.DialogResponse),
	}
}

// ShowOpen implements Dialog.
func (p *Prompt) ShowOpen(ctx context.Context, opts OpenOptions) (Result, error) {
	title := opts.Title
	if title == "" {
		title = "Open"
	}
	resp, err := p.ask(ctx, bridge.DialogRequest{
		Kind:        bridge.DialogOpen,
		Title:       title,
		DefaultPath: opts.DefaultPath,
		Filters:     ToBridge(opts.Filters),
	})
	if err != nil {
		return Result{}, err
	}
	return toResult(resp), nil
}

// ShowSave implements Dialog.
func (p *Prompt) ShowSave(ctx context.Context, opts SaveOptions) (Result, error) {
	title := opts.Title
	if title == "" {
		title = "Save As"
	}
	resp, err := p.ask(ctx, bridge.DialogRequest{
		Kind:        bridge.DialogSave,
		Title:       title,
		DefaultPath: opts.DefaultPath,
		Filters:     ToBridge(opts.Filters),
	})
	if err != nil {
		return Result{}, err
	}
	return toResult(resp), nil
}

// ShowMessage implements Dialog. It returns once the user dismisses the
// message.
func (p *Prompt) ShowMessage(ctx context.Context, opts MessageOptions) error {
	_, err := p.ask(ctx, bridge.DialogRequest{
		Kind:    bridge.DialogMessage,
		Title:   opts.Title,
		Message: opts.Message,
		Detail:  opts.Detail,
	})
	return err
}

// Resolve delivers a response to the waiting request. It reports false if
// no request with that ID is pending.
func (p *Prompt) Resolve(resp bridge.DialogResponse) bool {
	p.mu.Lock()
	ch, ok := p.pending[resp.ID]
	delete(p.pending, resp.ID)
	p.mu.Unlock()

	if ok {
		ch <- resp
	}
	return ok
}

// Pending returns the number of unanswered requests.
func (p *Prompt) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *Prompt) ask(ctx context.Context, req bridge.DialogRequest) (bridge.DialogResponse, error) {
	req.ID = uuid.NewString()
	ch := make(chan bridge.DialogResponse, 1)

	p.mu.Lock()
	p.pending[req.ID] = ch
	p.mu.Unlock()

	cleanup := func() {
		p.mu.Lock()
		delete(p.pending, req.ID)
		p.mu.Unlock()
	}

	if err := p.req.SendDialogRequest(ctx, req); err != nil {
		cleanup()
		return bridge.DialogResponse{}, fmt.Errorf("send %s dialog: %w", req.Kind, err)
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		cleanup()
		return bridge.DialogResponse{}, ctx.Err()
	}
}

func toResult(resp bridge.DialogResponse) Result {
	if resp.Canceled || resp.FilePath == "" {
		return Result{Canceled: true}
	}
	return Result{Paths: []string{resp.FilePath}}
}

// ToBridge converts filters to their wire form.
func ToBridge(filters []Filter) []bridge.Filter {
	if len(filters) == 0 {
		return nil
	}
	out := make([]bridge.Filter, len(filters))
	for i, f := range filters {
		out[i] = bridge.Filter{Name: f.Name, Extensions: append([]string(nil), f.Extensions...)}
	}
	return out
}
