// Package dialog shows file and message dialogs on behalf of the host.
//
// Two implementations exist. Native runs a desktop helper (zenity or
// kdialog) through the process supervisor. Prompt asks the renderer to
// collect the answer on its input line, for sessions without a display.
package dialog

import (
	"context"
	"errors"
	"fmt"
)

// Errors returned by dialogs.
var (
	ErrNoHelper       = errors.New("no dialog helper available")
	ErrNoDisplay      = errors.New("no graphical display")
	ErrUnknownBackend = errors.New("unknown dialog backend")
)

// Filter restricts a file dialog to a set of extensions. "*" matches all.
type Filter struct {
	Name       string
	Extensions []string
}

// DefaultFilters returns the filters used when none are configured.
func DefaultFilters() []Filter {
	return []Filter{
		{Name: "Text Files", Extensions: []string{"txt", "js", "html", "css", "json", "md"}},
		{Name: "All Files", Extensions: []string{"*"}},
	}
}

// OpenOptions configures ShowOpen.
type OpenOptions struct {
	Title       string
	DefaultPath string
	Filters     []Filter
}

// SaveOptions configures ShowSave.
type SaveOptions struct {
	Title       string
	DefaultPath string
	Filters     []Filter
}

// MessageOptions configures ShowMessage.
type MessageOptions struct {
	Title   string
	Message string
	Detail  string
}

// Result is the outcome of a file dialog.
type Result struct {
	Canceled bool
	Paths    []string
}

// Path returns the first selected path, or "".
func (r Result) Path() string {
	if r.Canceled || len(r.Paths) == 0 {
		return ""
	}
	return r.Paths[0]
}

// Dialog is implemented by Native and Prompt.
type Dialog interface {
	ShowOpen(ctx context.Context, opts OpenOptions) (Result, error)
	ShowSave(ctx context.Context, opts SaveOptions) (Result, error)
	ShowMessage(ctx context.Context, opts MessageOptions) error
}

// Backend names accepted by Select.
const (
	BackendAuto   = "auto"
	BackendNative = "native"
	BackendPrompt = "prompt"
)

// Select picks the dialog for backend. native is nil when no helper could be
// set up; auto then falls back to prompt.
func Select(backend string, native, prompt Dialog) (Dialog, error) {
	switch backend {
	case BackendAuto, "":
		if native != nil {
			return native, nil
		}
		return prompt, nil
	case BackendNative:
		if native == nil {
			return nil, ErrNoHelper
		}
		return native, nil
	case BackendPrompt:
		return prompt, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
