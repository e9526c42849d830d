package dialog

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner runs a helper and returns its stdout and exit code.
// *process.Supervisor satisfies it.
type Runner interface {
	Output(ctx context.Context, name string, cmd *exec.Cmd) ([]byte, int, error)
}

// Native shows dialogs with zenity or kdialog.
type Native struct {
	run    Runner
	helper string
	path   string
}

// NativeOption configures NewNative.
type NativeOption func(*nativeConfig)

type nativeConfig struct {
	helpers  []string
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// WithHelpers sets the helper binaries to try, in order.
func WithHelpers(names ...string) NativeOption {
	return func(c *nativeConfig) { c.helpers = names }
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) NativeOption {
	return func(c *nativeConfig) { c.lookPath = fn }
}

// WithGetenv replaces os.Getenv for the display check.
func WithGetenv(fn func(string) string) NativeOption {
	return func(c *nativeConfig) { c.getenv = fn }
}

// NewNative finds a helper binary. It fails with ErrNoDisplay when neither
// DISPLAY nor WAYLAND_DISPLAY is set, and ErrNoHelper when no helper is
// installed.
func NewNative(run Runner, opts ...NativeOption) (*Native, error) {
	cfg := nativeConfig{
		helpers:  []string{"zenity", "kdialog"},
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.getenv("DISPLAY") == "" && cfg.getenv("WAYLAND_DISPLAY") == "" {
		return nil, ErrNoDisplay
	}
	for _, name := range cfg.helpers {
		if path, err := cfg.lookPath(name); err == nil {
			return &Native{run: run, helper: name, path: path}, nil
		}
	}
	return nil, ErrNoHelper
}

// Helper returns the helper binary name.
func (n *Native) Helper() string {
	return n.helper
}

// ShowOpen implements Dialog.
func (n *Native) ShowOpen(ctx context.Context, opts OpenOptions) (Result, error) {
	var args []string
	if n.helper == "kdialog" {
		args = kdialogFileArgs("--getopenfilename", opts.Title, opts.DefaultPath, opts.Filters)
	} else {
		args = zenityFileArgs(false, opts.Title, opts.DefaultPath, opts.Filters)
	}
	return n.runFile(ctx, args)
}

// ShowSave implements Dialog.
func (n *Native) ShowSave(ctx context.Context, opts SaveOptions) (Result, error) {
	var args []string
	if n.helper == "kdialog" {
		args = kdialogFileArgs("--getsavefilename", opts.Title, opts.DefaultPath, opts.Filters)
	} else {
		args = zenityFileArgs(true, opts.Title, opts.DefaultPath, opts.Filters)
	}
	return n.runFile(ctx, args)
}

// ShowMessage implements Dialog.
func (n *Native) ShowMessage(ctx context.Context, opts MessageOptions) error {
	text := opts.Message
	if opts.Detail != "" {
		text += "\n\n" + opts.Detail
	}

	var args []string
	if n.helper == "kdialog" {
		args = []string{"--msgbox", text}
		if opts.Title != "" {
			args = append(args, "--title", opts.Title)
		}
	} else {
		args = []string{"--info", "--no-markup", "--text=" + text}
		if opts.Title != "" {
			args = append(args, "--title="+opts.Title)
		}
	}

	_, code, err := n.run.Output(ctx, n.helper, exec.CommandContext(ctx, n.path, args...))
	if err != nil {
		return err
	}
	if code > 1 {
		return fmt.Errorf("%s exited with status %d", n.helper, code)
	}
	return nil
}

func (n *Native) runFile(ctx context.Context, args []string) (Result, error) {
	out, code, err := n.run.Output(ctx, n.helper, exec.CommandContext(ctx, n.path, args...))
	if err != nil {
		return Result{}, err
	}
	switch code {
	case 0:
	case 1:
		return Result{Canceled: true}, nil
	default:
		return Result{}, fmt.Errorf("%s exited with status %d", n.helper, code)
	}

	path := strings.TrimRight(string(out), "\r\n")
	if path == "" {
		return Result{Canceled: true}, nil
	}
	return Result{Paths: []string{path}}, nil
}

func zenityFileArgs(save bool, title, defaultPath string, filters []Filter) []string {
	args := []string{"--file-selection"}
	if save {
		args = append(args, "--save", "--confirm-overwrite")
	}
	if title != "" {
		args = append(args, "--title="+title)
	}
	if defaultPath != "" {
		args = append(args, "--filename="+defaultPath)
	}
	for _, f := range filters {
		args = append(args, "--file-filter="+f.Name+" | "+strings.Join(patterns(f), " "))
	}
	return args
}

func kdialogFileArgs(mode, title, defaultPath string, filters []Filter) []string {
	start := defaultPath
	if start == "" {
		start = "."
	}
	lines := make([]string, 0, len(filters))
	for _, f := range filters {
		lines = append(lines, strings.Join(patterns(f), " ")+"|"+f.Name)
	}
	args := []string{mode, start}
	if len(lines) > 0 {
		args = append(args, strings.Join(lines, "\n"))
	}
	if title != "" {
		args = append(args, "--title", title)
	}
	return args
}

func patterns(f Filter) []string {
	out := make([]string, 0, len(f.Extensions))
	for _, ext := range f.Extensions {
		if ext == "*" {
			out = append(out, "*")
			continue
		}
		out = append(out, "*."+strings.TrimPrefix(ext, "."))
	}
	return out
}
