// Package script runs the optional init.lua on the host. Scripts can add
// file dialog filters, map extensions to editor modes and write to the log
// through the keypad table:
//
//	keypad.filter("Go", {"go", "mod"})
//	keypad.mode("tmpl", "html")
//	keypad.log("init done")
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// DefaultTimeout bounds how long an init script may run.
const DefaultTimeout = 2 * time.Second

// ErrTimeout is returned when a script runs past its deadline.
var ErrTimeout = errors.New("script timed out")

// Filter is a file dialog filter declared by a script.
type Filter struct {
	Name       string
	Extensions []string
}

// Result is what a script declared.
type Result struct {
	Filters []Filter
	// Modes maps an extension, without the dot, to a mode name.
	Modes map[string]string
}

// Runner executes init scripts.
type Runner struct {
	log     *zap.SugaredLogger
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger keypad.log writes to.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{log: zap.NewNop().Sugar(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes src. name is used in error messages and the log.
func (r *Runner) Run(ctx context.Context, name, src string) (Result, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	L.SetContext(ctx)

	res := Result{Modes: make(map[string]string)}
	log := r.log.With("script", name)
	L.SetGlobal("keypad", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"filter": func(L *lua.LState) int {
			f, err := checkFilter(L)
			if err != nil {
				L.ArgError(2, err.Error())
				return 0
			}
			res.Filters = append(res.Filters, f)
			return 0
		},
		"mode": func(L *lua.LState) int {
			ext := strings.TrimPrefix(strings.ToLower(L.CheckString(1)), ".")
			mode := strings.TrimSpace(L.CheckString(2))
			if ext == "" || mode == "" {
				L.ArgError(1, "extension and mode must not be empty")
				return 0
			}
			res.Modes[ext] = mode
			return 0
		},
		"log": func(L *lua.LState) int {
			parts := make([]string, L.GetTop())
			for i := range parts {
				parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
			}
			log.Infow(strings.Join(parts, " "))
			return 0
		},
	}))

	err := r.protect(func() error { return L.DoString(src) })
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, fmt.Errorf("run %s: %w", name, ErrTimeout)
		}
		return Result{}, fmt.Errorf("run %s: %w", name, err)
	}
	log.Debugw("script finished", "filters", len(res.Filters), "modes", len(res.Modes))
	return res, nil
}

func (r *Runner) protect(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn()
}

// openSafeLibraries opens base, table, string and math. io, os, debug and
// package stay closed, and base loses its file loaders.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func checkFilter(L *lua.LState) (Filter, error) {
	name := L.CheckString(1)
	tbl := L.CheckTable(2)
	f := Filter{Name: name}
	var bad bool
	tbl.ForEach(func(_, v lua.LValue) {
		s, ok := v.(lua.LString)
		if !ok {
			bad = true
			return
		}
		ext := strings.TrimPrefix(string(s), ".")
		if ext != "" {
			f.Extensions = append(f.Extensions, ext)
		}
	})
	switch {
	case bad:
		return Filter{}, errors.New("extensions must be strings")
	case strings.TrimSpace(name) == "":
		return Filter{}, errors.New("filter needs a name")
	case len(f.Extensions) == 0:
		return Filter{}, errors.New("filter needs at least one extension")
	}
	return f, nil
}
