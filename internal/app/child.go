package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/logging"
)

// RendererFlag starts the binary as a renderer child.
const RendererFlag = "--renderer"

// File descriptors of the bridge pipes in a renderer child.
const (
	RendererReadFD  = 3
	RendererWriteFD = 4
)

// rendererLink is the host's view of a running renderer.
type rendererLink struct {
	conn io.ReadWriteCloser
	done <-chan struct{}

	mu  sync.Mutex
	err error
}

// Err returns the renderer's failure once done is closed.
func (l *rendererLink) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *rendererLink) setErr(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

func (app *Application) startRenderer(ctx context.Context) (*rendererLink, error) {
	if !app.cfg.Process.Isolate {
		return app.startInProcess(ctx)
	}
	return app.startChild()
}

// startInProcess runs the renderer on a goroutine over net.Pipe.
func (app *Application) startInProcess(ctx context.Context) (*rendererLink, error) {
	if app.opts.Renderer == nil {
		return nil, ErrNoRenderer
	}

	hostSide, rendererSide := net.Pipe()
	done := make(chan struct{})
	link := &rendererLink{conn: hostSide, done: done}

	go func() {
		defer close(done)
		defer rendererSide.Close()
		if err := app.opts.Renderer(ctx, rendererSide); err != nil {
			link.setErr(err)
		}
	}()

	app.log.Infow("renderer started", "mode", "in-process")
	return link, nil
}

// startChild re-executes the binary with RendererFlag. The child reads
// host messages on fd 3 and writes its own on fd 4; the terminal stays on
// stdin and stdout, and stderr carries the child's log.
func (app *Application) startChild() (*rendererLink, error) {
	exe := app.opts.Executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
	}

	toChildR, toChildW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}
	fromChildR, fromChildW, err := os.Pipe()
	if err != nil {
		toChildR.Close()
		toChildW.Close()
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	cmd := exec.Command(exe, RendererFlag, "--log-level", app.cfg.Logging.Level)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.ExtraFiles = []*os.File{toChildR, fromChildW}

	proc, err := app.sup.Start("renderer", cmd)
	// The child holds its own copies now.
	toChildR.Close()
	fromChildW.Close()
	if err != nil {
		toChildW.Close()
		fromChildR.Close()
		return nil, err
	}

	if proc.Stderr != nil {
		go app.forwardLog(proc.Stderr)
	}

	link := watchChild(bridge.Pipe{R: fromChildR, W: toChildW}, proc.Done(), proc.ExitCode)
	app.log.Infow("renderer started", "mode", "child", "pid", proc.PID(), "id", proc.ID)
	return link, nil
}

// watchChild returns a link whose done channel closes once the child has
// exited and its exit status is recorded.
func watchChild(conn io.ReadWriteCloser, exited <-chan struct{}, exitCode func() int) *rendererLink {
	done := make(chan struct{})
	link := &rendererLink{conn: conn, done: done}
	go func() {
		defer close(done)
		<-exited
		if code := exitCode(); code > 0 {
			link.setErr(fmt.Errorf("%w with code %d", ErrRendererExited, code))
		}
	}()
	return link
}

// forwardLog copies the child's JSON log lines into the host log. Lines
// that are not zap records are logged verbatim at warn level.
func (app *Application) forwardLog(r io.Reader) {
	log := app.log.Named("renderer")
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			log.Warnw("renderer stderr", "line", line)
			continue
		}
		rec := gjson.GetMany(line, "level", "msg", "logger")
		level := logging.ParseLevel(rec[0].Str)
		kv := []any{"source", rec[2].Str}
		gjson.Parse(line).ForEach(func(key, value gjson.Result) bool {
			switch key.Str {
			case "level", "ts", "msg", "logger", "caller":
			default:
				kv = append(kv, key.Str, value.Value())
			}
			return true
		})
		log.Logw(level, rec[1].Str, kv...)
	}
}
