// Package main is the entry point for the Keypad editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/keypad/internal/app"
	"github.com/dshills/keypad/internal/bridge"
	"github.com/dshills/keypad/internal/config"
	"github.com/dshills/keypad/internal/logging"
	"github.com/dshills/keypad/internal/renderer"
	"github.com/dshills/keypad/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts        app.Options
	renderer    bool
	printConfig bool
	showVersion bool
	showHelp    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	if f.renderer {
		return runChild(f.opts.LogLevel)
	}

	if f.printConfig {
		store, err := config.Load(f.opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := config.Dump(os.Stdout, store.Config()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: keypad must run in a terminal")
		return 1
	}

	var application *app.Application
	f.opts.Renderer = func(ctx context.Context, conn io.ReadWriteCloser) error {
		return runRenderer(ctx, conn, application.Logger().Named("renderer"))
	}

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runChild is the entry point of a renderer child. It logs to stderr,
// which the host forwards into its own log.
func runChild(level string) int {
	log := logging.NewWriter(os.Stderr, level).Named("renderer")
	defer func() { _ = log.Sync() }()

	if err := restrictPrivileges(); err != nil {
		log.Warnw("cannot restrict privileges", "error", err)
	}

	conn := bridge.Pipe{
		R: os.NewFile(app.RendererReadFD, "bridge-in"),
		W: os.NewFile(app.RendererWriteFD, "bridge-out"),
	}
	if err := runRenderer(context.Background(), conn, log); err != nil {
		log.Errorw("renderer failed", "error", err)
		return 1
	}
	return 0
}

func runRenderer(ctx context.Context, conn io.ReadWriteCloser, log *zap.SugaredLogger) error {
	screen, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	r, err := renderer.New(renderer.Options{
		Backend: screen,
		Conn:    conn,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&f.opts.SingleProcess, "single-process", false, "Run the renderer in the host process")
	flag.StringVar(&f.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.BoolVar(&f.printConfig, "print-config", false, "Print the effective configuration and exit")
	flag.BoolVar(&f.renderer, "renderer", false, "Run as renderer child (internal)")
	flag.BoolVar(&f.showVersion, "version", false, "Show version information")
	flag.BoolVar(&f.showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&f.showHelp, "help", false, "Show help message")
	flag.BoolVar(&f.showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Keypad - a small tabbed text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keypad [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.VisitAll(func(fl *flag.Flag) {
			if fl.Name == "renderer" {
				return
			}
			fmt.Fprintf(os.Stderr, "  -%s\n    \t%s\n", fl.Name, fl.Usage)
		})
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keypad                      Open with an untitled tab\n")
		fmt.Fprintf(os.Stderr, "  keypad notes.md main.go     Open files in tabs\n")
		fmt.Fprintf(os.Stderr, "  keypad --print-config       Show the configuration in effect\n")
	}

	flag.Parse()

	if f.showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if f.showVersion {
		fmt.Printf("Keypad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if f.opts.LogLevel != "" && !logging.ValidLevel(f.opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.opts.LogLevel)
		os.Exit(1)
	}

	// Remaining arguments are files to open
	f.opts.Files = flag.Args()

	return f
}
