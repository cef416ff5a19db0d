// Package main is the entry point for the vellum line editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vellum-editor/vellum/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	opts, files := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := application.Shutdown(ctx); err != nil {
			application.Logger().Error("shutdown: %v", err)
		}
	}
	defer shutdown()

	if len(files) > 0 {
		if err := application.Session().OpenFile(files[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		shutdown()
		os.Exit(1)
	}()

	d := newDriver(application.Session(), os.Stdin, os.Stdout)
	if err := d.loop(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (app.Options, []string) {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigDir, "config", "", "Configuration directory")
	flag.StringVar(&opts.ConfigDir, "c", "", "Configuration directory (shorthand)")
	flag.StringVar(&opts.LogLevel, "log", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Vellum - line-mode text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vellum [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands: p print, <n> go to line, a append, i insert,\n")
		fmt.Fprintf(os.Stderr, "d delete line, w [file] write, e <file> edit, u undo,\n")
		fmt.Fprintf(os.Stderr, "r redo, q quit, q! quit discarding changes\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("Vellum %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return opts, flag.Args()
}
