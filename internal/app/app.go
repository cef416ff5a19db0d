package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/vellum-editor/vellum/internal/config"
	"github.com/vellum-editor/vellum/internal/engine"
	"github.com/vellum-editor/vellum/internal/engine/buffer"
	"github.com/vellum-editor/vellum/internal/event"
	"github.com/vellum-editor/vellum/internal/session"
)

// Options controls application startup.
type Options struct {
	// ConfigDir overrides config.Dir resolution.
	ConfigDir string

	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer

	// LogLevel overrides the configured level when non-empty. This is
	// the -log flag.
	LogLevel string
}

// App owns the long-lived components and their wiring: configuration
// feeds the logger and the engine options, the session publishes on the
// bus, and the bus is drained on shutdown.
type App struct {
	cfg    config.Config
	log    *Logger
	bus    *event.Bus
	sess   *session.Session
	logSub event.Subscription
}

// New loads configuration and builds the component graph.
func New(opts Options) (*App, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = d
	}

	cfg, cfgErr := config.Load(dir)

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log := NewLogger(LoggerConfig{
		Level:  ParseLogLevel(level),
		Output: opts.LogOutput,
		Prefix: "vellum",
	})
	if cfgErr != nil {
		// Bad option values are skipped, not fatal.
		log.Warn("config: %v", cfgErr)
	}

	bus := event.NewBus()

	restore, err := session.OpenRestore(filepath.Join(dir, "session.json"))
	if err != nil {
		log.Warn("session state unavailable: %v", err)
		restore = nil
	}

	sessOpts := []session.Option{
		session.WithBus(bus),
		session.WithEngineOptions(engineOptions(cfg)...),
	}
	if restore != nil {
		sessOpts = append(sessOpts, session.WithRestore(restore))
	}
	sess, err := session.New(sessOpts...)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	a := &App{cfg: cfg, log: log, bus: bus, sess: sess}
	a.logSub = bus.Subscribe("*", func(ev event.Event) {
		log.Debug("event %s", ev.Topic)
	})

	log.Info("started (config dir %s)", dir)
	return a, nil
}

// engineOptions translates the configuration into engine construction
// options, shared by every buffer the session creates.
func engineOptions(cfg config.Config) []engine.Option {
	opts := []engine.Option{engine.WithTabWidth(cfg.TabWidth)}
	if cfg.MaxUndo > 0 {
		opts = append(opts, engine.WithMaxUndoEntries(cfg.MaxUndo))
	}
	if le, ok := buffer.ParseLineEnding(cfg.LineEnding); ok {
		opts = append(opts, engine.WithLineEnding(le))
	}
	return opts
}

// Config returns the resolved configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.log }

// Bus returns the event bus.
func (a *App) Bus() *event.Bus { return a.bus }

// Session returns the editing session.
func (a *App) Session() *session.Session { return a.sess }

// Shutdown stops the event bus, waiting for queued async events until ctx
// expires.
func (a *App) Shutdown(ctx context.Context) error {
	a.bus.Unsubscribe(a.logSub)
	if err := a.bus.Stop(ctx); err != nil {
		return fmt.Errorf("stop event bus: %w", err)
	}
	a.log.Info("stopped")
	return nil
}
