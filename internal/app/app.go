package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/trainsweep/internal/ctxlog"
	"github.com/vk/trainsweep/internal/launcher"
	"github.com/vk/trainsweep/internal/sweep"
	"github.com/vk/trainsweep/internal/tracker"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	sweep    *sweep.Sweep
	spawner  launcher.Spawner
	notifier tracker.Notifier
}

// Option customizes App construction; used by tests to substitute the
// spawner or the notifier.
type Option func(*App)

// WithSpawner replaces the default exec-based spawner.
func WithSpawner(s launcher.Spawner) Option {
	return func(a *App) { a.spawner = s }
}

// WithNotifier replaces the notifier chosen from the tracking config.
func WithNotifier(n tracker.Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the sweep
// model loaded and validated. Configuration load failures panic; main
// recovers them into a clean startup error.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	s, err := sweep.Load(ctx, cfg.SweepPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load sweep configuration: %w", err))
	}

	// CLI overrides are folded in before the model is handed out; the
	// sweep is read-only from here on.
	if cfg.SeedsOverride >= 0 {
		s.Seeds = cfg.SeedsOverride
	}
	if cfg.ReportPath != "" {
		s.Report.Path = cfg.ReportPath
	}
	if err := s.Validate(); err != nil {
		panic(fmt.Errorf("invalid sweep configuration: %w", err))
	}
	logger.Debug("Sweep configuration loaded.", "sweep", s.Name, "seeds", s.Seeds)

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		sweep:   s,
		spawner: launcher.ExecSpawner{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sweep returns the loaded sweep model. This is primarily for testing.
func (a *App) Sweep() *sweep.Sweep {
	return a.sweep
}
