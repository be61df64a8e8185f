package app

import (
	"context"
	"fmt"

	"github.com/vk/trainsweep/internal/ctxlog"
	"github.com/vk/trainsweep/internal/launcher"
	"github.com/vk/trainsweep/internal/report"
	"github.com/vk/trainsweep/internal/tracker"
)

// Run executes the sweep end to end: notifier setup, the seed loop, and
// the optional duration report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	notifier := a.notifier
	if notifier == nil {
		notifier = a.dialNotifier(ctx)
	}
	defer notifier.Close()

	l := launcher.New(a.sweep, a.spawner, notifier, a.outW, a.config.DryRun)
	results, err := l.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep execution failed: %w", err)
	}
	a.logger.Info("Sweep finished.", "sweep", a.sweep.Name, "runs", len(results))

	if path := a.sweep.Report.Path; path != "" && !a.config.DryRun {
		if err := report.WriteFile(path, a.sweep.Name, results); err != nil {
			return fmt.Errorf("failed to write sweep report: %w", err)
		}
		a.logger.Info("Sweep report written.", "path", path)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// dialNotifier picks the notifier from the tracking config. A dashboard
// that cannot be reached downgrades to no tracking; reporting is
// best-effort and never blocks the sweep.
func (a *App) dialNotifier(ctx context.Context) tracker.Notifier {
	cfg := a.sweep.Tracking
	if cfg.DashboardURL == "" {
		return tracker.Nop{}
	}

	n, err := tracker.DialSocketIO(ctx, a.sweep.Name, cfg)
	if err != nil {
		a.logger.Warn("Dashboard unreachable, continuing without tracking.", "url", cfg.DashboardURL, "error", err)
		return tracker.Nop{}
	}
	return n
}
