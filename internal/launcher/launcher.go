package launcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"

	"github.com/vk/trainsweep/internal/ctxlog"
	"github.com/vk/trainsweep/internal/sweep"
	"github.com/vk/trainsweep/internal/tracker"
)

// Result records the outcome of one seeded run. Err is informational:
// the sweep never retries or aborts on a failed run.
type Result struct {
	Seed     int
	Duration time.Duration
	Err      error
}

// Launcher iterates the seed range of one sweep and spawns the trainer
// once per seed.
type Launcher struct {
	sweep    *sweep.Sweep
	spawner  Spawner
	notifier tracker.Notifier
	outW     io.Writer
	dryRun   bool
}

// New constructs a Launcher. A nil notifier disables status reporting.
func New(s *sweep.Sweep, spawner Spawner, notifier tracker.Notifier, outW io.Writer, dryRun bool) *Launcher {
	if notifier == nil {
		notifier = tracker.Nop{}
	}
	return &Launcher{
		sweep:    s,
		spawner:  spawner,
		notifier: notifier,
		outW:     outW,
		dryRun:   dryRun,
	}
}

// Run executes the sweep: seeds 1..Seeds inclusive, ascending, one
// blocking child at a time. It returns one Result per seed in seed
// order. A run that fails to start or exits non-zero is recorded and
// logged, then the loop moves on; only context cancellation stops the
// sweep early.
func (l *Launcher) Run(ctx context.Context) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)
	s := l.sweep

	fmt.Fprintln(l.outW, aurora.Cyan(fmt.Sprintf(
		"env is %s, scenario is %s, algo is %s, exp is %s, max seed is %d",
		s.Env, s.Scenario, s.Algorithm, s.Experiment, s.Seeds)))

	results := make([]Result, 0, s.Seeds)
	for seed := 1; seed <= s.Seeds; seed++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		fmt.Fprintln(l.outW, aurora.Green(fmt.Sprintf("seed is %d:", seed)))

		spec := LaunchSpec{
			Python: s.Trainer.Python,
			Args:   Argv(s, seed),
			Device: s.Trainer.Device,
		}

		if l.dryRun {
			fmt.Fprintf(l.outW, "CUDA_VISIBLE_DEVICES=%d %s %s\n", spec.Device, spec.Python, strings.Join(spec.Args, " "))
			results = append(results, Result{Seed: seed})
			continue
		}

		l.notifier.RunStarted(ctx, seed)
		start := time.Now()
		err := l.spawner.Spawn(ctx, spec)
		elapsed := time.Since(start)
		l.notifier.RunFinished(ctx, seed, err, elapsed)

		if err != nil {
			if ctx.Err() != nil {
				results = append(results, Result{Seed: seed, Duration: elapsed, Err: err})
				return results, ctx.Err()
			}
			logger.Warn("Trainer run failed.", "seed", seed, "error", err)
		} else {
			logger.Info("Trainer run finished.", "seed", seed, "duration", elapsed)
		}
		results = append(results, Result{Seed: seed, Duration: elapsed, Err: err})
	}

	return results, nil
}
