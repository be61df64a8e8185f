package tracker

import (
	"context"
	"time"
)

// Notifier receives run lifecycle events from the launcher.
type Notifier interface {
	RunStarted(ctx context.Context, seed int)
	RunFinished(ctx context.Context, seed int, runErr error, elapsed time.Duration)
	Close()
}

// Nop is the notifier used when no dashboard is configured.
type Nop struct{}

func (Nop) RunStarted(context.Context, int) {}

func (Nop) RunFinished(context.Context, int, error, time.Duration) {}

func (Nop) Close() {}

// startedPayload is the run_started event body.
func startedPayload(sweepName string, seed int) map[string]any {
	return map[string]any{
		"sweep": sweepName,
		"seed":  seed,
	}
}

// finishedPayload is the run_finished event body.
func finishedPayload(sweepName string, seed int, runErr error, elapsed time.Duration) map[string]any {
	payload := map[string]any{
		"sweep":      sweepName,
		"seed":       seed,
		"ok":         runErr == nil,
		"duration_s": elapsed.Seconds(),
	}
	if runErr != nil {
		payload["error"] = runErr.Error()
	}
	return payload
}
