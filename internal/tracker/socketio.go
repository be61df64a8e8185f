package tracker

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/trainsweep/internal/ctxlog"
	"github.com/vk/trainsweep/internal/sweep"
)

// SocketIO streams run lifecycle events to a dashboard over a
// socket.io connection.
type SocketIO struct {
	sweepName string
	manager   *socket.Manager
	io        *socket.Socket
	connected atomic.Bool
}

// DialSocketIO connects to the dashboard named by the tracking config
// and blocks until the connection is established or the configured
// timeout elapses.
func DialSocketIO(ctx context.Context, sweepName string, cfg sweep.Tracking) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("tracker", "socketio", "url", cfg.DashboardURL)
	logger.Debug("Dialing dashboard.")

	parsedURL, err := url.Parse(cfg.DashboardURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	n := &SocketIO{sweepName: sweepName}
	n.manager = socket.NewManager(baseURL, opts)
	n.io = n.manager.Socket(cfg.Namespace, opts)

	done := make(chan error, 1)
	n.io.On(types.EventName("connect"), func(...any) {
		if n.connected.CompareAndSwap(false, true) {
			logger.Info("Connected to dashboard.", "namespace", cfg.Namespace, "sid", n.io.Id())
			done <- nil
		}
	})
	n.io.On(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			done <- err
			return
		}
		done <- fmt.Errorf("connect_error: %v", errs[0])
	})

	opCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	n.io.Connect()

	select {
	case <-opCtx.Done():
		n.Close()
		return nil, fmt.Errorf("timed out while waiting for dashboard connection")
	case err := <-done:
		if err != nil {
			n.Close()
			return nil, fmt.Errorf("dashboard connection failed: %w", err)
		}
		return n, nil
	}
}

// RunStarted implements Notifier.
func (n *SocketIO) RunStarted(ctx context.Context, seed int) {
	n.emit(ctx, "run_started", startedPayload(n.sweepName, seed))
}

// RunFinished implements Notifier.
func (n *SocketIO) RunFinished(ctx context.Context, seed int, runErr error, elapsed time.Duration) {
	n.emit(ctx, "run_finished", finishedPayload(n.sweepName, seed, runErr, elapsed))
}

func (n *SocketIO) emit(ctx context.Context, event string, payload map[string]any) {
	ctxlog.FromContext(ctx).Debug("Emitting tracking event.", "event", event)
	n.io.Emit(event, payload)
}

// Close disconnects from the dashboard.
func (n *SocketIO) Close() {
	n.io.Disconnect()
}
