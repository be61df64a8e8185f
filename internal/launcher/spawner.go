package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/vk/trainsweep/internal/ctxlog"
)

// LaunchSpec fully describes one child process: the interpreter, its
// argument vector, and the accelerator index exported to it.
type LaunchSpec struct {
	Python string
	Args   []string
	Device int
}

// Spawner starts one training child and blocks until it exits. The
// returned error covers both start failures and non-zero exits.
type Spawner interface {
	Spawn(ctx context.Context, spec LaunchSpec) error
}

// ExecSpawner runs children with os/exec. The argument vector is passed
// structurally, never through a shell, so configuration strings cannot
// inject into the command line.
type ExecSpawner struct{}

// Spawn implements Spawner.
func (ExecSpawner) Spawn(ctx context.Context, spec LaunchSpec) error {
	logger := ctxlog.FromContext(ctx)

	cmd := exec.CommandContext(ctx, spec.Python, spec.Args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("CUDA_VISIBLE_DEVICES=%d", spec.Device))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Debug("Spawning trainer.", "python", spec.Python, "args", spec.Args, "device", spec.Device)
	return cmd.Run()
}
