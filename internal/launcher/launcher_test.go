package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/trainsweep/internal/testutil"
)

// fakeSpawner records every LaunchSpec and optionally fails chosen seeds.
type fakeSpawner struct {
	specs    []LaunchSpec
	failSeed map[int]error
}

func (f *fakeSpawner) Spawn(_ context.Context, spec LaunchSpec) error {
	f.specs = append(f.specs, spec)
	seed := seedOf(spec)
	if err, ok := f.failSeed[seed]; ok {
		return err
	}
	return nil
}

// seedOf pulls the --seed value out of a recorded argument vector.
func seedOf(spec LaunchSpec) int {
	for i, arg := range spec.Args {
		if arg == "--seed" && i+1 < len(spec.Args) {
			var seed int
			fmt.Sscanf(spec.Args[i+1], "%d", &seed)
			return seed
		}
	}
	return -1
}

func TestRun_SpawnsOneChildPerSeedAscending(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 4
	spawner := &fakeSpawner{}
	out := &testutil.SafeBuffer{}

	results, err := New(s, spawner, nil, out, false).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, spawner.specs, 4)
	for i, spec := range spawner.specs {
		require.Equal(t, i+1, seedOf(spec), "seeds must be ascending and each used once")
		require.Equal(t, "python", spec.Python)
		require.Equal(t, 0, spec.Device)
	}

	require.Len(t, results, 4)
	for i, res := range results {
		require.Equal(t, i+1, res.Seed)
		require.NoError(t, res.Err)
	}
}

func TestRun_SingleSeed(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 1
	spawner := &fakeSpawner{}

	results, err := New(s, spawner, nil, &testutil.SafeBuffer{}, false).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, spawner.specs, 1)
	require.Equal(t, 1, seedOf(spawner.specs[0]))
	require.Len(t, results, 1)
}

func TestRun_ZeroSeedsSpawnsNothing(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 0
	spawner := &fakeSpawner{}
	out := &testutil.SafeBuffer{}

	results, err := New(s, spawner, nil, out, false).Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, spawner.specs)
	require.Empty(t, results)

	// The pre-loop status line still appears.
	require.Contains(t, out.String(), "max seed is 0")
}

func TestRun_ArgvIdenticalExceptSeed(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 3
	spawner := &fakeSpawner{}

	_, err := New(s, spawner, nil, &testutil.SafeBuffer{}, false).Run(context.Background())
	require.NoError(t, err)

	base := spawner.specs[0].Args
	for _, spec := range spawner.specs[1:] {
		require.Len(t, spec.Args, len(base))
		for i := range base {
			if i > 0 && base[i-1] == "--seed" {
				continue
			}
			require.Equal(t, base[i], spec.Args[i])
		}
	}
}

func TestRun_StatusLines(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 2
	out := &testutil.SafeBuffer{}

	_, err := New(s, &fakeSpawner{}, nil, out, false).Run(context.Background())
	require.NoError(t, err)

	printed := out.String()
	require.Contains(t, printed, "env is MPE, scenario is simple_spread, algo is rmappo, exp is check, max seed is 2")
	require.Contains(t, printed, "seed is 1:")
	require.Contains(t, printed, "seed is 2:")

	// Status line precedes the seed lines.
	require.Less(t, strings.Index(printed, "max seed is 2"), strings.Index(printed, "seed is 1:"))
	require.Less(t, strings.Index(printed, "seed is 1:"), strings.Index(printed, "seed is 2:"))
}

func TestRun_FailedSeedDoesNotStopTheSweep(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 3
	spawner := &fakeSpawner{failSeed: map[int]error{2: errors.New("exit status 1")}}

	results, err := New(s, spawner, nil, &testutil.SafeBuffer{}, false).Run(context.Background())
	require.NoError(t, err, "a failed run must not abort the sweep")

	require.Len(t, spawner.specs, 3)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
}

func TestRun_DryRunPrintsWithoutSpawning(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 2
	spawner := &fakeSpawner{}
	out := &testutil.SafeBuffer{}

	results, err := New(s, spawner, nil, out, true).Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, spawner.specs)
	require.Len(t, results, 2)

	printed := out.String()
	require.Contains(t, printed, "CUDA_VISIBLE_DEVICES=0 python train/train_mpe.py --env_name MPE")
	require.Contains(t, printed, "--seed 1")
	require.Contains(t, printed, "--seed 2")
}

func TestRun_CancelledContextStopsBetweenSeeds(t *testing.T) {
	t.Parallel()

	s := testSweep()
	s.Seeds = 5

	ctx, cancel := context.WithCancel(context.Background())
	spawner := &cancellingSpawner{cancelAfter: 2, cancel: cancel}

	results, err := New(s, spawner, nil, &testutil.SafeBuffer{}, false).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
}

// cancellingSpawner cancels the sweep context after a fixed number of runs.
type cancellingSpawner struct {
	count       int
	cancelAfter int
	cancel      context.CancelFunc
}

func (c *cancellingSpawner) Spawn(context.Context, LaunchSpec) error {
	c.count++
	if c.count == c.cancelAfter {
		c.cancel()
	}
	return nil
}

var _ Spawner = (*fakeSpawner)(nil)
