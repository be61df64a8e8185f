package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_PositionalPath(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse([]string{"sweeps/mpe.hcl"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "sweeps/mpe.hcl", cfg.SweepPath)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, -1, cfg.SeedsOverride)
	require.False(t, cfg.DryRun)
}

func TestParse_SweepFlagWinsOverShorthandAndPositional(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"-sweep", "a.hcl", "-s", "b.hcl", "c.hcl"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.Equal(t, "a.hcl", cfg.SweepPath)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{
		"-s", "sweep.hcl",
		"-log-format", "json",
		"-log-level", "debug",
		"-seeds", "3",
		"-dry-run",
		"-report", "out.html",
		"-cpuprofile", "prof",
	}, &bytes.Buffer{})

	require.NoError(t, err)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 3, cfg.SeedsOverride)
	require.True(t, cfg.DryRun)
	require.Equal(t, "out.html", cfg.ReportPath)
	require.Equal(t, "prof", cfg.CPUProfile)
}

func TestParse_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"bad log format", []string{"-log-format", "xml", "sweep.hcl"}},
		{"bad log level", []string{"-log-level", "loud", "sweep.hcl"}},
		{"bad seeds", []string{"-seeds", "-2", "sweep.hcl"}},
		{"unknown flag", []string{"--no-such-flag", "sweep.hcl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(tt.args, &bytes.Buffer{})
			require.Error(t, err)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected an *ExitError")
			require.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Contains(t, out.String(), "Usage:")
}
