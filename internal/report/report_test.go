package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/trainsweep/internal/launcher"
)

func sampleResults() []launcher.Result {
	return []launcher.Result{
		{Seed: 1, Duration: 90 * time.Second},
		{Seed: 2, Duration: 30 * time.Second, Err: errors.New("exit status 1")},
		{Seed: 3, Duration: 95 * time.Second},
	}
}

func TestRender_ContainsSeedsAndTitle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "baseline", sampleResults()))

	html := buf.String()
	require.Contains(t, html, "sweep baseline")
	require.Contains(t, html, "seed 1")
	require.Contains(t, html, "seed 2 (failed)")
	require.Contains(t, html, "seed 3")
}

func TestWriteFile_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "report.html")
	require.NoError(t, WriteFile(path, "baseline", sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sweep baseline")
}
