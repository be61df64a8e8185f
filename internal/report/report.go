// Package report renders a post-sweep summary of per-seed run durations
// as a standalone HTML chart.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vk/trainsweep/internal/launcher"
)

// Render writes an HTML page with one bar per seed showing the run's
// wall-clock duration in seconds. Failed seeds are labeled as such.
func Render(w io.Writer, sweepName string, results []launcher.Result) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("sweep %s", sweepName),
			Subtitle: "per-seed run duration (s)",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	var seeds []string
	items := make([]opts.BarData, 0, len(results))
	for _, res := range results {
		label := fmt.Sprintf("seed %d", res.Seed)
		if res.Err != nil {
			label += " (failed)"
		}
		seeds = append(seeds, label)
		items = append(items, opts.BarData{Value: res.Duration.Seconds()})
	}

	bar.SetXAxis(seeds).AddSeries("duration", items)

	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(w)
}

// WriteFile renders the report to path, creating parent directories as
// needed.
func WriteFile(path, sweepName string, results []launcher.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	return Render(f, sweepName, results)
}
