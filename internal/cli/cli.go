package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/trainsweep/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("trainsweep", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
trainsweep - launches seed sweeps of an external multi-agent PPO trainer.

Usage:
  trainsweep [options] [SWEEP_PATH]

Arguments:
  SWEEP_PATH
    Path to a single .hcl sweep file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	sweepFlag := flagSet.String("sweep", "", "Path to the sweep file or directory.")
	sFlag := flagSet.String("s", "", "Path to the sweep file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	seedsFlag := flagSet.Int("seeds", -1, "Override the sweep's seed ceiling. -1 keeps the configured value.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the trainer command lines instead of spawning them.")
	reportFlag := flagSet.String("report", "", "Override the sweep's report output path.")
	cpuProfileFlag := flagSet.String("cpuprofile", "", "Write a CPU profile into the given directory.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *sweepFlag != "" {
		path = *sweepFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Sweep path determined.", "path", path)

	if path == "" {
		slog.Debug("No sweep path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *seedsFlag < -1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid seeds: must be -1 (keep configured value) or non-negative"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SweepPath:     path,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		SeedsOverride: *seedsFlag,
		DryRun:        *dryRunFlag,
		ReportPath:    *reportFlag,
		CPUProfile:    *cpuProfileFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
