package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/profile"

	"github.com/vk/trainsweep/internal/app"
	"github.com/vk/trainsweep/internal/cli"
)

// main is the entrypoint for the trainsweep application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	if appConfig.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(appConfig.CPUProfile)).Stop()
	}

	// The app panics on critical config errors, so we recover here to
	// return a clean error to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	sweepApp := app.NewApp(outW, appConfig)

	return sweepApp.Run(context.Background())
}
