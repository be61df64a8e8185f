package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SweepPath string // .hcl file or directory

	LogFormat string
	LogLevel  string

	// SeedsOverride replaces the sweep's seed ceiling when non-negative.
	SeedsOverride int

	// ReportPath overrides the sweep's report block when non-empty.
	ReportPath string

	DryRun     bool
	CPUProfile string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SweepPath == "" {
		return nil, errors.New("SweepPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
