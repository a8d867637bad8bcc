package scheduler

import (
	"time"

	appconfig "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
)

// Config controls the snapshot pipeline cadence.
type Config struct {
	// RunInterval is the wall time between pipeline runs.
	RunInterval time.Duration
	// JobTimeout bounds a single report job, build and write included.
	JobTimeout time.Duration
	// EnabledJobs restricts the pipeline to the named reports.
	// Empty enables every report.
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 24 * time.Hour,
		JobTimeout:  10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}

func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		RunInterval: cfg.Snapshot.Interval,
		EnabledJobs: cfg.Snapshot.Jobs,
	}.withDefaults()
}
