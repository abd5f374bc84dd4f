// Package config provides configuration types and defaults for giv.
//
// Configuration comes from command-line flags and GIV_* environment
// variables only; giv never reads or writes a configuration file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/giv/internal/tracing"
)

// Config holds all configuration options for giv.
type Config struct {
	Debug          bool          `mapstructure:"debug"`
	LogFile        string        `mapstructure:"log_file"`
	Watch          bool          `mapstructure:"watch"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
	CommitCacheTTL time.Duration `mapstructure:"commit_cache_ttl"`
	Tracing        TracingConfig `mapstructure:"tracing"`
}

// TracingConfig configures span export for walker and resolver calls.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Exporter   string  `mapstructure:"exporter"` // tracing.ExporterFile or tracing.ExporterStdouttrace
	File       string  `mapstructure:"file"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	trace := tracing.DefaultConfig()
	return Config{
		Debug:          false,
		LogFile:        "debug.log",
		Watch:          true,
		WatchDebounce:  250 * time.Millisecond,
		CommitCacheTTL: 10 * time.Minute,
		Tracing: TracingConfig{
			Enabled:    trace.Enabled,
			Exporter:   trace.Exporter,
			File:       trace.File,
			SampleRate: trace.SampleRate,
		},
	}
}

// Validation errors.
var (
	ErrNegativeDuration = errors.New("duration must not be negative")
	ErrEmptyPath        = errors.New("path must not be empty")
	ErrSampleRate       = errors.New("sample rate must be in (0, 1]")
	ErrUnknownExporter  = errors.New("unknown trace exporter")
)

// Validate checks the configuration for values giv cannot run with.
func (c Config) Validate() error {
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce: %w", ErrNegativeDuration)
	}
	if c.CommitCacheTTL < 0 {
		return fmt.Errorf("commit_cache_ttl: %w", ErrNegativeDuration)
	}
	if c.Debug && c.LogFile == "" {
		return fmt.Errorf("log_file: %w", ErrEmptyPath)
	}
	if c.Tracing.Enabled {
		if c.Tracing.File == "" {
			return fmt.Errorf("tracing.file: %w", ErrEmptyPath)
		}
		switch c.Tracing.Exporter {
		case tracing.ExporterFile, tracing.ExporterStdouttrace:
		default:
			return fmt.Errorf("tracing.exporter %q: %w", c.Tracing.Exporter, ErrUnknownExporter)
		}
		if c.Tracing.SampleRate <= 0 || c.Tracing.SampleRate > 1 {
			return fmt.Errorf("tracing.sample_rate %v: %w", c.Tracing.SampleRate, ErrSampleRate)
		}
	}
	return nil
}
