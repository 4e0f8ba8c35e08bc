// Package config holds the configuration of the list builder.
package config

import (
	"fmt"
	"log/slog"
	"time"

	pkgconfig "cotw-list/internal/pkg/config"
)

// Environment variables read by LoadConfigFromEnv.
const (
	EnvInput       = "COTW_INPUT"
	EnvOutputDir   = "COTW_OUTPUT_DIR"
	EnvOutputFile  = "COTW_OUTPUT_FILE"
	EnvGapDays     = "COTW_GAP_DAYS"
	EnvLogFormat   = "LOG_FORMAT"
	EnvMetricsFile = "COTW_METRICS_FILE"
)

// PipelineConfig holds the file locations and tuning of a pipeline run.
//
// Configuration sources, later ones winning:
//   - Default values (DefaultConfig)
//   - Environment variables (LoadConfigFromEnv)
//   - Command-line flags (applied by cmd/cotw)
type PipelineConfig struct {
	// InputPath is the YAML list to read.
	// Default: "TWiR-CotW-list.yaml"
	InputPath string

	// OutputDir is created if missing.
	// Default: "built"
	OutputDir string

	// OutputFile is a bare file name inside OutputDir.
	// Default: "TWiR-CotW-list.adoc"
	OutputFile string

	// GapDays is the spacing, in days, at which consecutive entries are
	// reported as possibly missing one in between.
	// Range: 1-365
	// Default: 14
	GapDays int

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string

	// MetricsFile, when set, receives the run's Prometheus metrics in text format.
	// Default: "" (disabled)
	MetricsFile string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		InputPath:  "TWiR-CotW-list.yaml",
		OutputDir:  "built",
		OutputFile: "TWiR-CotW-list.adoc",
		GapDays:    14,
		LogFormat:  "text",
	}
}

// GapThreshold returns GapDays as a duration.
func (c *PipelineConfig) GapThreshold() time.Duration {
	return time.Duration(c.GapDays) * 24 * time.Hour
}

// Validate checks every field and returns all problems together.
func (c *PipelineConfig) Validate() error {
	var errors []error

	if err := pkgconfig.ValidatePath(c.InputPath); err != nil {
		errors = append(errors, fmt.Errorf("input path: %w", err))
	}

	if err := pkgconfig.ValidatePath(c.OutputDir); err != nil {
		errors = append(errors, fmt.Errorf("output dir: %w", err))
	}

	if err := pkgconfig.ValidateFileName(c.OutputFile); err != nil {
		errors = append(errors, fmt.Errorf("output file: %w", err))
	}

	if err := pkgconfig.ValidateIntRange(c.GapDays, 1, 365); err != nil {
		errors = append(errors, fmt.Errorf("gap days: %w", err))
	}

	if err := pkgconfig.ValidateLogFormat(c.LogFormat); err != nil {
		errors = append(errors, fmt.Errorf("log format: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// LoadConfigFromEnv loads the configuration from environment variables.
//
// It is fail-open: a value that does not validate is replaced by its default,
// a warning is logged and the fallback is counted in metrics. The returned
// configuration is always valid.
//
// Environment variables:
//   - COTW_INPUT: Input YAML path (default: "TWiR-CotW-list.yaml")
//   - COTW_OUTPUT_DIR: Output directory (default: "built")
//   - COTW_OUTPUT_FILE: Output file name (default: "TWiR-CotW-list.adoc")
//   - COTW_GAP_DAYS: Integer 1-365 (default: 14)
//   - LOG_FORMAT: "text" or "json" (default: "text")
//   - COTW_METRICS_FILE: Prometheus textfile path (default: disabled)
func LoadConfigFromEnv(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) (*PipelineConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	apply := func(field string, result pkgconfig.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		if metrics != nil {
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field)
		}
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := pkgconfig.LoadEnvWithFallback(EnvInput, cfg.InputPath, pkgconfig.ValidatePath)
	cfg.InputPath = result.Value.(string)
	apply("input_path", result)

	result = pkgconfig.LoadEnvWithFallback(EnvOutputDir, cfg.OutputDir, pkgconfig.ValidatePath)
	cfg.OutputDir = result.Value.(string)
	apply("output_dir", result)

	result = pkgconfig.LoadEnvWithFallback(EnvOutputFile, cfg.OutputFile, pkgconfig.ValidateFileName)
	cfg.OutputFile = result.Value.(string)
	apply("output_file", result)

	result = pkgconfig.LoadEnvInt(EnvGapDays, cfg.GapDays, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 365)
	})
	cfg.GapDays = result.Value.(int)
	apply("gap_days", result)

	result = pkgconfig.LoadEnvWithFallback(EnvLogFormat, cfg.LogFormat, pkgconfig.ValidateLogFormat)
	cfg.LogFormat = result.Value.(string)
	apply("log_format", result)

	cfg.MetricsFile = pkgconfig.LoadEnvString(EnvMetricsFile, "")

	if metrics != nil {
		metrics.SetFallbackActive(fallbackApplied)
		metrics.RecordLoadTimestamp()
	}

	return &cfg, nil
}
