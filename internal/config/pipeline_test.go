package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "cotw-list/internal/pkg/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvInput, EnvOutputDir, EnvOutputFile, EnvGapDays, EnvLogFormat, EnvMetricsFile} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "TWiR-CotW-list.yaml", cfg.InputPath)
	assert.Equal(t, "built", cfg.OutputDir)
	assert.Equal(t, "TWiR-CotW-list.adoc", cfg.OutputFile)
	assert.Equal(t, 14, cfg.GapDays)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsFile)
	assert.Equal(t, 14*24*time.Hour, cfg.GapThreshold())
	assert.NoError(t, cfg.Validate())
}

func TestPipelineConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := PipelineConfig{
		InputPath:  "",
		OutputDir:  "built",
		OutputFile: "nested/list.adoc",
		GapDays:    0,
		LogFormat:  "xml",
	}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input path")
	assert.Contains(t, err.Error(), "output file")
	assert.Contains(t, err.Error(), "gap days")
	assert.Contains(t, err.Error(), "log format")
	assert.NotContains(t, err.Error(), "output dir")
}

func TestLoadConfigFromEnv_ValidOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvInput, "data/list.yaml")
	t.Setenv(EnvOutputDir, "out")
	t.Setenv(EnvOutputFile, "cotw.adoc")
	t.Setenv(EnvGapDays, "21")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvMetricsFile, "/tmp/cotw.prom")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	metrics := pkgconfig.NewConfigMetrics(prometheus.NewRegistry(), "cotw")

	cfg, err := LoadConfigFromEnv(logger, metrics)

	require.NoError(t, err)
	assert.Equal(t, &PipelineConfig{
		InputPath:   "data/list.yaml",
		OutputDir:   "out",
		OutputFile:  "cotw.adoc",
		GapDays:     21,
		LogFormat:   "json",
		MetricsFile: "/tmp/cotw.prom",
	}, cfg)
	assert.Empty(t, buf.String(), "no warnings expected")
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
}

func TestLoadConfigFromEnv_FallsBackOnInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOutputFile, "../escape.adoc")
	t.Setenv(EnvGapDays, "fortnight")
	t.Setenv(EnvLogFormat, "yaml")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	metrics := pkgconfig.NewConfigMetrics(prometheus.NewRegistry(), "cotw")

	cfg, err := LoadConfigFromEnv(logger, metrics)

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().OutputFile, cfg.OutputFile)
	assert.Equal(t, 14, cfg.GapDays)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())

	out := buf.String()
	assert.Contains(t, out, "Configuration fallback applied")
	assert.Contains(t, out, "field=output_file")
	assert.Contains(t, out, "field=gap_days")
	assert.Contains(t, out, "field=log_format")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("gap_days")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("output_file")))
}

func TestLoadConfigFromEnv_NilMetrics(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvGapDays, "0")

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	cfg, err := LoadConfigFromEnv(logger, nil)

	require.NoError(t, err)
	assert.Equal(t, 14, cfg.GapDays)
}
