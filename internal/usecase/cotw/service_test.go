package cotw

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"cotw-list/internal/domain/entity"
	"cotw-list/internal/observability/logging"
	"cotw-list/internal/observability/metrics"
)

type serviceFixture struct {
	svc     *Service
	paths   Paths
	metrics *metrics.PipelineMetrics
	logs    *bytes.Buffer
	ctx     context.Context
}

func newServiceFixture(t *testing.T, input string) serviceFixture {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		InputPath:  filepath.Join(dir, "TWiR-CotW-list.yaml"),
		OutputDir:  filepath.Join(dir, "built"),
		OutputFile: "TWiR-CotW-list.adoc",
	}
	require.NoError(t, os.WriteFile(paths.InputPath, []byte(input), 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())

	svc := NewService(NewParser(), NewValidator(LogSink{Logger: logger}, 0), NewRenderer(), m, paths)
	return serviceFixture{
		svc:     svc,
		paths:   paths,
		metrics: m,
		logs:    &logs,
		ctx:     logging.WithLogger(context.Background(), logger),
	}
}

func TestService_Run(t *testing.T) {
	f := newServiceFixture(t, `
- {date: 2023-01-01, id: a}
- {date: 2023-01-01, id: b}
- {date: 2023-02-01, id: c, url: "https://example.com/c"}
`)

	stats, err := f.svc.Run(f.ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, []DiagnosticKind{DiagnosticSameDate, DiagnosticGap}, kinds(stats.Diagnostics))
	assert.Equal(t, f.paths.OutputPath(), stats.OutputPath)

	data, err := os.ReadFile(f.paths.OutputPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "| 2023-01-01 | link:https://crates.io/crates/a[a]\n")
	assert.Contains(t, string(data), "| 2023-02-01 | link:https://example.com/c[c]\n")

	logs := f.logs.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "crate=b")
	assert.Contains(t, logs, "Crate of the Week list written")

	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.EntriesParsedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.DiagnosticsTotal.WithLabelValues("gap")))
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.RowsRenderedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("success")))
}

func TestService_Run_OutOfOrderIsNotFatal(t *testing.T) {
	f := newServiceFixture(t, `
- {date: 2023-02-01, id: a}
- {date: 2023-01-01, id: b}
`)

	stats, err := f.svc.Run(f.ctx)

	require.NoError(t, err)
	assert.Equal(t, []DiagnosticKind{DiagnosticOutOfOrder}, kinds(stats.Diagnostics))
	assert.Equal(t, 2, stats.Rows)
	assert.Contains(t, f.logs.String(), "level=ERROR")
	assert.FileExists(t, f.paths.OutputPath())
}

func TestService_Run_ParseErrorStopsBeforeOutput(t *testing.T) {
	f := newServiceFixture(t, "- date: 2023-01-01\n  date: 2023-01-08\n  id: a\n")

	_, err := f.svc.Run(f.ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrDuplicateField))
	assert.Contains(t, err.Error(), "parse input")
	assert.NoDirExists(t, f.paths.OutputDir)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("failure")))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.EntriesParsedTotal))
}

func TestService_Run_MissingInput(t *testing.T) {
	f := newServiceFixture(t, "")
	require.NoError(t, os.Remove(f.paths.InputPath))

	_, err := f.svc.Run(f.ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "read input")
}

func TestService_Run_RenderError(t *testing.T) {
	f := newServiceFixture(t, "- {date: 2023-01-01, id: a}\n")
	require.NoError(t, os.WriteFile(f.paths.OutputDir, nil, 0o644))

	_, err := f.svc.Run(f.ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render output: create output directory")
}

func TestService_Run_CancelledContext(t *testing.T) {
	f := newServiceFixture(t, "- {date: 2023-01-01, id: a}\n")
	ctx, cancel := context.WithCancel(f.ctx)
	cancel()

	_, err := f.svc.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoDirExists(t, f.paths.OutputDir)
}

func TestService_Check_WritesNothing(t *testing.T) {
	f := newServiceFixture(t, `
- {date: 2023-01-01, id: a}
- {date: 2023-01-29, id: b}
`)

	stats, err := f.svc.Check(f.ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, []DiagnosticKind{DiagnosticGap}, kinds(stats.Diagnostics))
	assert.Empty(t, stats.OutputPath)
	assert.NoDirExists(t, f.paths.OutputDir)
}

func TestService_Run_NilMetrics(t *testing.T) {
	f := newServiceFixture(t, "- {date: 2023-01-01, id: a}\n")
	f.svc.Metrics = nil

	_, err := f.svc.Run(f.ctx)

	require.NoError(t, err)
}

func TestService_Run_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newServiceFixture(t, "- {date: 2023-01-01, id: a}\n")

	_, err := f.svc.Run(f.ctx)
	require.NoError(t, err)

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"cotw.parse", "cotw.validate", "cotw.render", "cotw.run"}, names)
}
