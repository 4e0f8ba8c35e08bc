package cotw

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cotw-list/internal/domain/entity"
	"cotw-list/internal/observability/logging"
	"cotw-list/internal/observability/metrics"
	"cotw-list/internal/observability/tracing"
)

// Paths locates the input list and the rendered document.
type Paths struct {
	InputPath  string
	OutputDir  string
	OutputFile string
}

// OutputPath returns the full path of the rendered document.
func (p Paths) OutputPath() string {
	return filepath.Join(p.OutputDir, p.OutputFile)
}

// RunStats summarizes a pipeline run.
type RunStats struct {
	Entries     int
	Diagnostics []Diagnostic
	Rows        int
	Skipped     int
	OutputPath  string
}

// Service composes parse, validate and render. Stages run in order and the
// first fatal error stops the run.
type Service struct {
	Parser    *Parser
	Validator *Validator
	Renderer  *Renderer
	Metrics   *metrics.PipelineMetrics // optional
	paths     Paths
}

// NewService creates a Service over the given stages and file locations.
// metrics may be nil.
func NewService(parser *Parser, validator *Validator, renderer *Renderer, m *metrics.PipelineMetrics, paths Paths) *Service {
	return &Service{
		Parser:    parser,
		Validator: validator,
		Renderer:  renderer,
		Metrics:   m,
		paths:     paths,
	}
}

// Run parses and validates the input list, then renders it to the output file.
// Partial output may remain if rendering fails midway.
func (s *Service) Run(ctx context.Context) (stats RunStats, err error) {
	start := time.Now()
	ctx, span := tracing.StartStage(ctx, "run")
	defer func() {
		tracing.EndStage(span, err)
		s.recordRun(err, time.Since(start))
	}()

	entries, diags, err := s.check(ctx)
	stats.Entries = len(entries)
	stats.Diagnostics = diags
	if err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	rs, err := s.render(ctx, entries)
	stats.Rows, stats.Skipped = rs.Rows, rs.Skipped
	if err != nil {
		return stats, fmt.Errorf("render output: %w", err)
	}
	stats.OutputPath = s.paths.OutputPath()

	logging.FromContext(ctx).Info("Crate of the Week list written",
		slog.String("output", stats.OutputPath),
		slog.Int("rows", stats.Rows),
		slog.Int("skipped", stats.Skipped),
		slog.Int("diagnostics", len(stats.Diagnostics)))
	return stats, nil
}

// Check parses and validates the input list without writing any output.
func (s *Service) Check(ctx context.Context) (stats RunStats, err error) {
	ctx, span := tracing.StartStage(ctx, "check")
	defer func() { tracing.EndStage(span, err) }()

	entries, diags, err := s.check(ctx)
	stats.Entries = len(entries)
	stats.Diagnostics = diags
	if err != nil {
		return stats, err
	}

	logging.FromContext(ctx).Info("Crate of the Week list checked",
		slog.Int("entries", stats.Entries),
		slog.Int("diagnostics", len(stats.Diagnostics)))
	return stats, nil
}

func (s *Service) check(ctx context.Context) ([]entity.Entry, []Diagnostic, error) {
	entries, err := s.parse(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return entries, nil, err
	}

	diags, err := s.validate(ctx, entries)
	if err != nil {
		return entries, diags, fmt.Errorf("validate entries: %w", err)
	}
	return entries, diags, nil
}

func (s *Service) parse(ctx context.Context) (entries []entity.Entry, err error) {
	_, span := tracing.StartStage(ctx, "parse", attribute.String("cotw.input", s.paths.InputPath))
	defer func() {
		span.SetAttributes(attribute.Int("cotw.entries", len(entries)))
		tracing.EndStage(span, err)
	}()

	f, err := os.Open(s.paths.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	defer f.Close()

	entries, err = s.Parser.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	if s.Metrics != nil {
		s.Metrics.RecordEntriesParsed(len(entries))
	}
	logging.FromContext(ctx).Debug("entries parsed",
		slog.String("input", s.paths.InputPath),
		slog.Int("count", len(entries)))
	return entries, nil
}

func (s *Service) validate(ctx context.Context, entries []entity.Entry) (diags []Diagnostic, err error) {
	ctx, span := tracing.StartStage(ctx, "validate")
	defer func() {
		span.SetAttributes(attribute.Int("cotw.diagnostics", len(diags)))
		tracing.EndStage(span, err)
	}()

	diags, err = s.Validator.Validate(ctx, entries)
	if s.Metrics != nil {
		for _, d := range diags {
			s.Metrics.RecordDiagnostic(string(d.Kind))
		}
	}
	return diags, err
}

func (s *Service) render(ctx context.Context, entries []entity.Entry) (stats RenderStats, err error) {
	_, span := tracing.StartStage(ctx, "render", attribute.String("cotw.output", s.paths.OutputPath()))
	defer func() {
		span.SetAttributes(
			attribute.Int("cotw.rows", stats.Rows),
			attribute.Int("cotw.skipped", stats.Skipped))
		tracing.EndStage(span, err)
	}()

	stats, err = s.Renderer.WriteFile(s.paths.OutputDir, s.paths.OutputFile, entries)
	if s.Metrics != nil {
		s.Metrics.RecordRendered(stats.Rows, stats.Skipped)
	}
	if stats.Skipped > 0 {
		logging.FromContext(ctx).Warn("entries without a crate id were left out of the table",
			slog.Int("skipped", stats.Skipped))
	}
	return stats, err
}

func (s *Service) recordRun(err error, d time.Duration) {
	if s.Metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	s.Metrics.RecordRun(status, d)
}
