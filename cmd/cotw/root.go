package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"cotw-list/internal/config"
	"cotw-list/internal/domain/entity"
	"cotw-list/internal/observability/logging"
	"cotw-list/internal/observability/metrics"
	pkgconfig "cotw-list/internal/pkg/config"
	"cotw-list/internal/usecase/cotw"
)

// flags holds command-line overrides; only flags set on the command line are applied.
type flags struct {
	input       string
	outputDir   string
	outputFile  string
	gapDays     int
	logFormat   string
	metricsFile string
}

// execute runs the command line and logs any fatal error to stderr.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err != nil {
		var logger *slog.Logger
		if cmd != nil && cmd.Context() != nil {
			logger = logging.FromContext(cmd.Context())
		}
		// Failures before the run logger exists (flags, configuration) use a plain one.
		if logger == nil || logger == slog.Default() {
			logger = logging.NewLogger(stderr, pkgconfig.LoadEnvString(config.EnvLogFormat, logging.FormatText))
		}
		logger.Error("Exiting on error",
			slog.String("kind", errorKind(err)),
			slog.Any("error", err))
	}
	return err
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "cotw",
		Short:         "Build the Crate of the Week table",
		Long:          "cotw reads the Crate of the Week YAML list, warns about suspicious ordering and writes it out as an AsciiDoc table.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, stderr, &f, func(ctx context.Context, svc *cotw.Service) (cotw.RunStats, error) {
				return svc.Run(ctx)
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.input, "input", "", "path to the YAML list (env "+config.EnvInput+")")
	pf.StringVar(&f.outputDir, "output-dir", "", "directory for the rendered table (env "+config.EnvOutputDir+")")
	pf.StringVar(&f.outputFile, "output-file", "", "file name of the rendered table (env "+config.EnvOutputFile+")")
	pf.IntVar(&f.gapDays, "gap-days", 0, "days between entries that count as a gap (env "+config.EnvGapDays+")")
	pf.StringVar(&f.logFormat, "log-format", "", "log format, text or json (env "+config.EnvLogFormat+")")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile (env "+config.EnvMetricsFile+")")

	root.AddCommand(&cobra.Command{
		Use:           "validate",
		Short:         "Parse and check the list without writing the table",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, stderr, &f, func(ctx context.Context, svc *cotw.Service) (cotw.RunStats, error) {
				return svc.Check(ctx)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cotw %s (commit: %s)\n", version, commit)
		},
	})

	return root
}

func runPipeline(cmd *cobra.Command, stderr io.Writer, f *flags, stage func(context.Context, *cotw.Service) (cotw.RunStats, error)) error {
	reg := prometheus.NewRegistry()

	bootLogger := logging.NewLogger(stderr, pkgconfig.LoadEnvString(config.EnvLogFormat, logging.FormatText))
	cfg, err := config.LoadConfigFromEnv(bootLogger, pkgconfig.NewConfigMetrics(reg, "cotw"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.WithRunID(logging.NewLogger(stderr, cfg.LogFormat), uuid.NewString())
	ctx := logging.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)

	pipelineMetrics := metrics.NewPipelineMetrics(reg)
	svc := cotw.NewService(
		cotw.NewParser(),
		cotw.NewValidator(cotw.LogSink{Logger: logger}, cfg.GapThreshold()),
		cotw.NewRenderer(),
		pipelineMetrics,
		cotw.Paths{InputPath: cfg.InputPath, OutputDir: cfg.OutputDir, OutputFile: cfg.OutputFile},
	)

	_, err = stage(ctx, svc)

	if cfg.MetricsFile != "" {
		if werr := pipelineMetrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Warn("failed to write metrics", slog.Any("error", werr))
		}
	}
	return err
}

// applyFlags overrides cfg with the flags the user actually passed.
func applyFlags(cmd *cobra.Command, cfg *config.PipelineConfig, f *flags) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.InputPath = f.input
	}
	if changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if changed("output-file") {
		cfg.OutputFile = f.outputFile
	}
	if changed("gap-days") {
		cfg.GapDays = f.gapDays
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
}

// errorKind names the failure class of a fatal error for the exit log line.
func errorKind(err error) string {
	var pe *entity.ParseError
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &pe):
		return pe.Kind.String()
	case errors.Is(err, entity.ErrInvalidDate):
		return "invalid_date"
	case errors.As(err, &pathErr):
		return "io"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
