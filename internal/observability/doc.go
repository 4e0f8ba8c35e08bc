// Package observability groups the logging, metrics and tracing support used by
// the list builder.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics for pipeline runs, exportable as a textfile
//   - tracing: OpenTelemetry spans around each pipeline stage
package observability
