// Package tracing provides OpenTelemetry spans around the pipeline stages.
//
// Spans go to whatever TracerProvider is installed globally; without one the
// OpenTelemetry no-op provider is used and tracing costs nothing.
//
// Example usage:
//
//	ctx, span := tracing.StartStage(ctx, "parse")
//	defer span.End()
package tracing
