package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "cotw-list"

// GetTracer returns the tracer for creating spans.
// It is looked up on each call so a provider installed after start-up is honored.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartStage starts a span named "cotw.<stage>".
func StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "cotw."+stage, trace.WithAttributes(attrs...))
}

// EndStage records err (if any) on the span and ends it.
func EndStage(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
