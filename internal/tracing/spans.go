package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanWindow  = "history.window"
	SpanResolve = "history.resolve"
)

// Span attribute keys.
const (
	AttrWindowSize   = "window.size"
	AttrWindowLength = "window.length"
	AttrWindowCached = "window.cached"
	AttrGeneration   = "history.generation"
	AttrIndex        = "resolve.index"
	AttrRefKind      = "resolve.ref_kind"
	AttrRevision     = "resolve.revision"
	AttrFileCount    = "resolve.files"
	AttrResolveHit   = "resolve.cached"
)

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noopTracer
}

// Start opens an internal span with the given attributes.
// A nil tracer falls back to NoopTracer.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noopTracer
	}
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records the outcome on span and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
