package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartEnd(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, span := Start(context.Background(), tracer, SpanWindow, attribute.Int(AttrWindowSize, 12))
	End(span, nil)

	_, span = Start(context.Background(), tracer, SpanResolve)
	End(span, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	require.Equal(t, SpanWindow, ended[0].Name())
	require.Equal(t, codes.Ok, ended[0].Status().Code)
	require.Contains(t, ended[0].Attributes(), attribute.Int(AttrWindowSize, 12))

	require.Equal(t, SpanResolve, ended[1].Name())
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Equal(t, "boom", ended[1].Status().Description)
	require.NotEmpty(t, ended[1].Events(), "error should be recorded as an event")
}

func TestStart_NilTracer(t *testing.T) {
	ctx, span := Start(context.Background(), nil, SpanWindow)
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsValid())
	End(span, nil)
	require.NotNil(t, NoopTracer())
}
