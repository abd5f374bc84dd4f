// Package tracing records walker and resolver calls as OpenTelemetry spans
// in a local file.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names.
const (
	ExporterFile        = "file"
	ExporterStdouttrace = "stdouttrace"
)

// DefaultServiceName identifies giv in exported spans.
const DefaultServiceName = "giv"

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active.
	// When false, a no-op tracer is returned.
	Enabled bool

	// Exporter selects the span format written to File.
	// "file" writes one compact SpanRecord per line, "stdouttrace" writes
	// the OpenTelemetry stdout exporter's JSON.
	Exporter string

	// File is the trace output path. Spans are appended.
	File string

	// SampleRate controls the fraction of traces to sample.
	// Values <= 0 fall back to 1.0.
	SampleRate float64

	// ServiceName identifies this process in traces.
	ServiceName string
}

// DefaultConfig returns tracing disabled with file export to giv-traces.jsonl.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Exporter:    ExporterFile,
		File:        "giv-traces.jsonl",
		SampleRate:  1.0,
		ServiceName: DefaultServiceName,
	}
}

var noopTracer = noop.NewTracerProvider().Tracer("noop")

// Provider manages the OpenTelemetry tracer provider.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
	closer   io.Closer
}

// NewProvider creates and configures the trace provider.
// If tracing is disabled a no-op provider is returned.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tracer:  noopTracer,
			enabled: false,
		}, nil
	}

	if cfg.File == "" {
		return nil, fmt.Errorf("trace file required for %q exporter", cfg.Exporter)
	}

	var (
		exporter sdktrace.SpanExporter
		closer   io.Closer
	)
	switch cfg.Exporter {
	case ExporterFile, "":
		fe, err := NewFileExporter(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
		exporter = fe
	case ExporterStdouttrace:
		f, err := openTraceFile(cfg.File)
		if err != nil {
			return nil, err
		}
		se, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create stdouttrace exporter: %w", err)
		}
		exporter = se
		closer = f
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	// NewSchemaless avoids schema URL conflicts with resource.Default().
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(sampleRate),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
		closer:   closer,
	}, nil
}

// Tracer returns the configured tracer. It is a no-op tracer when tracing
// is disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled returns whether tracing is enabled.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and releases the trace file.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.provider != nil {
		errs = append(errs, p.provider.Shutdown(ctx))
	}
	if p.closer != nil {
		errs = append(errs, p.closer.Close())
		p.closer = nil
	}
	return errors.Join(errs...)
}
