package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"salespulse/internal/config"
)

// TracerName is the instrumentation scope used by every salespulse span.
const TracerName = "salespulse"

// TracingProvider owns the tracer provider and its shutdown.
type TracingProvider struct {
	provider trace.TracerProvider
	shutdown func(context.Context) error
}

// InitializeTracing configures OpenTelemetry tracing from cfg. When tracing is
// disabled a no-op provider is installed so spans cost nothing.
func InitializeTracing(cfg config.TelemetryConfig, logger *slog.Logger) (*TracingProvider, error) {
	return initializeTracing(cfg, os.Stdout, logger)
}

func initializeTracing(cfg config.TelemetryConfig, out io.Writer, logger *slog.Logger) (*TracingProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.EnableTracing || cfg.TraceExporter == "none" {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return &TracingProvider{provider: tp, shutdown: func(context.Context) error { return nil }}, nil
	}

	var exporter sdktrace.SpanExporter
	switch cfg.TraceExporter {
	case "stdout", "":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.instance.id", GenerateTraceID()),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.String("service", cfg.ServiceName))

	return &TracingProvider{provider: tp, shutdown: tp.Shutdown}, nil
}

// Tracer returns the salespulse tracer of this provider.
func (p *TracingProvider) Tracer() trace.Tracer {
	return p.provider.Tracer(TracerName)
}

// Shutdown flushes pending spans.
func (p *TracingProvider) Shutdown(ctx context.Context) error {
	return p.shutdown(ctx)
}

// Tracer returns the globally registered salespulse tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
