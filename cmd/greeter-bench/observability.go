package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
	"github.com/AntonStoeckl/call-profiler-go/profiler/oteladapters"
)

const (
	serviceName     = "greeter-bench"
	shutdownTimeout = 5 * time.Second
)

// observability holds the loggers and the optional tracing collector of a driver run.
type observability struct {
	logger           *slog.Logger
	contextualLogger profiler.ContextualLogger
	tracing          profiler.TracingCollector
	shutdown         func() error
}

// newObservability sets up JSON logging to logOutput and, with an OTLP endpoint, tracing over OTLP/HTTP.
func newObservability(ctx context.Context, cfg Config, logOutput io.Writer) (observability, error) {
	handler := slog.NewJSONHandler(logOutput, &slog.HandlerOptions{Level: cfg.LogLevel})

	obs := observability{
		logger:           slog.New(handler),
		contextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(handler),
		shutdown:         func() error { return nil },
	}

	if cfg.OTLPEndpoint == "" {
		return obs, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return observability{}, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tracerProvider)

	obs.tracing = oteladapters.NewTracingCollector(tracerProvider.Tracer(serviceName))
	obs.shutdown = func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return tracerProvider.Shutdown(shutdownCtx)
	}

	return obs, nil
}
