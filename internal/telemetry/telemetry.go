// Package telemetry wires OpenTelemetry tracing and metrics for the bot.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"gitlab.com/yelinaung/movie-bot/internal/config"
	"gitlab.com/yelinaung/movie-bot/internal/logger"
)

// ServiceName identifies the bot in exported telemetry.
const ServiceName = "movie-bot"

// Shutdown flushes and stops the installed providers.
type Shutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup installs global tracer and meter providers according to cfg.
// With OTEL_EXPORTER=none the otel no-op globals stay in place.
func Setup(ctx context.Context, cfg *config.Config, version string) (Shutdown, error) {
	return setup(ctx, cfg, version, os.Stderr)
}

func setup(ctx context.Context, cfg *config.Config, version string, stdout io.Writer) (Shutdown, error) {
	if cfg.OTelExporter == config.ExporterNone {
		logger.Log.Debug().Msg("Telemetry export disabled")
		return noopShutdown, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, cfg, stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, cfg, stdout)
	if err != nil {
		_ = spanExporter.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Log.Info().
		Str("exporter", cfg.OTelExporter).
		Str("protocol", cfg.OTelProtocol).
		Msg("Telemetry initialized")

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newSpanExporter(ctx context.Context, cfg *config.Config, stdout io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.OTelExporter {
	case config.ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(stdout))
	case config.ExporterOTLP:
		if cfg.OTelProtocol == config.ProtocolGRPC {
			return otlptracegrpc.New(ctx)
		}
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported exporter %q", cfg.OTelExporter)
	}
}

func newMetricExporter(ctx context.Context, cfg *config.Config, stdout io.Writer) (sdkmetric.Exporter, error) {
	switch cfg.OTelExporter {
	case config.ExporterStdout:
		return stdoutmetric.New(stdoutmetric.WithWriter(stdout))
	case config.ExporterOTLP:
		if cfg.OTelProtocol == config.ProtocolGRPC {
			return otlpmetricgrpc.New(ctx)
		}
		return otlpmetrichttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported exporter %q", cfg.OTelExporter)
	}
}
