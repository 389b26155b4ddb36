package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the meter and tracer scope used across the bot.
const InstrumentationName = "gitlab.com/yelinaung/movie-bot"

// Command outcomes recorded on the bot.commands counter.
const (
	OutcomeOK              = "ok"
	OutcomeUsage           = "usage"
	OutcomeEmpty           = "empty"
	OutcomeNotFound        = "not_found"
	OutcomeNoMatch         = "no_match"
	OutcomeConnectionError = "connection_error"
)

// Metrics records bot command and catalog search measurements.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	commands       metric.Int64Counter
	searchDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(InstrumentationName))
}

// NewMetricsWithMeter creates the instruments on meter.
func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	commands, err := meter.Int64Counter(
		"bot.commands",
		metric.WithDescription("Handled chat commands by command and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create commands counter: %w", err)
	}

	searchDuration, err := meter.Float64Histogram(
		"catalog.search.duration",
		metric.WithDescription("Latency of catalog title searches"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search duration histogram: %w", err)
	}

	return &Metrics{
		commands:       commands,
		searchDuration: searchDuration,
	}, nil
}

// RecordCommand counts one handled command.
func (m *Metrics) RecordCommand(ctx context.Context, command, outcome string) {
	if m == nil {
		return
	}
	m.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	))
}

// RecordSearch records the duration of one catalog search.
func (m *Metrics) RecordSearch(ctx context.Context, elapsed time.Duration, success bool) {
	if m == nil {
		return
	}
	m.searchDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}
