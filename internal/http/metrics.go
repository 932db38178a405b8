package http

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/trialsearchd/internal/http"

// Metrics holds the API's request-level instruments.
type Metrics struct {
	meter              metric.Meter
	logger             *zap.Logger
	searchesTotal      metric.Int64Counter
	searchDur          metric.Float64Histogram
	degradedTotal      metric.Int64Counter
	suggestionsTotal   metric.Int64Counter
	summariesTotal     metric.Int64Counter
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.searchesTotal, err = m.meter.Int64Counter(
		"trialsearchd.search.requests_total",
		metric.WithDescription("Total search requests labeled by outcome (ok, backend_error, data_error)."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.logger.Warn("failed to create searches counter", zap.Error(err))
	}

	m.searchDur, err = m.meter.Float64Histogram(
		"trialsearchd.search.duration_seconds",
		metric.WithDescription("End-to-end search duration including interpretation and engine round trip."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		m.logger.Warn("failed to create search duration histogram", zap.Error(err))
	}

	m.degradedTotal, err = m.meter.Int64Counter(
		"trialsearchd.interpret.degraded_total",
		metric.WithDescription("Interpretations that fell back to a low-confidence structure."),
		metric.WithUnit("{interpretation}"),
	)
	if err != nil {
		m.logger.Warn("failed to create degraded counter", zap.Error(err))
	}

	m.suggestionsTotal, err = m.meter.Int64Counter(
		"trialsearchd.suggest.requests_total",
		metric.WithDescription("Total suggestion requests labeled by outcome."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.logger.Warn("failed to create suggestions counter", zap.Error(err))
	}

	m.summariesTotal, err = m.meter.Int64Counter(
		"trialsearchd.summary.requests_total",
		metric.WithDescription("Summary generations attempted as part of search requests."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		m.logger.Warn("failed to create summaries counter", zap.Error(err))
	}
}

func (m *Metrics) recordSearch(ctx context.Context, outcome string, seconds float64) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if m.searchesTotal != nil {
		m.searchesTotal.Add(ctx, 1, attrs)
	}
	if m.searchDur != nil {
		m.searchDur.Record(ctx, seconds, attrs)
	}
}

func (m *Metrics) recordDegraded(ctx context.Context) {
	if m.degradedTotal != nil {
		m.degradedTotal.Add(ctx, 1)
	}
}

func (m *Metrics) recordSuggest(ctx context.Context, outcome string) {
	if m.suggestionsTotal != nil {
		m.suggestionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m *Metrics) recordSummary(ctx context.Context) {
	if m.summariesTotal != nil {
		m.summariesTotal.Add(ctx, 1)
	}
}
