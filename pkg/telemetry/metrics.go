package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/seanwirkus/Animal-Crossing-CE/catalog"

// Run outcomes recorded on catalog.import.runs.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RunMetrics are the instruments describing importer runs.
type RunMetrics struct {
	runs     metric.Int64Counter
	records  metric.Int64Counter
	warnings metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on mp.
func NewRunMetrics(mp metric.MeterProvider) (*RunMetrics, error) {
	meter := mp.Meter(meterName)
	var (
		m   RunMetrics
		err error
	)
	if m.runs, err = meter.Int64Counter("catalog.import.runs",
		metric.WithDescription("Importer runs by outcome.")); err != nil {
		return nil, fmt.Errorf("runs counter: %w", err)
	}
	if m.records, err = meter.Int64Counter("catalog.import.records",
		metric.WithDescription("Records emitted, by category.")); err != nil {
		return nil, fmt.Errorf("records counter: %w", err)
	}
	if m.warnings, err = meter.Int64Counter("catalog.import.warnings",
		metric.WithDescription("Warnings raised, by kind.")); err != nil {
		return nil, fmt.Errorf("warnings counter: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("catalog.import.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Wall time of an importer run.")); err != nil {
		return nil, fmt.Errorf("duration histogram: %w", err)
	}
	return &m, nil
}

// RunReport is what one run contributes to the metrics.
type RunReport struct {
	Outcome    string
	Duration   time.Duration
	ByCategory map[string]int
	ByWarning  map[string]int
}

// Record adds one run to the instruments.
func (m *RunMetrics) Record(ctx context.Context, r RunReport) {
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", r.Outcome)))
	m.duration.Record(ctx, r.Duration.Seconds(), metric.WithAttributes(attribute.String("outcome", r.Outcome)))
	for category, n := range r.ByCategory {
		m.records.Add(ctx, int64(n), metric.WithAttributes(attribute.String("category", category)))
	}
	for kind, n := range r.ByWarning {
		m.warnings.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
	}
}
