package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TriageMetrics counts triage outcomes and classifier failures. The
// Prometheus exporter publishes them as triage_outcomes_total and
// triage_classifier_failures_total.
type TriageMetrics struct {
	outcomes metric.Int64Counter
	failures metric.Int64Counter
}

// NewTriageMetrics registers the counters on the global meter provider, so it
// must run after InitTelemetry to be exported. Without a provider the
// counters are no-ops.
func NewTriageMetrics() *TriageMetrics {
	meter := otel.Meter(instrumentationName)

	outcomes, _ := meter.Int64Counter(
		"triage_outcomes",
		metric.WithDescription("Triage results returned, by producing stage and severity"),
		metric.WithUnit("{outcome}"),
	)
	failures, _ := meter.Int64Counter(
		"triage_classifier_failures",
		metric.WithDescription("Classifier calls that produced no usable result"),
		metric.WithUnit("{failure}"),
	)
	return &TriageMetrics{outcomes: outcomes, failures: failures}
}

func (m *TriageMetrics) RecordOutcome(ctx context.Context, source, severity string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("severity", severity),
	))
}

// RecordClassifierFailure takes kind "transport" or "format".
func (m *TriageMetrics) RecordClassifierFailure(ctx context.Context, kind string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
