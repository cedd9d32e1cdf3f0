package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OTel meter provider. Metrics are exported through
// the Prometheus exporter and land on the same /metrics endpoint as the
// promauto collectors.
type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	refinementCounter  otelmetric.Int64Counter
	refinementDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	refinementCounter, _ := meter.Int64Counter(
		"refinements.processed",
		otelmetric.WithDescription("Number of refinement attempts processed"),
	)

	refinementDuration, _ := meter.Float64Histogram(
		"refinements.duration",
		otelmetric.WithDescription("Refinement attempt duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		refinementCounter:  refinementCounter,
		refinementDuration: refinementDuration,
	}
}

func (o *Observability) RecordRefinement(ctx context.Context, outcome string) {
	if o.refinementCounter != nil {
		o.refinementCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordRefinementDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o.refinementDuration != nil {
		o.refinementDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
