package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	registry         *promclient.Registry
	meterProvider    *metric.MeterProvider
	meter            otelmetric.Meter
	questionCounter  otelmetric.Int64Counter
	answerDuration   otelmetric.Float64Histogram
	datasetRefreshes otelmetric.Int64Counter
}

// New builds an isolated metrics pipeline. Each instance owns its registry so
// multiple instances in one process never collide.
func New(serviceName string) *Observability {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{registry: registry}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	questionCounter, _ := meter.Int64Counter(
		"questions.processed",
		otelmetric.WithDescription("Number of questions processed"),
	)

	answerDuration, _ := meter.Float64Histogram(
		"questions.duration",
		otelmetric.WithDescription("Question processing duration"),
		otelmetric.WithUnit("ms"),
	)

	datasetRefreshes, _ := meter.Int64Counter(
		"datasets.refreshes",
		otelmetric.WithDescription("Number of dataset snapshot refreshes"),
	)

	return &Observability{
		registry:         registry,
		meterProvider:    provider,
		meter:            meter,
		questionCounter:  questionCounter,
		answerDuration:   answerDuration,
		datasetRefreshes: datasetRefreshes,
	}
}

// Registry exposes this instance's collectors for an HTTP scrape handler.
func (o *Observability) Registry() *promclient.Registry {
	if o.registry == nil {
		o.registry = promclient.NewRegistry()
	}
	return o.registry
}

func (o *Observability) RecordQuestion(ctx context.Context, intent, status string) {
	if o.questionCounter != nil {
		o.questionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("intent", intent),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordAnswerDuration(ctx context.Context, duration time.Duration, intent string) {
	if o.answerDuration != nil {
		o.answerDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("intent", intent),
		))
	}
}

func (o *Observability) RecordDatasetRefresh(ctx context.Context, status string) {
	if o.datasetRefreshes != nil {
		o.datasetRefreshes.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
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
