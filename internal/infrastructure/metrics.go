package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsObserver records Trello API client activity into OpenTelemetry
// instruments: a request counter, a retry counter and a request duration
// histogram.
type MetricsObserver struct {
	requests metric.Int64Counter
	retries  metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetricsObserver creates the client instruments on the given meter.
func NewMetricsObserver(meter metric.Meter) (*MetricsObserver, error) {
	requests, err := meter.Int64Counter("trello.client.requests",
		metric.WithDescription("Number of Trello API requests"),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter("trello.client.retries",
		metric.WithDescription("Number of Trello API retry attempts"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("trello.client.request.duration",
		metric.WithDescription("Duration of Trello API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsObserver{
		requests: requests,
		retries:  retries,
		duration: duration,
	}, nil
}

// ObserveRequest records one completed HTTP attempt.
func (o *MetricsObserver) ObserveRequest(ctx context.Context, method, path, outcome string, elapsed time.Duration) {
	if o == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("outcome", outcome),
	)
	o.requests.Add(ctx, 1, attrs)
	o.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// ObserveRetry records one retry decision and its reason.
func (o *MetricsObserver) ObserveRetry(ctx context.Context, method, path, reason string) {
	if o == nil {
		return
	}
	o.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("reason", reason),
	))
}
