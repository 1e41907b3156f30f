package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMeter returns a meter provider backed by a manual reader so tests
// can collect recorded metrics on demand.
func newTestMeter() (*metric.ManualReader, *metric.MeterProvider) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *metric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func counterValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("Expected int64 sum data, got %T", m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsObserver_RecordsRequests(t *testing.T) {
	reader, mp := newTestMeter()
	observer, err := NewMetricsObserver(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricsObserver: %v", err)
	}

	ctx := context.Background()
	observer.ObserveRequest(ctx, "GET", "/boards/507f1f77bcf86cd799439011", "success", 120*time.Millisecond)
	observer.ObserveRequest(ctx, "POST", "/cards", "client_error", 80*time.Millisecond)

	rm := collectMetrics(t, reader)

	requests := findMetric(rm, "trello.client.requests")
	if requests == nil {
		t.Fatal("Expected trello.client.requests metric")
	}
	if got := counterValue(t, requests); got != 2 {
		t.Errorf("Expected 2 requests recorded, got %d", got)
	}

	duration := findMetric(rm, "trello.client.request.duration")
	if duration == nil {
		t.Fatal("Expected trello.client.request.duration metric")
	}
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("Expected float64 histogram data, got %T", duration.Data)
	}
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Errorf("Expected 2 duration samples, got %d", count)
	}
}

func TestMetricsObserver_RecordsRetries(t *testing.T) {
	reader, mp := newTestMeter()
	observer, err := NewMetricsObserver(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricsObserver: %v", err)
	}

	ctx := context.Background()
	observer.ObserveRetry(ctx, "GET", "/boards/507f1f77bcf86cd799439011", "rate_limit")
	observer.ObserveRetry(ctx, "GET", "/boards/507f1f77bcf86cd799439011", "network")
	observer.ObserveRetry(ctx, "PUT", "/cards/607f1f77bcf86cd799439022", "network")

	rm := collectMetrics(t, reader)

	retries := findMetric(rm, "trello.client.retries")
	if retries == nil {
		t.Fatal("Expected trello.client.retries metric")
	}
	if got := counterValue(t, retries); got != 3 {
		t.Errorf("Expected 3 retries recorded, got %d", got)
	}
}

// The client feeds the observer on every attempt, including retried ones.
func TestMetricsObserver_WiredThroughClient(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"507f1f77bcf86cd799439011"}`))
	}))
	defer server.Close()

	reader, mp := newTestMeter()
	observer, err := NewMetricsObserver(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetricsObserver: %v", err)
	}

	client, _ := newTestClient(server)
	client.SetObserver(observer)

	if _, err := client.Get(context.Background(), "/boards/507f1f77bcf86cd799439011", nil); err != nil {
		t.Fatalf("Expected success after retry, got %v", err)
	}

	rm := collectMetrics(t, reader)

	if requests := findMetric(rm, "trello.client.requests"); requests == nil {
		t.Fatal("Expected trello.client.requests metric")
	} else if got := counterValue(t, requests); got != 2 {
		t.Errorf("Expected 2 request observations, got %d", got)
	}

	if retries := findMetric(rm, "trello.client.retries"); retries == nil {
		t.Fatal("Expected trello.client.retries metric")
	} else if got := counterValue(t, retries); got != 1 {
		t.Errorf("Expected 1 retry observation, got %d", got)
	}
}
