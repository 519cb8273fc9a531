package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type stubCollector struct {
	length, pending int64
	statuses        map[string]int64
	throughput      ThroughputMetrics
	workers         []WorkerInfo
	err             error
}

func (s *stubCollector) Collect(context.Context) (Metrics, error) {
	return Metrics{}, s.err
}

func (s *stubCollector) GetQueueLength(context.Context) (int64, int64, error) {
	return s.length, s.pending, s.err
}

func (s *stubCollector) GetStatusCounts(context.Context) (map[string]int64, error) {
	return s.statuses, s.err
}

func (s *stubCollector) GetThroughput(context.Context) (ThroughputMetrics, error) {
	return s.throughput, s.err
}

func (s *stubCollector) GetActiveWorkers(context.Context) ([]WorkerInfo, error) {
	return s.workers, s.err
}

func collectGauges(t *testing.T, collector Collector) (map[string][]metricdata.DataPoint[int64], error) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, err := newOTelExporter(provider, collector)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	collectErr := reader.Collect(context.Background(), &rm)

	out := map[string][]metricdata.DataPoint[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			gauge, ok := m.Data.(metricdata.Gauge[int64])
			require.True(t, ok, m.Name)
			out[m.Name] = gauge.DataPoints
		}
	}
	return out, collectErr
}

func valueWith(points []metricdata.DataPoint[int64], key, value string) (int64, bool) {
	for _, p := range points {
		if v, ok := p.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return p.Value, true
		}
	}
	return 0, false
}

func TestOTelExporter_Gauges(t *testing.T) {
	collector := &stubCollector{
		length:   12,
		pending:  2,
		statuses: map[string]int64{"pending": 3, "done": 8, "failed": 1},
		throughput: ThroughputMetrics{
			LastMinute:         1,
			LastFiveMinutes:    4,
			LastFifteenMinutes: 8,
		},
		workers: []WorkerInfo{
			{WorkerID: "a-0", Status: "idle"},
			{WorkerID: "a-1", Status: "processing"},
			{WorkerID: "a-2", Status: "idle"},
		},
	}

	gauges, err := collectGauges(t, collector)
	require.NoError(t, err)

	require.Len(t, gauges["tasks.queue.length"], 1)
	assert.Equal(t, int64(12), gauges["tasks.queue.length"][0].Value)
	require.Len(t, gauges["tasks.queue.pending"], 1)
	assert.Equal(t, int64(2), gauges["tasks.queue.pending"][0].Value)

	done, ok := valueWith(gauges["tasks.status.count"], "task.status", "done")
	require.True(t, ok)
	assert.Equal(t, int64(8), done)

	fiveMinutes, ok := valueWith(gauges["tasks.throughput"], "time.window", "5m")
	require.True(t, ok)
	assert.Equal(t, int64(4), fiveMinutes)

	idle, ok := valueWith(gauges["workers.active"], "worker.status", "idle")
	require.True(t, ok)
	assert.Equal(t, int64(2), idle)
	processing, ok := valueWith(gauges["workers.active"], "worker.status", "processing")
	require.True(t, ok)
	assert.Equal(t, int64(1), processing)
}

func TestOTelExporter_CollectorError(t *testing.T) {
	gauges, err := collectGauges(t, &stubCollector{err: errors.New("redis down")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")

	assert.Empty(t, gauges["tasks.queue.length"])
	assert.Empty(t, gauges["tasks.status.count"])
}

func TestCollector_Interface(t *testing.T) {
	var _ Collector = (*RedisCollector)(nil)
}
