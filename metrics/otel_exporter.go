package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter publishes the collector's gauges through OpenTelemetry
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	meter              metric.Meter
	queueLengthGauge   metric.Int64ObservableGauge
	pendingGauge       metric.Int64ObservableGauge
	statusCountGauge   metric.Int64ObservableGauge
	throughputGauge    metric.Int64ObservableGauge
	activeWorkersGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	return newOTelExporter(meterProvider, collector)
}

func newOTelExporter(meterProvider *sdkmetric.MeterProvider, collector Collector) (*OTelExporter, error) {
	meter := meterProvider.Meter(
		"activity-refiner",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.queueLengthGauge, err = oe.meter.Int64ObservableGauge(
		"tasks.queue.length",
		metric.WithDescription("Number of entries in the task stream"),
		metric.WithUnit("{tasks}"),
		metric.WithInt64Callback(oe.observeQueueLength),
	)
	if err != nil {
		return fmt.Errorf("creating queue length gauge: %w", err)
	}

	oe.pendingGauge, err = oe.meter.Int64ObservableGauge(
		"tasks.queue.pending",
		metric.WithDescription("Number of delivered but unacknowledged tasks"),
		metric.WithUnit("{tasks}"),
		metric.WithInt64Callback(oe.observePending),
	)
	if err != nil {
		return fmt.Errorf("creating pending gauge: %w", err)
	}

	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"tasks.status.count",
		metric.WithDescription("Number of task records by status"),
		metric.WithUnit("{tasks}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"tasks.throughput",
		metric.WithDescription("Number of tasks completed over time window"),
		metric.WithUnit("{tasks}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	oe.activeWorkersGauge, err = oe.meter.Int64ObservableGauge(
		"workers.active",
		metric.WithDescription("Number of workers with a live heartbeat, by status"),
		metric.WithUnit("{workers}"),
		metric.WithInt64Callback(oe.observeActiveWorkers),
	)
	if err != nil {
		return fmt.Errorf("creating active workers gauge: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observeQueueLength(ctx context.Context, observer metric.Int64Observer) error {
	length, _, err := oe.collector.GetQueueLength(ctx)
	if err != nil {
		return err
	}
	observer.Observe(length)
	return nil
}

func (oe *OTelExporter) observePending(ctx context.Context, observer metric.Int64Observer) error {
	_, pending, err := oe.collector.GetQueueLength(ctx)
	if err != nil {
		return err
	}
	observer.Observe(pending)
	return nil
}

func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	statusCounts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range statusCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("task.status", status),
		))
	}

	return nil
}

func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

func (oe *OTelExporter) observeActiveWorkers(ctx context.Context, observer metric.Int64Observer) error {
	workers, err := oe.collector.GetActiveWorkers(ctx)
	if err != nil {
		return err
	}

	byStatus := map[string]int64{"idle": 0, "processing": 0}
	for _, w := range workers {
		byStatus[w.Status]++
	}
	for status, n := range byStatus {
		observer.Observe(n, metric.WithAttributes(
			attribute.String("worker.status", status),
		))
	}

	return nil
}

// ServeHTTP returns the handler serving Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
