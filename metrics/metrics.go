package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the task queue.
type Metrics struct {
	// QueueLength is the number of entries in the task stream
	QueueLength int64 `json:"queue_length"`

	// Pending is the number of delivered but unacknowledged stream entries
	Pending int64 `json:"pending"`

	// StatusCounts maps status name to count of task records in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Throughput represents tasks completed per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Workers lists workers with a live heartbeat
	Workers []WorkerInfo `json:"workers"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents tasks completed over different time windows.
type ThroughputMetrics struct {
	LastMinute         int64 `json:"last_minute"`
	LastFiveMinutes    int64 `json:"last_five_minutes"`
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// WorkerInfo represents information about an active worker.
type WorkerInfo struct {
	// WorkerID is a unique identifier for the worker
	WorkerID string `json:"worker_id"`

	// Status is the current status of the worker ("idle" or "processing")
	Status string `json:"status"`

	// LastHeartbeat is the timestamp of the last heartbeat
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// Collector defines the interface for collecting metrics from the task queue.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetQueueLength returns the stream length and the unacknowledged count
	GetQueueLength(ctx context.Context) (length int64, pending int64, err error)

	// GetStatusCounts returns the count of task records by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns tasks completed over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)

	// GetActiveWorkers returns every worker with a live heartbeat
	GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error)
}
