package metrics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	taskredis "github.com/marcelsud/activity-refiner/webhook/redis"
	"github.com/redis/go-redis/v9"
)

const (
	taskKeyPattern = "task:*"

	scanCount = 1000
)

// RedisCollector reads queue metrics from the task repository's Redis
type RedisCollector struct {
	repo   *taskredis.Repository
	client *redis.Client
	clock  clockwork.Clock
}

// NewRedisCollector creates a collector over the repository the workers consume from
func NewRedisCollector(repo *taskredis.Repository, clock clockwork.Clock) *RedisCollector {
	return &RedisCollector{
		repo:   repo,
		client: repo.Client(),
		clock:  clock,
	}
}

// Collect gathers all metrics from Redis
func (c *RedisCollector) Collect(ctx context.Context) (Metrics, error) {
	length, pending, err := c.GetQueueLength(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting queue length: %w", err)
	}

	statusCounts, err := c.GetStatusCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting status counts: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	workers, err := c.GetActiveWorkers(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting active workers: %w", err)
	}

	return Metrics{
		QueueLength:  length,
		Pending:      pending,
		StatusCounts: statusCounts,
		Throughput:   throughput,
		Workers:      workers,
		Timestamp:    c.clock.Now(),
	}, nil
}

// GetQueueLength returns the stream length and the consumer group's pending count
func (c *RedisCollector) GetQueueLength(ctx context.Context) (int64, int64, error) {
	length, err := c.client.XLen(ctx, taskredis.StreamKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, fmt.Errorf("reading stream length: %w", err)
	}

	pending, err := c.client.XPending(ctx, taskredis.StreamKey, taskredis.ConsumerGroup).Result()
	if err != nil {
		// Group not created yet
		if strings.HasPrefix(err.Error(), "NOGROUP") {
			return length, 0, nil
		}
		return 0, 0, fmt.Errorf("reading pending entries: %w", err)
	}

	return length, pending.Count, nil
}

// scanTasks returns every task record key
func (c *RedisCollector) scanTasks(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		scanKeys, next, err := c.client.Scan(ctx, cursor, taskKeyPattern, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning task keys: %w", err)
		}
		keys = append(keys, scanKeys...)

		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// taskFields fetches status and updated_at for each key in one pipeline
func (c *RedisCollector) taskFields(ctx context.Context, keys []string) ([][]interface{}, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HMGet(ctx, key, "status", "updated_at")
	}

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("executing pipeline: %w", err)
	}

	out := make([][]interface{}, 0, len(cmds))
	for _, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) < 2 {
			continue
		}
		out = append(out, vals)
	}
	return out, nil
}

// GetStatusCounts returns counts of task records grouped by status
func (c *RedisCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	statusCounts := map[string]int64{
		"pending":    0,
		"processing": 0,
		"done":       0,
		"failed":     0,
	}

	keys, err := c.scanTasks(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.taskFields(ctx, keys)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		status, ok := row[0].(string)
		if !ok {
			continue
		}
		if _, exists := statusCounts[status]; exists {
			statusCounts[status]++
		}
	}

	return statusCounts, nil
}

// GetThroughput counts tasks finished as done over different time windows
func (c *RedisCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	now := c.clock.Now()
	oneMinuteAgo := now.Add(-1 * time.Minute).Unix()
	fiveMinutesAgo := now.Add(-5 * time.Minute).Unix()
	fifteenMinutesAgo := now.Add(-15 * time.Minute).Unix()

	keys, err := c.scanTasks(ctx)
	if err != nil {
		return ThroughputMetrics{}, err
	}

	rows, err := c.taskFields(ctx, keys)
	if err != nil {
		return ThroughputMetrics{}, err
	}

	var tp ThroughputMetrics
	for _, row := range rows {
		status, ok1 := row[0].(string)
		updatedAtStr, ok2 := row[1].(string)
		if !ok1 || !ok2 || status != "done" {
			continue
		}

		updatedAt, err := strconv.ParseInt(updatedAtStr, 10, 64)
		if err != nil {
			continue
		}

		if updatedAt >= fifteenMinutesAgo {
			tp.LastFifteenMinutes++
			if updatedAt >= fiveMinutesAgo {
				tp.LastFiveMinutes++
				if updatedAt >= oneMinuteAgo {
					tp.LastMinute++
				}
			}
		}
	}

	return tp, nil
}

// GetActiveWorkers returns information about workers with a live heartbeat
func (c *RedisCollector) GetActiveWorkers(ctx context.Context) ([]WorkerInfo, error) {
	heartbeats, err := c.repo.GetActiveWorkers(ctx)
	if err != nil {
		return nil, err
	}

	workers := make([]WorkerInfo, 0, len(heartbeats))
	for _, hb := range heartbeats {
		workers = append(workers, WorkerInfo{
			WorkerID:      hb.WorkerID,
			Status:        hb.Status,
			LastHeartbeat: hb.LastHeartbeat,
		})
	}
	return workers, nil
}
