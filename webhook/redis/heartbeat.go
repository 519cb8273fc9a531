package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const heartbeatPrefix = "worker:heartbeat"

// WorkerHeartbeat is the value stored under a consumer's heartbeat key
type WorkerHeartbeat struct {
	WorkerID      string    `json:"worker_id"`
	Status        string    `json:"status"` // idle or processing
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// HeartbeatKey returns the key holding a worker's heartbeat
func HeartbeatKey(workerID string) string {
	return fmt.Sprintf("%s:%s", heartbeatPrefix, workerID)
}

// SetHeartbeat stores or updates a worker's heartbeat in Redis.
// A worker whose key expired is considered inactive.
func (r *Repository) SetHeartbeat(ctx context.Context, workerID, status string, ttl time.Duration) error {
	heartbeat := WorkerHeartbeat{
		WorkerID:      workerID,
		Status:        status,
		LastHeartbeat: time.Now(),
	}

	data, err := json.Marshal(heartbeat)
	if err != nil {
		return fmt.Errorf("marshaling heartbeat: %w", err)
	}

	err = r.client.Set(ctx, HeartbeatKey(workerID), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("setting heartbeat: %w", err)
	}

	return nil
}

// GetActiveWorkers lists every consumer whose heartbeat has not expired.
// Each SCAN page is fetched with one MGET; keys that expire in between
// come back nil and are skipped.
func (r *Repository) GetActiveWorkers(ctx context.Context) ([]WorkerHeartbeat, error) {
	workers := []WorkerHeartbeat{}

	iter := r.client.Scan(ctx, 0, heartbeatPrefix+":*", 100).Iterator()
	var page []string
	flush := func() error {
		if len(page) == 0 {
			return nil
		}
		values, err := r.client.MGet(ctx, page...).Result()
		if err != nil {
			return fmt.Errorf("reading worker heartbeats: %w", err)
		}
		for _, v := range values {
			raw, ok := v.(string)
			if !ok {
				continue
			}
			var hb WorkerHeartbeat
			if err := json.Unmarshal([]byte(raw), &hb); err != nil {
				continue
			}
			workers = append(workers, hb)
		}
		page = page[:0]
		return nil
	}

	for iter.Next(ctx) {
		page = append(page, iter.Val())
		if len(page) == 100 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning worker keys: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return workers, nil
}
