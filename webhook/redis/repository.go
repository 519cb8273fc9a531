package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcelsud/activity-refiner/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis Streams implementation of webhook.Repository
 * Uses one stream read through a consumer group for the work queue
 * Uses Redis Hashes for task bookkeeping
 */

const (
	StreamKey     = "tasks:activities" // Work stream shared by every worker
	ConsumerGroup = "refiner-workers"  // Consumer group; each worker is a named consumer
	hashPrefix    = "task"             // Hash naming: task:{handle}

	readBlock = time.Second

	// DefaultClaimIdle outlasts one unit's worst case: four attempts on each
	// upstream call plus their HTTP timeouts
	DefaultClaimIdle = 5 * time.Minute
)

type Repository struct {
	client        *redis.Client
	claimIdleTime time.Duration
}

// NewRepository creates the repository and makes sure the consumer group exists
func NewRepository(ctx context.Context, client *redis.Client) (*Repository, error) {
	r := &Repository{
		client:        client,
		claimIdleTime: DefaultClaimIdle,
	}
	if err := r.ensureGroup(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// WithClaimIdle sets how long an unacknowledged entry waits before another
// consumer takes it over
func (r *Repository) WithClaimIdle(d time.Duration) *Repository {
	if d > 0 {
		r.claimIdleTime = d
	}
	return r
}

func (r *Repository) ensureGroup(ctx context.Context) error {
	err := r.client.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group: %w", err)
	}
	return nil
}

// HashKey returns the key of a task record
func HashKey(handle string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, handle)
}

type eventRecord struct {
	AspectType     string            `json:"aspect_type"`
	ObjectType     string            `json:"object_type"`
	ObjectID       int64             `json:"object_id"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
	Updates        map[string]string `json:"updates,omitempty"`
}

// enqueueScript appends the stream entry first and writes the record only
// if that succeeded, so a failed enqueue leaves nothing behind
var enqueueScript = redis.NewScript(`
redis.call('XADD', KEYS[1], '*', 'handle', ARGV[1], 'activity_id', ARGV[2])
redis.call('HSET', KEYS[2],
	'handle', ARGV[1],
	'activity_id', ARGV[2],
	'event', ARGV[3],
	'status', ARGV[4],
	'attempts', ARGV[5],
	'last_error', ARGV[6],
	'created_at', ARGV[7],
	'updated_at', ARGV[8])
return 1
`)

// Enqueue stores the task record and appends its handle to the stream atomically
func (r *Repository) Enqueue(ctx context.Context, task webhook.Task) (string, error) {
	eventJSON, err := json.Marshal(eventRecord{
		AspectType:     task.Event.AspectType.String(),
		ObjectType:     task.Event.ObjectType.String(),
		ObjectID:       task.Event.ObjectID,
		OwnerID:        task.Event.OwnerID,
		SubscriptionID: task.Event.SubscriptionID,
		EventTime:      task.Event.EventTime.Unix(),
		Updates:        task.Event.Updates,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling event: %w", err)
	}

	err = enqueueScript.Run(ctx, r.client,
		[]string{StreamKey, HashKey(task.Handle)},
		task.Handle,
		task.ActivityID,
		string(eventJSON),
		task.Status.String(),
		task.Attempts,
		task.LastError,
		task.CreatedAt.Unix(),
		task.UpdatedAt.Unix(),
	).Err()
	if err != nil {
		return "", fmt.Errorf("enqueuing task: %w", err)
	}

	return task.Handle, nil
}

// Get retrieves a task record by handle
func (r *Repository) Get(ctx context.Context, handle string) (webhook.Task, error) {
	data, err := r.client.HGetAll(ctx, HashKey(handle)).Result()
	if err != nil {
		return webhook.Task{}, fmt.Errorf("getting task: %w", err)
	}
	if len(data) == 0 {
		return webhook.Task{}, fmt.Errorf("task not found: %s", handle)
	}

	var rec eventRecord
	if raw := data["event"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return webhook.Task{}, fmt.Errorf("unmarshaling event: %w", err)
		}
	}
	aspect, _ := webhook.ParseAspectType(rec.AspectType)
	object, _ := webhook.ParseObjectType(rec.ObjectType)

	return webhook.Task{
		Handle:     data["handle"],
		ActivityID: parseInt64(data["activity_id"]),
		Event: webhook.Event{
			AspectType:     aspect,
			ObjectType:     object,
			ObjectID:       rec.ObjectID,
			OwnerID:        rec.OwnerID,
			SubscriptionID: rec.SubscriptionID,
			EventTime:      time.Unix(rec.EventTime, 0).UTC(),
			Updates:        rec.Updates,
		},
		Status:    webhook.NewStatus(data["status"]),
		Attempts:  int(parseInt64(data["attempts"])),
		LastError: data["last_error"],
		CreatedAt: time.Unix(parseInt64(data["created_at"]), 0),
		UpdatedAt: time.Unix(parseInt64(data["updated_at"]), 0),
	}, nil
}

// UpdateStatus updates the status and last error of a task
func (r *Repository) UpdateStatus(ctx context.Context, handle string, status webhook.Status, lastError string) error {
	if err := status.Validate(); err != nil {
		return err
	}

	err := r.client.HSet(ctx, HashKey(handle), map[string]interface{}{
		"status":     status.String(),
		"last_error": lastError,
		"updated_at": time.Now().Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return nil
}

// IncrementAttempts increments the attempt count of a task
func (r *Repository) IncrementAttempts(ctx context.Context, handle string) error {
	err := r.client.HIncrBy(ctx, HashKey(handle), "attempts", 1).Err()
	if err != nil {
		return fmt.Errorf("incrementing attempts: %w", err)
	}

	return nil
}

// SetTTL sets an expiration time on a task record
func (r *Repository) SetTTL(ctx context.Context, handle string, ttl time.Duration) error {
	err := r.client.Expire(ctx, HashKey(handle), ttl).Err()
	if err != nil {
		return fmt.Errorf("setting TTL on task: %w", err)
	}

	return nil
}

// Consume returns the next task for the named consumer. Entries another
// consumer left unacknowledged for longer than the claim idle time are
// taken over first, so a crashed worker's task still runs.
func (r *Repository) Consume(ctx context.Context, consumer string) ([]webhook.Task, error) {
	claimed, err := r.claimIdle(ctx, consumer)
	if err != nil {
		return nil, err
	}
	if len(claimed) > 0 {
		return r.toTasks(ctx, claimed), nil
	}

	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroup,
		Consumer: consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    1,
		Block:    readBlock,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return []webhook.Task{}, nil
	}
	if err != nil {
		// the stream was deleted under us
		if strings.HasPrefix(err.Error(), "NOGROUP") {
			return []webhook.Task{}, r.ensureGroup(ctx)
		}
		return nil, fmt.Errorf("reading from stream: %w", err)
	}

	if len(streams) == 0 {
		return []webhook.Task{}, nil
	}
	return r.toTasks(ctx, streams[0].Messages), nil
}

// claimIdle moves one stale pending entry to consumer
func (r *Repository) claimIdle(ctx context.Context, consumer string) ([]redis.XMessage, error) {
	msgs, _, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey,
		Group:    ConsumerGroup,
		Consumer: consumer,
		MinIdle:  r.claimIdleTime,
		Start:    "0-0",
		Count:    1,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		if strings.HasPrefix(err.Error(), "NOGROUP") {
			return nil, r.ensureGroup(ctx)
		}
		return nil, fmt.Errorf("claiming idle entries: %w", err)
	}
	return msgs, nil
}

func (r *Repository) toTasks(ctx context.Context, msgs []redis.XMessage) []webhook.Task {
	tasks := []webhook.Task{}
	for _, msg := range msgs {
		handle, ok := msg.Values["handle"].(string)
		if !ok {
			// unreadable or deleted entry, drop it so it does not stay pending
			r.client.XAck(ctx, StreamKey, ConsumerGroup, msg.ID)
			continue
		}

		task, err := r.Get(ctx, handle)
		if err != nil {
			// the record expired, the stream entry still names the activity
			id, _ := msg.Values["activity_id"].(string)
			task = webhook.Task{Handle: handle, ActivityID: parseInt64(id), Status: webhook.Pending}
		}
		task.MessageID = msg.ID

		tasks = append(tasks, task)
	}
	return tasks
}

// Acknowledge removes the task's entry from the group's pending list
func (r *Repository) Acknowledge(ctx context.Context, task webhook.Task) error {
	if task.MessageID == "" {
		return nil
	}

	err := r.client.XAck(ctx, StreamKey, ConsumerGroup, task.MessageID).Err()
	if err != nil {
		return fmt.Errorf("acknowledging message: %w", err)
	}

	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

// Client returns the underlying Redis client, shared with the metrics collector
func (r *Repository) Client() *redis.Client {
	return r.client
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
