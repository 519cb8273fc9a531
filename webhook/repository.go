package webhook

import (
	"context"
	"time"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 */

// Reader provides read operations for tasks
type Reader interface {
	Get(ctx context.Context, handle string) (Task, error)
}

// Writer provides write operations for tasks
type Writer interface {
	/* Enqueue stores the task record and appends it to the work stream
	 * Returns the task handle and any error
	 */
	Enqueue(ctx context.Context, task Task) (string, error)
	UpdateStatus(ctx context.Context, handle string, status Status, lastError string) error
	IncrementAttempts(ctx context.Context, handle string) error
	/* SetTTL sets an expiration time on a task record
	 * Used to automatically clean up done and failed tasks
	 */
	SetTTL(ctx context.Context, handle string, ttl time.Duration) error
}

// StreamConsumer provides operations for consuming tasks from the stream
type StreamConsumer interface {
	/* Consume reads the next tasks for the named consumer of the group
	 * Blocks briefly until a task is available or context is cancelled
	 */
	Consume(ctx context.Context, consumer string) ([]Task, error)
	/* Acknowledge removes the task's stream entry from the pending list
	 */
	Acknowledge(ctx context.Context, task Task) error
}

// Heartbeats records worker liveness
type Heartbeats interface {
	SetHeartbeat(ctx context.Context, workerID, status string, ttl time.Duration) error
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	StreamConsumer
	Heartbeats
	Close(ctx context.Context) error
}
