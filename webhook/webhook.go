package webhook

import "time"

/* Event is one push notification about an object owned by an athlete
 * Uses value semantics as it represents data, not behavior
 */
type Event struct {
	AspectType     AspectType
	ObjectType     ObjectType
	ObjectID       int64
	OwnerID        int64
	SubscriptionID int64
	EventTime      time.Time
	Updates        map[string]string
}

/* Task is the bookkeeping record of one deferred unit of work
 * ActivityID is the routing key the worker acts on
 */
type Task struct {
	Handle     string
	ActivityID int64
	Event      Event
	Status     Status
	Attempts   int
	LastError  string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// MessageID is the stream entry the task was read from, set by Consume
	MessageID string
}
