package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/marcelsud/activity-refiner/fault"
)

/* Service represents the dispatch boundary
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the operations the gateway and the workers need
type UseCase interface {
	Schedule(ctx context.Context, event Event) (string, error)
	Start(ctx context.Context, handle string) error
	Complete(ctx context.Context, handle string) error
	Fail(ctx context.Context, handle string, cause error) error
}

// Retention is how long finished task records are kept
type Retention struct {
	Done   time.Duration
	Failed time.Duration
}

// DefaultRetention keeps done tasks for an hour and failed ones for a day
var DefaultRetention = Retention{
	Done:   time.Hour,
	Failed: 24 * time.Hour,
}

type Service struct {
	Repo      Repository
	retention Retention
	clock     clockwork.Clock
}

// NewService creates a new dispatch service with dependency injection
func NewService(repo Repository, retention Retention, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		Repo:      repo,
		retention: retention,
		clock:     clock,
	}
}

// Schedule hands the event over for deferred processing and returns the task handle
func (s *Service) Schedule(ctx context.Context, event Event) (string, error) {
	if event.ObjectID <= 0 {
		return "", fault.Newf(fault.Validation, "webhook.schedule", "invalid routing key %d", event.ObjectID)
	}

	now := s.clock.Now()
	task := Task{
		Handle:     uuid.New().String(),
		ActivityID: event.ObjectID,
		Event:      event,
		Status:     Pending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	handle, err := s.Repo.Enqueue(ctx, task)
	if err != nil {
		return "", fmt.Errorf("enqueuing task: %w", err)
	}

	return handle, nil
}

// Start marks a task as being processed and counts the attempt
func (s *Service) Start(ctx context.Context, handle string) error {
	if err := s.Repo.IncrementAttempts(ctx, handle); err != nil {
		return fmt.Errorf("incrementing attempts: %w", err)
	}
	if err := s.Repo.UpdateStatus(ctx, handle, Processing, ""); err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	return nil
}

// Complete marks a task as done and schedules its cleanup
func (s *Service) Complete(ctx context.Context, handle string) error {
	return s.finish(ctx, handle, Done, "", s.retention.Done)
}

// Fail records the cause on the task and schedules its cleanup
func (s *Service) Fail(ctx context.Context, handle string, cause error) error {
	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}
	return s.finish(ctx, handle, Failed, lastError, s.retention.Failed)
}

func (s *Service) finish(ctx context.Context, handle string, status Status, lastError string, ttl time.Duration) error {
	if err := s.Repo.UpdateStatus(ctx, handle, status, lastError); err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	if ttl > 0 {
		if err := s.Repo.SetTTL(ctx, handle, ttl); err != nil {
			return fmt.Errorf("setting task TTL: %w", err)
		}
	}
	return nil
}
