package webhook

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/marcelsud/activity-refiner/fault"
	"github.com/rs/zerolog"
)

// Processor is the deferred unit run for each task
type Processor interface {
	Process(ctx context.Context, activityID int64) error
}

// Reporter forwards fatal unit errors to error tracking
type Reporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}

const (
	workerIdle       = "idle"
	workerProcessing = "processing"

	consumeBackoff = time.Second
)

// WorkerConfig controls the pool
type WorkerConfig struct {
	Parallelism       int
	KeepaliveInterval time.Duration
}

/* Worker runs Parallelism consumers of the task stream
 * Each consumer handles one task at a time; there is no ordering or
 * mutual exclusion between tasks. A keep-alive tick refreshes heartbeats.
 */
type Worker struct {
	service   *Service
	processor Processor
	reporter  Reporter
	clock     clockwork.Clock
	cfg       WorkerConfig
	logger    zerolog.Logger

	ids    []string
	mu     sync.Mutex
	states map[string]string
	wg     sync.WaitGroup
}

// NewWorker creates a worker pool; reporter may be nil
func NewWorker(service *Service, processor Processor, reporter Reporter, clock clockwork.Clock, cfg WorkerConfig, logger zerolog.Logger) *Worker {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	if cfg.KeepaliveInterval <= 0 {
		cfg.KeepaliveInterval = time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	prefix := uuid.New().String()[:8]
	ids := make([]string, cfg.Parallelism)
	states := make(map[string]string, cfg.Parallelism)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", prefix, i)
		states[ids[i]] = workerIdle
	}

	return &Worker{
		service:   service,
		processor: processor,
		reporter:  reporter,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
		ids:       ids,
		states:    states,
	}
}

// IDs returns the consumer names of the pool
func (w *Worker) IDs() []string {
	return w.ids
}

// Start launches the consumers and the keep-alive loop. It returns immediately.
func (w *Worker) Start(ctx context.Context) {
	for _, id := range w.ids {
		w.wg.Add(1)
		go func(id string) {
			defer w.wg.Done()
			w.consume(ctx, id)
		}(id)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.keepalive(ctx)
	}()

	w.logger.Info().Int("parallelism", len(w.ids)).Dur("keepalive", w.cfg.KeepaliveInterval).Msg("workers started")
}

// Wait blocks until every consumer has finished its current task
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) consume(ctx context.Context, id string) {
	logger := w.logger.With().Str("worker_id", id).Logger()

	for ctx.Err() == nil {
		tasks, err := w.service.Repo.Consume(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error().Err(err).Msg("consuming tasks")
			select {
			case <-ctx.Done():
				return
			case <-w.clock.After(consumeBackoff):
			}
			continue
		}

		for _, task := range tasks {
			w.handle(ctx, id, task, logger)
		}
	}
}

// handle runs one task to completion. Shutdown does not interrupt it.
func (w *Worker) handle(ctx context.Context, id string, task Task, logger zerolog.Logger) {
	ctx = context.WithoutCancel(ctx)
	logger = logger.With().Str("task", task.Handle).Int64("activity_id", task.ActivityID).Logger()

	// reclaimed from a consumer that finished the unit but died before acking
	if task.Status.IsFinal() {
		logger.Info().Str("status", task.Status.String()).Msg("task already finished, acknowledging")
		if err := w.service.Repo.Acknowledge(ctx, task); err != nil {
			logger.Warn().Err(err).Msg("acknowledging task")
		}
		return
	}

	w.setState(ctx, id, workerProcessing)
	defer w.setState(ctx, id, workerIdle)

	if err := w.service.Start(ctx, task.Handle); err != nil {
		logger.Warn().Err(err).Msg("marking task processing")
	}

	err := w.processor.Process(ctx, task.ActivityID)
	if err != nil {
		logger.Error().Err(err).Str("kind", kindOf(err)).Msg("task failed")
		if ferr := w.service.Fail(ctx, task.Handle, err); ferr != nil {
			logger.Warn().Err(ferr).Msg("marking task failed")
		}
		if w.reporter != nil {
			w.reporter.Report(ctx, err, map[string]string{
				"task":        task.Handle,
				"activity_id": fmt.Sprint(task.ActivityID),
				"kind":        kindOf(err),
			})
		}
	} else {
		logger.Info().Msg("task done")
		if cerr := w.service.Complete(ctx, task.Handle); cerr != nil {
			logger.Warn().Err(cerr).Msg("marking task done")
		}
	}

	if err := w.service.Repo.Acknowledge(ctx, task); err != nil {
		logger.Warn().Err(err).Msg("acknowledging task")
	}
}

// keepalive refreshes every heartbeat on each tick
func (w *Worker) keepalive(ctx context.Context) {
	ticker := w.clock.NewTicker(w.cfg.KeepaliveInterval)
	defer ticker.Stop()

	w.beatAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			w.logger.Debug().Msg("keep-alive tick")
			w.beatAll(ctx)
		}
	}
}

func (w *Worker) beatAll(ctx context.Context) {
	for _, id := range w.ids {
		w.mu.Lock()
		state := w.states[id]
		w.mu.Unlock()
		w.beat(ctx, id, state)
	}
}

func (w *Worker) setState(ctx context.Context, id, state string) {
	w.mu.Lock()
	w.states[id] = state
	w.mu.Unlock()
	w.beat(ctx, id, state)
}

func (w *Worker) beat(ctx context.Context, id, state string) {
	err := w.service.Repo.SetHeartbeat(ctx, id, state, w.heartbeatTTL())
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn().Err(err).Str("worker_id", id).Msg("sending heartbeat")
	}
}

// heartbeatTTL outlives one missed tick
func (w *Worker) heartbeatTTL() time.Duration {
	ttl := 2 * w.cfg.KeepaliveInterval
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}

func kindOf(err error) string {
	if k, ok := fault.KindOf(err); ok {
		return k.String()
	}
	return "unknown"
}
