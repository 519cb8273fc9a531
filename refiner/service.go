package refiner

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/activity-refiner/activity"
	"github.com/marcelsud/activity-refiner/metrics"
	"github.com/marcelsud/activity-refiner/token"
	"github.com/rs/zerolog"
)

// ActivityAPI reads and writes activities with an authenticated session
type ActivityAPI interface {
	GetActivity(ctx context.Context, s *token.Session, id int64) (activity.Activity, error)
	UpdateActivity(ctx context.Context, s *token.Session, id int64, cmd activity.UpdateCommand) error
}

// Tokens runs a unit of work with the shared session
type Tokens interface {
	Do(ctx context.Context, fn func(ctx context.Context, s *token.Session) error) error
}

// Service is the deferred unit: fetch, classify, update
type Service struct {
	tokens   Tokens
	api      ActivityAPI
	engine   *Engine
	recorder *metrics.Recorder
	logger   zerolog.Logger
}

// NewService creates a new refiner service
func NewService(tokens Tokens, api ActivityAPI, engine *Engine, recorder *metrics.Recorder, logger zerolog.Logger) *Service {
	return &Service{
		tokens:   tokens,
		api:      api,
		engine:   engine,
		recorder: recorder,
		logger:   logger,
	}
}

// Process refines one activity. The marker and the edits travel in the
// same update, so a failure before it leaves the activity untouched.
func (s *Service) Process(ctx context.Context, activityID int64) error {
	started := time.Now()
	defer func() {
		s.recorder.UnitDuration.Observe(time.Since(started).Seconds())
	}()

	logger := s.logger.With().Int64("activity_id", activityID).Logger()

	var decision Decision
	err := s.tokens.Do(ctx, func(ctx context.Context, session *token.Session) error {
		a, err := s.api.GetActivity(ctx, session, activityID)
		if err != nil {
			return fmt.Errorf("fetching activity: %w", err)
		}

		decision, err = s.engine.Classify(ctx, a)
		if err != nil {
			return fmt.Errorf("classifying activity: %w", err)
		}
		if !decision.Update() {
			return nil
		}

		if err := s.api.UpdateActivity(ctx, session, activityID, decision.Command); err != nil {
			return fmt.Errorf("updating activity: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recorder.Unit(metrics.OutcomeFailed)
		return err
	}

	s.recorder.Rule(decision.Rule)
	if !decision.Update() {
		s.recorder.Unit(metrics.OutcomeSkipped)
		logger.Info().Str("rule", decision.Rule).Msg("activity left unchanged")
		return nil
	}

	s.recorder.Unit(metrics.OutcomeUpdated)
	logger.Info().Str("rule", decision.Rule).Msg("activity refined")
	return nil
}
