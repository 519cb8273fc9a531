package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

type Config struct {
	DSN         string
	Environment string
	Release     string
	ServerName  string
}

// Tracker sends fatal unit errors to Sentry. A Tracker built without a DSN
// only logs.
type Tracker struct {
	hub    *sentry.Hub
	logger zerolog.Logger
}

// New creates a Tracker with its own Sentry client
func New(cfg Config, logger zerolog.Logger) (*Tracker, error) {
	if cfg.DSN == "" {
		logger.Warn().Msg("Sentry DSN not configured - error tracking disabled")
		return &Tracker{logger: logger}, nil
	}

	return newTracker(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		ServerName:  cfg.ServerName,
		BeforeSend:  scrub,
	}, logger)
}

func newTracker(opts sentry.ClientOptions, logger zerolog.Logger) (*Tracker, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}

	logger.Info().Str("environment", opts.Environment).Msg("Sentry initialized")

	return &Tracker{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger,
	}, nil
}

// scrub drops credentials from captured requests
func scrub(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil && event.Request.Headers != nil {
		delete(event.Request.Headers, "Authorization")
		delete(event.Request.Headers, "Cookie")
	}
	return event
}

// Enabled reports whether events leave the process
func (t *Tracker) Enabled() bool {
	return t.hub != nil
}

// Report captures err with the given tags
func (t *Tracker) Report(_ context.Context, err error, tags map[string]string) {
	if err == nil || t.hub == nil {
		return
	}

	hub := t.hub.Clone()
	hub.Scope().SetTags(tags)
	id := hub.CaptureException(err)

	if id != nil {
		t.logger.Debug().Str("event_id", string(*id)).Err(err).Msg("exception captured in Sentry")
	}
}

// Flush waits for buffered events to be sent
func (t *Tracker) Flush(timeout time.Duration) bool {
	if t.hub == nil {
		return true
	}
	return t.hub.Flush(timeout)
}
