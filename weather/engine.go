package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Fetcher returns quarter-hour samples at a location for [from, to]
type Fetcher interface {
	Fetch(ctx context.Context, at Location, from, to time.Time) ([]Sample, error)
}

// Engine turns an activity's time span into a weather narrative
type Engine struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewEngine creates a new weather engine
func NewEngine(fetcher Fetcher, logger zerolog.Logger) *Engine {
	return &Engine{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Describe samples weather around [start, start+elapsed] at the start
// location only and renders it as one to three summary lines.
func (e *Engine) Describe(ctx context.Context, start time.Time, elapsed time.Duration, at Location) (string, error) {
	from := start.Add(-SamplePadding)
	to := start.Add(elapsed + SamplePadding)

	samples, err := e.fetcher.Fetch(ctx, at, from, to)
	if err != nil {
		return "", fmt.Errorf("fetching weather samples: %w", err)
	}

	summaries, err := Summarize(samples, start, elapsed)
	if err != nil {
		return "", fmt.Errorf("summarizing weather: %w", err)
	}

	e.logger.Debug().
		Int("samples", len(samples)).
		Int("summaries", len(summaries)).
		Dur("elapsed", elapsed).
		Msg("weather summarized")

	return Narrative(summaries), nil
}
