package fault

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes a bounded exponential retry
type Policy struct {
	Attempts        int
	InitialInterval time.Duration
	Multiplier      float64
}

// DefaultPolicy makes four attempts waiting ~100ms, 200ms and 400ms in between
var DefaultPolicy = Policy{
	Attempts:        4,
	InitialInterval: 100 * time.Millisecond,
	Multiplier:      2,
}

// Notify is called before each wait with the error that caused it
type Notify func(err error, wait time.Duration)

// Retry runs op until it succeeds, returns a non-retryable error, the
// attempts are exhausted or ctx is done. Only UpstreamTransient errors
// are retried.
func Retry(ctx context.Context, p Policy, op func() error, notify Notify) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.Multiplier = p.Multiplier
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.Attempts-1)), ctx)

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var n backoff.Notify
	if notify != nil {
		n = backoff.Notify(notify)
	}
	return backoff.RetryNotify(wrapped, b, n)
}
