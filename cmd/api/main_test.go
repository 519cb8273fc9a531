package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_STORE_URI", "redis://localhost:6379/1")
	t.Setenv("ATHLETE_ID", "134815")
	t.Setenv("SUBSCRIPTION_ID", "120475")
	t.Setenv("VERIFY_TOKEN", "STRAVA")
	t.Setenv("STRAVA_CLIENT_ID", "1234")
	t.Setenv("STRAVA_CLIENT_SECRET", "secret")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRun_StartupErrors(t *testing.T) {
	t.Run("missing configuration", func(t *testing.T) {
		for _, key := range []string{"SECRET_STORE_URI", "ATHLETE_ID", "SUBSCRIPTION_ID", "VERIFY_TOKEN", "STRAVA_CLIENT_ID", "STRAVA_CLIENT_SECRET"} {
			t.Setenv(key, "")
		}

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating config")
	})

	t.Run("unusable queue URL", func(t *testing.T) {
		setValidEnv(t)
		t.Setenv("REDIS_URL", "not-a-redis-url")

		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connecting to task queue")
	})
}
