package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/weather"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastJSON = `{
  "minutely_15": {
    "time": ["2024-06-01T13:45", "2024-06-01T14:00", "2024-06-01T14:15"],
    "temperature_2m": [61.2, 62.5, null],
    "dew_point_2m": [50.1, 50.4, 50.9],
    "relative_humidity_2m": [66, 64, 63],
    "precipitation": [0, 0.01, 0],
    "weather_code": [1, 3, 2],
    "wind_speed_10m": [5.5, 6.1, 6.8],
    "wind_gusts_10m": [11.0, 12.2, 13.1],
    "wind_direction_10m": [180, 190, 200]
  }
}`

var fastPolicy = fault.Policy{Attempts: 4, InitialInterval: time.Millisecond, Multiplier: 2}

func newTestClient(url string) *Client {
	c := NewClient(url, nil, zerolog.Nop())
	c.Policy = fastPolicy
	return c
}

func TestClient_Fetch(t *testing.T) {
	from := time.Date(2024, time.June, 1, 13, 45, 0, 0, time.UTC)
	to := from.Add(30 * time.Minute)

	t.Run("builds the query and parses rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/forecast", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "40.015000", q.Get("latitude"))
			assert.Equal(t, "-105.270500", q.Get("longitude"))
			assert.Equal(t, "2024-06-01T13:45", q.Get("start_minutely_15"))
			assert.Equal(t, "2024-06-01T14:15", q.Get("end_minutely_15"))
			assert.Equal(t, "fahrenheit", q.Get("temperature_unit"))
			assert.Equal(t, "mph", q.Get("wind_speed_unit"))
			assert.Equal(t, "inch", q.Get("precipitation_unit"))
			assert.Equal(t, "GMT", q.Get("timezone"))
			assert.Contains(t, q.Get("minutely_15"), "wind_gusts_10m")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(forecastJSON))
		}))
		defer server.Close()

		samples, err := newTestClient(server.URL).Fetch(context.Background(), weather.Location{Lat: 40.015, Lng: -105.2705}, from, to)
		require.NoError(t, err)

		// the row with a null temperature is skipped
		require.Len(t, samples, 2)
		assert.Equal(t, from, samples[0].Time)
		assert.Equal(t, 61.2, samples[0].TemperatureF)
		assert.Equal(t, weather.MainlyClear, samples[0].Sky)
		assert.Equal(t, weather.Overcast, samples[1].Sky)
		assert.Equal(t, 0.01, samples[1].PrecipIn)
		assert.Equal(t, 190.0, samples[1].WindDirection)
	})

	t.Run("retries server errors four times", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Fetch(context.Background(), weather.Location{}, from, to)
		require.Error(t, err)
		assert.True(t, fault.Is(err, fault.UpstreamTransient))
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})

	t.Run("404 is retried and can recover", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(forecastJSON))
		}))
		defer server.Close()

		samples, err := newTestClient(server.URL).Fetch(context.Background(), weather.Location{}, from, to)
		require.NoError(t, err)
		assert.Len(t, samples, 2)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("other client errors are not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":true,"reason":"bad range"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Fetch(context.Background(), weather.Location{}, from, to)
		require.Error(t, err)
		assert.False(t, fault.IsRetryable(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("undecodable body carries the raw payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Fetch(context.Background(), weather.Location{}, from, to)
		require.Error(t, err)

		var fe *fault.Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fault.Deserialization, fe.Kind)
		assert.Equal(t, "<html>maintenance</html>", fe.Body)
	})

	t.Run("mismatched columns", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"minutely_15":{"time":["2024-06-01T13:45"],"temperature_2m":[]}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Fetch(context.Background(), weather.Location{}, from, to)
		assert.True(t, fault.Is(err, fault.Deserialization))
	})
}
