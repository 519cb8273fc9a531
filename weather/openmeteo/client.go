package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/weather"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public Open-Meteo API
	DefaultBaseURL = "https://api.open-meteo.com"

	timeLayout = "2006-01-02T15:04"
	op         = "openmeteo.fetch"
)

var variables = []string{
	"temperature_2m",
	"dew_point_2m",
	"relative_humidity_2m",
	"precipitation",
	"weather_code",
	"wind_speed_10m",
	"wind_gusts_10m",
	"wind_direction_10m",
}

// Client fetches quarter-hour samples from the Open-Meteo forecast API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	// Policy bounds retries of transient failures
	Policy fault.Policy
}

// NewClient creates a new Open-Meteo client
func NewClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		Policy:     fault.DefaultPolicy,
	}
}

type response struct {
	Minutely15 struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		DewPoint      []*float64 `json:"dew_point_2m"`
		Humidity      []*float64 `json:"relative_humidity_2m"`
		Precipitation []*float64 `json:"precipitation"`
		WeatherCode   []*float64 `json:"weather_code"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindGusts     []*float64 `json:"wind_gusts_10m"`
		WindDirection []*float64 `json:"wind_direction_10m"`
	} `json:"minutely_15"`
}

// Fetch implements weather.Fetcher
func (c *Client) Fetch(ctx context.Context, at weather.Location, from, to time.Time) ([]weather.Sample, error) {
	endpoint := c.endpoint(at, from, to)

	var body []byte
	err := fault.Retry(ctx, c.Policy, func() error {
		var err error
		body, err = c.get(ctx, endpoint)
		return err
	}, func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Dur("wait", wait).Msg("retrying weather request")
	})
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fault.Decode(op, fmt.Errorf("decoding forecast: %w", err), body)
	}

	samples, err := toSamples(resp)
	if err != nil {
		return nil, fault.Decode(op, err, body)
	}
	return samples, nil
}

func (c *Client) endpoint(at weather.Location, from, to time.Time) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lng, 'f', 6, 64))
	q.Set("minutely_15", strings.Join(variables, ","))
	q.Set("start_minutely_15", from.UTC().Format(timeLayout))
	q.Set("end_minutely_15", to.UTC().Format(timeLayout))
	q.Set("temperature_unit", "fahrenheit")
	q.Set("wind_speed_unit", "mph")
	q.Set("precipitation_unit", "inch")
	q.Set("timezone", "GMT")
	return c.baseURL + "/v1/forecast?" + q.Encode()
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fault.New(fault.Validation, op, fmt.Errorf("building request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fault.New(fault.UpstreamTransient, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.New(fault.UpstreamTransient, op, fmt.Errorf("reading body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusNotFound:
		return nil, fault.Newf(fault.UpstreamTransient, op, "status %d", resp.StatusCode)
	default:
		c.logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("weather API rejected request")
		return nil, fault.Newf(fault.Validation, op, "status %d", resp.StatusCode)
	}
}

// toSamples zips the column arrays into rows, skipping rows with missing values
func toSamples(resp response) ([]weather.Sample, error) {
	m := resp.Minutely15
	n := len(m.Time)
	columns := [][]*float64{m.Temperature, m.DewPoint, m.Humidity, m.Precipitation, m.WeatherCode, m.WindSpeed, m.WindGusts, m.WindDirection}
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("column %s has %d values, want %d", variables[i], len(col), n)
		}
	}

	samples := make([]weather.Sample, 0, n)
	for i, raw := range m.Time {
		ts, err := time.ParseInLocation(timeLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parsing time %q: %w", raw, err)
		}

		complete := true
		for _, col := range columns {
			if col[i] == nil {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		samples = append(samples, weather.Sample{
			Time:          ts,
			TemperatureF:  *m.Temperature[i],
			DewPointF:     *m.DewPoint[i],
			HumidityPct:   *m.Humidity[i],
			PrecipIn:      *m.Precipitation[i],
			Sky:           weather.SkyCode(int(*m.WeatherCode[i])),
			WindSpeedMph:  *m.WindSpeed[i],
			WindGustMph:   *m.WindGusts[i],
			WindDirection: *m.WindDirection[i],
		})
	}
	return samples, nil
}
