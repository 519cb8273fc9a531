package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marcelsud/activity-refiner/activity"
	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/token"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the Strava v3 API root
const DefaultBaseURL = "https://www.strava.com/api/v3"

// Client reads and updates activities on behalf of the session owner
type Client struct {
	baseURL   string
	base      http.RoundTripper
	timeout   time.Duration
	refresher *Refresher
	logger    zerolog.Logger

	// Policy bounds retries of transient failures
	Policy fault.Policy
}

// NewClient creates a new Strava API client. base may be nil.
func NewClient(baseURL string, refresher *Refresher, base http.RoundTripper, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		base:      base,
		timeout:   10 * time.Second,
		refresher: refresher,
		logger:    logger,
		Policy:    fault.DefaultPolicy,
	}
}

type activityJSON struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SportType   string    `json:"sport_type"`
	Description *string   `json:"description"`
	Trainer     bool      `json:"trainer"`
	StartLatLng []float64 `json:"start_latlng"`
	EndLatLng   []float64 `json:"end_latlng"`
	StartDate   time.Time `json:"start_date"`
	ElapsedTime int64     `json:"elapsed_time"`
	Map         struct {
		SummaryPolyline string `json:"summary_polyline"`
	} `json:"map"`
}

type updateJSON struct {
	Name         *string `json:"name,omitempty"`
	SportType    *string `json:"sport_type,omitempty"`
	Description  *string `json:"description,omitempty"`
	HideFromHome *bool   `json:"hide_from_home,omitempty"`
}

// GetActivity fetches one activity by id
func (c *Client) GetActivity(ctx context.Context, s *token.Session, id int64) (activity.Activity, error) {
	const op = "strava.get_activity"

	body, err := c.call(ctx, s, op, http.MethodGet, id, nil)
	if err != nil {
		return activity.Activity{}, err
	}

	var raw activityJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return activity.Activity{}, fault.Decode(op, fmt.Errorf("decoding activity: %w", err), body)
	}
	if raw.ID == 0 {
		return activity.Activity{}, fault.Decode(op, fmt.Errorf("activity has no id"), body)
	}

	return raw.toActivity(), nil
}

// UpdateActivity applies cmd in a single PUT
func (c *Client) UpdateActivity(ctx context.Context, s *token.Session, id int64, cmd activity.UpdateCommand) error {
	const op = "strava.update_activity"

	payload, err := json.Marshal(updateJSON{
		Name:         cmd.Name,
		SportType:    cmd.SportType,
		Description:  cmd.Description,
		HideFromHome: cmd.HideFromHome,
	})
	if err != nil {
		return fmt.Errorf("marshaling update: %w", err)
	}

	_, err = c.call(ctx, s, op, http.MethodPut, id, payload)
	return err
}

func (c *Client) call(ctx context.Context, s *token.Session, op, method string, id int64, payload []byte) ([]byte, error) {
	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &Transport{
			Session:   s,
			Refresher: c.refresher,
			Logger:    c.logger,
			Base:      c.base,
		},
	}
	endpoint := fmt.Sprintf("%s/activities/%d", c.baseURL, id)

	var body []byte
	err := fault.Retry(ctx, c.Policy, func() error {
		var err error
		body, err = c.do(ctx, httpClient, op, method, endpoint, payload)
		return err
	}, func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Str("op", op).Int64("activity_id", id).Dur("wait", wait).Msg("retrying Strava request")
	})
	return body, err
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, op, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if _, ok := fault.KindOf(err); ok {
			return nil, err
		}
		return nil, fault.New(fault.UpstreamTransient, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.New(fault.UpstreamTransient, op, fmt.Errorf("reading body: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fault.Newf(fault.UpstreamAuth, op, "access token rejected after refresh")
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusTooManyRequests:
		return nil, fault.Newf(fault.UpstreamTransient, op, "status %d", resp.StatusCode)
	default:
		c.logger.Error().Str("op", op).Int("status", resp.StatusCode).Str("body", string(body)).Msg("Strava rejected request")
		return nil, fault.Newf(fault.Validation, op, "status %d", resp.StatusCode)
	}
}

func (a activityJSON) toActivity() activity.Activity {
	out := activity.Activity{
		ID:        a.ID,
		Name:      a.Name,
		SportType: a.SportType,
		Trainer:   a.Trainer,
		Start:     toCoordinate(a.StartLatLng),
		End:       toCoordinate(a.EndLatLng),
		StartTime: a.StartDate,
		Elapsed:   time.Duration(a.ElapsedTime) * time.Second,
		Polyline:  a.Map.SummaryPolyline,
	}
	if a.Description != nil {
		out.Description = *a.Description
	}
	return out
}

// toCoordinate treats an empty or malformed latlng array as absent
func toCoordinate(latlng []float64) *activity.Coordinate {
	if len(latlng) != 2 {
		return nil
	}
	return &activity.Coordinate{Lat: latlng[0], Lng: latlng[1]}
}
