package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/metrics"
	"github.com/marcelsud/activity-refiner/webhook"
	"github.com/marcelsud/activity-refiner/webhook/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSubscription = int64(120475)
	testAthlete      = int64(134815)
	testVerifyToken  = "STRAVA"
)

func newGateway(t *testing.T) (http.Handler, *mocks.UseCase, *metrics.Recorder) {
	t.Helper()

	handled, err := webhook.NewAspectSet("create")
	require.NoError(t, err)

	s := mocks.NewUseCase(t)
	recorder := metrics.NewRecorderForTesting()
	cfg := GatewayConfig{
		Path:        "/webhook",
		VerifyToken: testVerifyToken,
		Gate: webhook.Gate{
			SubscriptionID: testSubscription,
			AthleteID:      testAthlete,
			Handled:        handled,
		},
		Timeout: 1500 * time.Millisecond,
	}
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})

	return Handlers(context.Background(), cfg, s, recorder, metricsHandler, zerolog.Nop()), s, recorder
}

func eventBody(aspect, object string, subscription, owner int64) string {
	b, _ := json.Marshal(map[string]any{
		"aspect_type":     aspect,
		"object_type":     object,
		"object_id":       1360128428,
		"owner_id":        owner,
		"subscription_id": subscription,
		"event_time":      1516126040,
		"updates":         map[string]any{},
	})
	return string(b)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func handshakeURL(mode, token, challenge string) string {
	q := url.Values{}
	q.Set("hub.mode", mode)
	q.Set("hub.verify_token", token)
	q.Set("hub.challenge", challenge)
	return "/webhook?" + q.Encode()
}

func TestHandshake(t *testing.T) {
	h, _, _ := newGateway(t)

	t.Run("echoes the challenge", func(t *testing.T) {
		w := serve(h, http.MethodGet, handshakeURL("subscribe", testVerifyToken, "15f7d1a91c1f40f8a748fd134752feb3"), "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"hub.challenge":"15f7d1a91c1f40f8a748fd134752feb3"}`, w.Body.String())
	})

	t.Run("wrong verify token", func(t *testing.T) {
		w := serve(h, http.MethodGet, handshakeURL("subscribe", "strava", "abc"), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong mode", func(t *testing.T) {
		w := serve(h, http.MethodGet, handshakeURL("unsubscribe", testVerifyToken, "abc"), "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("empty challenge", func(t *testing.T) {
		w := serve(h, http.MethodGet, handshakeURL("subscribe", testVerifyToken, ""), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no parameters", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/webhook", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPostEvent_Scheduled(t *testing.T) {
	h, s, recorder := newGateway(t)

	hasDeadline := mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})
	isActivity := mock.MatchedBy(func(e webhook.Event) bool {
		return e.ObjectID == 1360128428 &&
			e.AspectType == webhook.Create &&
			e.ObjectType == webhook.Activity &&
			e.EventTime.Equal(time.Unix(1516126040, 0))
	})
	s.On("Schedule", hasDeadline, isActivity).Return("f3a1c0de-0000-4000-8000-000000000001", nil).Once()

	w := serve(h, http.MethodPost, "/webhook", eventBody("create", "activity", testSubscription, testAthlete))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp eventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "f3a1c0de-0000-4000-8000-000000000001", resp.Handle)
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Events.WithLabelValues(metrics.EventScheduled)))
}

func TestPostEvent_SchedulingFailure(t *testing.T) {
	h, s, recorder := newGateway(t)
	s.On("Schedule", mock.Anything, mock.Anything).Return("", errors.New("enqueuing task: connection refused")).Once()

	w := serve(h, http.MethodPost, "/webhook", eventBody("create", "activity", testSubscription, testAthlete))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Events.WithLabelValues(metrics.EventRejected)))
}

func TestPostEvent_InvalidRoutingKey(t *testing.T) {
	h, s, recorder := newGateway(t)
	s.On("Schedule", mock.Anything, mock.MatchedBy(func(e webhook.Event) bool {
		return e.ObjectID == 0 && e.EventTime.IsZero()
	})).Return("", fault.Newf(fault.Validation, "webhook.schedule", "invalid routing key 0")).Once()

	w := serve(h, http.MethodPost, "/webhook", `{"aspect_type":"create","object_type":"activity","owner_id":134815,"subscription_id":120475}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid routing key")
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Events.WithLabelValues(metrics.EventRejected)))
}

func TestPostEvent_Filtering(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantResult string
	}{
		{"malformed json", `{"aspect_type":`, http.StatusBadRequest, metrics.EventRejected},
		{"not json at all", `hello`, http.StatusBadRequest, metrics.EventRejected},
		{"missing fields", `{"aspect_type":"create"}`, http.StatusBadRequest, metrics.EventRejected},
		{"unknown aspect", eventBody("rename", "activity", testSubscription, testAthlete), http.StatusBadRequest, metrics.EventRejected},
		{"unknown object", eventBody("create", "segment", testSubscription, testAthlete), http.StatusBadRequest, metrics.EventRejected},
		{"unknown aspect wins over foreign subscription", eventBody("rename", "activity", 1, testAthlete), http.StatusBadRequest, metrics.EventRejected},
		{"foreign subscription", eventBody("create", "activity", 1, testAthlete), http.StatusForbidden, metrics.EventRejected},
		{"foreign subscription wins over foreign owner", eventBody("create", "activity", 1, 2), http.StatusForbidden, metrics.EventRejected},
		{"foreign subscription without ids or event time", `{"aspect_type":"create","object_type":"activity","subscription_id":1}`, http.StatusForbidden, metrics.EventRejected},
		{"missing subscription", `{"aspect_type":"create","object_type":"activity","object_id":5,"owner_id":134815}`, http.StatusForbidden, metrics.EventRejected},
		{"missing owner", `{"aspect_type":"create","object_type":"activity","object_id":5,"subscription_id":120475}`, http.StatusOK, metrics.EventIgnored},
		{"foreign owner", eventBody("create", "activity", testSubscription, 2), http.StatusOK, metrics.EventIgnored},
		{"athlete object", eventBody("update", "athlete", testSubscription, testAthlete), http.StatusOK, metrics.EventIgnored},
		{"unhandled aspect", eventBody("update", "activity", testSubscription, testAthlete), http.StatusOK, metrics.EventIgnored},
		{"delete is not handled by default", eventBody("delete", "activity", testSubscription, testAthlete), http.StatusOK, metrics.EventIgnored},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, s, recorder := newGateway(t)

			w := serve(h, http.MethodPost, "/webhook", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Events.WithLabelValues(tc.wantResult)))
			s.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
		})
	}
}

func TestPostEvent_IgnoredBody(t *testing.T) {
	h, _, _ := newGateway(t)

	w := serve(h, http.MethodPost, "/webhook", eventBody("create", "activity", testSubscription, 99))

	var resp eventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ignored", resp.Status)
	assert.Equal(t, string(webhook.ForeignOwner), resp.Reason)
}

func TestRoutes(t *testing.T) {
	h, _, _ := newGateway(t)

	t.Run("unsupported method", func(t *testing.T) {
		for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
			w := serve(h, method, "/webhook", "")
			assert.Equal(t, http.StatusNotImplemented, w.Code, method)
		}
	})

	t.Run("health", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "# metrics", w.Body.String())
	})

	t.Run("unknown path", func(t *testing.T) {
		w := serve(h, http.MethodPost, "/other", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
