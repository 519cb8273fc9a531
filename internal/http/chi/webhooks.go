package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/activity-refiner/fault"
	"github.com/marcelsud/activity-refiner/metrics"
	"github.com/marcelsud/activity-refiner/webhook"
	"github.com/marcelsud/activity-refiner/webhook/payload"
)

/* HTTP layer DTOs for the webhook endpoint
 * Separate from domain entities to avoid leaking internal structure
 */

const maxBodyBytes = 64 << 10

// challengeResponse echoes the handshake challenge
type challengeResponse struct {
	Challenge string `json:"hub.challenge"`
}

// eventResponse is the body of every 200 answer to an event
type eventResponse struct {
	Status string `json:"status"`
	Handle string `json:"handle,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// getHandshake handles the subscription validation request
func getHandshake(verifyToken string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		challenge := webhook.Challenge{
			Mode:        q.Get("hub.mode"),
			VerifyToken: q.Get("hub.verify_token"),
			Challenge:   q.Get("hub.challenge"),
		}

		if err := challenge.Verify(verifyToken); err != nil {
			logger := httplog.LogEntry(r.Context())
			logger.Warn().Err(err).Str("hub.mode", challenge.Mode).Msg("handshake refused")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, challengeResponse{Challenge: challenge.Challenge})
	})
}

// postEvent validates, filters and schedules one push notification.
// The first failing check decides the answer.
func postEvent(cfg GatewayConfig, webhookService webhook.UseCase, recorder *metrics.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := httplog.LogEntry(r.Context())

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			recorder.Event(metrics.EventRejected)
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		notification, err := payload.Parse(body)
		if err != nil {
			logger.Warn().Err(err).Str("body", string(body)).Msg("malformed event payload")
			recorder.Event(metrics.EventRejected)
			writeError(w, err)
			return
		}

		event, err := notification.Event()
		if err != nil {
			logger.Warn().Err(err).Msg("unsupported event")
			recorder.Event(metrics.EventRejected)
			writeError(w, err)
			return
		}

		verdict, err := cfg.Gate.Admit(event)
		if err != nil {
			logger.Warn().Err(err).Int64("subscription_id", event.SubscriptionID).Msg("event refused")
			recorder.Event(metrics.EventRejected)
			writeError(w, err)
			return
		}
		if verdict != webhook.Admitted {
			logger.Info().
				Str("reason", string(verdict)).
				Int64("object_id", event.ObjectID).
				Str("aspect_type", event.AspectType.String()).
				Msg("event ignored")
			recorder.Event(metrics.EventIgnored)
			writeJSON(w, http.StatusOK, eventResponse{Status: "ignored", Reason: string(verdict)})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
		defer cancel()

		handle, err := webhookService.Schedule(ctx, event)
		if err != nil {
			recorder.Event(metrics.EventRejected)
			if fault.Is(err, fault.Validation) {
				logger.Warn().Err(err).Int64("object_id", event.ObjectID).Msg("event refused")
				writeError(w, err)
				return
			}
			logger.Error().Err(err).Int64("activity_id", event.ObjectID).Msg("scheduling failed")
			http.Error(w, "failed to schedule event", http.StatusInternalServerError)
			return
		}

		logger.Info().Str("handle", handle).Int64("activity_id", event.ObjectID).Msg("event scheduled")
		recorder.Event(metrics.EventScheduled)
		writeJSON(w, http.StatusOK, eventResponse{Status: "scheduled", Handle: handle})
	})
}

// writeError maps the error kind onto a status code
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := fault.KindOf(err); ok {
		switch kind {
		case fault.Validation, fault.Deserialization:
			status = http.StatusBadRequest
		case fault.Authorization:
			status = http.StatusForbidden
		}
	}

	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
