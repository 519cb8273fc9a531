package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/activity-refiner/metrics"
	"github.com/marcelsud/activity-refiner/webhook"
	"github.com/rs/zerolog"
)

// GatewayConfig holds what the webhook endpoint checks events against
type GatewayConfig struct {
	Path        string
	VerifyToken string
	Gate        webhook.Gate

	// Timeout bounds scheduling so the source's delivery deadline is met
	Timeout time.Duration
}

// Handlers sets up the gateway routes
func Handlers(ctx context.Context, cfg GatewayConfig, webhookService webhook.UseCase, recorder *metrics.Recorder, metricsHandler http.Handler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Method(http.MethodGet, cfg.Path, getHandshake(cfg.VerifyToken))
	r.Method(http.MethodPost, cfg.Path, postEvent(cfg, webhookService, recorder))

	return r
}
