package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/jonboulle/clockwork"
	"github.com/marcelsud/activity-refiner/config"
	"github.com/marcelsud/activity-refiner/internal/http/chi"
	"github.com/marcelsud/activity-refiner/internal/redisconn"
	"github.com/marcelsud/activity-refiner/internal/tracking"
	"github.com/marcelsud/activity-refiner/metrics"
	"github.com/marcelsud/activity-refiner/refiner"
	"github.com/marcelsud/activity-refiner/rules"
	"github.com/marcelsud/activity-refiner/strava"
	"github.com/marcelsud/activity-refiner/token"
	tokenredis "github.com/marcelsud/activity-refiner/token/redis"
	"github.com/marcelsud/activity-refiner/weather"
	"github.com/marcelsud/activity-refiner/weather/openmeteo"
	"github.com/marcelsud/activity-refiner/webhook"
	webhookredis "github.com/marcelsud/activity-refiner/webhook/redis"
)

const TIMEOUT = 30 * time.Second

/* main wires every package together and owns the process lifetime.
 * Imports only go downwards: the application imports the business
 * packages, which import their storage layers.
 */

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("activity-refiner", httplog.Options{
		JSON:     cfg.LogJSON,
		LogLevel: cfg.LogLevel,
	})

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	tracker, err := tracking.New(tracking.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		ServerName:  "activity-refiner",
	}, logger)
	if err != nil {
		return fmt.Errorf("creating error tracker: %w", err)
	}
	defer tracker.Flush(2 * time.Second)

	queueClient, err := redisconn.Open(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to task queue: %w", err)
	}
	repo, err := webhookredis.NewRepository(ctx, queueClient)
	if err != nil {
		return fmt.Errorf("creating task repository: %w", err)
	}
	defer repo.Close(context.Background())

	secretClient, err := redisconn.Open(ctx, cfg.SecretStoreURI)
	if err != nil {
		return fmt.Errorf("connecting to secret store: %w", err)
	}
	defer secretClient.Close()

	labels := rules.NewLoader()
	if cfg.RulesFile != "" {
		if err := labels.Load(cfg.RulesFile); err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
	}

	aspects, err := cfg.Aspects()
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	clock := clockwork.NewRealClock()

	// deferred unit: tokens + activity API + classification
	tokens := token.NewManager(tokenredis.NewStore(secretClient, cfg.SecretName), logger.With().Str("component", "token").Logger())
	refresher := strava.NewRefresher(cfg.StravaClientID, cfg.StravaClientSecret, cfg.StravaTokenURL, httpClient)
	api := strava.NewClient(cfg.StravaBaseURL, refresher, http.DefaultTransport, logger.With().Str("component", "strava").Logger())
	narrator := weather.NewEngine(
		openmeteo.NewClient(cfg.WeatherBaseURL, httpClient, logger.With().Str("component", "openmeteo").Logger()),
		logger.With().Str("component", "weather").Logger(),
	)
	engine := refiner.NewEngine(labels.Labels(), narrator, logger.With().Str("component", "refiner").Logger())
	recorder := metrics.NewRecorder()
	processor := refiner.NewService(tokens, api, engine, recorder, logger.With().Str("component", "refiner").Logger())

	// dispatch boundary
	webhookService := webhook.NewService(repo, cfg.Retention(), clock)
	worker := webhook.NewWorker(webhookService, processor, tracker, clock, webhook.WorkerConfig{
		Parallelism:       cfg.WorkerParallelism,
		KeepaliveInterval: cfg.KeepaliveInterval,
	}, logger.With().Str("component", "worker").Logger())

	exporter, err := metrics.NewOTelExporter(metrics.NewRedisCollector(repo, clock))
	if err != nil {
		return fmt.Errorf("creating metrics exporter: %w", err)
	}
	defer exporter.Shutdown(context.Background())

	r := chi.Handlers(ctx, chi.GatewayConfig{
		Path:        cfg.WebhookPath,
		VerifyToken: cfg.VerifyToken,
		Gate: webhook.Gate{
			SubscriptionID: cfg.SubscriptionID,
			AthleteID:      cfg.AthleteID,
			Handled:        aspects,
		},
		Timeout: cfg.GatewayTimeout,
	}, webhookService, recorder, exporter.ServeHTTP(), logger)

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	worker.Start(ctx)

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info().
		Str("port", cfg.Port).
		Str("path", cfg.WebhookPath).
		Str("handled_aspects", aspects.String()).
		Strs("workers", worker.IDs()).
		Bool("sentry", tracker.Enabled()).
		Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		stop()
		worker.Wait()
		return err
	}
	err = <-errShutdown
	worker.Wait()
	return err
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
