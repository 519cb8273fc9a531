package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelsud/activity-refiner/webhook"
	"github.com/spf13/viper"
)

/* Config is read from environment variables, optionally seeded by a
 * .env TOML file in the working directory. The process refuses to start
 * when Validate fails.
 */

type Config struct {
	Port           string        `mapstructure:"PORT"`
	WebhookPath    string        `mapstructure:"WEBHOOK_PATH"`
	GatewayTimeout time.Duration `mapstructure:"GATEWAY_TIMEOUT"`

	RedisURL       string `mapstructure:"REDIS_URL"`
	SecretStoreURI string `mapstructure:"SECRET_STORE_URI"`
	SecretName     string `mapstructure:"SECRET_NAME"`

	AthleteID      int64  `mapstructure:"ATHLETE_ID"`
	SubscriptionID int64  `mapstructure:"SUBSCRIPTION_ID"`
	VerifyToken    string `mapstructure:"VERIFY_TOKEN"`

	StravaClientID     string `mapstructure:"STRAVA_CLIENT_ID"`
	StravaClientSecret string `mapstructure:"STRAVA_CLIENT_SECRET"`
	StravaBaseURL      string `mapstructure:"STRAVA_BASE_URL"`
	StravaTokenURL     string `mapstructure:"STRAVA_TOKEN_URL"`
	WeatherBaseURL     string `mapstructure:"WEATHER_BASE_URL"`

	HandledAspects     string        `mapstructure:"HANDLED_ASPECTS"`
	WorkerParallelism  int           `mapstructure:"WORKER_PARALLELISM"`
	KeepaliveInterval  time.Duration `mapstructure:"KEEPALIVE_INTERVAL"`
	TaskDoneTTLHours   int           `mapstructure:"TASK_DONE_TTL_HOURS"`
	TaskFailedTTLHours int           `mapstructure:"TASK_FAILED_TTL_HOURS"`

	RulesFile string `mapstructure:"RULES_FILE"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogJSON   bool   `mapstructure:"LOG_JSON"`

	SentryDSN         string `mapstructure:"SENTRY_DSN"`
	SentryEnvironment string `mapstructure:"SENTRY_ENVIRONMENT"`
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"WEBHOOK_PATH":          "/webhook",
	"GATEWAY_TIMEOUT":       "1500ms",
	"REDIS_URL":             "redis://localhost:6379/0",
	"SECRET_NAME":           "strava-token",
	"STRAVA_BASE_URL":       "https://www.strava.com/api/v3",
	"STRAVA_TOKEN_URL":      "https://www.strava.com/oauth/token",
	"WEATHER_BASE_URL":      "https://api.open-meteo.com",
	"HANDLED_ASPECTS":       "create",
	"WORKER_PARALLELISM":    4,
	"KEEPALIVE_INTERVAL":    "1m",
	"TASK_DONE_TTL_HOURS":   1,
	"TASK_FAILED_TTL_HOURS": 24,
	"LOG_LEVEL":             "info",
	"LOG_JSON":              true,
	"SENTRY_ENVIRONMENT":    "production",
}

// keys without a default still need binding so AutomaticEnv sees them on Unmarshal
var required = []string{
	"SECRET_STORE_URI",
	"ATHLETE_ID",
	"SUBSCRIPTION_ID",
	"VERIFY_TOKEN",
	"STRAVA_CLIENT_ID",
	"STRAVA_CLIENT_SECRET",
	"RULES_FILE",
	"SENTRY_DSN",
}

// GetConfig loads the configuration from the working directory and the environment
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads an optional .env TOML file from the given paths, overlays the
// environment, and validates the result.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range required {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.SetConfigName(".env")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.GatewayTimeout <= 0 || c.GatewayTimeout >= 2*time.Second {
		errs = append(errs, fmt.Errorf("GATEWAY_TIMEOUT must be between 0 and 2s, got %s", c.GatewayTimeout))
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		errs = append(errs, fmt.Errorf("WEBHOOK_PATH must start with '/', got %q", c.WebhookPath))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required"))
	}
	if c.SecretStoreURI == "" {
		errs = append(errs, errors.New("SECRET_STORE_URI is required"))
	}
	if c.SecretName == "" {
		errs = append(errs, errors.New("SECRET_NAME is required"))
	}
	if c.AthleteID <= 0 {
		errs = append(errs, errors.New("ATHLETE_ID must be a positive integer"))
	}
	if c.SubscriptionID <= 0 {
		errs = append(errs, errors.New("SUBSCRIPTION_ID must be a positive integer"))
	}
	if c.VerifyToken == "" {
		errs = append(errs, errors.New("VERIFY_TOKEN is required"))
	}
	if c.StravaClientID == "" || c.StravaClientSecret == "" {
		errs = append(errs, errors.New("STRAVA_CLIENT_ID and STRAVA_CLIENT_SECRET are required"))
	}
	if _, err := c.Aspects(); err != nil {
		errs = append(errs, fmt.Errorf("HANDLED_ASPECTS: %w", err))
	}
	if c.WorkerParallelism < 1 {
		errs = append(errs, fmt.Errorf("WORKER_PARALLELISM must be at least 1, got %d", c.WorkerParallelism))
	}
	if c.KeepaliveInterval <= 0 {
		errs = append(errs, fmt.Errorf("KEEPALIVE_INTERVAL must be positive, got %s", c.KeepaliveInterval))
	}
	if c.TaskDoneTTLHours < 0 || c.TaskFailedTTLHours < 0 {
		errs = append(errs, errors.New("task TTL hours must not be negative"))
	}

	return errors.Join(errs...)
}

// Aspects returns the handled aspect set
func (c *Config) Aspects() (webhook.AspectSet, error) {
	return webhook.NewAspectSet(strings.Split(c.HandledAspects, ",")...)
}

// Retention returns how long finished task records are kept
func (c *Config) Retention() webhook.Retention {
	return webhook.Retention{
		Done:   time.Duration(c.TaskDoneTTLHours) * time.Hour,
		Failed: time.Duration(c.TaskFailedTTLHours) * time.Hour,
	}
}
