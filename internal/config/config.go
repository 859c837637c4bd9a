package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	PublicBaseURL      string
	CORSAllowedOrigins []string

	SiteName             string
	VideoListTitle       string
	CurrencyCode         string
	StripePublishableKey string
	StripeSecretKey      string
	PayPalClientID       string
	PayPalSecret         string
	PayPalLive           bool
	TelegramUsername     string
	CryptoWallets        []string

	CountdownTicks      int
	CountdownTick       time.Duration
	AttemptRetention    time.Duration
	VideoCacheTTL       time.Duration
	VideoListLimit      int
	VideoListMaxLimit   int
	CheckoutRateMax     int
	CheckoutRateWindow  time.Duration
	ShutdownGracePeriod time.Duration

	NotifyEmailEnabled bool
	NotifyEmailFrom    string
	NotifyEmailTo      string
}

// Load reads configuration from the environment, with optional .env support.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		PublicBaseURL:      strings.TrimRight(valueOrDefault(k.String("PUBLIC_BASE_URL"), "http://localhost:5173"), "/"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS"), ","),

		SiteName:             valueOrDefault(k.String("SITE_NAME"), "VideosPlus"),
		VideoListTitle:       strings.TrimSpace(k.String("VIDEO_LIST_TITLE")),
		CurrencyCode:         strings.ToUpper(valueOrDefault(k.String("CURRENCY_CODE"), "USD")),
		StripePublishableKey: strings.TrimSpace(k.String("STRIPE_PUBLISHABLE_KEY")),
		StripeSecretKey:      strings.TrimSpace(k.String("STRIPE_SECRET_KEY")),
		PayPalClientID:       strings.TrimSpace(k.String("PAYPAL_CLIENT_ID")),
		PayPalSecret:         strings.TrimSpace(k.String("PAYPAL_SECRET")),
		PayPalLive:           parseBool(k.String("PAYPAL_LIVE"), false),
		TelegramUsername:     strings.TrimSpace(k.String("TELEGRAM_USERNAME")),
		CryptoWallets:        splitAndTrim(k.String("CRYPTO_WALLETS"), "|"),

		CountdownTicks:      intOrDefault(k.Int("CHECKOUT_COUNTDOWN_TICKS"), 7),
		CountdownTick:       parseDuration(k.String("CHECKOUT_COUNTDOWN_TICK"), "1s"),
		AttemptRetention:    parseDuration(k.String("CHECKOUT_ATTEMPT_RETENTION"), "1m"),
		VideoCacheTTL:       parseDuration(k.String("VIDEO_CACHE_TTL"), "60s"),
		VideoListLimit:      intOrDefault(k.Int("VIDEO_LIST_LIMIT"), 20),
		VideoListMaxLimit:   intOrDefault(k.Int("VIDEO_LIST_MAX_LIMIT"), 100),
		CheckoutRateMax:     intOrDefault(k.Int("CHECKOUT_RATE_MAX"), 10),
		CheckoutRateWindow:  parseDuration(k.String("CHECKOUT_RATE_WINDOW"), "1m"),
		ShutdownGracePeriod: parseDuration(k.String("SHUTDOWN_GRACE_PERIOD"), "10s"),

		NotifyEmailEnabled: parseBool(k.String("NOTIFY_EMAIL_ENABLED"), false),
		NotifyEmailFrom:    strings.TrimSpace(k.String("NOTIFY_EMAIL_FROM")),
		NotifyEmailTo:      strings.TrimSpace(k.String("NOTIFY_EMAIL_TO")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}

// MustLoad panics when the environment is incomplete. Intended for entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// HTTPAddr returns the listen address derived from PORT.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func splitAndTrim(value, sep string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseDuration(value, fallback string) time.Duration {
	raw := strings.TrimSpace(value)
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// LoadForTests overrides the given environment variables for the duration of a
// Load call, restoring the previous values afterwards.
func LoadForTests(overrides map[string]string) (*Config, error) {
	previous := make(map[string]string, len(overrides))
	existed := make(map[string]bool, len(overrides))
	for key, value := range overrides {
		previous[key], existed[key] = os.LookupEnv(key)
		if err := os.Setenv(key, value); err != nil {
			return nil, err
		}
	}
	defer func() {
		for key := range overrides {
			if existed[key] {
				_ = os.Setenv(key, previous[key])
			} else {
				_ = os.Unsetenv(key)
			}
		}
	}()
	return Load()
}
