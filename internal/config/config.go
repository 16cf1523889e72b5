// Package config loads the roaster's runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var (
	// ErrMissingSpotifyCredentials is returned when SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET is not set.
	ErrMissingSpotifyCredentials = errors.New("missing Spotify credentials: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET required")

	// ErrMissingDatabaseURL is returned when storage is enabled without DATABASE_URL.
	ErrMissingDatabaseURL = errors.New("ROAST_STORAGE_ENABLED requires DATABASE_URL")

	// ErrMissingRedisURL is returned when rate limiting is enabled without REDIS_URL.
	ErrMissingRedisURL = errors.New("RATE_LIMITING_ENABLED requires REDIS_URL")

	// ErrInvalidDailyLimit is returned when RATE_LIMIT_PER_DAY is not positive.
	ErrInvalidDailyLimit = errors.New("RATE_LIMIT_PER_DAY must be greater than zero")
)

// Config holds all runtime configuration.
type Config struct {
	Addr           string `envconfig:"ADDR" default:"127.0.0.1:8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
	CORSOrigin     string `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`
	DevErrors      bool   `envconfig:"DEV_ERRORS" default:"false"`

	// Embedded so envconfig reads the unprefixed variable names.
	Spotify
	Storage
	RateLimit
	LLM
}

// Spotify holds Spotify Web API credentials.
type Spotify struct {
	ClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	TrackLimit   int    `envconfig:"SPOTIFY_TRACK_LIMIT" default:"50"`
}

// Storage holds PostgreSQL settings for roast persistence.
type Storage struct {
	Enabled        bool          `envconfig:"ROAST_STORAGE_ENABLED" default:"false"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	MaxConns       int32         `envconfig:"DB_MAX_CONNS" default:"5"`
	MaxRetries     int           `envconfig:"DB_MAX_RETRIES" default:"3"`
	RetryBaseDelay time.Duration `envconfig:"DB_RETRY_BASE_DELAY" default:"2s"`
}

// RateLimit holds per-client daily quota settings.
type RateLimit struct {
	Enabled    bool   `envconfig:"RATE_LIMITING_ENABLED" default:"false"`
	RedisURL   string `envconfig:"REDIS_URL"`
	DailyLimit int    `envconfig:"RATE_LIMIT_PER_DAY" default:"10"`
}

// LLM holds settings for the chat-completion text generator.
type LLM struct {
	APIKey      string        `envconfig:"LLM_API_KEY"`
	BaseURL     string        `envconfig:"LLM_BASE_URL" default:"https://api.openai.com/v1"`
	Model       string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"200"`
	Temperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.9"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"20s"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingSpotifyCredentials
	}
	if c.Storage.Enabled && c.Storage.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisURL == "" {
		return ErrMissingRedisURL
	}
	if c.RateLimit.DailyLimit <= 0 {
		return ErrInvalidDailyLimit
	}
	return nil
}
