package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name: "defaults with credentials",
			env: map[string]string{
				"SPOTIFY_CLIENT_ID":     "id",
				"SPOTIFY_CLIENT_SECRET": "secret",
			},
		},
		{
			name:    "missing spotify credentials",
			env:     map[string]string{"SPOTIFY_CLIENT_ID": "id"},
			wantErr: ErrMissingSpotifyCredentials,
		},
		{
			name: "storage enabled without database url",
			env: map[string]string{
				"SPOTIFY_CLIENT_ID":     "id",
				"SPOTIFY_CLIENT_SECRET": "secret",
				"ROAST_STORAGE_ENABLED": "true",
			},
			wantErr: ErrMissingDatabaseURL,
		},
		{
			name: "rate limiting enabled without redis url",
			env: map[string]string{
				"SPOTIFY_CLIENT_ID":     "id",
				"SPOTIFY_CLIENT_SECRET": "secret",
				"RATE_LIMITING_ENABLED": "true",
			},
			wantErr: ErrMissingRedisURL,
		},
		{
			name: "zero daily limit",
			env: map[string]string{
				"SPOTIFY_CLIENT_ID":     "id",
				"SPOTIFY_CLIENT_SECRET": "secret",
				"RATE_LIMIT_PER_DAY":    "0",
			},
			wantErr: ErrInvalidDailyLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "ROAST_STORAGE_ENABLED",
				"DATABASE_URL", "RATE_LIMITING_ENABLED", "REDIS_URL", "RATE_LIMIT_PER_DAY",
			} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if cfg != nil {
					t.Errorf("Load() returned non-nil config with error")
				}
				return
			}

			if cfg.Addr != "127.0.0.1:8080" {
				t.Errorf("Addr = %q, want default", cfg.Addr)
			}
			if cfg.RateLimit.DailyLimit != 10 {
				t.Errorf("DailyLimit = %d, want 10", cfg.RateLimit.DailyLimit)
			}
			if cfg.Spotify.TrackLimit != 50 {
				t.Errorf("TrackLimit = %d, want 50", cfg.Spotify.TrackLimit)
			}
			if cfg.Storage.RetryBaseDelay != 2*time.Second {
				t.Errorf("RetryBaseDelay = %v, want 2s", cfg.Storage.RetryBaseDelay)
			}
			if cfg.LLM.Temperature != 0.9 {
				t.Errorf("Temperature = %v, want 0.9", cfg.LLM.Temperature)
			}
		})
	}
}
