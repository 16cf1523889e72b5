// Command playlist-roaster serves the Spotify playlist roast API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/auth"
	"github.com/justestif/spotify-playlist-roaster/internal/config"
	"github.com/justestif/spotify-playlist-roaster/internal/db"
	"github.com/justestif/spotify-playlist-roaster/internal/generator"
	"github.com/justestif/spotify-playlist-roaster/internal/logging"
	"github.com/justestif/spotify-playlist-roaster/internal/metrics"
	"github.com/justestif/spotify-playlist-roaster/internal/ratelimit"
	"github.com/justestif/spotify-playlist-roaster/internal/roaster"
	"github.com/justestif/spotify-playlist-roaster/internal/roasts"
	"github.com/justestif/spotify-playlist-roaster/internal/spotify"
	"github.com/justestif/spotify-playlist-roaster/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	authenticator, err := auth.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err != nil {
		return fmt.Errorf("creating spotify authenticator: %w", err)
	}
	spotifyClient := spotify.New(authenticator.Client(), spotify.WithTrackLimit(cfg.Spotify.TrackLimit))

	var database web.Pinger
	roastService := roasts.NewDisabled(roasts.WithLogger(logger))
	if cfg.Storage.Enabled {
		store, err := db.New(cfg.Storage.DatabaseURL,
			db.WithMaxConns(cfg.Storage.MaxConns),
			db.WithMaxRetries(cfg.Storage.MaxRetries),
			db.WithRetryBaseDelay(cfg.Storage.RetryBaseDelay),
			db.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("configuring database: %w", err)
		}
		defer store.Close()

		roastService = roasts.NewService(store.Roasts(), store.PlaylistMetadata(),
			roasts.WithSchema(store),
			roasts.WithLogger(logger),
		)
		database = store
	} else {
		logger.Info("roast storage disabled")
	}

	var rateLimiter web.Pinger
	limiter := ratelimit.NewDisabled(cfg.RateLimit.DailyLimit)
	if cfg.RateLimit.Enabled {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		store := ratelimit.NewRedisStore(rdb)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := store.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable at startup, requests will be admitted", zap.Error(err))
		}
		cancel()

		limiter = ratelimit.New(store, cfg.RateLimit.DailyLimit, ratelimit.WithLogger(logger))
		rateLimiter = store
	} else {
		logger.Info("rate limiting disabled")
	}

	var completer generator.Completer
	if cfg.LLM.APIKey != "" {
		chat, err := generator.NewChatClient(generator.ClientConfig{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		if err != nil {
			return fmt.Errorf("creating chat client: %w", err)
		}
		completer = chat
	} else {
		logger.Warn("LLM_API_KEY not set, serving fallback roasts only")
	}

	m := metrics.New()

	service := roaster.NewService(
		spotifyClient,
		limiter,
		roastService,
		generator.New(completer, generator.WithLogger(logger)),
		roaster.WithMetrics(m),
		roaster.WithLogger(logger),
	)

	server, err := web.NewServer(web.ServerConfig{
		Addr:       cfg.Addr,
		CORSOrigin: cfg.CORSOrigin,
		Handlers:   web.NewHandlers(service, roastService, database, rateLimiter, cfg.DevErrors, logger),
		Metrics:    m,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
