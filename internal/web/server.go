// Package web serves the roast JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/logging"
	"github.com/justestif/spotify-playlist-roaster/internal/metrics"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr       string
	CORSOrigin string

	Handlers *Handlers
	Metrics  *metrics.Metrics // nil disables /metrics
	Logger   *zap.Logger
}

// Server is the HTTP server for the roast API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	recorder metrics.Recorder
	logger   *zap.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Handlers == nil {
		return nil, errors.New("web: handlers are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}

	s := &Server{
		router:   chi.NewRouter(),
		handlers: cfg.Handlers,
		recorder: metrics.Noop{},
		logger:   logging.OrNop(cfg.Logger),
	}
	if cfg.Metrics != nil {
		s.recorder = cfg.Metrics
	}

	s.setupMiddleware(cfg.CORSOrigin)
	s.setupRoutes(cfg.Metrics)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware(corsOrigin string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors(corsOrigin))
	s.router.Use(instrument(s.recorder))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(m *metrics.Metrics) {
	s.router.NotFound(s.handlers.NotFound)
	s.router.MethodNotAllowed(s.handlers.MethodNotAllowed)

	s.router.Get("/health", s.handlers.Health)
	if m != nil {
		s.router.Handle("/metrics", m.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/roast", s.handlers.RoastPlaylist)
		r.Get("/roasts", s.handlers.ListRoasts)
		r.Get("/roasts/{id}", s.handlers.GetRoast)
	})
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
