// Package roasts stores generated roasts, serves the public feed, and detects
// playlists that were already roasted.
//
// Storage is best-effort: failures are reported to the caller as values and
// never abort a roast request.
package roasts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
	"github.com/justestif/spotify-playlist-roaster/internal/db"
)

// DevModeRoastID is returned by SaveRoast when storage is disabled.
const DevModeRoastID = "dev-mode-id"

var (
	// ErrNotFound is returned when a roast does not exist or is not public.
	ErrNotFound = errors.New("roast not found")

	// ErrDisabled is returned by lookups when storage is disabled.
	ErrDisabled = errors.New("roast storage disabled")
)

// Repository abstracts roast persistence for testing.
type Repository interface {
	Create(ctx context.Context, roast *db.Roast) error
	Get(ctx context.Context, id uuid.UUID) (*db.Roast, error)
	CountPublic(ctx context.Context) (int, error)
	ListPublic(ctx context.Context, limit, offset int) ([]db.Roast, error)
	FindDuplicate(ctx context.Context, spotifyID, name string) (*db.Duplicate, error)
}

// MetadataRepository abstracts playlist metadata persistence for testing.
type MetadataRepository interface {
	Upsert(ctx context.Context, m *db.PlaylistMetadata) error
	Get(ctx context.Context, spotifyID string) (*db.PlaylistMetadata, error)
}

// SchemaManager creates tables before first use.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
}

// Service implements roast storage, the public feed, and duplicate detection.
type Service struct {
	roasts   Repository
	metadata MetadataRepository
	schema   SchemaManager
	enabled  bool
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSchema runs schema bootstrap before storage operations.
func WithSchema(schema SchemaManager) Option {
	return func(s *Service) {
		s.schema = schema
	}
}

// WithLogger sets the logger for swallowed storage failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for new roasts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an enabled roast service.
func NewService(roasts Repository, metadata MetadataRepository, opts ...Option) *Service {
	s := &Service{
		roasts:   roasts,
		metadata: metadata,
		enabled:  true,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDisabled creates a service that never touches storage.
func NewDisabled(opts ...Option) *Service {
	s := NewService(nil, nil, opts...)
	s.enabled = false
	return s
}

// Enabled reports whether roasts are persisted.
func (s *Service) Enabled() bool {
	return s.enabled
}

// ensureSchema logs and ignores bootstrap failures; the following query reports the real problem.
func (s *Service) ensureSchema(ctx context.Context) {
	if s.schema == nil {
		return
	}
	if err := s.schema.EnsureSchema(ctx); err != nil {
		s.logger.Warn("schema bootstrap failed", zap.Error(err))
	}
}

// NewRoast is a roast to be persisted.
type NewRoast struct {
	PlaylistSpotifyID string
	UserIPAddress     string
	UserDisplayName   string
	RoastText         string
	Metadata          analysis.Metadata
}

// SaveResult reports the outcome of SaveRoast.
type SaveResult struct {
	Success bool
	RoastID string
	Error   error
}

// SaveRoast persists r as a public roast with a fresh ID and the current time.
// It never fails; errors are returned inside the result.
func (s *Service) SaveRoast(ctx context.Context, r NewRoast) SaveResult {
	if !s.enabled {
		return SaveResult{Success: true, RoastID: DevModeRoastID}
	}

	s.ensureSchema(ctx)

	metadata, err := json.Marshal(r.Metadata)
	if err != nil {
		return SaveResult{Error: fmt.Errorf("encoding playlist metadata: %w", err)}
	}

	var displayName *string
	if r.UserDisplayName != "" {
		displayName = &r.UserDisplayName
	}

	roast := &db.Roast{
		ID:                uuid.New(),
		PlaylistSpotifyID: r.PlaylistSpotifyID,
		UserIPAddress:     r.UserIPAddress,
		UserDisplayName:   displayName,
		RoastText:         r.RoastText,
		GeneratedAt:       s.now().UTC(),
		PlaylistMetadata:  metadata,
		IsPublic:          true,
	}
	if err := s.roasts.Create(ctx, roast); err != nil {
		s.logger.Error("saving roast failed",
			zap.String("playlist_id", r.PlaylistSpotifyID),
			zap.Error(err),
		)
		return SaveResult{Error: err}
	}

	s.logger.Info("roast saved",
		zap.String("roast_id", roast.ID.String()),
		zap.String("playlist_id", r.PlaylistSpotifyID),
	)
	return SaveResult{Success: true, RoastID: roast.ID.String()}
}

// SavePlaylistMetadata records the latest summary for a playlist.
func (s *Service) SavePlaylistMetadata(ctx context.Context, spotifyID string, m analysis.Metadata) error {
	if !s.enabled {
		return nil
	}

	s.ensureSchema(ctx)

	err := s.metadata.Upsert(ctx, &db.PlaylistMetadata{
		SpotifyID:       spotifyID,
		Name:            m.Name,
		Description:     m.Description,
		Owner:           m.Owner,
		ArtistCount:     m.UniqueArtists,
		TrackCount:      m.TrackCount,
		PopularityScore: m.AvgPopularity,
		LocalMusicCount: m.LocalMusicCount,
		ExplicitCount:   m.ExplicitCount,
		TopArtist:       m.TopArtist,
	})
	if err != nil {
		return fmt.Errorf("saving playlist metadata: %w", err)
	}
	return nil
}
