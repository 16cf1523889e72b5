package roasts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
	"github.com/justestif/spotify-playlist-roaster/internal/db"
)

// Pagination bounds for the public feed.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

const (
	anonymousName       = "Anonymous"
	unknownPlaylistName = "Unknown Playlist"
)

// ErrInvalidPagination is returned for a page below 1 or a limit outside 1-MaxLimit.
var ErrInvalidPagination = errors.New("invalid pagination parameters")

// FeedItem is a public roast as shown in the feed.
type FeedItem struct {
	RoastID           string    `json:"roast_id"`
	RoastText         string    `json:"roast_text"`
	CreatedAt         time.Time `json:"created_at"`
	UserDisplayName   string    `json:"user_display_name"`
	PlaylistName      string    `json:"playlist_name"`
	TrackCount        int       `json:"track_count"`
	PlaylistSpotifyID string    `json:"playlist_spotify_id"`
	LikesCount        int       `json:"likes_count"`
	SharesCount       int       `json:"shares_count"`
}

// Pagination describes the position of a feed page.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Feed is one page of public roasts.
type Feed struct {
	Roasts     []FeedItem `json:"roasts"`
	Pagination Pagination `json:"pagination"`
}

// Roast is a single public roast with its playlist snapshot. LatestStats
// holds the most recent summary stored for the playlist, which may be newer
// than the snapshot taken when the roast was generated.
type Roast struct {
	RoastID           string            `json:"roast_id"`
	PlaylistSpotifyID string            `json:"playlist_spotify_id"`
	RoastText         string            `json:"roast_text"`
	GeneratedAt       time.Time         `json:"generated_at"`
	UserDisplayName   string            `json:"user_display_name"`
	PlaylistMetadata  analysis.Metadata `json:"playlist_metadata"`
	LatestStats       *PlaylistStats    `json:"latest_playlist_stats,omitempty"`
}

// PlaylistStats is the stored summary of a playlist.
type PlaylistStats struct {
	Name            string    `json:"name"`
	TrackCount      int       `json:"track_count"`
	ArtistCount     int       `json:"artist_count"`
	PopularityScore int       `json:"popularity_score"`
	LocalMusicCount int       `json:"local_music_count"`
	ExplicitCount   int       `json:"explicit_count"`
	TopArtist       *string   `json:"top_artist"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// ValidatePagination checks page and limit bounds.
func ValidatePagination(page, limit int) error {
	if page < 1 || limit < 1 || limit > MaxLimit {
		return fmt.Errorf("%w: page %d, limit %d", ErrInvalidPagination, page, limit)
	}
	return nil
}

// NewPagination computes page metadata for total items.
func NewPagination(page, limit, total int) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		HasNext:    page*limit < total,
		HasPrev:    page > 1,
	}
}

// PublicFeed returns public roasts newest first. The total is counted
// separately from the page query.
func (s *Service) PublicFeed(ctx context.Context, page, limit int) (Feed, error) {
	if err := ValidatePagination(page, limit); err != nil {
		return Feed{}, err
	}
	if !s.enabled {
		return Feed{Roasts: []FeedItem{}, Pagination: NewPagination(page, limit, 0)}, nil
	}

	s.ensureSchema(ctx)

	total, err := s.roasts.CountPublic(ctx)
	if err != nil {
		return Feed{}, fmt.Errorf("counting public roasts: %w", err)
	}

	rows, err := s.roasts.ListPublic(ctx, limit, (page-1)*limit)
	if err != nil {
		return Feed{}, fmt.Errorf("listing public roasts: %w", err)
	}

	items := make([]FeedItem, 0, len(rows))
	for _, row := range rows {
		m := s.decodeMetadata(row)

		name := m.Name
		if name == "" {
			name = unknownPlaylistName
		}
		items = append(items, FeedItem{
			RoastID:           row.ID.String(),
			RoastText:         row.RoastText,
			CreatedAt:         row.GeneratedAt,
			UserDisplayName:   displayName(row.UserDisplayName),
			PlaylistName:      name,
			TrackCount:        m.TrackCount,
			PlaylistSpotifyID: row.PlaylistSpotifyID,
		})
	}

	return Feed{Roasts: items, Pagination: NewPagination(page, limit, total)}, nil
}

// GetRoast returns a single public roast.
func (s *Service) GetRoast(ctx context.Context, id string) (*Roast, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}

	roastID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	s.ensureSchema(ctx)

	row, err := s.roasts.Get(ctx, roastID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting roast %s: %w", id, err)
	}

	return &Roast{
		RoastID:           row.ID.String(),
		PlaylistSpotifyID: row.PlaylistSpotifyID,
		RoastText:         row.RoastText,
		GeneratedAt:       row.GeneratedAt,
		UserDisplayName:   displayName(row.UserDisplayName),
		PlaylistMetadata:  s.decodeMetadata(*row),
		LatestStats:       s.latestStats(ctx, row.PlaylistSpotifyID),
	}, nil
}

// latestStats looks up the stored playlist summary. A missing or unreadable
// row is left out of the response.
func (s *Service) latestStats(ctx context.Context, spotifyID string) *PlaylistStats {
	m, err := s.metadata.Get(ctx, spotifyID)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("getting playlist metadata failed",
			zap.String("playlist_id", spotifyID),
			zap.Error(err),
		)
		return nil
	}
	return &PlaylistStats{
		Name:            m.Name,
		TrackCount:      m.TrackCount,
		ArtistCount:     m.ArtistCount,
		PopularityScore: m.PopularityScore,
		LocalMusicCount: m.LocalMusicCount,
		ExplicitCount:   m.ExplicitCount,
		TopArtist:       m.TopArtist,
		FetchedAt:       m.FetchedAt,
	}
}

// decodeMetadata degrades unreadable snapshots to an empty value.
func (s *Service) decodeMetadata(row db.Roast) analysis.Metadata {
	var m analysis.Metadata
	if len(row.PlaylistMetadata) == 0 {
		return m
	}
	if err := json.Unmarshal(row.PlaylistMetadata, &m); err != nil {
		s.logger.Warn("unreadable playlist metadata",
			zap.String("roast_id", row.ID.String()),
			zap.Error(err),
		)
		return analysis.Metadata{}
	}
	return m
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return anonymousName
	}
	return *name
}
