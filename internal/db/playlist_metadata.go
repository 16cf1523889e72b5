package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PlaylistMetadataRepository handles playlist metadata operations.
type PlaylistMetadataRepository struct {
	db *DB
}

// Upsert creates or replaces the metadata for a playlist.
func (r *PlaylistMetadataRepository) Upsert(ctx context.Context, m *PlaylistMetadata) error {
	query := `
		INSERT INTO playlist_metadata (
			playlist_spotify_id, playlist_name, playlist_description, playlist_owner,
			artist_count, track_count, popularity_score, local_music_count,
			explicit_count, top_artist, metadata_fetched_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (playlist_spotify_id) DO UPDATE SET
			playlist_name = EXCLUDED.playlist_name,
			playlist_description = EXCLUDED.playlist_description,
			playlist_owner = EXCLUDED.playlist_owner,
			artist_count = EXCLUDED.artist_count,
			track_count = EXCLUDED.track_count,
			popularity_score = EXCLUDED.popularity_score,
			local_music_count = EXCLUDED.local_music_count,
			explicit_count = EXCLUDED.explicit_count,
			top_artist = EXCLUDED.top_artist,
			metadata_fetched_at = NOW()
		RETURNING metadata_fetched_at
	`
	err := r.db.withRetry(ctx, "upsert playlist metadata", func(pool Pool) error {
		return pool.QueryRow(ctx, query,
			m.SpotifyID,
			m.Name,
			m.Description,
			m.Owner,
			m.ArtistCount,
			m.TrackCount,
			m.PopularityScore,
			m.LocalMusicCount,
			m.ExplicitCount,
			m.TopArtist,
		).Scan(&m.FetchedAt)
	})
	if err != nil {
		return fmt.Errorf("upserting playlist metadata: %w", err)
	}
	return nil
}

// Get retrieves the metadata for a playlist.
func (r *PlaylistMetadataRepository) Get(ctx context.Context, spotifyID string) (*PlaylistMetadata, error) {
	query := `
		SELECT playlist_spotify_id, playlist_name, playlist_description, playlist_owner,
			artist_count, track_count, popularity_score, local_music_count,
			explicit_count, top_artist, metadata_fetched_at
		FROM playlist_metadata
		WHERE playlist_spotify_id = $1
	`
	var m PlaylistMetadata
	err := r.db.withRetry(ctx, "get playlist metadata", func(pool Pool) error {
		return pool.QueryRow(ctx, query, spotifyID).Scan(
			&m.SpotifyID,
			&m.Name,
			&m.Description,
			&m.Owner,
			&m.ArtistCount,
			&m.TrackCount,
			&m.PopularityScore,
			&m.LocalMusicCount,
			&m.ExplicitCount,
			&m.TopArtist,
			&m.FetchedAt,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying playlist metadata: %w", err)
	}
	return &m, nil
}
