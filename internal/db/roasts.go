package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RoastRepository handles roast database operations.
type RoastRepository struct {
	db *DB
}

// Create inserts a roast, assigning an ID and timestamp if they are unset.
func (r *RoastRepository) Create(ctx context.Context, roast *Roast) error {
	if roast.ID == uuid.Nil {
		roast.ID = uuid.New()
	}
	if roast.GeneratedAt.IsZero() {
		roast.GeneratedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO roasts (
			roast_id, playlist_spotify_id, user_ip_address, user_display_name,
			roast_text, generated_at, playlist_metadata, is_public
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	err := r.db.withRetry(ctx, "insert roast", func(pool Pool) error {
		_, err := pool.Exec(ctx, query,
			roast.ID,
			roast.PlaylistSpotifyID,
			roast.UserIPAddress,
			roast.UserDisplayName,
			roast.RoastText,
			roast.GeneratedAt,
			roast.PlaylistMetadata,
			roast.IsPublic,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting roast: %w", err)
	}
	return nil
}

// Get retrieves a public roast by ID.
func (r *RoastRepository) Get(ctx context.Context, id uuid.UUID) (*Roast, error) {
	query := `
		SELECT roast_id, playlist_spotify_id, user_ip_address, user_display_name,
			roast_text, generated_at, playlist_metadata, is_public
		FROM roasts
		WHERE roast_id = $1 AND is_public = TRUE
	`
	var roast Roast
	err := r.db.withRetry(ctx, "get roast", func(pool Pool) error {
		return pool.QueryRow(ctx, query, id).Scan(
			&roast.ID,
			&roast.PlaylistSpotifyID,
			&roast.UserIPAddress,
			&roast.UserDisplayName,
			&roast.RoastText,
			&roast.GeneratedAt,
			&roast.PlaylistMetadata,
			&roast.IsPublic,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying roast: %w", err)
	}
	return &roast, nil
}

// CountPublic returns the number of public roasts.
func (r *RoastRepository) CountPublic(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM roasts WHERE is_public = TRUE`

	var total int
	err := r.db.withRetry(ctx, "count roasts", func(pool Pool) error {
		return pool.QueryRow(ctx, query).Scan(&total)
	})
	if err != nil {
		return 0, fmt.Errorf("counting roasts: %w", err)
	}
	return total, nil
}

// ListPublic returns public roasts, newest first.
func (r *RoastRepository) ListPublic(ctx context.Context, limit, offset int) ([]Roast, error) {
	query := `
		SELECT roast_id, playlist_spotify_id, roast_text, generated_at, playlist_metadata
		FROM roasts
		WHERE is_public = TRUE
		ORDER BY generated_at DESC
		LIMIT $1 OFFSET $2
	`
	var roasts []Roast
	err := r.db.withRetry(ctx, "list roasts", func(pool Pool) error {
		rows, err := pool.Query(ctx, query, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		roasts = roasts[:0]
		for rows.Next() {
			roast := Roast{IsPublic: true}
			if err := rows.Scan(
				&roast.ID,
				&roast.PlaylistSpotifyID,
				&roast.RoastText,
				&roast.GeneratedAt,
				&roast.PlaylistMetadata,
			); err != nil {
				return err
			}
			roasts = append(roasts, roast)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("listing roasts: %w", err)
	}
	return roasts, nil
}

// FindDuplicate returns the most recent roast whose playlist ID equals
// spotifyID or whose stored playlist name equals name exactly.
func (r *RoastRepository) FindDuplicate(ctx context.Context, spotifyID, name string) (*Duplicate, error) {
	query := `
		SELECT roast_id, playlist_metadata->>'name', generated_at
		FROM roasts
		WHERE playlist_spotify_id = $1
			OR playlist_metadata->>'name' = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`
	var (
		dup          Duplicate
		playlistName *string
	)
	err := r.db.withRetry(ctx, "find duplicate", func(pool Pool) error {
		return pool.QueryRow(ctx, query, spotifyID, name).Scan(
			&dup.RoastID,
			&playlistName,
			&dup.GeneratedAt,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying duplicate: %w", err)
	}

	if playlistName != nil {
		dup.PlaylistName = *playlistName
	}
	return &dup, nil
}
