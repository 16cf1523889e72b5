package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS roasts (
		roast_id            UUID PRIMARY KEY,
		playlist_spotify_id TEXT NOT NULL,
		user_ip_address     TEXT,
		user_display_name   TEXT,
		roast_text          TEXT NOT NULL,
		generated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		playlist_metadata   JSONB,
		is_public           BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_roasts_public_generated ON roasts (is_public, generated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_roasts_playlist ON roasts (playlist_spotify_id)`,
	`CREATE TABLE IF NOT EXISTS playlist_metadata (
		playlist_spotify_id  TEXT PRIMARY KEY,
		playlist_name        TEXT NOT NULL,
		playlist_description TEXT,
		playlist_owner       TEXT,
		artist_count         INTEGER NOT NULL DEFAULT 0,
		track_count          INTEGER NOT NULL DEFAULT 0,
		popularity_score     INTEGER NOT NULL DEFAULT 0,
		local_music_count    INTEGER NOT NULL DEFAULT 0,
		explicit_count       INTEGER NOT NULL DEFAULT 0,
		top_artist           TEXT,
		metadata_fetched_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables once per process. A failed attempt is
// retried on the next call.
func (db *DB) EnsureSchema(ctx context.Context) error {
	db.schemaMu.Lock()
	defer db.schemaMu.Unlock()

	if db.schemaReady {
		return nil
	}

	err := db.withRetry(ctx, "ensure schema", func(pool Pool) error {
		for _, stmt := range schemaStatements {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	db.schemaReady = true
	return nil
}
