package roasts

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/db"
)

// DuplicateCheckResult describes a previous roast of the same playlist.
type DuplicateCheckResult struct {
	IsDuplicate       bool
	PlaylistName      string
	OriginalRoastDate time.Time
	RoastID           string

	// Err is set when the lookup failed and the playlist was assumed new.
	Err error
}

// CheckForDuplicate looks for the most recent roast of the playlist, matched by
// ID or by exact name. Lookup failures report no duplicate.
func (s *Service) CheckForDuplicate(ctx context.Context, playlistName, playlistID string) DuplicateCheckResult {
	if !s.enabled {
		return DuplicateCheckResult{}
	}

	s.ensureSchema(ctx)

	dup, err := s.roasts.FindDuplicate(ctx, playlistID, playlistName)
	if errors.Is(err, db.ErrNotFound) {
		return DuplicateCheckResult{}
	}
	if err != nil {
		s.logger.Warn("duplicate check failed, allowing submission",
			zap.String("playlist_id", playlistID),
			zap.Error(err),
		)
		return DuplicateCheckResult{Err: err}
	}

	name := dup.PlaylistName
	if name == "" {
		name = playlistName
	}
	return DuplicateCheckResult{
		IsDuplicate:       true,
		PlaylistName:      name,
		OriginalRoastDate: dup.GeneratedAt,
		RoastID:           dup.RoastID.String(),
	}
}
