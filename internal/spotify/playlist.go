package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/sync/errgroup"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
	"github.com/justestif/spotify-playlist-roaster/internal/auth"
)

const (
	defaultPlaylistName = "Untitled Playlist"
	defaultOwnerName    = "Unknown"

	playlistFields = "name,description,owner.display_name,tracks.total"
)

var (
	// ErrPlaylistNotFound is returned when the playlist does not exist or is private.
	ErrPlaylistNotFound = errors.New("playlist not found or private")

	// ErrAuthFailed is returned when Spotify rejects the application credentials.
	ErrAuthFailed = errors.New("spotify authentication failed")

	// ErrThrottled is returned when Spotify rate limits the application.
	ErrThrottled = errors.New("spotify rate limit exceeded")

	// ErrUnavailable is returned for any other Spotify API failure.
	ErrUnavailable = errors.New("spotify API unavailable")
)

// FetchPlaylist retrieves playlist metadata and the first page of tracks concurrently.
// Episodes and removed tracks are skipped.
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (*analysis.Playlist, error) {
	id := spotify.ID(playlistID)

	var (
		meta  *spotify.FullPlaylist
		items *spotify.PlaylistItemPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = c.api.GetPlaylist(gctx, id, spotify.Fields(playlistFields))
		if err != nil {
			return fmt.Errorf("getting playlist %s: %w", playlistID, classifyError(err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = c.api.GetPlaylistItems(gctx, id, spotify.Limit(c.trackLimit))
		if err != nil {
			return fmt.Errorf("getting playlist items %s: %w", playlistID, classifyError(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tracks := make([]analysis.Track, 0, len(items.Items))
	for _, item := range items.Items {
		if item.Track.Track == nil {
			continue
		}
		tracks = append(tracks, convertTrack(item.Track.Track))
	}

	name := meta.Name
	if name == "" {
		name = defaultPlaylistName
	}
	owner := meta.Owner.DisplayName
	if owner == "" {
		owner = defaultOwnerName
	}
	trackCount := int(meta.Tracks.Total)
	if trackCount <= 0 {
		trackCount = len(tracks)
	}

	return &analysis.Playlist{
		ID:          playlistID,
		Name:        name,
		Description: meta.Description,
		Owner:       owner,
		TrackCount:  trackCount,
		Tracks:      tracks,
	}, nil
}

// convertTrack converts a Spotify track to the analysis shape.
func convertTrack(t *spotify.FullTrack) analysis.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	return analysis.Track{
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		ReleaseDate: t.Album.ReleaseDate,
		Popularity:  int(t.Popularity),
		DurationMs:  int(t.Duration),
		Explicit:    t.Explicit,
	}
}

// classifyError maps a Spotify client error onto the package sentinels.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if auth.IsAuthError(err) {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	switch statusOf(err) {
	case http.StatusNotFound, http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrPlaylistNotFound, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrThrottled, err)
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// statusOf extracts the HTTP status from a Spotify API error, or 0.
func statusOf(err error) int {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status
	}
	return 0
}
