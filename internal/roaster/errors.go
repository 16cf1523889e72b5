package roaster

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
	"github.com/justestif/spotify-playlist-roaster/internal/auth"
	"github.com/justestif/spotify-playlist-roaster/internal/spotify"
)

// Kind classifies a failed roast request.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindRateLimited
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "duplicate"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// User-facing error strings.
const (
	MessagePlaylistNotFound = "Either your laylist not found or private lah! So make sure it's public and link is correct so I can roast"
	MessageGeneral          = "Alamak! Something went wrong while roasting your playlist!"
	MessageSpotify          = "Mmmm spotify API got problem I think? Try again later (please go home)"
	MessageThrottled        = "Aih, slow down a bit boleh ka too many roasts already. Sabarrr"
	MessageDuplicate        = "Eh this playlist already kena roast already la! Submit fresh playlist can or not?"
	MessageEmptyPlaylist    = "No tracks found in playlist"
	MessageSpotifyConfig    = "Spotify configuration error"
	MessageTemporary        = "Service temporarily unavailable"

	duplicateSuggestion = "Try submitting a different playlist that hasn't been roasted before"
	credentialsHint     = "Check SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables"
	retryAfterSeconds   = 30
	roastDateLayout     = "January 2, 2006 at 03:04 PM"
)

// Error is a roast request failure with the context needed to render a response.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fetchError maps a playlist fetch failure onto the error taxonomy.
func fetchError(err error) *Error {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return &Error{
			Kind:    KindUnavailable,
			Message: MessageSpotifyConfig,
			Details: map[string]any{"hint": credentialsHint},
			Err:     err,
		}
	case isTemporary(err):
		return &Error{
			Kind:    KindUnavailable,
			Message: MessageTemporary,
			Details: map[string]any{"retry_after": retryAfterSeconds},
			Err:     err,
		}
	case errors.Is(err, spotify.ErrPlaylistNotFound):
		return &Error{Kind: KindNotFound, Message: MessagePlaylistNotFound, Err: err}
	case errors.Is(err, spotify.ErrThrottled):
		return &Error{Kind: KindRateLimited, Message: MessageThrottled, Err: err}
	case errors.Is(err, spotify.ErrAuthFailed), errors.Is(err, spotify.ErrUnavailable):
		return &Error{Kind: KindUnavailable, Message: MessageSpotify, Err: err}
	default:
		return &Error{Kind: KindInternal, Message: MessageGeneral, Err: err}
	}
}

// analysisError maps an Analyze failure.
func analysisError(err error) *Error {
	if errors.Is(err, analysis.ErrEmptyPlaylist) {
		return &Error{Kind: KindValidation, Message: MessageEmptyPlaylist, Err: err}
	}
	return &Error{Kind: KindInternal, Message: MessageGeneral, Err: err}
}

// isTemporary reports timeouts and refused connections.
func isTemporary(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
