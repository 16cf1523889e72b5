package spotify

import (
	"regexp"
	"strings"
)

// Validation messages shown to the user.
const (
	MessageMissingURL = "Aik mana URL you want me to roast?"
	MessageInvalidURL = "Eh, that's not a proper Spotify playlist URL lah! Should be like: https://open.spotify.com/playlist/..."
)

// Validation is the result of checking a playlist reference.
type Validation struct {
	IsValid    bool
	PlaylistID string
	Error      string
}

// Accepted playlist reference shapes, tried in order.
var playlistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`open\.spotify\.com/playlist/([a-zA-Z0-9_-]+)(?:\?.*)?$`),
	regexp.MustCompile(`open\.spotify\.com/intl-[a-z]{2}/playlist/([a-zA-Z0-9_-]+)(?:\?.*)?$`),
	regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9_-]+)$`),
	regexp.MustCompile(`spotify\.com/playlist/([a-zA-Z0-9_-]+)(?:\?.*)?$`),
}

// ValidatePlaylistURL extracts the playlist ID from a Spotify web URL or URI.
// It performs no I/O.
func ValidatePlaylistURL(raw string) Validation {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Validation{Error: MessageMissingURL}
	}

	for _, pattern := range playlistPatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return Validation{IsValid: true, PlaylistID: m[1]}
		}
	}

	return Validation{Error: MessageInvalidURL}
}
