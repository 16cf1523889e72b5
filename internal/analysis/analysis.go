// Package analysis derives a deterministic statistical summary from a playlist snapshot.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyPlaylist is returned when a playlist has no tracks to analyze.
var ErrEmptyPlaylist = errors.New("no tracks found in playlist")

const (
	sampleTrackCount = 3

	mainstreamThreshold = 85
	artistSpamThreshold = 5
)

// LocalKeywords are matched case-insensitively as substrings of artist names
// to count Malaysian and South-East Asian music.
var LocalKeywords = []string{
	"malaysia",
	"malaysian",
	"kl",
	"kuala lumpur",
	"penang",
	"yuna",
	"siti nurhaliza",
	"sheila on 7",
	"agnez mo",
	"raisa",
	"afgan",
	"isyana sarasvati",
	"tulus",
	"jakarta",
	"bandung",
	"singapore",
	"thai",
	"thailand",
	"indonesia",
	"indonesian",
}

// Track is a single playlist entry as fetched from the playlist provider.
type Track struct {
	Name        string
	Artists     []string
	Album       string
	ReleaseDate string
	Popularity  int // 0-100
	DurationMs  int
	Explicit    bool
}

// Playlist is an immutable snapshot of a playlist fetched once per request.
type Playlist struct {
	ID          string
	Name        string
	Description string
	Owner       string
	TrackCount  int // Total reported by the provider, may exceed len(Tracks)
	Tracks      []Track
}

// Analysis is the statistical summary of a playlist.
type Analysis struct {
	PlaylistName   string
	TrackCount     int // Reported playlist length
	AnalyzedTracks int // Number of tracks the statistics were computed over
	AvgPopularity  int
	LocalMusic     int
	ExplicitCount  int
	UniqueArtists  int
	TopArtist      string // "Name (N songs)", empty when the playlist has no artists
	TopArtistName  string
	TopArtistCount int

	IsVeryMainstream bool
	SameArtistSpam   bool
	ZeroLocalMusic   bool

	SampleTracks string
}

// Analyze computes the summary for p. It is pure: identical input yields identical output.
func Analyze(p Playlist) (Analysis, error) {
	tracks := p.Tracks
	if len(tracks) == 0 {
		return Analysis{}, ErrEmptyPlaylist
	}

	var popularitySum, localCount, explicitCount int

	// Artist counts keep first-seen order so ties resolve deterministically.
	artistCounts := make(map[string]int)
	var artistOrder []string

	for _, t := range tracks {
		popularitySum += t.Popularity

		if isLocal(t.Artists) {
			localCount++
		}
		if t.Explicit {
			explicitCount++
		}

		for _, artist := range t.Artists {
			if _, seen := artistCounts[artist]; !seen {
				artistOrder = append(artistOrder, artist)
			}
			artistCounts[artist]++
		}
	}

	avgPopularity := int(math.Round(float64(popularitySum) / float64(len(tracks))))

	var topName string
	var topCount int
	for _, artist := range artistOrder {
		if artistCounts[artist] > topCount {
			topName = artist
			topCount = artistCounts[artist]
		}
	}

	var topLabel string
	if topCount > 0 {
		topLabel = fmt.Sprintf("%s (%d songs)", topName, topCount)
	}

	trackCount := p.TrackCount
	if trackCount <= 0 {
		trackCount = len(tracks)
	}

	return Analysis{
		PlaylistName:     p.Name,
		TrackCount:       trackCount,
		AnalyzedTracks:   len(tracks),
		AvgPopularity:    avgPopularity,
		LocalMusic:       localCount,
		ExplicitCount:    explicitCount,
		UniqueArtists:    len(artistCounts),
		TopArtist:        topLabel,
		TopArtistName:    topName,
		TopArtistCount:   topCount,
		IsVeryMainstream: avgPopularity > mainstreamThreshold,
		SameArtistSpam:   topCount > artistSpamThreshold,
		ZeroLocalMusic:   localCount == 0,
		SampleTracks:     formatSample(tracks),
	}, nil
}

// isLocal reports whether any artist name contains a local keyword.
func isLocal(artists []string) bool {
	for _, artist := range artists {
		name := strings.ToLower(artist)
		for _, keyword := range LocalKeywords {
			if strings.Contains(name, keyword) {
				return true
			}
		}
	}
	return false
}

// formatSample renders the first tracks as `"name" by artist1, artist2`.
func formatSample(tracks []Track) string {
	n := min(sampleTrackCount, len(tracks))
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("\"%s\" by %s", tracks[i].Name, strings.Join(tracks[i].Artists, ", "))
	}
	return strings.Join(parts, ", ")
}
