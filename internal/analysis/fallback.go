package analysis

import (
	"fmt"
	"strings"
)

// DefaultFallbackRoast is returned when no template can be selected.
const DefaultFallbackRoast = "Wah, cannot generate roast lah!"

// IntN is a source of bounded random integers, such as *rand.Rand from math/rand/v2.
type IntN interface {
	IntN(n int) int
}

// FallbackTemplates renders every fallback roast for a, in template order.
func FallbackTemplates(a Analysis) []string {
	mainstream := "mixed"
	if a.IsVeryMainstream {
		mainstream = "mainstream"
	}
	localNote := "At least got some Malaysian vibes"
	if a.ZeroLocalMusic {
		localNote = "Zero local artists some more"
	}

	repeat := "quite variety ah"
	if a.SameArtistSpam {
		repeat = fmt.Sprintf("got %s on repeat", a.TopArtistName)
	}
	predictable := "not bad"
	if a.IsVeryMainstream {
		predictable = "very predictable"
	}

	vibe := "Spotify Discover Weekly"
	if a.AvgPopularity > 90 {
		vibe = "Top 40 radio station"
	}
	saved := "so Western centric!"
	if a.LocalMusic > 0 {
		saved = "saved by local music!"
	}

	return []string{
		fmt.Sprintf("Aiyo \"%s\" with %d songs so %s lah! %s 😅", a.PlaylistName, a.TrackCount, mainstream, localNote),
		fmt.Sprintf("Wah your playlist %s - %s taste lah!", repeat, predictable),
		fmt.Sprintf("\"%s\" screams %s vibes - %s 🎵", a.PlaylistName, vibe, saved),
	}
}

// FallbackRoast picks one template uniformly at random using rng.
// It never fails: a nil or misbehaving rng yields DefaultFallbackRoast.
func FallbackRoast(a Analysis, rng IntN) string {
	if rng == nil {
		return DefaultFallbackRoast
	}

	templates := FallbackTemplates(a)
	idx := rng.IntN(len(templates))
	if idx < 0 || idx >= len(templates) {
		return DefaultFallbackRoast
	}

	roast := strings.TrimSpace(templates[idx])
	if roast == "" {
		return DefaultFallbackRoast
	}
	return roast
}
