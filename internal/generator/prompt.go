package generator

import (
	"fmt"
	"strings"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
)

// MaxRoastLength is the target length communicated to the model.
const MaxRoastLength = 180

var styleExamples = []string{
	`"Bro your playlist same as every KL mall background music - basic gila lah 😂"`,
	`"47 songs and zero Yuna or Faizal Tahir? You Malaysian or not wei? IC mana? 🤣"`,
	`"'Study Music' but 90% explicit - studying what subject, Advanced Swearing ah? 💀"`,
	`"Your music taste flatter than mamak roti canai at 3am bro, no flavour one! 🥞"`,
	`"Top 40 hits only? Spotify algorithm thinks you're lift music leh! 😴"`,
}

// BuildPrompt renders the roast instructions for a.
func BuildPrompt(a analysis.Analysis) string {
	var b strings.Builder

	b.WriteString("You are a savage but good-natured Malaysian friend roasting a mate's music taste. ")
	b.WriteString("Destroy this playlist with its actual facts, not generic insults.\n\n")

	b.WriteString("PLAYLIST DATA:\n")
	fmt.Fprintf(&b, "- %q (%d tracks)\n", a.PlaylistName, a.TrackCount)
	fmt.Fprintf(&b, "- Popularity: %d/100\n", a.AvgPopularity)
	fmt.Fprintf(&b, "- Top artist: %s\n", orNone(a.TopArtist))
	fmt.Fprintf(&b, "- Local representation: %d Malaysian/SEA tracks\n", a.LocalMusic)
	fmt.Fprintf(&b, "- Explicit tracks: %d\n", a.ExplicitCount)
	fmt.Fprintf(&b, "- Variety: %d unique artists across %d tracks\n", a.UniqueArtists, a.AnalyzedTracks)
	fmt.Fprintf(&b, "- Sample tracks: %s\n\n", orNone(a.SampleTracks))

	if angles := analysis.RoastingAngles(a); len(angles) > 0 {
		b.WriteString("AMMUNITION:\n")
		for _, angle := range angles {
			fmt.Fprintf(&b, "- %s\n", angle)
		}
		b.WriteString("\n")
	}

	b.WriteString("STYLE:\n")
	b.WriteString(`- Natural Manglish: "lah", "wei", "walao eh", "apa doh", "gila", "siot"` + "\n")
	b.WriteString("- Local references: mamak, kopitiam uncle, pasar malam speakers, MRT rides, Pavilion\n")
	fmt.Fprintf(&b, "- Under %d characters, it is going on an Instagram story\n\n", MaxRoastLength)

	b.WriteString("EXAMPLES:\n")
	for _, ex := range styleExamples {
		fmt.Fprintf(&b, "- %s\n", ex)
	}
	b.WriteString("\nReply with the roast only.")

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
