package analysis

import "fmt"

const (
	explicitRatioThreshold = 0.7
	varietyRatioThreshold  = 0.3
	shortPlaylistTracks    = 10
	longPlaylistTracks     = 100
)

// Cultural diversity ratings.
const (
	DiversityWesternOnly = "Western-only"
	DiversityMinimal     = "Minimal local representation"
	DiversitySome        = "Some local flavor"
	DiversityGood        = "Good cultural mix"
)

// RoastingAngles returns the observations that apply to a, in check order.
// Ratios are taken over the reported track count, not just the analyzed tracks.
func RoastingAngles(a Analysis) []string {
	angles := []string{}

	if a.IsVeryMainstream {
		angles = append(angles, fmt.Sprintf("Super mainstream taste (%d/100 popularity)", a.AvgPopularity))
	}

	if a.ZeroLocalMusic {
		angles = append(angles, "Zero Malaysian artists (where's your cultural pride?)")
	}

	if a.SameArtistSpam {
		angles = append(angles, fmt.Sprintf("%s - variety much?", a.TopArtist))
	}

	total := float64(a.TrackCount)

	if float64(a.ExplicitCount) > total*explicitRatioThreshold {
		angles = append(angles, fmt.Sprintf("%d explicit songs - parents will be shocked", a.ExplicitCount))
	}

	if float64(a.UniqueArtists) < total*varietyRatioThreshold {
		angles = append(angles, "Very limited artist variety - stuck in a loop much?")
	}

	if a.TrackCount < shortPlaylistTracks {
		angles = append(angles, "Playlist shorter than KL traffic jam - where are the songs?")
	}

	if a.TrackCount > longPlaylistTracks {
		angles = append(angles, "Playlist longer than North-South Highway - who has time for this?")
	}

	return angles
}

// CulturalDiversity rates the share of local music against the reported track
// count. Bands are half-open on the upper side.
func CulturalDiversity(a Analysis) string {
	total := float64(a.TrackCount)
	local := float64(a.LocalMusic)

	switch {
	case a.LocalMusic == 0:
		return DiversityWesternOnly
	case local < total*0.1:
		return DiversityMinimal
	case local < total*0.3:
		return DiversitySome
	default:
		return DiversityGood
	}
}
