package analysis

// Metadata is the playlist snapshot embedded in a stored roast.
type Metadata struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Owner             string   `json:"owner"`
	TrackCount        int      `json:"track_count"`
	AvgPopularity     int      `json:"avg_popularity"`
	LocalMusicCount   int      `json:"local_music_count"`
	ExplicitCount     int      `json:"explicit_count"`
	UniqueArtists     int      `json:"unique_artists"`
	TopArtist         *string  `json:"top_artist"`
	IsVeryMainstream  bool     `json:"is_very_mainstream"`
	CulturalDiversity string   `json:"cultural_diversity"`
	RoastingAngles    []string `json:"roasting_angles"`
}

// NewMetadata builds the stored snapshot from the analysis of p.
func NewMetadata(a Analysis, p Playlist) Metadata {
	var topArtist *string
	if a.TopArtist != "" {
		label := a.TopArtist
		topArtist = &label
	}

	return Metadata{
		Name:              p.Name,
		Description:       p.Description,
		Owner:             p.Owner,
		TrackCount:        a.TrackCount,
		AvgPopularity:     a.AvgPopularity,
		LocalMusicCount:   a.LocalMusic,
		ExplicitCount:     a.ExplicitCount,
		UniqueArtists:     a.UniqueArtists,
		TopArtist:         topArtist,
		IsVeryMainstream:  a.IsVeryMainstream,
		CulturalDiversity: CulturalDiversity(a),
		RoastingAngles:    RoastingAngles(a),
	}
}
