package analysis

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"
)

func TestRoastingAngles(t *testing.T) {
	tests := []struct {
		name     string
		analysis Analysis
		want     []string
	}{
		{
			name: "nothing to roast",
			analysis: Analysis{
				TrackCount: 20, AnalyzedTracks: 20, AvgPopularity: 50,
				LocalMusic: 5, UniqueArtists: 15,
			},
			want: []string{},
		},
		{
			name: "mainstream and zero local",
			analysis: Analysis{
				TrackCount: 20, AnalyzedTracks: 20, AvgPopularity: 90,
				UniqueArtists: 15, IsVeryMainstream: true, ZeroLocalMusic: true,
			},
			want: []string{
				"Super mainstream taste (90/100 popularity)",
				"Zero Malaysian artists (where's your cultural pride?)",
			},
		},
		{
			name: "artist spam with limited variety",
			analysis: Analysis{
				TrackCount: 20, AnalyzedTracks: 20, LocalMusic: 1,
				UniqueArtists: 5, TopArtist: "Drake (12 songs)", SameArtistSpam: true,
			},
			want: []string{
				"Drake (12 songs) - variety much?",
				"Very limited artist variety - stuck in a loop much?",
			},
		},
		{
			name: "explicit heavy and short",
			analysis: Analysis{
				TrackCount: 5, AnalyzedTracks: 5, LocalMusic: 1,
				UniqueArtists: 5, ExplicitCount: 4,
			},
			want: []string{
				"4 explicit songs - parents will be shocked",
				"Playlist shorter than KL traffic jam - where are the songs?",
			},
		},
		{
			name: "explicit ratio exactly at threshold",
			analysis: Analysis{
				TrackCount: 10, AnalyzedTracks: 10, LocalMusic: 1,
				UniqueArtists: 10, ExplicitCount: 7,
			},
			want: []string{},
		},
		{
			name: "long playlist",
			analysis: Analysis{
				TrackCount: 150, AnalyzedTracks: 50, LocalMusic: 1, UniqueArtists: 46,
			},
			want: []string{
				"Playlist longer than North-South Highway - who has time for this?",
			},
		},
		{
			name: "ratios use reported track count",
			analysis: Analysis{
				TrackCount: 200, AnalyzedTracks: 50, LocalMusic: 10, ExplicitCount: 50,
				UniqueArtists: 41, TopArtist: "Yuna (10 songs)", SameArtistSpam: true,
			},
			want: []string{
				"Yuna (10 songs) - variety much?",
				"Very limited artist variety - stuck in a loop much?",
				"Playlist longer than North-South Highway - who has time for this?",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoastingAngles(tt.analysis)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RoastingAngles() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCulturalDiversity(t *testing.T) {
	tests := []struct {
		name     string
		local    int
		analyzed int
		want     string
	}{
		{"no local music", 0, 10, DiversityWesternOnly},
		{"below ten percent", 1, 20, DiversityMinimal},
		{"exactly ten percent is not minimal", 1, 10, DiversitySome},
		{"below thirty percent", 2, 10, DiversitySome},
		{"exactly thirty percent is good", 3, 10, DiversityGood},
		{"mostly local", 9, 10, DiversityGood},
	}

	t.Run("partial fetch rates against reported total", func(t *testing.T) {
		a := Analysis{LocalMusic: 10, AnalyzedTracks: 50, TrackCount: 200}
		if got := CulturalDiversity(a); got != DiversityMinimal {
			t.Errorf("CulturalDiversity() = %q, want %q", got, DiversityMinimal)
		}
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CulturalDiversity(Analysis{LocalMusic: tt.local, AnalyzedTracks: tt.analyzed, TrackCount: tt.analyzed})
			if got != tt.want {
				t.Errorf("CulturalDiversity() = %q, want %q", got, tt.want)
			}
		})
	}
}

// fixedIndex always returns the same index, regardless of bounds.
type fixedIndex int

func (f fixedIndex) IntN(int) int { return int(f) }

func TestFallbackRoast(t *testing.T) {
	a := Analysis{
		PlaylistName:     "Gym Bangers",
		TrackCount:       42,
		AnalyzedTracks:   42,
		AvgPopularity:    95,
		TopArtistName:    "Drake",
		TopArtist:        "Drake (9 songs)",
		IsVeryMainstream: true,
		SameArtistSpam:   true,
		ZeroLocalMusic:   true,
	}
	templates := FallbackTemplates(a)

	t.Run("selects each template by index", func(t *testing.T) {
		for i := range templates {
			got := FallbackRoast(a, fixedIndex(i))
			if got != templates[i] {
				t.Errorf("FallbackRoast(index %d) = %q, want %q", i, got, templates[i])
			}
		}
	})

	t.Run("seeded source is reproducible", func(t *testing.T) {
		first := FallbackRoast(a, rand.New(rand.NewPCG(1, 2)))
		second := FallbackRoast(a, rand.New(rand.NewPCG(1, 2)))
		if first != second {
			t.Errorf("same seed gave %q and %q", first, second)
		}
		if !slices.Contains(templates, first) {
			t.Errorf("FallbackRoast() = %q, not one of the templates", first)
		}
	})

	t.Run("out of range index degrades to default", func(t *testing.T) {
		if got := FallbackRoast(a, fixedIndex(len(templates))); got != DefaultFallbackRoast {
			t.Errorf("FallbackRoast() = %q, want default", got)
		}
		if got := FallbackRoast(a, fixedIndex(-1)); got != DefaultFallbackRoast {
			t.Errorf("FallbackRoast() = %q, want default", got)
		}
	})

	t.Run("nil source degrades to default", func(t *testing.T) {
		if got := FallbackRoast(a, nil); got != DefaultFallbackRoast {
			t.Errorf("FallbackRoast() = %q, want default", got)
		}
	})

	t.Run("templates use analysis fields", func(t *testing.T) {
		want := []string{
			`Aiyo "Gym Bangers" with 42 songs so mainstream lah! Zero local artists some more 😅`,
			"Wah your playlist got Drake on repeat - very predictable taste lah!",
			`"Gym Bangers" screams Top 40 radio station vibes - so Western centric! 🎵`,
		}
		if !reflect.DeepEqual(templates, want) {
			t.Errorf("FallbackTemplates() = %q, want %q", templates, want)
		}
	})
}

func TestNewMetadata(t *testing.T) {
	p := Playlist{
		Name:        "Road Trip",
		Description: "windows down",
		Owner:       "aisyah",
		Tracks: []Track{
			makeTrack("a", 60, false, "Yuna"),
			makeTrack("b", 70, true, "Adele"),
		},
	}
	a, err := Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	m := NewMetadata(a, p)

	if m.Name != "Road Trip" || m.Owner != "aisyah" || m.Description != "windows down" {
		t.Errorf("unexpected playlist fields: %+v", m)
	}
	if m.TrackCount != 2 || m.AvgPopularity != 65 || m.LocalMusicCount != 1 || m.ExplicitCount != 1 {
		t.Errorf("unexpected statistics: %+v", m)
	}
	if m.TopArtist == nil || *m.TopArtist != "Yuna (1 songs)" {
		t.Errorf("TopArtist = %v, want Yuna (1 songs)", m.TopArtist)
	}
	if m.CulturalDiversity != DiversityGood {
		t.Errorf("CulturalDiversity = %q, want %q", m.CulturalDiversity, DiversityGood)
	}
	if m.RoastingAngles == nil {
		t.Error("RoastingAngles should never be nil")
	}
}
