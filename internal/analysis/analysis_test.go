package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func makeTrack(name string, popularity int, explicit bool, artists ...string) Track {
	return Track{
		Name:       name,
		Artists:    artists,
		Popularity: popularity,
		Explicit:   explicit,
	}
}

func TestAnalyzeEmptyPlaylist(t *testing.T) {
	_, err := Analyze(Playlist{Name: "Empty"})
	if !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("Analyze() error = %v, want ErrEmptyPlaylist", err)
	}
}

func TestAnalyzeAveragePopularity(t *testing.T) {
	tests := []struct {
		name         string
		popularities []int
		want         int
	}{
		{"rounds down", []int{10, 20, 21}, 17},
		{"rounds half up", []int{10, 11}, 11},
		{"single track", []int{73}, 73},
		{"all zero", []int{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tracks []Track
			for i, p := range tt.popularities {
				tracks = append(tracks, makeTrack("song", p, false, "Artist "+string(rune('A'+i))))
			}

			got, err := Analyze(Playlist{Name: "Test", Tracks: tracks})
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if got.AvgPopularity != tt.want {
				t.Errorf("AvgPopularity = %d, want %d", got.AvgPopularity, tt.want)
			}
		})
	}
}

func TestAnalyzeLocalMusic(t *testing.T) {
	tracks := []Track{
		makeTrack("Crush", 50, false, "Yuna", "Usher"),
		makeTrack("Hello", 80, false, "Adele"),
		makeTrack("Cinta", 40, false, "SITI NURHALIZA"),
	}

	got, err := Analyze(Playlist{Name: "Mix", Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if got.LocalMusic != 2 {
		t.Errorf("LocalMusic = %d, want 2", got.LocalMusic)
	}
	if got.ZeroLocalMusic {
		t.Error("ZeroLocalMusic = true, want false")
	}
}

func TestAnalyzeLocalMusicCountsTrackOnce(t *testing.T) {
	tracks := []Track{
		makeTrack("Collab", 50, false, "Yuna", "Raisa", "Tulus"),
	}

	got, err := Analyze(Playlist{Name: "Collab", Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.LocalMusic != 1 {
		t.Errorf("LocalMusic = %d, want 1", got.LocalMusic)
	}
}

func TestAnalyzeTopArtistTieBreak(t *testing.T) {
	tracks := []Track{
		makeTrack("a1", 50, false, "Artist A"),
		makeTrack("b1", 50, false, "Artist B"),
		makeTrack("b2", 50, false, "Artist B"),
		makeTrack("a2", 50, false, "Artist A"),
		makeTrack("a3", 50, false, "Artist A"),
		makeTrack("b3", 50, false, "Artist B"),
	}

	got, err := Analyze(Playlist{Name: "Tie", Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if got.TopArtistName != "Artist A" {
		t.Errorf("TopArtistName = %q, want %q", got.TopArtistName, "Artist A")
	}
	if got.TopArtist != "Artist A (3 songs)" {
		t.Errorf("TopArtist = %q, want %q", got.TopArtist, "Artist A (3 songs)")
	}
	if got.UniqueArtists != 2 {
		t.Errorf("UniqueArtists = %d, want 2", got.UniqueArtists)
	}
}

func TestAnalyzeFlags(t *testing.T) {
	var spam []Track
	for i := 0; i < 6; i++ {
		spam = append(spam, makeTrack("song", 90, true, "Drake"))
	}

	got, err := Analyze(Playlist{Name: "Spam", Tracks: spam})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !got.IsVeryMainstream {
		t.Error("IsVeryMainstream = false, want true")
	}
	if !got.SameArtistSpam {
		t.Error("SameArtistSpam = false, want true")
	}
	if !got.ZeroLocalMusic {
		t.Error("ZeroLocalMusic = false, want true")
	}
	if got.ExplicitCount != 6 {
		t.Errorf("ExplicitCount = %d, want 6", got.ExplicitCount)
	}
}

func TestAnalyzeThresholdsAreStrict(t *testing.T) {
	var tracks []Track
	for i := 0; i < 5; i++ {
		tracks = append(tracks, makeTrack("song", 85, false, "Drake"))
	}

	got, err := Analyze(Playlist{Name: "Edge", Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.IsVeryMainstream {
		t.Error("IsVeryMainstream = true at popularity 85, want false")
	}
	if got.SameArtistSpam {
		t.Error("SameArtistSpam = true at 5 songs, want false")
	}
}

func TestAnalyzeSampleTracks(t *testing.T) {
	tracks := []Track{
		makeTrack("One", 10, false, "Artist A", "Artist B"),
		makeTrack("Two", 10, false, "Artist C"),
		makeTrack("Three", 10, false, "Artist D"),
		makeTrack("Four", 10, false, "Artist E"),
	}

	got, err := Analyze(Playlist{Name: "Sample", Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := `"One" by Artist A, Artist B, "Two" by Artist C, "Three" by Artist D`
	if got.SampleTracks != want {
		t.Errorf("SampleTracks = %q, want %q", got.SampleTracks, want)
	}
	if strings.Contains(got.SampleTracks, "Four") {
		t.Error("SampleTracks should only include the first 3 tracks")
	}
}

func TestAnalyzeTrackCount(t *testing.T) {
	tracks := []Track{makeTrack("One", 10, false, "Artist A")}

	got, err := Analyze(Playlist{Name: "Big", TrackCount: 250, Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.TrackCount != 250 {
		t.Errorf("TrackCount = %d, want 250", got.TrackCount)
	}
	if got.AnalyzedTracks != 1 {
		t.Errorf("AnalyzedTracks = %d, want 1", got.AnalyzedTracks)
	}

	got, err = Analyze(Playlist{Name: "Unknown total", Tracks: tracks})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.TrackCount != 1 {
		t.Errorf("TrackCount = %d, want fetched count 1", got.TrackCount)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	p := Playlist{
		Name: "Same",
		Tracks: []Track{
			makeTrack("a", 12, true, "Artist B", "Artist A"),
			makeTrack("b", 99, false, "Artist A"),
			makeTrack("c", 45, false, "Agnez Mo", "Artist B"),
		},
	}

	first, err := Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Analyze(p)
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Analyze() not deterministic:\nfirst = %+v\nagain = %+v", first, again)
		}
	}
}
