package generator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
)

// mockCompleter returns a canned reply and records the prompt it was given.
type mockCompleter struct {
	text   string
	err    error
	prompt string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.text, m.err
}

// firstTemplate always selects index 0.
type firstTemplate struct{}

func (firstTemplate) IntN(int) int { return 0 }

var gymAnalysis = analysis.Analysis{
	PlaylistName:     "Gym Bangers",
	TrackCount:       42,
	AnalyzedTracks:   42,
	AvgPopularity:    92,
	ExplicitCount:    3,
	UniqueArtists:    10,
	TopArtist:        "Drake (9 songs)",
	TopArtistName:    "Drake",
	TopArtistCount:   9,
	IsVeryMainstream: true,
	SameArtistSpam:   true,
	ZeroLocalMusic:   true,
	SampleTracks:     `"One Dance" by Drake`,
}

func TestGenerateUsesModel(t *testing.T) {
	completer := &mockCompleter{text: "\n  Walao so basic lah!\n"}
	g := New(completer)

	got := g.Generate(context.Background(), gymAnalysis)

	if got.Fallback || got.Err != nil {
		t.Fatalf("Generate() = %+v, want model text", got)
	}
	if got.Text != "Walao so basic lah!" {
		t.Errorf("Text = %q", got.Text)
	}
	if !strings.Contains(completer.prompt, `"Gym Bangers" (42 tracks)`) {
		t.Errorf("prompt missing playlist line:\n%s", completer.prompt)
	}
}

func TestGenerateFallsBack(t *testing.T) {
	want := analysis.FallbackTemplates(gymAnalysis)[0]

	tests := []struct {
		name      string
		completer Completer
		wantErr   error
	}{
		{"model error", &mockCompleter{err: &APIError{StatusCode: 503}}, nil},
		{"empty text", &mockCompleter{}, ErrEmptyCompletion},
		{"whitespace text", &mockCompleter{text: " \n\t "}, ErrEmptyCompletion},
		{"no client", nil, ErrMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.completer, WithRand(firstTemplate{}))

			got := g.Generate(context.Background(), gymAnalysis)

			if !got.Fallback {
				t.Fatal("Fallback = false, want true")
			}
			if got.Err == nil {
				t.Error("Err = nil, want cause")
			}
			if tt.wantErr != nil && !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
			}
			if got.Text != want {
				t.Errorf("Text = %q, want %q", got.Text, want)
			}
		})
	}
}

func TestGenerateDefaultRandPicksTemplate(t *testing.T) {
	g := New(&mockCompleter{err: errors.New("timeout")})
	templates := analysis.FallbackTemplates(gymAnalysis)

	for i := 0; i < 10; i++ {
		got := g.Generate(context.Background(), gymAnalysis)
		if !slices.Contains(templates, got.Text) {
			t.Fatalf("Text = %q, not a fallback template", got.Text)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(gymAnalysis)

	for _, want := range []string{
		"Popularity: 92/100",
		"Top artist: Drake (9 songs)",
		"Local representation: 0 Malaysian/SEA tracks",
		"Variety: 10 unique artists across 42 tracks",
		"Super mainstream taste (92/100 popularity)",
		"Zero Malaysian artists",
		"Under 180 characters",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutAngles(t *testing.T) {
	a := analysis.Analysis{
		PlaylistName: "Balanced", TrackCount: 20, AnalyzedTracks: 20,
		AvgPopularity: 50, LocalMusic: 5, UniqueArtists: 15,
	}

	prompt := BuildPrompt(a)
	if strings.Contains(prompt, "AMMUNITION") {
		t.Error("prompt lists ammunition with no applicable angles")
	}
	if !strings.Contains(prompt, "Top artist: none") {
		t.Error("prompt should show none for a missing top artist")
	}
}
