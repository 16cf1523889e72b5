// Package generator produces roast text from a playlist analysis using a hosted
// language model, falling back to local templates when the model is unavailable.
package generator

import (
	"context"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
)

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Roast is the generated text and where it came from.
type Roast struct {
	Text     string
	Fallback bool  // Text came from a local template
	Err      error // Why the model was not used, set when Fallback is true
}

// Generator produces roasts. It never returns an error to the caller.
type Generator struct {
	completer Completer
	rng       analysis.IntN
	logger    *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the source used to pick fallback templates.
func WithRand(rng analysis.IntN) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithLogger sets the logger for model failures.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// globalRand uses the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// New creates a Generator. A nil completer always uses the fallback.
func New(completer Completer, opts ...Option) *Generator {
	g := &Generator{
		completer: completer,
		rng:       globalRand{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a roast for a. Any model failure is replaced by a fallback template.
func (g *Generator) Generate(ctx context.Context, a analysis.Analysis) Roast {
	if g.completer == nil {
		return g.fallback(a, ErrMissingAPIKey)
	}

	text, err := g.completer.Complete(ctx, BuildPrompt(a))
	if err != nil {
		g.logger.Warn("roast generation failed, using fallback",
			zap.String("playlist", a.PlaylistName),
			zap.Error(err),
		)
		return g.fallback(a, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return g.fallback(a, ErrEmptyCompletion)
	}

	return Roast{Text: text}
}

func (g *Generator) fallback(a analysis.Analysis, err error) Roast {
	return Roast{
		Text:     analysis.FallbackRoast(a, g.rng),
		Fallback: true,
		Err:      err,
	}
}
