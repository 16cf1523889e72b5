// Package roaster runs the roast pipeline: validate the playlist link, gate on the
// client's daily quota, fetch and analyze the playlist, reject repeats, generate the
// roast and record it.
package roaster

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/justestif/spotify-playlist-roaster/internal/analysis"
	"github.com/justestif/spotify-playlist-roaster/internal/generator"
	"github.com/justestif/spotify-playlist-roaster/internal/metrics"
	"github.com/justestif/spotify-playlist-roaster/internal/ratelimit"
	"github.com/justestif/spotify-playlist-roaster/internal/roasts"
	"github.com/justestif/spotify-playlist-roaster/internal/spotify"
)

// PlaylistFetcher loads a playlist by Spotify ID.
type PlaylistFetcher interface {
	FetchPlaylist(ctx context.Context, playlistID string) (*analysis.Playlist, error)
}

// RateLimiter tracks per-client daily usage.
type RateLimiter interface {
	CheckDailyLimit(ctx context.Context, clientID string) ratelimit.Result
	IncrementUsage(ctx context.Context, clientID string) error
	Remaining(ctx context.Context, clientID string) (int, error)
	DailyLimit() int
	Enabled() bool
}

// RoastStore persists roasts and detects repeat submissions.
type RoastStore interface {
	Enabled() bool
	CheckForDuplicate(ctx context.Context, playlistName, playlistID string) roasts.DuplicateCheckResult
	SaveRoast(ctx context.Context, r roasts.NewRoast) roasts.SaveResult
	SavePlaylistMetadata(ctx context.Context, spotifyID string, m analysis.Metadata) error
}

// RoastGenerator writes the roast text. It never fails.
type RoastGenerator interface {
	Generate(ctx context.Context, a analysis.Analysis) generator.Roast
}

// Step statuses.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusSkipped  = "skipped"
)

// Outcome records how a non-critical step went.
type Outcome struct {
	Status string
	Reason string
}

func ok() Outcome { return Outcome{Status: StatusOK} }

func skipped(reason string) Outcome { return Outcome{Status: StatusSkipped, Reason: reason} }

func degraded(err error) Outcome { return Outcome{Status: StatusDegraded, Reason: err.Error()} }

// Request is a roast submission.
type Request struct {
	PlaylistURL string
	ClientIP    string
}

// Result is a successful roast.
type Result struct {
	PlaylistID string
	Playlist   *analysis.Playlist
	Analysis   analysis.Analysis
	Metadata   analysis.Metadata
	RoastText  string
	Fallback   bool
	RoastID    string
	CreatedAt  time.Time
	Remaining  int
	Limit      int

	Duplicate        Outcome
	Persist          Outcome
	PlaylistMetadata Outcome
	Increment        Outcome
	RemainingCheck   Outcome
}

// Service orchestrates a roast request.
type Service struct {
	fetcher   PlaylistFetcher
	limiter   RateLimiter
	store     RoastStore
	generator RoastGenerator
	metrics   metrics.Recorder
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics sets the recorder for roast outcomes.
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service.
func NewService(fetcher PlaylistFetcher, limiter RateLimiter, store RoastStore, gen RoastGenerator, opts ...Option) *Service {
	s := &Service{
		fetcher:   fetcher,
		limiter:   limiter,
		store:     store,
		generator: gen,
		metrics:   metrics.Noop{},
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DailyLimit returns the configured per-client quota.
func (s *Service) DailyLimit() int {
	return s.limiter.DailyLimit()
}

// Roast runs the full pipeline for req.
func (s *Service) Roast(ctx context.Context, req Request) (*Result, *Error) {
	res, rerr := s.roast(ctx, req)
	if rerr != nil {
		s.metrics.IncRoasts(rerr.Kind.String())
		s.logger.Info("roast rejected",
			zap.String("client", req.ClientIP),
			zap.Stringer("kind", rerr.Kind),
			zap.Error(rerr),
		)
		return nil, rerr
	}
	s.metrics.IncRoasts("success")
	if res.Fallback {
		s.metrics.IncFallbackRoasts()
	}
	return res, nil
}

func (s *Service) roast(ctx context.Context, req Request) (*Result, *Error) {
	validation := spotify.ValidatePlaylistURL(req.PlaylistURL)
	if !validation.IsValid {
		return nil, &Error{Kind: KindValidation, Message: validation.Error}
	}

	quota := s.limiter.CheckDailyLimit(ctx, req.ClientIP)
	if !quota.Allowed {
		return nil, &Error{
			Kind: KindRateLimited,
			Message: fmt.Sprintf("Rate limit exceeded. You can make %d requests per day. Try again tomorrow.",
				s.limiter.DailyLimit()),
			Details: map[string]any{"remaining": quota.Remaining},
		}
	}

	playlist, err := s.fetcher.FetchPlaylist(ctx, validation.PlaylistID)
	if err != nil {
		return nil, fetchError(err)
	}

	res := &Result{
		PlaylistID: validation.PlaylistID,
		Playlist:   playlist,
		Limit:      s.limiter.DailyLimit(),
	}

	if s.store.Enabled() {
		dup := s.store.CheckForDuplicate(ctx, playlist.Name, validation.PlaylistID)
		if dup.IsDuplicate {
			return nil, duplicateError(dup)
		}
		res.Duplicate = ok()
		if dup.Err != nil {
			res.Duplicate = degraded(dup.Err)
		}
	} else {
		res.Duplicate = skipped("storage disabled")
	}

	a, err := analysis.Analyze(*playlist)
	if err != nil {
		return nil, analysisError(err)
	}
	res.Analysis = a
	res.Metadata = analysis.NewMetadata(a, *playlist)

	generated := s.generator.Generate(ctx, a)
	res.RoastText = generated.Text
	res.Fallback = generated.Fallback
	res.CreatedAt = s.now().UTC()

	s.persist(ctx, req, res)
	s.recordUsage(ctx, req, quota, res)

	s.logger.Info("roast generated",
		zap.String("playlist_id", res.PlaylistID),
		zap.String("client", req.ClientIP),
		zap.Bool("fallback", res.Fallback),
		zap.String("roast_id", res.RoastID),
	)
	return res, nil
}

func (s *Service) persist(ctx context.Context, req Request, res *Result) {
	saved := s.store.SaveRoast(ctx, roasts.NewRoast{
		PlaylistSpotifyID: res.PlaylistID,
		UserIPAddress:     req.ClientIP,
		UserDisplayName:   res.Playlist.Owner,
		RoastText:         res.RoastText,
		Metadata:          res.Metadata,
	})
	switch {
	case !s.store.Enabled():
		res.Persist = skipped("storage disabled")
		res.PlaylistMetadata = skipped("storage disabled")
		res.RoastID = saved.RoastID
		return
	case saved.Success:
		res.Persist = ok()
		res.RoastID = saved.RoastID
	default:
		res.Persist = degraded(saved.Error)
	}

	if err := s.store.SavePlaylistMetadata(ctx, res.PlaylistID, res.Metadata); err != nil {
		s.logger.Warn("saving playlist metadata failed",
			zap.String("playlist_id", res.PlaylistID),
			zap.Error(err),
		)
		res.PlaylistMetadata = degraded(err)
		return
	}
	res.PlaylistMetadata = ok()
}

func (s *Service) recordUsage(ctx context.Context, req Request, quota ratelimit.Result, res *Result) {
	if !s.limiter.Enabled() {
		res.Increment = skipped("rate limiting disabled")
		res.RemainingCheck = skipped("rate limiting disabled")
		res.Remaining = ratelimit.DisabledRemaining
		return
	}

	res.Increment = ok()
	if err := s.limiter.IncrementUsage(ctx, req.ClientIP); err != nil {
		res.Increment = degraded(err)
	}

	res.Remaining = max(0, quota.Remaining-1)
	remaining, err := s.limiter.Remaining(ctx, req.ClientIP)
	if err != nil {
		s.logger.Warn("remaining quota check failed",
			zap.String("client", req.ClientIP),
			zap.Error(err),
		)
		res.RemainingCheck = degraded(err)
		return
	}
	res.Remaining = remaining
	res.RemainingCheck = ok()
}

func duplicateError(dup roasts.DuplicateCheckResult) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: MessageDuplicate,
		Details: map[string]any{
			"duplicate_detected":  true,
			"playlist_name":       dup.PlaylistName,
			"original_roast_date": dup.OriginalRoastDate.Format(roastDateLayout),
			"message":             "Duplicate playlist submission detected",
			"suggestion":          duplicateSuggestion,
		},
	}
}
