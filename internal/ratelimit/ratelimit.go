// Package ratelimit enforces a per-client daily request quota over a trailing 24-hour window.
//
// Checking and recording are separate steps. Two concurrent requests from the same
// client can both pass the check before either is recorded, so the quota may be
// exceeded by the number of in-flight requests.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// Window is the trailing period over which requests are counted.
	Window = 24 * time.Hour

	// DisabledRemaining is reported as the remaining quota when limiting is turned off.
	DisabledRemaining = 999
)

// Store records and counts request timestamps per client.
type Store interface {
	// Count returns the number of requests recorded for clientID at or after since.
	Count(ctx context.Context, clientID string, since time.Time) (int, error)
	// Record stores a request for clientID at the given time.
	Record(ctx context.Context, clientID string, at time.Time) error
}

// Result is the outcome of a quota check.
type Result struct {
	Allowed   bool
	Remaining int
}

// Limiter applies the daily quota policy on top of a Store.
type Limiter struct {
	store      Store
	enabled    bool
	dailyLimit int
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the time source used for the window.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithLogger sets the logger used for store failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an enabled Limiter allowing dailyLimit requests per client.
func New(store Store, dailyLimit int, opts ...Option) *Limiter {
	l := &Limiter{
		store:      store,
		enabled:    true,
		dailyLimit: dailyLimit,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDisabled creates a Limiter that admits everything and never touches a store.
func NewDisabled(dailyLimit int) *Limiter {
	return &Limiter{dailyLimit: dailyLimit, now: time.Now, logger: zap.NewNop()}
}

// Enabled reports whether the quota is enforced.
func (l *Limiter) Enabled() bool {
	return l.enabled
}

// DailyLimit returns the configured number of requests per window.
func (l *Limiter) DailyLimit() int {
	return l.dailyLimit
}

// CheckDailyLimit reports whether clientID may make another request.
// Store failures admit the request with a full quota.
func (l *Limiter) CheckDailyLimit(ctx context.Context, clientID string) Result {
	if !l.enabled {
		return Result{Allowed: true, Remaining: DisabledRemaining}
	}

	count, err := l.count(ctx, clientID)
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request",
			zap.String("client", clientID),
			zap.Error(err),
		)
		return Result{Allowed: true, Remaining: l.dailyLimit}
	}

	return Result{
		Allowed:   count < l.dailyLimit,
		Remaining: max(0, l.dailyLimit-count),
	}
}

// Remaining returns the quota left for clientID. Unlike CheckDailyLimit it
// reports store failures to the caller.
func (l *Limiter) Remaining(ctx context.Context, clientID string) (int, error) {
	if !l.enabled {
		return DisabledRemaining, nil
	}

	count, err := l.count(ctx, clientID)
	if err != nil {
		return 0, err
	}
	return max(0, l.dailyLimit-count), nil
}

func (l *Limiter) count(ctx context.Context, clientID string) (int, error) {
	count, err := l.store.Count(ctx, clientID, l.now().Add(-Window))
	if err != nil {
		return 0, fmt.Errorf("counting usage: %w", err)
	}
	return count, nil
}

// IncrementUsage records a completed request for clientID.
// The error is informational; callers must not fail the request on it.
func (l *Limiter) IncrementUsage(ctx context.Context, clientID string) error {
	if !l.enabled {
		return nil
	}

	if err := l.store.Record(ctx, clientID, l.now()); err != nil {
		l.logger.Warn("rate limit increment failed",
			zap.String("client", clientID),
			zap.Error(err),
		)
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}
