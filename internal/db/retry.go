package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// SQLSTATE codes that are never retried.
const (
	sqlStateSyntaxError        = "42601"
	sqlStateIntegrityClassCode = "23"
)

// withRetry runs fn against the pool, retrying transient failures with
// exponential backoff. Connection-level failures also reset the pool.
func (db *DB) withRetry(ctx context.Context, op string, fn func(Pool) error) error {
	var lastErr error

	for attempt := 1; attempt <= db.maxRetries; attempt++ {
		pool, err := db.Querier(ctx)
		if err == nil {
			err = fn(pool)
		}
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
		if isConnectionError(err) {
			db.Reset()
		}
		if attempt == db.maxRetries {
			break
		}

		delay := db.backoff(attempt)
		db.logger.Warn("database operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := db.sleep(ctx, delay); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, db.maxRetries, lastErr)
}

// backoff returns base * 2^(attempt-1).
func (db *DB) backoff(attempt int) time.Duration {
	return db.baseDelay * time.Duration(1<<(attempt-1))
}

// isRetryable reports whether err may succeed on another attempt.
func isRetryable(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrClosed) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == sqlStateSyntaxError || strings.HasPrefix(pgErr.Code, sqlStateIntegrityClassCode) {
			return false
		}
	}
	return true
}

// isConnectionError reports whether err means the pool's connections are unusable.
func isConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "conn closed")
}
