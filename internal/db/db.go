// Package db provides PostgreSQL access for roast storage.
//
// The connection pool is created lazily on first use and rebuilt after
// connection-level failures. Every repository operation goes through a bounded
// retry with exponential backoff.
package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("database closed")
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// Pool is the subset of *pgxpool.Pool used by the repositories.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Connector opens a new pool.
type Connector func(ctx context.Context) (Pool, error)

// DB owns a lazily created connection pool.
type DB struct {
	connect Connector

	mu     sync.Mutex
	pool   Pool
	closed bool

	schemaMu    sync.Mutex
	schemaReady bool

	maxRetries int
	baseDelay  time.Duration
	maxConns   int32
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithMaxRetries sets the number of attempts per operation.
func WithMaxRetries(n int) Option {
	return func(db *DB) {
		if n > 0 {
			db.maxRetries = n
		}
	}
}

// WithRetryBaseDelay sets the delay before the second attempt. It doubles on each retry.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(db *DB) {
		if d >= 0 {
			db.baseDelay = d
		}
	}
}

// WithMaxConns caps the pool size. Ignored by NewWithConnector.
func WithMaxConns(n int32) Option {
	return func(db *DB) {
		db.maxConns = n
	}
}

// WithLogger sets the logger for retries and pool resets.
func WithLogger(logger *zap.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// New creates a DB for databaseURL. No connection is made until first use.
func New(databaseURL string, opts ...Option) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	db := newDB(nil, opts...)
	if db.maxConns > 0 {
		config.MaxConns = db.maxConns
	}
	db.connect = func(ctx context.Context) (Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("creating connection pool: %w", err)
		}

		// Verify connection
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		return pool, nil
	}
	return db, nil
}

// NewWithConnector creates a DB that opens pools with connect.
func NewWithConnector(connect Connector, opts ...Option) *DB {
	return newDB(connect, opts...)
}

func newDB(connect Connector, opts ...Option) *DB {
	db := &DB{
		connect:    connect,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		sleep:      sleepContext,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Querier returns the shared pool, connecting on first call.
func (db *DB) Querier(ctx context.Context) (Pool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrClosed
	}
	if db.pool != nil {
		return db.pool, nil
	}

	pool, err := db.connect(ctx)
	if err != nil {
		return nil, err
	}
	db.pool = pool
	db.logger.Info("database pool created")
	return pool, nil
}

// Reset discards the current pool. The next Querier call reconnects.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
		db.logger.Warn("database pool reset")
	}
}

// Close closes the pool. Subsequent calls to Querier fail with ErrClosed.
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
	db.closed = true
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.withRetry(ctx, "ping", func(pool Pool) error {
		return pool.Ping(ctx)
	})
}

// Roasts returns a RoastRepository.
func (db *DB) Roasts() *RoastRepository {
	return &RoastRepository{db: db}
}

// PlaylistMetadata returns a PlaylistMetadataRepository.
func (db *DB) PlaylistMetadata() *PlaylistMetadataRepository {
	return &PlaylistMetadataRepository{db: db}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
