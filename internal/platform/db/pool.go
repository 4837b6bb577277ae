package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IsUnavailable reports whether err means the database could not be reached
// at all: a connect failure or an acquire/dial timeout, as opposed to an
// error from a statement that actually ran.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	return pgconn.Timeout(err)
}

// NewPool builds a pgx connection pool. acquireTimeout bounds how long a
// request may wait for a connection; callers surface the timeout as a
// storage-unavailable condition instead of queueing forever.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32, acquireTimeout time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	if acquireTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = acquireTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
