package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// Pool sizes the connection pool. The save path fans out per-item writes, so MaxOpen caps
// how many of them reach the database at once.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

func DefaultPool() Pool {
	return Pool{MaxOpen: 25, MaxIdle: 25, MaxLifetime: 5 * time.Minute, PingTimeout: 5 * time.Second}
}

func Connect(ctx context.Context, dsn string, pool Pool) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	conn.SetMaxOpenConns(pool.MaxOpen)
	conn.SetMaxIdleConns(min(pool.MaxIdle, pool.MaxOpen))
	conn.SetConnMaxLifetime(pool.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.PingTimeout)
	defer cancel()

	if err = conn.PingContext(pingCtx); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database within %v: %w (close: %v)", pool.PingTimeout, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", pool.PingTimeout, err)
	}

	return conn, nil
}
