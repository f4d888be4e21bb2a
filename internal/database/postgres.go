// Package database manages the PostgreSQL pool and the Redis client shared
// by the whole process.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NtshVrm/VYSONM2A2/internal/config"
)

// PostgresDB wraps the connection pool. The pool is established once and
// shared process-wide; Connect is idempotent so callers never race on
// initialization.
type PostgresDB struct {
	cfg config.DatabaseConfig

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewPostgresDB returns an unconnected handle. Call Connect before use.
func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{cfg: cfg}
}

// Connect establishes the pool if it does not exist yet and returns it.
// Subsequent calls reuse the existing pool.
func (db *PostgresDB) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		return db.pool, nil
	}

	poolConfig, err := pgxpool.ParseConfig(db.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(db.cfg.MaxOpenConns)
	poolConfig.MinConns = int32(db.cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = db.cfg.ConnMaxLifetime
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.pool = pool
	return db.pool, nil
}

// Close shuts down the pool. Safe to call on an unconnected handle.
func (db *PostgresDB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}
}

// Health checks database responsiveness with a short timeout.
func (db *PostgresDB) Health(ctx context.Context) error {
	db.mu.Lock()
	pool := db.pool
	db.mu.Unlock()
	if pool == nil {
		return fmt.Errorf("database not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pool.Ping(ctx)
}

// Stats returns pool statistics for diagnostics, or nil before Connect.
func (db *PostgresDB) Stats() *pgxpool.Stat {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.pool == nil {
		return nil
	}
	return db.pool.Stat()
}
