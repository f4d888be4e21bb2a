package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema. Statements are idempotent, so running this on
// every start is safe.
//
// The partial unique index on short_code is the authoritative uniqueness
// guard: codes must be unique among live (non-soft-deleted) rows, while a
// soft-deleted row's code may be reissued.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           UUID PRIMARY KEY,
		email        TEXT NOT NULL UNIQUE,
		name         TEXT,
		api_key_hash TEXT NOT NULL UNIQUE,
		tier         TEXT NOT NULL DEFAULT 'hobby',
		created_at   TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS short_links (
		id               UUID PRIMARY KEY,
		short_code       TEXT NOT NULL,
		original_url     TEXT NOT NULL,
		visit_count      BIGINT NOT NULL DEFAULT 0,
		owner_id         UUID REFERENCES users(id),
		password_hash    TEXT,
		expires_at       TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL,
		last_accessed_at TIMESTAMPTZ,
		deleted_at       TIMESTAMPTZ
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_short_links_live_code
		ON short_links (short_code)
		WHERE deleted_at IS NULL`,

	`CREATE INDEX IF NOT EXISTS idx_short_links_owner
		ON short_links (owner_id)`,

	`CREATE INDEX IF NOT EXISTS idx_short_links_deleted_at
		ON short_links (deleted_at)
		WHERE deleted_at IS NOT NULL`,
}
