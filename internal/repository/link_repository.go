// Package repository is the data access layer. Handlers call services,
// services call repositories; all SQL lives here.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NtshVrm/VYSONM2A2/internal/models"
)

// Common errors returned by repository methods. Callers check these with
// errors.Is().
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
)

const linkColumns = `id, short_code, original_url, visit_count, owner_id, password_hash, expires_at, created_at, last_accessed_at, deleted_at`

// LinkRepository handles all short link database operations.
type LinkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts a new short link. Returns ErrAlreadyExists if the short
// code collides with a live link; the partial unique index on
// (short_code) WHERE deleted_at IS NULL is the authority, not any prior
// existence check.
func (r *LinkRepository) Create(ctx context.Context, link *models.ShortLink) error {
	query := `
		INSERT INTO short_links (id, short_code, original_url, visit_count, owner_id, password_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, query,
		link.ID,
		link.ShortCode,
		link.OriginalURL,
		link.VisitCount,
		link.OwnerID,
		link.PasswordHash,
		link.ExpiresAt,
		link.CreatedAt,
	)

	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// GetLiveByCode retrieves the non-deleted link for a short code. Expired
// links are still returned; the service layer decides how to classify
// them. Returns ErrNotFound if no live link has the code.
func (r *LinkRepository) GetLiveByCode(ctx context.Context, shortCode string) (*models.ShortLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE short_code = $1 AND deleted_at IS NULL
	`

	link, err := scanLink(r.db.QueryRow(ctx, query, shortCode))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// FindLiveByOriginalURL finds a live link for an original URL within an
// owner scope. A nil ownerID matches only anonymous links.
func (r *LinkRepository) FindLiveByOriginalURL(ctx context.Context, originalURL string, ownerID *uuid.UUID) (*models.ShortLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE original_url = $1
		  AND deleted_at IS NULL
		  AND (($2::uuid IS NULL AND owner_id IS NULL) OR owner_id = $2)
		ORDER BY created_at DESC
		LIMIT 1
	`

	link, err := scanLink(r.db.QueryRow(ctx, query, originalURL, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link by URL: %w", err)
	}

	return link, nil
}

// RecordVisit increments the visit counter and stamps last_accessed_at in
// a single conditional UPDATE. The increment happens at the database, so
// concurrent visits never lose counts. Returns ErrNotFound when the link
// was deleted between read and update.
func (r *LinkRepository) RecordVisit(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE short_links
		SET visit_count = visit_count + 1, last_accessed_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SoftDelete marks a link deleted. The row stays in place until the purge
// job removes it, and its code becomes reusable immediately because the
// unique index only covers live rows.
func (r *LinkRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE short_links
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateExpiry sets a link's expiry in place. The id and short code never
// change; when refreshCreatedAt is set the created_at timestamp is reset
// so relative-age displays restart.
func (r *LinkRepository) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time, refreshCreatedAt bool, at time.Time) error {
	query := `
		UPDATE short_links
		SET expires_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	args := []interface{}{id, expiresAt}

	if refreshCreatedAt {
		query = `
			UPDATE short_links
			SET expires_at = $2, created_at = $3
			WHERE id = $1 AND deleted_at IS NULL
		`
		args = append(args, at)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update expiry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CodeExists reports whether a live link already uses the short code.
// This is a pre-check only; Create still enforces uniqueness.
func (r *LinkRepository) CodeExists(ctx context.Context, shortCode string) (bool, error) {
	query := `SELECT 1 FROM short_links WHERE short_code = $1 AND deleted_at IS NULL LIMIT 1`

	var exists int
	err := r.db.QueryRow(ctx, query, shortCode).Scan(&exists)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return true, nil
}

// ListAll returns live links, newest first. A non-nil ownerID restricts
// the listing to that owner's links; nil lists everything.
func (r *LinkRepository) ListAll(ctx context.Context, ownerID *uuid.UUID) ([]*models.ShortLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM short_links
		WHERE deleted_at IS NULL
		  AND ($1::uuid IS NULL OR owner_id = $1)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := []*models.ShortLink{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	return links, nil
}

// PurgeDeleted physically removes links soft-deleted before the cutoff.
// Returns the number of purged rows. Called periodically from the
// background job in cmd/server.
func (r *LinkRepository) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM short_links
		WHERE deleted_at IS NOT NULL
		  AND deleted_at < $1
	`

	result, err := r.db.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deleted links: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanLink reads one link row from either QueryRow or rows.Next.
func scanLink(row pgx.Row) (*models.ShortLink, error) {
	link := &models.ShortLink{}
	err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.OriginalURL,
		&link.VisitCount,
		&link.OwnerID,
		&link.PasswordHash,
		&link.ExpiresAt,
		&link.CreatedAt,
		&link.LastAccessedAt,
		&link.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// isDuplicateKeyError checks for a unique constraint violation.
// PostgreSQL error code 23505 = unique_violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
