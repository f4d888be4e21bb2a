// Package models holds the domain entities and the request/response DTOs
// shared between the handler, service, and repository layers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShortLink is the primary domain entity: one short code mapped to one
// original URL.
//
// ID, ShortCode, and OriginalURL are immutable after creation. VisitCount and
// LastAccessedAt change only as a side effect of a successful redirect.
// DeletedAt marks a soft delete; soft-deleted rows are invisible to every
// lookup path but stay in storage until the purge job removes them.
type ShortLink struct {
	ID             uuid.UUID  `json:"id"`
	ShortCode      string     `json:"short_code"`
	OriginalURL    string     `json:"original_url"`
	VisitCount     int64      `json:"visit_count"`
	OwnerID        *uuid.UUID `json:"owner_id,omitempty"`
	PasswordHash   *string    `json:"-"`
	ExpiresAt      *time.Time `json:"expiry_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// IsExpired reports whether the link has passed its expiry at the given
// instant. Links without an expiry never expire.
func (l *ShortLink) IsExpired(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false
	}
	return now.After(*l.ExpiresAt)
}

// IsDeleted reports whether the link is soft-deleted.
func (l *ShortLink) IsDeleted() bool {
	return l.DeletedAt != nil
}

// Caller tiers. Bulk operations require TierEnterprise.
const (
	TierHobby      = "hobby"
	TierEnterprise = "enterprise"
)

// User is a caller identity resolved from an API key. The raw key is never
// stored; only its hash.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	KeyHash   string    `json:"-"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

// CanBulkCreate reports whether the user's tier grants bulk operations.
func (u *User) CanBulkCreate() bool {
	return u.Tier == TierEnterprise
}

// CreateLinkRequest is the body of POST /shorten.
type CreateLinkRequest struct {
	LongURL    string     `json:"long_url"`
	CustomCode *string    `json:"custom_code,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Password   *string    `json:"password,omitempty"`
}

// CreateLinkResponse is returned after creating a link; the expiry is echoed
// back verbatim.
type CreateLinkResponse struct {
	ShortCode  string     `json:"short_code"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// BulkCreateRequest is the body of POST /shorten/bulk.
type BulkCreateRequest struct {
	LongURLs []string `json:"long_urls"`
}

// BulkCreateEntry is the per-item outcome of a bulk create. Exactly one of
// ShortCode and Error is set; failures are reported per item, never dropped.
type BulkCreateEntry struct {
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BulkCreateResponse is returned by POST /shorten/bulk.
type BulkCreateResponse struct {
	Batch []BulkCreateEntry `json:"batch"`
}

// DeleteLinkRequest is the body of DELETE /delete.
type DeleteLinkRequest struct {
	ShortCode string `json:"short_code"`
}

// UpdateExpiryRequest is the body of PUT /code/:shortCode.
type UpdateExpiryRequest struct {
	ExpiryDate *time.Time `json:"expiry_date"`
}

// UpdateExpiryResponse is returned after an expiry update.
type UpdateExpiryResponse struct {
	ShortCode string `json:"short_code"`
}

// LookupResponse is returned by GET /lookup. ShortCode is null when the URL
// has no live mapping.
type LookupResponse struct {
	ShortCode *string `json:"short_code"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Machine-readable error codes carried in ErrorResponse.Code.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeExpired       = "EXPIRED"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnavailable   = "STORE_UNAVAILABLE"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
}
