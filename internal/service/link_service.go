// Package service contains the business logic. Handlers stay thin (HTTP
// in/out), repositories stay thin (DB in/out); classification of links
// into found/expired/deleted/missing happens here.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/NtshVrm/VYSONM2A2/internal/config"
	"github.com/NtshVrm/VYSONM2A2/internal/database"
	"github.com/NtshVrm/VYSONM2A2/internal/models"
	"github.com/NtshVrm/VYSONM2A2/internal/repository"
	"github.com/NtshVrm/VYSONM2A2/internal/shortcode"
)

// Service errors. Handlers map these to HTTP statuses.
var (
	ErrNotFound         = errors.New("link not found")
	ErrExpired          = errors.New("link has expired")
	ErrConflict         = errors.New("short code already taken")
	ErrValidation       = errors.New("invalid input")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrBulkNotAllowed   = errors.New("bulk shortening requires an enterprise plan")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store is the persistence contract the link service depends on. The pgx
// repository implements it in production; tests use an in-memory fake.
// Implementations signal misses and collisions with the repository
// sentinels.
type Store interface {
	Create(ctx context.Context, link *models.ShortLink) error
	GetLiveByCode(ctx context.Context, shortCode string) (*models.ShortLink, error)
	FindLiveByOriginalURL(ctx context.Context, originalURL string, ownerID *uuid.UUID) (*models.ShortLink, error)
	RecordVisit(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time, refreshCreatedAt bool, at time.Time) error
	CodeExists(ctx context.Context, shortCode string) (bool, error)
	ListAll(ctx context.Context, ownerID *uuid.UUID) ([]*models.ShortLink, error)
	PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}

var _ Store = (*repository.LinkRepository)(nil)

// Cache is the optional read-through cache for resolves. A nil cache
// disables caching without changing behavior.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var _ Cache = (*database.RedisDB)(nil)

const maxCreateAttempts = 10

// LinkService handles link shortening business logic.
type LinkService struct {
	store    Store
	cache    Cache
	cacheTTL time.Duration
	gen      *shortcode.Generator
	cfg      config.ShortenerConfig
	now      func() time.Time
}

// NewLinkService creates a new link service. cache may be nil.
func NewLinkService(store Store, cache Cache, cacheTTL time.Duration, gen *shortcode.Generator, cfg config.ShortenerConfig) *LinkService {
	return &LinkService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		gen:      gen,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Create shortens a URL. Every call issues a fresh code for generated
// requests; reuse of an existing mapping is the caller's choice via
// CheckExists. Returns ErrConflict when a custom code collides with a
// live link. A past expiry is accepted; it produces a record that is
// already expired at resolve time.
func (s *LinkService) Create(ctx context.Context, req models.CreateLinkRequest, caller *models.User) (*models.CreateLinkResponse, error) {
	if req.LongURL == "" {
		return nil, fmt.Errorf("%w: long_url is required", ErrValidation)
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	link := &models.ShortLink{
		OriginalURL:  req.LongURL,
		PasswordHash: passwordHash,
		ExpiresAt:    req.ExpiryDate,
		CreatedAt:    s.now(),
	}
	if caller != nil {
		id := caller.ID
		link.OwnerID = &id
	}

	if req.CustomCode != nil {
		// Caller-chosen codes are used verbatim; the only constraint is
		// non-emptiness, uniqueness belongs to the store.
		if *req.CustomCode == "" {
			return nil, fmt.Errorf("%w: custom_code must not be empty", ErrValidation)
		}
		link.ShortCode = *req.CustomCode
		if err := s.store.Create(ctx, link); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				return nil, ErrConflict
			}
			return nil, s.storeErr(err)
		}
	} else if err := s.createWithFreshCode(ctx, link); err != nil {
		return nil, err
	}

	s.cacheLink(link)

	return &models.CreateLinkResponse{
		ShortCode:  link.ShortCode,
		ExpiryDate: link.ExpiresAt,
	}, nil
}

// createWithFreshCode allocates a code and inserts, retrying on the rare
// race where another request claims the code between the existence
// pre-check and the insert. The unique index is the authority.
func (s *LinkService) createWithFreshCode(ctx context.Context, link *models.ShortLink) error {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := s.gen.Allocate(ctx, s.store)
		if err != nil {
			if errors.Is(err, shortcode.ErrSpaceExhausted) {
				return err
			}
			return s.storeErr(err)
		}

		link.ShortCode = code
		err = s.store.Create(ctx, link)
		if errors.Is(err, repository.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return s.storeErr(err)
		}
		return nil
	}
	return shortcode.ErrSpaceExhausted
}

// CreateBulk shortens a batch of URLs for an enterprise caller. Items are
// processed independently; a failed item carries its error in the batch
// entry and never aborts the rest.
func (s *LinkService) CreateBulk(ctx context.Context, req models.BulkCreateRequest, caller *models.User) (*models.BulkCreateResponse, error) {
	if caller == nil || !caller.CanBulkCreate() {
		return nil, ErrBulkNotAllowed
	}
	if len(req.LongURLs) == 0 {
		return nil, fmt.Errorf("%w: no URLs provided", ErrValidation)
	}

	resp := &models.BulkCreateResponse{Batch: make([]models.BulkCreateEntry, 0, len(req.LongURLs))}
	for _, longURL := range req.LongURLs {
		entry := models.BulkCreateEntry{OriginalURL: longURL}
		created, err := s.Create(ctx, models.CreateLinkRequest{LongURL: longURL}, caller)
		switch {
		case errors.Is(err, ErrStoreUnavailable):
			// Entries end up in the response body; the wrapped driver
			// detail stays out of it.
			entry.Error = ErrStoreUnavailable.Error()
		case err != nil:
			entry.Error = err.Error()
		default:
			entry.ShortCode = created.ShortCode
		}
		resp.Batch = append(resp.Batch, entry)
	}
	return resp, nil
}

// Resolve looks up a short code for redirecting and records the visit.
// Called on every redirect, so it reads through the cache; the visit
// write is conditional and a zero-row outcome means the link vanished
// under us, which reads as not found.
//
// An anonymous caller resolves any live link, but a caller with an
// identity is scoped: someone else's link is indistinguishable from
// absent, so codes cannot be enumerated across accounts.
func (s *LinkService) Resolve(ctx context.Context, shortCode string, password string, caller *models.User) (*models.ShortLink, error) {
	if shortCode == "" {
		return nil, fmt.Errorf("%w: short code is required", ErrValidation)
	}

	link := s.getCached(ctx, shortCode)
	if link == nil {
		var err error
		link, err = s.store.GetLiveByCode(ctx, shortCode)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, s.storeErr(err)
		}
		s.cacheLink(link)
	}

	if caller != nil && link.OwnerID != nil && *link.OwnerID != caller.ID {
		return nil, ErrNotFound
	}

	if link.IsExpired(s.now()) {
		return nil, ErrExpired
	}

	if link.PasswordHash != nil {
		if password == "" {
			return nil, fmt.Errorf("%w: password is required", ErrValidation)
		}
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(password)) != nil {
			return nil, ErrWrongPassword
		}
	}

	err := s.store.RecordVisit(ctx, link.ID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storeErr(err)
	}
	link.VisitCount++

	return link, nil
}

// Delete soft-deletes a link. A link owned by someone other than the
// caller is indistinguishable from absent. Deleting an already expired
// link reports ErrExpired, and a second delete finds nothing.
func (s *LinkService) Delete(ctx context.Context, shortCode string, caller *models.User) error {
	if shortCode == "" {
		return fmt.Errorf("%w: short code is required", ErrValidation)
	}

	link, err := s.getOwned(ctx, shortCode, caller)
	if err != nil {
		return err
	}
	if link.IsExpired(s.now()) {
		return ErrExpired
	}

	err = s.store.SoftDelete(ctx, link.ID, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return s.storeErr(err)
	}

	s.invalidate(ctx, shortCode)
	return nil
}

// UpdateExpiry sets a link's expiry in place. The record keeps its id and
// short code; whether created_at is refreshed is a configuration knob.
func (s *LinkService) UpdateExpiry(ctx context.Context, shortCode string, req models.UpdateExpiryRequest, caller *models.User) (*models.UpdateExpiryResponse, error) {
	if shortCode == "" {
		return nil, fmt.Errorf("%w: short code is required", ErrValidation)
	}

	link, err := s.getOwned(ctx, shortCode, caller)
	if err != nil {
		return nil, err
	}

	err = s.store.UpdateExpiry(ctx, link.ID, req.ExpiryDate, s.cfg.RefreshCreatedAtOnExpiryUpdate, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storeErr(err)
	}

	s.invalidate(ctx, shortCode)
	return &models.UpdateExpiryResponse{ShortCode: link.ShortCode}, nil
}

// CheckExists reports the caller's existing short code for a URL, if any.
// The lookup is scoped: an anonymous caller only sees anonymous links.
func (s *LinkService) CheckExists(ctx context.Context, originalURL string, caller *models.User) (*models.LookupResponse, error) {
	if originalURL == "" {
		return nil, fmt.Errorf("%w: url is required", ErrValidation)
	}

	var ownerID *uuid.UUID
	if caller != nil {
		id := caller.ID
		ownerID = &id
	}

	link, err := s.store.FindLiveByOriginalURL(ctx, originalURL, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.LookupResponse{}, nil
	}
	if err != nil {
		return nil, s.storeErr(err)
	}

	return &models.LookupResponse{ShortCode: &link.ShortCode}, nil
}

// CheckCustomCodeExists reports whether a code is taken by a live link.
func (s *LinkService) CheckCustomCodeExists(ctx context.Context, shortCode string) (bool, error) {
	if shortCode == "" {
		return false, fmt.Errorf("%w: short code is required", ErrValidation)
	}
	exists, err := s.store.CodeExists(ctx, shortCode)
	if err != nil {
		return false, s.storeErr(err)
	}
	return exists, nil
}

// ListAll returns every live link, newest first.
func (s *LinkService) ListAll(ctx context.Context) ([]*models.ShortLink, error) {
	links, err := s.store.ListAll(ctx, nil)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return links, nil
}

// PurgeDeleted removes soft-deleted links past the retention window.
func (s *LinkService) PurgeDeleted(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.DeletedRetention)
	n, err := s.store.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return 0, s.storeErr(err)
	}
	return n, nil
}

// getOwned fetches a live link and applies mutation scoping: only the
// owner may touch an owned link, and anyone may touch an anonymous one.
func (s *LinkService) getOwned(ctx context.Context, shortCode string, caller *models.User) (*models.ShortLink, error) {
	link, err := s.store.GetLiveByCode(ctx, shortCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.storeErr(err)
	}

	if link.OwnerID != nil && (caller == nil || caller.ID != *link.OwnerID) {
		return nil, ErrNotFound
	}
	return link, nil
}

// storeErr classifies unexpected persistence failures so handlers can
// answer 503 instead of a generic 500.
func (s *LinkService) storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// cacheLink stores a link for future resolves. Password-protected links
// are never cached: the hash does not survive JSON marshaling, and a
// cache hit must not bypass the password check.
func (s *LinkService) cacheLink(link *models.ShortLink) {
	if s.cache == nil || link.PasswordHash != nil {
		return
	}

	ttl := s.cacheTTL
	if link.ExpiresAt != nil {
		remaining := time.Until(*link.ExpiresAt)
		if remaining < ttl {
			ttl = remaining
		}
		if remaining <= 0 {
			return
		}
	}

	// The goroutine marshals its own copy; callers keep mutating the live
	// struct (visit counts) after handing it over.
	cp := *link
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.cache.SetJSON(cacheCtx, database.LinkCacheKey(cp.ShortCode), &cp, ttl)
	}()
}

// getCached returns the cached link or nil. Cache failures degrade to a
// database read.
func (s *LinkService) getCached(ctx context.Context, shortCode string) *models.ShortLink {
	if s.cache == nil {
		return nil
	}

	var link models.ShortLink
	found, err := s.cache.GetJSON(ctx, database.LinkCacheKey(shortCode), &link)
	if err != nil || !found {
		return nil
	}
	return &link
}

// invalidate drops a link's cache entry after a mutation.
func (s *LinkService) invalidate(ctx context.Context, shortCode string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, database.LinkCacheKey(shortCode))
}
