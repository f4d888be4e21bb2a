// Package storetest provides in-memory fakes for the persistence
// contracts, used by service and handler tests. Semantics match the pgx
// repositories: sentinel errors, soft-delete visibility, live-code
// uniqueness.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NtshVrm/VYSONM2A2/internal/models"
	"github.com/NtshVrm/VYSONM2A2/internal/repository"
)

// Store is an in-memory link store.
type Store struct {
	mu    sync.Mutex
	links map[uuid.UUID]*models.ShortLink

	// Err, when set, is returned by every method. Simulates an
	// unreachable database.
	Err error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{links: make(map[uuid.UUID]*models.ShortLink)}
}

// Seed inserts a link directly, bypassing uniqueness checks.
func (s *Store) Seed(link *models.ShortLink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	cp := *link
	s.links[link.ID] = &cp
}

// Get returns a copy of the stored link by id, for assertions.
func (s *Store) Get(id uuid.UUID) (models.ShortLink, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[id]
	if !ok {
		return models.ShortLink{}, false
	}
	return *link, true
}

// Len reports how many rows the store holds, deleted ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

func (s *Store) Create(ctx context.Context, link *models.ShortLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, existing := range s.links {
		if existing.DeletedAt == nil && existing.ShortCode == link.ShortCode {
			return repository.ErrAlreadyExists
		}
	}

	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	cp := *link
	s.links[link.ID] = &cp
	return nil
}

func (s *Store) GetLiveByCode(ctx context.Context, shortCode string) (*models.ShortLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, link := range s.links {
		if link.DeletedAt == nil && link.ShortCode == shortCode {
			cp := *link
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindLiveByOriginalURL(ctx context.Context, originalURL string, ownerID *uuid.UUID) (*models.ShortLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var newest *models.ShortLink
	for _, link := range s.links {
		if link.DeletedAt != nil || link.OriginalURL != originalURL {
			continue
		}
		if !sameOwner(link.OwnerID, ownerID) {
			continue
		}
		if newest == nil || link.CreatedAt.After(newest.CreatedAt) {
			newest = link
		}
	}
	if newest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (s *Store) RecordVisit(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	link, ok := s.links[id]
	if !ok || link.DeletedAt != nil {
		return repository.ErrNotFound
	}
	link.VisitCount++
	t := at
	link.LastAccessedAt = &t
	return nil
}

func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	link, ok := s.links[id]
	if !ok || link.DeletedAt != nil {
		return repository.ErrNotFound
	}
	t := at
	link.DeletedAt = &t
	return nil
}

func (s *Store) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time, refreshCreatedAt bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	link, ok := s.links[id]
	if !ok || link.DeletedAt != nil {
		return repository.ErrNotFound
	}
	link.ExpiresAt = expiresAt
	if refreshCreatedAt {
		link.CreatedAt = at
	}
	return nil
}

func (s *Store) CodeExists(ctx context.Context, shortCode string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	for _, link := range s.links {
		if link.DeletedAt == nil && link.ShortCode == shortCode {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListAll(ctx context.Context, ownerID *uuid.UUID) ([]*models.ShortLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	links := []*models.ShortLink{}
	for _, link := range s.links {
		if link.DeletedAt != nil {
			continue
		}
		if ownerID != nil && !sameOwner(link.OwnerID, ownerID) {
			continue
		}
		cp := *link
		links = append(links, &cp)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

func (s *Store) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	var purged int64
	for id, link := range s.links {
		if link.DeletedAt != nil && link.DeletedAt.Before(olderThan) {
			delete(s.links, id)
			purged++
		}
	}
	return purged, nil
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Gate is an access gate fake mapping raw API keys to users.
type Gate struct {
	Users map[string]*models.User
}

// NewGate creates an empty gate.
func NewGate() *Gate {
	return &Gate{Users: make(map[string]*models.User)}
}

// Allow registers a raw key for a user.
func (g *Gate) Allow(rawKey string, user *models.User) {
	g.Users[rawKey] = user
}

func (g *Gate) ResolveKey(ctx context.Context, rawKey string) (*models.User, error) {
	return g.Users[rawKey], nil
}
