package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/NtshVrm/VYSONM2A2/internal/models"
	"github.com/NtshVrm/VYSONM2A2/internal/repository"
)

// AccessGate resolves raw API keys to users. A nil user with a nil error
// means the key is unknown; callers decide whether that is fatal.
type AccessGate interface {
	ResolveKey(ctx context.Context, rawKey string) (*models.User, error)
}

// UserStore is the persistence contract the access service depends on.
type UserStore interface {
	GetByKeyHash(ctx context.Context, keyHash string) (*models.User, error)
}

var _ UserStore = (*repository.UserRepository)(nil)

// AccessService resolves API keys against the user store.
type AccessService struct {
	users UserStore
}

var _ AccessGate = (*AccessService)(nil)

// NewAccessService creates a new access service.
func NewAccessService(users UserStore) *AccessService {
	return &AccessService{users: users}
}

// ResolveKey looks up the user holding an API key. Keys are stored as
// SHA-256 hashes; the raw key never touches the database.
func (s *AccessService) ResolveKey(ctx context.Context, rawKey string) (*models.User, error) {
	if rawKey == "" {
		return nil, nil
	}

	user, err := s.users.GetByKeyHash(ctx, HashAPIKey(rawKey))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return user, nil
}

// HashAPIKey hashes a raw API key for storage and lookup. SHA-256 is
// sufficient for high-entropy inputs like API keys.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
