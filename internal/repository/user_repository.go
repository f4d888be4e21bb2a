package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NtshVrm/VYSONM2A2/internal/models"
)

// UserRepository handles user database operations.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetByKeyHash retrieves the user owning an API key hash. Returns
// ErrNotFound when no user holds the key.
func (r *UserRepository) GetByKeyHash(ctx context.Context, keyHash string) (*models.User, error) {
	query := `
		SELECT id, email, name, api_key_hash, tier, created_at
		FROM users
		WHERE api_key_hash = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(ctx, query, keyHash).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.KeyHash,
		&user.Tier,
		&user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Create inserts a new user. Returns ErrAlreadyExists when the email or
// API key hash is already registered.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, api_key_hash, tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.KeyHash,
		user.Tier,
		user.CreatedAt,
	)

	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}
