package identity

import (
	"context"
	"errors"

	"github.com/crbuilding/server/internal/config"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// Repository persists user accounts.
type Repository interface {
	// FindByEmail retrieves a user by normalized email.
	FindByEmail(ctx context.Context, email string) (User, error)

	// Upsert replaces the account stored under user.Email, creating it if
	// absent. Registration relies on this to overwrite stale unverified
	// accounts.
	Upsert(ctx context.Context, user User) error

	// Update rewrites an existing account looked up by email.
	Update(ctx context.Context, user User) error

	// Close closes any open connections.
	Close() error
}

// NewRepository creates a user repository for the configured backend.
func NewRepository(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Backend {
	case "mongodb":
		return NewMongoDBRepository(cfg.MongoDBURL, cfg.MongoDBDatabase, "users")
	case "postgres":
		return NewPostgresRepository(cfg.PostgresURL, cfg.PostgresPool)
	default:
		return nil, errors.New("invalid storage backend: must be 'mongodb' or 'postgres'")
	}
}
