package identity

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository in memory for tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User // keyed by email
}

// NewMemoryRepository creates an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

// FindByEmail retrieves a user by normalized email.
func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// Upsert replaces the account stored under user.Email.
func (r *MemoryRepository) Upsert(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = user
	return nil
}

// Update rewrites an existing account.
func (r *MemoryRepository) Update(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; !ok {
		return ErrUserNotFound
	}
	r.users[user.Email] = user
	return nil
}

// Close is a no-op.
func (r *MemoryRepository) Close() error {
	return nil
}
