package orders

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository implements Repository in memory for tests and demos.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []PaidOrder
}

// NewMemoryRepository creates an empty in-memory order repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Record appends a verified order.
func (r *MemoryRepository) Record(_ context.Context, order PaidOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return nil
}

// List returns orders newest first, for one user or all when userID is empty.
func (r *MemoryRepository) List(_ context.Context, userID string) ([]PaidOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []PaidOrder
	for _, order := range r.orders {
		if userID == "" || order.UserID == userID {
			result = append(result, order)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Close is a no-op.
func (r *MemoryRepository) Close() error {
	return nil
}
