package catalog

import (
	"context"
	"sync"
	"time"
)

// CachedRepository wraps a Repository with TTL caching for reads.
// The catalog is small and changes rarely, so a coarse whole-list cache
// keeps the hot /products path off the database.
type CachedRepository struct {
	underlying Repository
	cacheTTL   time.Duration

	mu           sync.RWMutex
	cachedList   []Product
	productCache map[string]Product
	fetchedAt    time.Time
}

// NewCachedRepository wraps a repository with a caching layer.
// cacheTTL of 0 disables caching (pass-through mode).
func NewCachedRepository(underlying Repository, cacheTTL time.Duration) *CachedRepository {
	return &CachedRepository{
		underlying: underlying,
		cacheTTL:   cacheTTL,
	}
}

// GetProduct retrieves a product by ID, preferring the cached snapshot.
func (r *CachedRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	if r.cacheTTL == 0 {
		return r.underlying.GetProduct(ctx, id)
	}

	r.mu.RLock()
	if time.Since(r.fetchedAt) < r.cacheTTL {
		if p, ok := r.productCache[id]; ok {
			r.mu.RUnlock()
			return p, nil
		}
	}
	r.mu.RUnlock()

	// Miss falls through to the underlying repository so products created
	// after the snapshot are still resolvable.
	return r.underlying.GetProduct(ctx, id)
}

// ListProducts returns all active products with TTL-based caching.
func (r *CachedRepository) ListProducts(ctx context.Context) ([]Product, error) {
	if r.cacheTTL == 0 {
		return r.underlying.ListProducts(ctx)
	}

	r.mu.RLock()
	if r.cachedList != nil && time.Since(r.fetchedAt) < r.cacheTTL {
		cached := r.cachedList
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if r.cachedList != nil && time.Since(r.fetchedAt) < r.cacheTTL {
		return r.cachedList, nil
	}

	products, err := r.underlying.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}

	r.cachedList = products
	r.productCache = index
	r.fetchedAt = time.Now()

	return products, nil
}

// InvalidateCache forces the next read to fetch fresh data.
func (r *CachedRepository) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cachedList = nil
	r.productCache = nil
	r.fetchedAt = time.Time{}
}

// CreateProduct creates a new product and invalidates the cache.
func (r *CachedRepository) CreateProduct(ctx context.Context, product Product) error {
	if err := r.underlying.CreateProduct(ctx, product); err != nil {
		return err
	}
	r.InvalidateCache()
	return nil
}

// UpdateProduct updates an existing product and invalidates the cache.
func (r *CachedRepository) UpdateProduct(ctx context.Context, product Product) error {
	if err := r.underlying.UpdateProduct(ctx, product); err != nil {
		return err
	}
	r.InvalidateCache()
	return nil
}

// DeleteProduct soft-deletes a product and invalidates the cache.
func (r *CachedRepository) DeleteProduct(ctx context.Context, id string) error {
	if err := r.underlying.DeleteProduct(ctx, id); err != nil {
		return err
	}
	r.InvalidateCache()
	return nil
}

// Close closes the underlying repository.
func (r *CachedRepository) Close() error {
	return r.underlying.Close()
}
