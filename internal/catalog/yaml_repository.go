package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crbuilding/server/internal/config"
)

// YAMLRepository implements Repository backed by the products declared in the
// config file. Writes only touch the in-memory copy, which makes it the
// repository of choice for tests and single-node demo deployments.
type YAMLRepository struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewYAMLRepository builds a repository from config-declared products.
func NewYAMLRepository(declared map[string]config.CatalogProduct) *YAMLRepository {
	products := make(map[string]Product, len(declared))
	now := time.Now()
	for key, cp := range declared {
		id := cp.ID
		if id == "" {
			id = key
		}
		products[id] = Product{
			ID:        id,
			Name:      cp.Name,
			Price:     cp.Price,
			Image:     cp.Image,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return &YAMLRepository{products: products}
}

// GetProduct retrieves an active product by ID.
func (r *YAMLRepository) GetProduct(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok || !p.Active {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

// ListProducts returns all active products sorted by ID.
func (r *YAMLRepository) ListProducts(_ context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// CreateProduct adds a product to the in-memory catalog.
func (r *YAMLRepository) CreateProduct(_ context.Context, product Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	product.Active = true
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = product
	return nil
}

// UpdateProduct updates an existing product.
func (r *YAMLRepository) UpdateProduct(_ context.Context, product Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.Image = product.Image
	existing.UpdatedAt = time.Now()
	r.products[product.ID] = existing
	return nil
}

// DeleteProduct soft-deletes a product.
func (r *YAMLRepository) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	existing.Active = false
	existing.UpdatedAt = time.Now()
	r.products[id] = existing
	return nil
}

// Close is a no-op for the in-memory repository.
func (r *YAMLRepository) Close() error {
	return nil
}
