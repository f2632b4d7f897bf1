package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/crbuilding/server/internal/config"
)

// ErrProductNotFound is returned when a product doesn't exist.
var ErrProductNotFound = errors.New("product not found")

// Product represents a sellable catalog item.
// Price is in whole rupees; conversion to paise happens at the gateway boundary.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Image     string    `json:"image,omitempty"`
	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Repository defines the interface for product storage.
type Repository interface {
	// GetProduct retrieves an active product by ID.
	GetProduct(ctx context.Context, id string) (Product, error)

	// ListProducts returns all active products.
	ListProducts(ctx context.Context) ([]Product, error)

	// CreateProduct creates a new product.
	CreateProduct(ctx context.Context, product Product) error

	// UpdateProduct updates an existing product.
	UpdateProduct(ctx context.Context, product Product) error

	// DeleteProduct soft-deletes a product (sets active = false).
	DeleteProduct(ctx context.Context, id string) error

	// Close closes any open connections.
	Close() error
}

// NewRepository creates a product repository based on config with optional caching.
func NewRepository(catalogCfg config.CatalogConfig, storageCfg config.StorageConfig) (Repository, error) {
	var underlying Repository
	var err error

	switch catalogCfg.Source {
	case "yaml":
		underlying = NewYAMLRepository(catalogCfg.Products)
	case "mongodb":
		if storageCfg.MongoDBURL == "" {
			return nil, errors.New("mongodb_url required when catalog source is 'mongodb'")
		}
		underlying, err = NewMongoDBRepository(storageCfg.MongoDBURL, storageCfg.MongoDBDatabase, "products")
		if err != nil {
			return nil, err
		}
	case "postgres":
		if storageCfg.PostgresURL == "" {
			return nil, errors.New("postgres_url required when catalog source is 'postgres'")
		}
		underlying, err = NewPostgresRepository(storageCfg.PostgresURL, storageCfg.PostgresPool)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("invalid catalog source: must be 'yaml', 'postgres', or 'mongodb'")
	}

	if ttl := catalogCfg.CacheTTL.Duration; ttl > 0 {
		return NewCachedRepository(underlying, ttl), nil
	}

	return underlying, nil
}
