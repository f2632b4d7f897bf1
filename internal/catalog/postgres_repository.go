package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/crbuilding/server/internal/config"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db        *sql.DB
	ownsDB    bool
	tableName string
}

const (
	queryTimeoutGet  = 5 * time.Second
	queryTimeoutList = 10 * time.Second

	maxIDLength = 255
)

// validateProductID rejects empty or oversized IDs before they hit the database.
func validateProductID(id string) error {
	if len(id) == 0 || len(id) > maxIDLength {
		return fmt.Errorf("invalid product ID length: must be between 1 and %d characters", maxIDLength)
	}
	return nil
}

// withQueryTimeout adds a timeout to the context if not already set.
func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// NewPostgresRepository creates a PostgreSQL-backed repository.
func NewPostgresRepository(connectionString string, poolConfig config.PostgresPoolConfig) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	config.ApplyPostgresPoolSettings(db, poolConfig)

	return &PostgresRepository{db: db, ownsDB: true, tableName: "products"}, nil
}

// NewPostgresRepositoryWithDB creates a repository sharing an existing connection pool.
func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, ownsDB: false, tableName: "products"}
}

// GetProduct retrieves an active product by ID.
func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	if err := validateProductID(id); err != nil {
		return Product{}, err
	}

	ctx, cancel := withQueryTimeout(ctx, queryTimeoutGet)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, name, price, image, active, created_at, updated_at
		FROM %s
		WHERE id = $1 AND active = true`, pq.QuoteIdentifier(r.tableName))

	var p Product
	var image sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &image, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product: %w", err)
	}
	p.Image = image.String

	return p, nil
}

// ListProducts returns all active products ordered by ID.
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]Product, error) {
	ctx, cancel := withQueryTimeout(ctx, queryTimeoutList)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, name, price, image, active, created_at, updated_at
		FROM %s
		WHERE active = true
		ORDER BY id`, pq.QuoteIdentifier(r.tableName))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var image sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &image, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Image = image.String
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// CreateProduct creates a new product.
func (r *PostgresRepository) CreateProduct(ctx context.Context, product Product) error {
	if err := validateProductID(product.ID); err != nil {
		return err
	}

	ctx, cancel := withQueryTimeout(ctx, queryTimeoutGet)
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, price, image, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, NOW(), NOW())`, pq.QuoteIdentifier(r.tableName))

	if _, err := r.db.ExecContext(ctx, query, product.ID, product.Name, product.Price, product.Image); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct updates an existing product.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, product Product) error {
	if err := validateProductID(product.ID); err != nil {
		return err
	}

	ctx, cancel := withQueryTimeout(ctx, queryTimeoutGet)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, price = $3, image = $4, updated_at = NOW()
		WHERE id = $1`, pq.QuoteIdentifier(r.tableName))

	result, err := r.db.ExecContext(ctx, query, product.ID, product.Name, product.Price, product.Image)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct soft-deletes a product.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) error {
	if err := validateProductID(id); err != nil {
		return err
	}

	ctx, cancel := withQueryTimeout(ctx, queryTimeoutGet)
	defer cancel()

	query := fmt.Sprintf(`
		UPDATE %s
		SET active = false, updated_at = NOW()
		WHERE id = $1`, pq.QuoteIdentifier(r.tableName))

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Close closes the connection pool if this repository owns it.
func (r *PostgresRepository) Close() error {
	if r.ownsDB {
		return r.db.Close()
	}
	return nil
}
