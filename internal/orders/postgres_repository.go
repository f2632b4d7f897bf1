package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/crbuilding/server/internal/config"
)

// PostgresRepository implements Repository using PostgreSQL.
// Line items are stored as a JSONB column since they are written once and
// only ever read back whole.
type PostgresRepository struct {
	db     *sql.DB
	ownsDB bool
}

const (
	queryTimeoutWrite = 5 * time.Second
	queryTimeoutList  = 10 * time.Second
)

// NewPostgresRepository creates a PostgreSQL-backed order repository.
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

	return &PostgresRepository{db: db, ownsDB: true}, nil
}

// NewPostgresRepositoryWithDB creates a repository sharing an existing connection pool.
func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, ownsDB: false}
}

// Record persists a verified order.
func (r *PostgresRepository) Record(ctx context.Context, order PaidOrder) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeoutWrite)
	defer cancel()

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	const query = `
		INSERT INTO orders (id, user_id, items, amount, currency, payment_id, gateway_order_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.UserID, items, order.Amount, order.Currency,
		order.PaymentID, order.GatewayOrderID, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List returns orders newest first, for one user or all when userID is empty.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]PaidOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeoutList)
	defer cancel()

	// An empty userID matches every row via the NULLIF guard.
	const query = `
		SELECT id, user_id, items, amount, currency, payment_id, gateway_order_id, status, created_at
		FROM orders
		WHERE NULLIF($1, '') IS NULL OR user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var result []PaidOrder
	for rows.Next() {
		var order PaidOrder
		var items []byte
		if err := rows.Scan(&order.ID, &order.UserID, &items, &order.Amount, &order.Currency,
			&order.PaymentID, &order.GatewayOrderID, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return result, nil
}

// Close closes the connection pool if this repository owns it.
func (r *PostgresRepository) Close() error {
	if r.ownsDB {
		return r.db.Close()
	}
	return nil
}
