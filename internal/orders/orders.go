package orders

import (
	"context"
	"errors"
	"time"

	"github.com/crbuilding/server/internal/config"
)

// StatusPaid is the only status this store records. Orders are created
// after signature verification, so there is no pending state to track.
const StatusPaid = "paid"

// Item is a purchased line item frozen at verification time.
type Item struct {
	ProductID string `json:"productId" bson:"productId"`
	Name      string `json:"name" bson:"name"`
	Price     int64  `json:"price" bson:"price"`
	Quantity  int64  `json:"quantity" bson:"quantity"`
}

// PaidOrder is a verified purchase. Amount is in whole rupees.
type PaidOrder struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"userId" bson:"userId"`
	Items          []Item    `json:"items" bson:"items"`
	Amount         int64     `json:"amount" bson:"amount"`
	Currency       string    `json:"currency" bson:"currency"`
	PaymentID      string    `json:"paymentId" bson:"paymentId"`
	GatewayOrderID string    `json:"orderId" bson:"orderId"`
	Status         string    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Repository persists paid orders. Records are insert-only.
type Repository interface {
	// Record persists a verified order.
	Record(ctx context.Context, order PaidOrder) error

	// List returns orders newest first. An empty userID returns every order.
	List(ctx context.Context, userID string) ([]PaidOrder, error)

	// Close closes any open connections.
	Close() error
}

// NewRepository creates an order repository for the configured backend.
func NewRepository(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Backend {
	case "mongodb":
		return NewMongoDBRepository(cfg.MongoDBURL, cfg.MongoDBDatabase, "orders")
	case "postgres":
		return NewPostgresRepository(cfg.PostgresURL, cfg.PostgresPool)
	default:
		return nil, errors.New("invalid storage backend: must be 'mongodb' or 'postgres'")
	}
}
