package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/crbuilding/server/internal/catalog"
)

// ErrEmptyCart is returned when a quote is requested for no items.
var ErrEmptyCart = errors.New("cart is empty")

// UnknownProductError reports a cart line referencing a product that does not
// exist in the catalog. It unwraps to catalog.ErrProductNotFound.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product in cart: %s", e.ProductID)
}

func (e *UnknownProductError) Unwrap() error {
	return catalog.ErrProductNotFound
}

// CartLine is a single entry in a client-submitted cart. Only the product ID
// and quantity are trusted; prices always come from the catalog.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// LineItem is a priced cart line as recorded on orders.
type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// Quote is the server-side priced cart.
type Quote struct {
	Items []LineItem `json:"items"`
	Total int64      `json:"total"`
}

// Engine prices carts against the catalog.
type Engine struct {
	catalog catalog.Repository
}

// NewEngine creates a pricing engine backed by the given catalog.
func NewEngine(repo catalog.Repository) *Engine {
	return &Engine{catalog: repo}
}

// Price resolves each cart line against the catalog and computes the total.
// Quantities of zero or less are treated as one, matching the storefront
// widget which omits the field for single-item purchases.
func (e *Engine) Price(ctx context.Context, lines []CartLine) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, ErrEmptyCart
	}

	quote := Quote{Items: make([]LineItem, 0, len(lines))}
	for _, line := range lines {
		product, err := e.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return Quote{}, &UnknownProductError{ProductID: line.ProductID}
			}
			return Quote{}, fmt.Errorf("price cart line %s: %w", line.ProductID, err)
		}

		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}

		quote.Items = append(quote.Items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  qty,
		})
		quote.Total += product.Price * qty
	}

	return quote, nil
}
