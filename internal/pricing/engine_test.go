package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/crbuilding/server/internal/catalog"
	"github.com/crbuilding/server/internal/config"
)

func testEngine() *Engine {
	repo := catalog.NewYAMLRepository(map[string]config.CatalogProduct{
		"1": {ID: "1", Name: "Portland Cement", Price: 450},
		"2": {ID: "2", Name: "Red Bricks", Price: 8},
	})
	return NewEngine(repo)
}

func TestPriceComputesTotalFromCatalog(t *testing.T) {
	engine := testEngine()

	quote, err := engine.Price(context.Background(), []CartLine{
		{ProductID: "1", Quantity: 2},
		{ProductID: "2", Quantity: 100},
	})
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}

	if quote.Total != 2*450+100*8 {
		t.Errorf("expected total %d, got %d", 2*450+100*8, quote.Total)
	}
	if len(quote.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(quote.Items))
	}
	if quote.Items[0].Name != "Portland Cement" || quote.Items[0].Price != 450 {
		t.Errorf("line items must carry catalog name and price: %+v", quote.Items[0])
	}
}

func TestPriceDefaultsQuantityToOne(t *testing.T) {
	engine := testEngine()

	cases := []int64{0, -1, -100}
	for _, qty := range cases {
		quote, err := engine.Price(context.Background(), []CartLine{{ProductID: "1", Quantity: qty}})
		if err != nil {
			t.Fatalf("Price(qty=%d) returned error: %v", qty, err)
		}
		if quote.Total != 450 {
			t.Errorf("qty=%d: expected total 450, got %d", qty, quote.Total)
		}
		if quote.Items[0].Quantity != 1 {
			t.Errorf("qty=%d: expected quantity coerced to 1, got %d", qty, quote.Items[0].Quantity)
		}
	}
}

func TestPriceEmptyCart(t *testing.T) {
	engine := testEngine()

	if _, err := engine.Price(context.Background(), nil); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := engine.Price(context.Background(), []CartLine{}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart for empty slice, got %v", err)
	}
}

func TestPriceUnknownProduct(t *testing.T) {
	engine := testEngine()

	_, err := engine.Price(context.Background(), []CartLine{
		{ProductID: "1", Quantity: 1},
		{ProductID: "999", Quantity: 1},
	})

	var unknownErr *UnknownProductError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownProductError, got %v", err)
	}
	if unknownErr.ProductID != "999" {
		t.Errorf("expected offending product 999, got %s", unknownErr.ProductID)
	}
	if !errors.Is(err, catalog.ErrProductNotFound) {
		t.Error("UnknownProductError should unwrap to ErrProductNotFound")
	}
}

func TestPriceIgnoresClientPrices(t *testing.T) {
	// CartLine has no price field at all; this test pins that the quote total
	// is derived purely from the catalog regardless of what the client sends
	// in extra JSON fields (which decodeJSON rejects upstream anyway).
	engine := testEngine()

	quote, err := engine.Price(context.Background(), []CartLine{{ProductID: "2", Quantity: 5}})
	if err != nil {
		t.Fatalf("Price returned error: %v", err)
	}
	if quote.Total != 40 {
		t.Errorf("expected catalog-derived total 40, got %d", quote.Total)
	}
}
