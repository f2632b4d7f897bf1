package razorpay

import (
	"context"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/crbuilding/server/internal/circuitbreaker"
	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/metrics"
)

// minorUnitFactor converts rupees to paise. The gateway API only accepts
// amounts in the currency's smallest unit.
const minorUnitFactor = 100

// ErrGatewayUnavailable is returned when the gateway call fails or the
// circuit breaker is open.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Order is a gateway order as returned by the create call.
type Order struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

// Client wraps the Razorpay SDK with circuit breaking and metrics.
type Client struct {
	cfg      config.RazorpayConfig
	api      *razorpay.Client
	breakers *circuitbreaker.Manager
	metrics  *metrics.Metrics
}

// NewClient creates a gateway client. breakers and m may be nil, in which
// case calls execute directly and unmetered.
func NewClient(cfg config.RazorpayConfig, breakers *circuitbreaker.Manager, m *metrics.Metrics) *Client {
	return &Client{
		cfg:      cfg,
		api:      razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		breakers: breakers,
		metrics:  m,
	}
}

// KeyID returns the public key identifier clients need to open the
// checkout widget.
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

// Currency returns the configured settlement currency.
func (c *Client) Currency() string {
	return c.cfg.Currency
}

// CreateOrder registers a pending order with the gateway. totalMajor is in
// rupees; the API call carries paise.
func (c *Client) CreateOrder(ctx context.Context, totalMajor int64) (Order, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	data := map[string]interface{}{
		"amount":   ToMinorUnits(totalMajor),
		"currency": c.cfg.Currency,
		"receipt":  newReceipt(),
	}

	result, err := c.breakers.Execute(circuitbreaker.ServiceGateway, func() (interface{}, error) {
		return c.api.Order.Create(data, nil)
	})
	c.metrics.ObserveGatewayCall("create_order", time.Since(start))
	if err != nil {
		log.Error().Err(err).Int64("amount", totalMajor).Msg("razorpay.create_order.failed")
		return Order{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	body, ok := result.(map[string]interface{})
	if !ok {
		return Order{}, fmt.Errorf("%w: unexpected response shape", ErrGatewayUnavailable)
	}

	order := Order{
		ID:          stringField(body, "id"),
		AmountMinor: int64Field(body, "amount"),
		Currency:    stringField(body, "currency"),
		Receipt:     stringField(body, "receipt"),
	}
	if order.ID == "" {
		return Order{}, fmt.Errorf("%w: response missing order id", ErrGatewayUnavailable)
	}

	log.Info().
		Str("gateway_order_id", order.ID).
		Int64("amount_minor", order.AmountMinor).
		Str("currency", order.Currency).
		Msg("razorpay.create_order.success")

	return order, nil
}

// newReceipt builds a time-based receipt identifier matching the format the
// storefront has always used, so gateway dashboards stay consistent.
func newReceipt() string {
	return fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
}

// ToMinorUnits converts rupees to paise.
func ToMinorUnits(major int64) int64 {
	return major * minorUnitFactor
}

// FromMinorUnits converts paise to rupees, truncating sub-rupee remainders.
func FromMinorUnits(minor int64) int64 {
	return minor / minorUnitFactor
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// int64Field tolerates the number types the SDK's JSON decoding produces.
func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
