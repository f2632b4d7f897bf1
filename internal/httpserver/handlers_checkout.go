package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/crbuilding/server/internal/errors"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/internal/orders"
	"github.com/crbuilding/server/internal/pricing"
	"github.com/crbuilding/server/internal/razorpay"
	"github.com/crbuilding/server/pkg/responders"
)

// createOrderRequest is the checkout start payload. Prices are never part of
// it; the cart carries only product references and quantities.
type createOrderRequest struct {
	Items  []pricing.CartLine `json:"items"`
	UserID string             `json:"userId"`
}

// createOrderResponse mirrors what the checkout widget needs to open the
// gateway dialog. Amount is in minor units as the gateway reports it.
type createOrderResponse struct {
	ID       string             `json:"id"`
	Amount   int64              `json:"amount"`
	Currency string             `json:"currency"`
	Products []pricing.LineItem `json:"products"`
	UserID   string             `json:"userId"`
	KeyID    string             `json:"keyId,omitempty"`
}

// createOrder prices the cart server-side and registers a pending order with
// the payment gateway. Nothing is persisted locally at this stage.
func (h *handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}

	if len(req.Items) == 0 {
		h.metrics.ObserveCheckout("empty_cart", 0)
		apierrors.WriteSimpleError(w, apierrors.ErrCodeEmptyCart, "Cart empty")
		return
	}
	if req.UserID == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "User not authenticated")
		return
	}

	quote, err := h.pricing.Price(r.Context(), req.Items)
	if err != nil {
		var unknown *pricing.UnknownProductError
		if errors.As(err, &unknown) {
			h.metrics.ObserveCheckout("unknown_product", len(req.Items))
			apierrors.WriteErrorWithDetail(w, apierrors.ErrCodeProductNotFound,
				"Product not found: "+unknown.ProductID, "productId", unknown.ProductID)
			return
		}
		log.Error().Err(err).Msg("checkout.price.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeDatabaseError, "failed to price cart")
		return
	}

	order, err := h.gateway.CreateOrder(r.Context(), quote.Total)
	if err != nil {
		h.metrics.ObserveCheckout("gateway_error", len(req.Items))
		log.Error().Err(err).Int64("total", quote.Total).Msg("checkout.create_order.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeGatewayError, "Order creation failed")
		return
	}

	h.metrics.ObserveCheckout("success", len(req.Items))
	log.Info().
		Str("gateway_order_id", order.ID).
		Int64("total", quote.Total).
		Int("items", len(quote.Items)).
		Msg("checkout.create_order.success")

	responders.JSON(w, http.StatusOK, createOrderResponse{
		ID:       order.ID,
		Amount:   order.AmountMinor,
		Currency: order.Currency,
		Products: quote.Items,
		UserID:   req.UserID,
		KeyID:    h.gateway.KeyID(),
	})
}

// verifyPaymentRequest is the gateway callback payload relayed by the client.
// Amount arrives in minor units.
type verifyPaymentRequest struct {
	RazorpayOrderID   string        `json:"razorpay_order_id"`
	RazorpayPaymentID string        `json:"razorpay_payment_id"`
	RazorpaySignature string        `json:"razorpay_signature"`
	UserID            string        `json:"userId"`
	Items             []orders.Item `json:"items"`
	Amount            int64         `json:"amount"`
}

// verifyPayment checks the gateway signature and persists the paid order.
// The order is written if and only if the signature verifies.
func (h *handlers) verifyPayment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req verifyPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}

	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "missing payment verification fields")
		return
	}

	if err := h.gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		h.metrics.ObservePaymentVerification(false, 0)
		log.Warn().
			Str("gateway_order_id", req.RazorpayOrderID).
			Str("payment_id", req.RazorpayPaymentID).
			Msg("checkout.verify.signature_mismatch")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeSignatureMismatch, "Invalid signature")
		return
	}

	amountMajor := razorpay.FromMinorUnits(req.Amount)

	// The client-reported amount is not re-validated against the priced
	// order; it is recorded as-is and logged for reconciliation.
	log.Info().
		Str("gateway_order_id", req.RazorpayOrderID).
		Int64("amount_minor", req.Amount).
		Int64("amount", amountMajor).
		Msg("checkout.verify.amount_accepted")

	order := orders.PaidOrder{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Items:          req.Items,
		Amount:         amountMajor,
		Currency:       h.gateway.Currency(),
		PaymentID:      req.RazorpayPaymentID,
		GatewayOrderID: req.RazorpayOrderID,
		Status:         orders.StatusPaid,
		CreatedAt:      time.Now(),
	}

	if err := h.orders.Record(r.Context(), order); err != nil {
		log.Error().Err(err).
			Str("payment_id", req.RazorpayPaymentID).
			Msg("checkout.verify.persist_failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeDatabaseError, "Payment verification failed")
		return
	}

	h.metrics.ObservePaymentVerification(true, amountMajor)
	h.metrics.ObserveOrderRecorded()
	log.Info().
		Str("order_id", order.ID).
		Str("payment_id", req.RazorpayPaymentID).
		Msg("checkout.verify.success")

	responders.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment verified and order saved",
	})
}
