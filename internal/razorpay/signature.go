package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrSignatureMismatch is returned when a payment signature fails verification.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

// SignPayload computes the hex HMAC-SHA256 the gateway attaches to completed
// payments. The signed payload is "<order_id>|<payment_id>".
func SignPayload(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks a client-reported payment signature against
// the key secret. Comparison is constant-time.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	expected := SignPayload(orderID, paymentID, c.cfg.KeySecret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
