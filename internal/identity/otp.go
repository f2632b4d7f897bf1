package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// generateOTP returns a 6-digit one-time code in [100000, 999999].
// Codes never start with zero so they survive clients that strip leading
// zeros from numeric input fields.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// generateToken returns an unguessable verification token for email links.
func generateToken() string {
	return uuid.NewString()
}
