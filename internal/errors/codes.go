package errors

// ErrorCode represents a machine-readable error identifier for frontend error handling.
type ErrorCode string

// Request validation errors.
const (
	ErrCodeMissingField  ErrorCode = "missing_field"
	ErrCodeInvalidField  ErrorCode = "invalid_field"
	ErrCodeInvalidAmount ErrorCode = "invalid_amount"
	ErrCodeEmptyCart     ErrorCode = "empty_cart"
)

// Resource errors.
const (
	ErrCodeProductNotFound ErrorCode = "product_not_found"
	ErrCodeOrderNotFound   ErrorCode = "order_not_found"
	ErrCodeUserNotFound    ErrorCode = "user_not_found"
)

// Identity errors.
const (
	// A verified account already exists for the email. Kept at 400 rather than
	// 409 because the storefront frontend branches on the status code.
	ErrCodeUserExists ErrorCode = "user_exists"

	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	ErrCodeNotVerified        ErrorCode = "account_not_verified"

	// Expired or already-consumed verification code or link token.
	ErrCodeInvalidOrExpiredCode ErrorCode = "invalid_or_expired_code"
	// Same failure surfaced by the registration OTP endpoint, which
	// historically returns 401 instead of 400.
	ErrCodeInvalidOTP ErrorCode = "invalid_otp"
)

// Payment integrity errors.
const (
	ErrCodeSignatureMismatch ErrorCode = "signature_mismatch"
)

// External service errors.
const (
	ErrCodeGatewayError ErrorCode = "gateway_error"
	ErrCodeMailError    ErrorCode = "mail_error"
)

// Internal/system errors.
const (
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeDatabaseError ErrorCode = "database_error"
)

// IsRetryable returns whether an error code represents a retryable error.
// Retryable errors are transient downstream issues, not validation failures.
func (e ErrorCode) IsRetryable() bool {
	switch e {
	case ErrCodeGatewayError,
		ErrCodeMailError,
		ErrCodeDatabaseError:
		return true
	default:
		return false
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	// 400 Bad Request - client validation and integrity failures
	case ErrCodeMissingField,
		ErrCodeInvalidField,
		ErrCodeInvalidAmount,
		ErrCodeEmptyCart,
		ErrCodeUserExists,
		ErrCodeInvalidOrExpiredCode,
		ErrCodeSignatureMismatch:
		return 400

	// 401 Unauthorized - credential or code failures
	case ErrCodeInvalidCredentials,
		ErrCodeInvalidOTP:
		return 401

	// 403 Forbidden - account exists but has not completed verification
	case ErrCodeNotVerified:
		return 403

	// 404 Not Found
	case ErrCodeProductNotFound,
		ErrCodeOrderNotFound,
		ErrCodeUserNotFound:
		return 404

	// 500 Internal Server Error - downstream and system failures.
	// Gateway failures surface as 500, matching the public API contract.
	default:
		return 500
	}
}
