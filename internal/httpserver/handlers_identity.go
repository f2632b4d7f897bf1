package httpserver

import (
	"errors"
	"net/http"

	apierrors "github.com/crbuilding/server/internal/errors"
	"github.com/crbuilding/server/internal/identity"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/pkg/responders"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register creates an unverified account and dispatches the verification mail.
func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "name, email and password are required")
		return
	}

	err := h.identity.Register(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrUserExists):
		h.metrics.ObserveRegistration("duplicate")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeUserExists, "User already exists")
		return
	case err != nil:
		h.metrics.ObserveRegistration("error")
		log.Error().Err(err).Msg("identity.register.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "Registration failed")
		return
	}

	h.metrics.ObserveRegistration("success")
	responders.JSON(w, http.StatusOK, map[string]string{
		"message": "Registration successful. Check your email for the verification code.",
	})
}

// verifyEmail completes verification via the emailed link and sends the
// browser to the login page.
func (h *handlers) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")
	if token == "" || email == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "token and email are required")
		return
	}

	if err := h.identity.VerifyEmail(r.Context(), email, token); err != nil {
		if errors.Is(err, identity.ErrInvalidOrExpiredCode) {
			apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidOrExpiredCode, "Invalid or expired verification link")
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("identity.verify_email.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "Verification failed")
		return
	}

	http.Redirect(w, r, "/login.html", http.StatusFound)
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// verifyOTP exchanges a login OTP for the sanitized user payload.
func (h *handlers) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}
	if req.Email == "" || req.OTP == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "email and otp are required")
		return
	}

	user, err := h.identity.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidOrExpiredCode) {
			h.metrics.ObserveLogin("otp", "rejected")
			apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidOrExpiredCode, "Invalid or expired OTP")
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("identity.verify_otp.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "OTP verification failed")
		return
	}

	h.metrics.ObserveLogin("otp", "success")
	responders.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// verifyRegisterOTP completes signup verification via the emailed code.
func (h *handlers) verifyRegisterOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}
	if req.Email == "" || req.OTP == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "email and otp are required")
		return
	}

	if err := h.identity.VerifyRegisterOTP(r.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, identity.ErrInvalidOTP) {
			apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidOTP, "Invalid or expired OTP")
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("identity.verify_register_otp.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "OTP verification failed")
		return
	}

	responders.JSON(w, http.StatusOK, map[string]string{
		"message": "Email verified successfully! You can now log in.",
	})
}

type loginRequest struct {
	Email string `json:"email"`
}

// login starts the passwordless flow by mailing a short-lived OTP.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}
	if req.Email == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "email is required")
		return
	}

	err := h.identity.RequestLoginOTP(r.Context(), req.Email)
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		apierrors.WriteSimpleError(w, apierrors.ErrCodeUserNotFound, "User not found")
		return
	case errors.Is(err, identity.ErrNotVerified):
		apierrors.WriteSimpleError(w, apierrors.ErrCodeNotVerified, "Verify email first")
		return
	case err != nil:
		log.Error().Err(err).Msg("identity.login_otp.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "Failed to send OTP")
		return
	}

	responders.JSON(w, http.StatusOK, map[string]string{
		"message": "OTP sent to your email",
	})
}

type loginPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginPassword authenticates with email and password.
func (h *handlers) loginPassword(w http.ResponseWriter, r *http.Request) {
	var req loginPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "email and password are required")
		return
	}

	user, err := h.identity.LoginPassword(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrNotVerified):
		h.metrics.ObserveLogin("password", "unverified")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeNotVerified, "Please verify your email before logging in")
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		h.metrics.ObserveLogin("password", "rejected")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidCredentials, "Invalid email or password")
		return
	case err != nil:
		h.metrics.ObserveLogin("password", "error")
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("identity.login_password.failed")
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInternalError, "Login failed")
		return
	}

	h.metrics.ObserveLogin("password", "success")
	responders.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}
