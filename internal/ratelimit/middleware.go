package ratelimit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/crbuilding/server/internal/config"
	"github.com/crbuilding/server/internal/metrics"
)

// Config holds rate limiting configuration.
type Config struct {
	// Global rate limiting (across all users)
	GlobalEnabled bool
	GlobalLimit   int
	GlobalWindow  time.Duration

	// Per-account rate limiting (identified by user id)
	PerAccountEnabled bool
	PerAccountLimit   int
	PerAccountWindow  time.Duration

	// Per-IP rate limiting (fallback when no account is identified)
	PerIPEnabled bool
	PerIPLimit   int
	PerIPWindow  time.Duration

	// Metrics collector (optional)
	Metrics *metrics.Metrics
}

// FromAppConfig converts application config into limiter config.
func FromAppConfig(cfg config.RateLimitConfig, m *metrics.Metrics) Config {
	return Config{
		GlobalEnabled:     cfg.GlobalEnabled,
		GlobalLimit:       cfg.GlobalLimit,
		GlobalWindow:      cfg.GlobalWindow.Duration,
		PerAccountEnabled: cfg.PerAccountEnabled,
		PerAccountLimit:   cfg.PerAccountLimit,
		PerAccountWindow:  cfg.PerAccountWindow.Duration,
		PerIPEnabled:      cfg.PerIPEnabled,
		PerIPLimit:        cfg.PerIPLimit,
		PerIPWindow:       cfg.PerIPWindow.Duration,
		Metrics:           m,
	}
}

// rateLimitResponse is the JSON body returned on 429.
type rateLimitResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// limitHandler writes the standard 429 response and records the hit.
func limitHandler(limitType string, windowSeconds int, m *metrics.Metrics) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		m.ObserveRateLimit(limitType)

		var message string
		switch limitType {
		case "global":
			message = "Global rate limit exceeded. Please try again later."
		case "per_account":
			message = "Account rate limit exceeded. Please try again later."
		case "per_ip":
			message = "IP rate limit exceeded. Please try again later."
		default:
			message = "Rate limit exceeded. Please try again later."
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", fmt.Sprintf("%d", windowSeconds))
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(rateLimitResponse{
			Error:             "rate_limit_exceeded",
			Message:           message,
			RetryAfterSeconds: windowSeconds,
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

// GlobalLimiter creates a global rate limiter middleware.
func GlobalLimiter(cfg Config) func(http.Handler) http.Handler {
	if !cfg.GlobalEnabled {
		return passthrough
	}

	return httprate.Limit(
		cfg.GlobalLimit,
		cfg.GlobalWindow,
		httprate.WithKeyFuncs(func(*http.Request) (string, error) { return "global", nil }),
		httprate.WithLimitHandler(limitHandler("global", int(cfg.GlobalWindow.Seconds()), cfg.Metrics)),
	)
}

// AccountLimiter creates a per-account rate limiter middleware. Requests
// without an identifiable account fall back to per-IP keys.
func AccountLimiter(cfg Config) func(http.Handler) http.Handler {
	if !cfg.PerAccountEnabled {
		return passthrough
	}

	return httprate.Limit(
		cfg.PerAccountLimit,
		cfg.PerAccountWindow,
		httprate.WithKeyFuncs(accountKeyExtractor),
		httprate.WithLimitHandler(limitHandler("per_account", int(cfg.PerAccountWindow.Seconds()), cfg.Metrics)),
	)
}

// IPLimiter creates a per-IP rate limiter middleware (fallback).
func IPLimiter(cfg Config) func(http.Handler) http.Handler {
	if !cfg.PerIPEnabled {
		return passthrough
	}

	return httprate.Limit(
		cfg.PerIPLimit,
		cfg.PerIPWindow,
		httprate.WithKeyByIP(),
		httprate.WithLimitHandler(limitHandler("per_ip", int(cfg.PerIPWindow.Seconds()), cfg.Metrics)),
	)
}

// accountKeyExtractor keys requests by account when one is identified.
func accountKeyExtractor(r *http.Request) (string, error) {
	if userID := extractAccountFromRequest(r); userID != "" {
		return "account:" + userID, nil
	}
	return httprate.KeyByIP(r)
}

// extractAccountFromRequest pulls the client-supplied user identifier.
// Bodies are deliberately not parsed here; JSON decoding per request is too
// expensive for rate limiting.
func extractAccountFromRequest(r *http.Request) string {
	if userID := r.Header.Get("X-User-Id"); userID != "" {
		return userID
	}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		return userID
	}
	return ""
}
