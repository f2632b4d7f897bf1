package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides layers environment variables over file/default values.
// CRB_* variables take precedence; a handful of legacy names (MONGODB_URI,
// RAZORPAY_KEY, EMAIL, ...) are honored for deployments migrated from the
// previous stack.
func applyEnvOverrides(cfg *Config) {
	// Server
	setString(&cfg.Server.Address, "CRB_SERVER_ADDRESS")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CRB_SERVER_ADDRESS") == "" {
		cfg.Server.Address = ":" + port
	}
	setDuration(&cfg.Server.ReadTimeout, "CRB_SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "CRB_SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.IdleTimeout, "CRB_SERVER_IDLE_TIMEOUT")
	setString(&cfg.Server.RoutePrefix, "CRB_SERVER_ROUTE_PREFIX")
	setString(&cfg.Server.AdminMetricsAPIKey, "CRB_ADMIN_METRICS_API_KEY")
	if origins := os.Getenv("CRB_SERVER_CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.CORSAllowedOrigins = splitAndTrim(origins)
	}

	// Logging
	setString(&cfg.Logging.Level, "CRB_LOG_LEVEL")
	setString(&cfg.Logging.Format, "CRB_LOG_FORMAT")
	setString(&cfg.Logging.Environment, "CRB_ENVIRONMENT")

	// Storage
	setString(&cfg.Storage.Backend, "CRB_STORAGE_BACKEND")
	setString(&cfg.Storage.MongoDBURL, "CRB_MONGODB_URL", "MONGODB_URI")
	setString(&cfg.Storage.MongoDBDatabase, "CRB_MONGODB_DATABASE")
	setString(&cfg.Storage.PostgresURL, "CRB_POSTGRES_URL", "DATABASE_URL")

	// Catalog
	setString(&cfg.Catalog.Source, "CRB_CATALOG_SOURCE")
	setDuration(&cfg.Catalog.CacheTTL, "CRB_CATALOG_CACHE_TTL")

	// Razorpay
	setString(&cfg.Razorpay.KeyID, "CRB_RAZORPAY_KEY_ID", "RAZORPAY_KEY")
	setString(&cfg.Razorpay.KeySecret, "CRB_RAZORPAY_KEY_SECRET", "RAZORPAY_SECRET")
	setString(&cfg.Razorpay.Currency, "CRB_RAZORPAY_CURRENCY")

	// Mail
	setString(&cfg.Mail.SMTPHost, "CRB_MAIL_SMTP_HOST")
	setInt(&cfg.Mail.SMTPPort, "CRB_MAIL_SMTP_PORT")
	setString(&cfg.Mail.Username, "CRB_MAIL_USERNAME", "EMAIL")
	setString(&cfg.Mail.Password, "CRB_MAIL_PASSWORD", "EMAIL_PASS")
	setString(&cfg.Mail.From, "CRB_MAIL_FROM")
	setString(&cfg.Mail.VerifyBaseURL, "CRB_MAIL_VERIFY_BASE_URL")

	// Identity
	setDuration(&cfg.Identity.RegisterOTPTTL, "CRB_IDENTITY_REGISTER_OTP_TTL")
	setDuration(&cfg.Identity.LoginOTPTTL, "CRB_IDENTITY_LOGIN_OTP_TTL")
	setDuration(&cfg.Identity.VerifyTokenTTL, "CRB_IDENTITY_VERIFY_TOKEN_TTL")
	setInt(&cfg.Identity.BcryptCost, "CRB_IDENTITY_BCRYPT_COST")

	// Chatbot
	setString(&cfg.Chatbot.FallbackPhone, "CRB_CHATBOT_FALLBACK_PHONE")

	// Rate limiting
	setBool(&cfg.RateLimit.GlobalEnabled, "CRB_RATE_LIMIT_GLOBAL_ENABLED")
	setInt(&cfg.RateLimit.GlobalLimit, "CRB_RATE_LIMIT_GLOBAL_LIMIT")
	setBool(&cfg.RateLimit.PerAccountEnabled, "CRB_RATE_LIMIT_PER_ACCOUNT_ENABLED")
	setInt(&cfg.RateLimit.PerAccountLimit, "CRB_RATE_LIMIT_PER_ACCOUNT_LIMIT")
	setBool(&cfg.RateLimit.PerIPEnabled, "CRB_RATE_LIMIT_PER_IP_ENABLED")
	setInt(&cfg.RateLimit.PerIPLimit, "CRB_RATE_LIMIT_PER_IP_LIMIT")

	// Circuit breaker
	setBool(&cfg.CircuitBreaker.Enabled, "CRB_CIRCUIT_BREAKER_ENABLED")
}

// setString assigns the first non-empty environment variable from keys.
func setString(dst *string, keys ...string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			dst.Duration = parsed
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
