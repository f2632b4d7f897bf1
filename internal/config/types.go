package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration to support string based YAML decoding.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration values expressed as Go-style strings or numbers interpreted as seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		raw := strings.TrimSpace(value.Value)
		if raw == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(raw)
		if err == nil {
			d.Duration = parsed
			return nil
		}
		secs, convErr := time.ParseDuration(fmt.Sprintf("%ss", raw))
		if convErr == nil {
			d.Duration = secs
			return nil
		}
		return fmt.Errorf("invalid duration value %q: %w", raw, err)
	default:
		return fmt.Errorf("unsupported duration node kind: %v", value.Kind)
	}
}

// MarshalYAML renders the duration as a string to keep config edits human-friendly.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds application level configuration aggregated from file and environment variables.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Logging        LoggingConfig        `yaml:"logging"`
	Storage        StorageConfig        `yaml:"storage"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Razorpay       RazorpayConfig       `yaml:"razorpay"`
	Mail           MailConfig           `yaml:"mail"`
	Identity       IdentityConfig       `yaml:"identity"`
	Chatbot        ChatbotConfig        `yaml:"chatbot"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address            string   `yaml:"address"`
	ReadTimeout        Duration `yaml:"read_timeout"`
	WriteTimeout       Duration `yaml:"write_timeout"`
	IdleTimeout        Duration `yaml:"idle_timeout"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	RoutePrefix        string   `yaml:"route_prefix"`          // Prefix for storefront routes (default "/api")
	AdminMetricsAPIKey string   `yaml:"admin_metrics_api_key"` // Optional API key protecting /metrics
}

// LoggingConfig holds structured logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Format      string `yaml:"format"`      // json, console
	Environment string `yaml:"environment"` // production, staging, development
}

// StorageConfig selects the persistence backend shared by catalog, orders and users.
type StorageConfig struct {
	Backend         string             `yaml:"backend"` // mongodb | postgres
	MongoDBURL      string             `yaml:"mongodb_url"`
	MongoDBDatabase string             `yaml:"mongodb_database"`
	PostgresURL     string             `yaml:"postgres_url"`
	PostgresPool    PostgresPoolConfig `yaml:"postgres_pool"`
}

// PostgresPoolConfig holds PostgreSQL connection pool settings.
type PostgresPoolConfig struct {
	MaxOpenConns    int      `yaml:"max_open_conns"`
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	ConnMaxLifetime Duration `yaml:"conn_max_lifetime"`
}

// CatalogConfig holds product catalog configuration.
type CatalogConfig struct {
	Source   string                    `yaml:"source"`    // mongodb | postgres | yaml
	CacheTTL Duration                  `yaml:"cache_ttl"` // How long to cache the product list (0 = no cache)
	Products map[string]CatalogProduct `yaml:"products"`  // Only used when Source = "yaml"
}

// CatalogProduct defines a single sellable item for the YAML catalog source.
// Prices are whole rupees; the gateway conversion to paise happens at checkout.
type CatalogProduct struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
	Image string `yaml:"image"`
}

// RazorpayConfig holds payment gateway credentials.
type RazorpayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
	Currency  string `yaml:"currency"` // default INR
}

// MailConfig holds outbound SMTP configuration for verification mail.
type MailConfig struct {
	SMTPHost      string `yaml:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	From          string `yaml:"from"`
	VerifyBaseURL string `yaml:"verify_base_url"` // Base URL embedded in verification links
}

// IdentityConfig holds registration/verification/login policy.
type IdentityConfig struct {
	RegisterOTPTTL Duration `yaml:"register_otp_ttl"` // default 10m
	LoginOTPTTL    Duration `yaml:"login_otp_ttl"`    // default 5m
	VerifyTokenTTL Duration `yaml:"verify_token_ttl"` // default 24h
	BcryptCost     int      `yaml:"bcrypt_cost"`      // default 10
}

// ChatbotConfig holds support-widget settings.
type ChatbotConfig struct {
	FallbackPhone string `yaml:"fallback_phone"` // Phone number shown in the degraded apology reply
}

// RateLimitConfig holds request rate limiting configuration.
type RateLimitConfig struct {
	GlobalEnabled     bool     `yaml:"global_enabled"`
	GlobalLimit       int      `yaml:"global_limit"`
	GlobalWindow      Duration `yaml:"global_window"`
	PerAccountEnabled bool     `yaml:"per_account_enabled"`
	PerAccountLimit   int      `yaml:"per_account_limit"`
	PerAccountWindow  Duration `yaml:"per_account_window"`
	PerIPEnabled      bool     `yaml:"per_ip_enabled"`
	PerIPLimit        int      `yaml:"per_ip_limit"`
	PerIPWindow       Duration `yaml:"per_ip_window"`
}

// CircuitBreakerConfig holds breaker settings for external services.
type CircuitBreakerConfig struct {
	Enabled bool                 `yaml:"enabled"`
	Gateway BreakerServiceConfig `yaml:"gateway"`
	Mail    BreakerServiceConfig `yaml:"mail"`
}

// BreakerServiceConfig configures a single circuit breaker.
type BreakerServiceConfig struct {
	MaxRequests         uint32   `yaml:"max_requests"`
	Interval            Duration `yaml:"interval"`
	Timeout             Duration `yaml:"timeout"`
	ConsecutiveFailures uint32   `yaml:"consecutive_failures"`
	FailureRatio        float64  `yaml:"failure_ratio"`
	MinRequests         uint32   `yaml:"min_requests"`
}
