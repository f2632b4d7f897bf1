package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file path, applies environment
// variable overrides, then validates and finalizes the result. An empty path
// (or a missing file at the default path) falls back to built-in defaults so
// the server can run entirely from environment variables.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		if err := parseFile(path, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseFile decodes YAML from path into cfg, layering over defaults.
func parseFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// defaultConfig returns a config populated with sane defaults for local development.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:            ":5000",
			ReadTimeout:        Duration{15 * time.Second},
			WriteTimeout:       Duration{15 * time.Second},
			IdleTimeout:        Duration{60 * time.Second},
			CORSAllowedOrigins: []string{"*"},
			RoutePrefix:        "/api",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Environment: "development",
		},
		Storage: StorageConfig{
			Backend:         "mongodb",
			MongoDBDatabase: "cr_building",
			PostgresPool: PostgresPoolConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: Duration{5 * time.Minute},
			},
		},
		Catalog: CatalogConfig{
			CacheTTL: Duration{5 * time.Minute},
		},
		Razorpay: RazorpayConfig{
			Currency: "INR",
		},
		Identity: IdentityConfig{
			RegisterOTPTTL: Duration{10 * time.Minute},
			LoginOTPTTL:    Duration{5 * time.Minute},
			VerifyTokenTTL: Duration{24 * time.Hour},
			BcryptCost:     10,
		},
		Chatbot: ChatbotConfig{
			FallbackPhone: "+91 123 456 7890",
		},
		RateLimit: RateLimitConfig{
			GlobalEnabled:     true,
			GlobalLimit:       1000,
			GlobalWindow:      Duration{time.Minute},
			PerAccountEnabled: true,
			PerAccountLimit:   60,
			PerAccountWindow:  Duration{time.Minute},
			PerIPEnabled:      true,
			PerIPLimit:        120,
			PerIPWindow:       Duration{time.Minute},
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled: true,
			Gateway: BreakerServiceConfig{
				MaxRequests:         3,
				Interval:            Duration{time.Minute},
				Timeout:             Duration{30 * time.Second},
				ConsecutiveFailures: 5,
				FailureRatio:        0.6,
				MinRequests:         10,
			},
			Mail: BreakerServiceConfig{
				MaxRequests:         2,
				Interval:            Duration{time.Minute},
				Timeout:             Duration{time.Minute},
				ConsecutiveFailures: 3,
				FailureRatio:        0.5,
				MinRequests:         5,
			},
		},
	}
}
