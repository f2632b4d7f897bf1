package config

import (
	"database/sql"
	"fmt"
	"strings"
)

// finalize fills derived defaults and validates the assembled configuration.
func (c *Config) finalize() error {
	if c.Server.RoutePrefix == "" {
		c.Server.RoutePrefix = "/api"
	}
	if !strings.HasPrefix(c.Server.RoutePrefix, "/") {
		c.Server.RoutePrefix = "/" + c.Server.RoutePrefix
	}
	c.Server.RoutePrefix = strings.TrimSuffix(c.Server.RoutePrefix, "/")
	if c.Server.RoutePrefix == "" {
		c.Server.RoutePrefix = "/api"
	}

	if c.Razorpay.Currency == "" {
		c.Razorpay.Currency = "INR"
	}

	// Catalog storage follows the shared backend unless explicitly pinned.
	if c.Catalog.Source == "" {
		c.Catalog.Source = c.Storage.Backend
	}

	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}

	return c.validate()
}

// validate checks cross-field constraints that would otherwise surface as
// confusing runtime failures.
func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "mongodb":
		if c.Storage.MongoDBURL == "" {
			return fmt.Errorf("storage.mongodb_url is required when backend is mongodb")
		}
		if c.Storage.MongoDBDatabase == "" {
			return fmt.Errorf("storage.mongodb_database is required when backend is mongodb")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required when backend is postgres")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s (must be mongodb or postgres)", c.Storage.Backend)
	}

	switch c.Catalog.Source {
	case "mongodb", "postgres", "yaml":
	default:
		return fmt.Errorf("unsupported catalog source: %s (must be mongodb, postgres or yaml)", c.Catalog.Source)
	}

	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		return fmt.Errorf("razorpay.key_id and razorpay.key_secret are required")
	}

	if c.Identity.BcryptCost < 4 || c.Identity.BcryptCost > 31 {
		return fmt.Errorf("identity.bcrypt_cost must be between 4 and 31, got %d", c.Identity.BcryptCost)
	}

	if c.Identity.RegisterOTPTTL.Duration <= 0 {
		return fmt.Errorf("identity.register_otp_ttl must be positive")
	}
	if c.Identity.LoginOTPTTL.Duration <= 0 {
		return fmt.Errorf("identity.login_otp_ttl must be positive")
	}
	if c.Identity.VerifyTokenTTL.Duration <= 0 {
		return fmt.Errorf("identity.verify_token_ttl must be positive")
	}

	return nil
}

// ApplyPostgresPoolSettings tunes the given database handle from pool config.
func ApplyPostgresPoolSettings(db *sql.DB, pool PostgresPoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime.Duration > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime.Duration)
	}
}
