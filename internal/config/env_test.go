package config

import (
	"testing"
	"time"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRB_SERVER_ADDRESS", ":9999")
	t.Setenv("CRB_STORAGE_BACKEND", "postgres")
	t.Setenv("CRB_POSTGRES_URL", "postgres://env/shop")
	t.Setenv("CRB_RAZORPAY_KEY_ID", "rzp_env_key")
	t.Setenv("CRB_RAZORPAY_KEY_SECRET", "env_secret")
	t.Setenv("CRB_IDENTITY_LOGIN_OTP_TTL", "2m")
	t.Setenv("CRB_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9999" {
		t.Errorf("expected address :9999, got %s", cfg.Server.Address)
	}
	if cfg.Storage.Backend != "postgres" {
		t.Errorf("expected postgres backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.PostgresURL != "postgres://env/shop" {
		t.Errorf("expected env postgres url, got %s", cfg.Storage.PostgresURL)
	}
	if cfg.Razorpay.KeyID != "rzp_env_key" {
		t.Errorf("expected env razorpay key, got %s", cfg.Razorpay.KeyID)
	}
	if cfg.Identity.LoginOTPTTL.Duration != 2*time.Minute {
		t.Errorf("expected 2m login OTP TTL, got %v", cfg.Identity.LoginOTPTTL.Duration)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.Logging.Level)
	}
	if cfg.Catalog.Source != "postgres" {
		t.Errorf("catalog source should follow storage backend, got %s", cfg.Catalog.Source)
	}
}

func TestLegacyEnvNames(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://legacy:27017")
	t.Setenv("RAZORPAY_KEY", "rzp_legacy")
	t.Setenv("RAZORPAY_SECRET", "legacy_secret")
	t.Setenv("EMAIL", "shop@example.com")
	t.Setenv("EMAIL_PASS", "app-password")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Storage.MongoDBURL != "mongodb://legacy:27017" {
		t.Errorf("MONGODB_URI not honored, got %s", cfg.Storage.MongoDBURL)
	}
	if cfg.Razorpay.KeyID != "rzp_legacy" {
		t.Errorf("RAZORPAY_KEY not honored, got %s", cfg.Razorpay.KeyID)
	}
	if cfg.Mail.Username != "shop@example.com" {
		t.Errorf("EMAIL not honored, got %s", cfg.Mail.Username)
	}
	if cfg.Mail.From != "shop@example.com" {
		t.Errorf("mail.from should default to username, got %s", cfg.Mail.From)
	}
}

func TestCRBNamesTakePrecedenceOverLegacy(t *testing.T) {
	t.Setenv("CRB_MONGODB_URL", "mongodb://crb:27017")
	t.Setenv("MONGODB_URI", "mongodb://legacy:27017")
	t.Setenv("CRB_RAZORPAY_KEY_ID", "rzp_crb")
	t.Setenv("RAZORPAY_KEY", "rzp_legacy")
	t.Setenv("CRB_RAZORPAY_KEY_SECRET", "s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Storage.MongoDBURL != "mongodb://crb:27017" {
		t.Errorf("CRB_MONGODB_URL should win, got %s", cfg.Storage.MongoDBURL)
	}
	if cfg.Razorpay.KeyID != "rzp_crb" {
		t.Errorf("CRB_RAZORPAY_KEY_ID should win, got %s", cfg.Razorpay.KeyID)
	}
}
