package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
storage:
  backend: mongodb
  mongodb_url: mongodb://localhost:27017
razorpay:
  key_id: rzp_test_key
  key_secret: secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":5000" {
		t.Errorf("expected default address :5000, got %s", cfg.Server.Address)
	}
	if cfg.Server.RoutePrefix != "/api" {
		t.Errorf("expected default route prefix /api, got %s", cfg.Server.RoutePrefix)
	}
	if cfg.Storage.MongoDBDatabase != "cr_building" {
		t.Errorf("expected default database cr_building, got %s", cfg.Storage.MongoDBDatabase)
	}
	if cfg.Razorpay.Currency != "INR" {
		t.Errorf("expected default currency INR, got %s", cfg.Razorpay.Currency)
	}
	if cfg.Catalog.Source != "mongodb" {
		t.Errorf("catalog source should follow storage backend, got %s", cfg.Catalog.Source)
	}
	if cfg.Identity.RegisterOTPTTL.Duration != 10*time.Minute {
		t.Errorf("expected 10m register OTP TTL, got %v", cfg.Identity.RegisterOTPTTL.Duration)
	}
	if cfg.Identity.LoginOTPTTL.Duration != 5*time.Minute {
		t.Errorf("expected 5m login OTP TTL, got %v", cfg.Identity.LoginOTPTTL.Duration)
	}
	if cfg.Identity.BcryptCost != 10 {
		t.Errorf("expected bcrypt cost 10, got %d", cfg.Identity.BcryptCost)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeTempConfig(t, `
server:
  address: ":8080"
  route_prefix: "store"
  read_timeout: 30s
storage:
  backend: postgres
  postgres_url: postgres://localhost/shop
razorpay:
  key_id: rzp_test_key
  key_secret: secret
  currency: USD
catalog:
  source: yaml
  products:
    p1:
      id: p1
      name: Portland Cement
      price: 450
      image: /images/cement.jpg
identity:
  bcrypt_cost: 12
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("expected address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Server.RoutePrefix != "/store" {
		t.Errorf("route prefix should gain leading slash, got %s", cfg.Server.RoutePrefix)
	}
	if cfg.Server.ReadTimeout.Duration != 30*time.Second {
		t.Errorf("expected 30s read timeout, got %v", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.Razorpay.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", cfg.Razorpay.Currency)
	}
	if cfg.Catalog.Source != "yaml" {
		t.Errorf("expected yaml catalog source, got %s", cfg.Catalog.Source)
	}
	p, ok := cfg.Catalog.Products["p1"]
	if !ok {
		t.Fatal("expected product p1 in catalog")
	}
	if p.Price != 450 {
		t.Errorf("expected price 450, got %d", p.Price)
	}
	if cfg.Identity.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.Identity.BcryptCost)
	}
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "missing mongodb url",
			yaml: `
storage:
  backend: mongodb
razorpay:
  key_id: k
  key_secret: s
`,
		},
		{
			name: "missing postgres url",
			yaml: `
storage:
  backend: postgres
razorpay:
  key_id: k
  key_secret: s
`,
		},
		{
			name: "unknown backend",
			yaml: `
storage:
  backend: dynamodb
razorpay:
  key_id: k
  key_secret: s
`,
		},
		{
			name: "missing razorpay credentials",
			yaml: `
storage:
  backend: mongodb
  mongodb_url: mongodb://localhost:27017
`,
		},
		{
			name: "bcrypt cost out of range",
			yaml: `
storage:
  backend: mongodb
  mongodb_url: mongodb://localhost:27017
razorpay:
  key_id: k
  key_secret: s
identity:
  bcrypt_cost: 99
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	path := writeTempConfig(t, `
server:
  idle_timeout: 90
storage:
  backend: mongodb
  mongodb_url: mongodb://localhost:27017
razorpay:
  key_id: k
  key_secret: s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.IdleTimeout.Duration != 90*time.Second {
		t.Errorf("bare numbers should parse as seconds, got %v", cfg.Server.IdleTimeout.Duration)
	}
}
