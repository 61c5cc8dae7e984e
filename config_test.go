package authcore

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := testConfig(t)
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	t.Run("missing private key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AccessToken.PrivateKey = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("malformed private key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AccessToken.PrivateKey = "not a key"
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("missing issuer", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AccessToken.Issuer = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("missing audience", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AccessToken.Audience = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("non-positive expiry", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AccessToken.ExpireTime = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("plain HTTP JWKS in production", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Production = true
		cfg.JWKS.AllowHTTP = true
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestConfigFromEnv(t *testing.T) {
	key := testPrivateKeyPEM(t)
	t.Setenv("AUTH_ACCESS_TOKEN_PRIVATE_KEY", key)
	t.Setenv("AUTH_ACCESS_TOKEN_ISSUER", "env-issuer")
	t.Setenv("AUTH_ACCESS_TOKEN_AUDIENCE", "env-audience")
	t.Setenv("AUTH_ACCESS_TOKEN_EXPIRE_TIME", "30m")
	t.Setenv("AUTH_JWKS_ROUTE", "true")
	t.Setenv("AUTH_METRICS_ENABLED", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}

	if cfg.AccessToken.Issuer != "env-issuer" {
		t.Errorf("issuer = %q", cfg.AccessToken.Issuer)
	}
	if cfg.AccessToken.ExpireTime != 30*time.Minute {
		t.Errorf("expire time = %v", cfg.AccessToken.ExpireTime)
	}
	if !cfg.JWKSRoute {
		t.Error("expected JWKSRoute to be set")
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics to be enabled")
	}
	// Unset knobs keep the builder defaults.
	if cfg.JWKS.CacheTTL != 10*time.Hour {
		t.Errorf("JWKS cache TTL = %v", cfg.JWKS.CacheTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("env config failed validation: %v", err)
	}
}
