package authcore

import (
	"context"
	"strings"
	"testing"

	"github.com/authcore-dev/authcore/jwt"
)

func TestBuildComputesModuleKind(t *testing.T) {
	cases := []struct {
		name         string
		verification bool
		refresh      bool
		want         ModuleKind
	}{
		{"basic", false, false, KindBasic},
		{"with validation", true, false, KindWithValidation},
		{"with refresh", false, true, KindWithRefresh},
		{"full", true, true, KindFull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder := New().WithConfig(testConfig(t)).WithUserModel(newMockUsers())
			if tc.verification {
				builder = builder.WithEmailVerification(newMockVerificationTokens(), (&emailRecorder{}).send)
			}
			if tc.refresh {
				builder = builder.WithRefreshTokens(newMockRefreshTokens())
			}

			module, err := builder.Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			defer module.Engine().Close()

			if module.Kind() != tc.want {
				t.Errorf("Kind = %v, want %v", module.Kind(), tc.want)
			}
			if module.HasEmailVerification() != tc.verification {
				t.Errorf("HasEmailVerification = %v, want %v", module.HasEmailVerification(), tc.verification)
			}
			if module.HasRefreshTokens() != tc.refresh {
				t.Errorf("HasRefreshTokens = %v, want %v", module.HasRefreshTokens(), tc.refresh)
			}
		})
	}
}

func TestBuildRequiresUserModel(t *testing.T) {
	_, err := New().WithConfig(testConfig(t)).Build()
	if err == nil {
		t.Fatal("expected Build to fail without a user model")
	}
}

func TestBuildRejectsPartialEmailVerification(t *testing.T) {
	builder := New().WithConfig(testConfig(t)).WithUserModel(newMockUsers())
	builder.verificationTokens = newMockVerificationTokens()

	_, err := builder.Build()
	if err == nil {
		t.Fatal("expected Build to fail with a token model but no sender")
	}
	if !strings.Contains(err.Error(), "email verification") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildRejectsSecondUse(t *testing.T) {
	builder := New().WithConfig(testConfig(t)).WithUserModel(newMockUsers())

	module, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Engine().Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildDerivesKeyIDFromPublicKey(t *testing.T) {
	module, err := New().WithConfig(testConfig(t)).WithUserModel(newMockUsers()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Engine().Close()

	if len(module.KeyID()) != 32 {
		t.Errorf("key ID %q is not a 32-char hex fingerprint", module.KeyID())
	}
}

func TestBuildServesKeySetOnlyWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	module, err := New().WithConfig(cfg).WithUserModel(newMockUsers()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Engine().Close()
	if module.KeySet() != nil {
		t.Error("expected no key set without JWKSRoute")
	}

	cfg.JWKSRoute = true
	withRoute, err := New().WithConfig(cfg).WithUserModel(newMockUsers()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer withRoute.Engine().Close()
	if withRoute.KeySet() == nil {
		t.Error("expected a key set with JWKSRoute enabled")
	}
}

func TestNewAccessVerifierWithStaticKey(t *testing.T) {
	cfg := testConfig(t)
	users := newMockUsers(seedUser(t, "u1", "alice", "alice@example.com", "adf#jf3@#FD!"))
	module, err := New().WithConfig(cfg).WithUserModel(users).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Engine().Close()

	login, err := module.Engine().Login(context.Background(), "alice", "adf#jf3@#FD!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	publicPEM, err := jwt.PublicPEMFromPrivate(cfg.AccessToken.PrivateKey)
	if err != nil {
		t.Fatalf("PublicPEMFromPrivate failed: %v", err)
	}

	guardCfg := Config{}
	guardCfg.AccessToken.PublicKey = publicPEM
	guardCfg.AccessToken.Issuer = cfg.AccessToken.Issuer
	guardCfg.AccessToken.Audience = cfg.AccessToken.Audience

	verifier, err := NewAccessVerifier(guardCfg)
	if err != nil {
		t.Fatalf("NewAccessVerifier failed: %v", err)
	}
	claims, err := verifier.VerifyAccess(context.Background(), login.Token)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("subject = %q, want u1", claims.Subject)
	}
}

func TestNewAccessVerifierRejectsPlainHTTPInProduction(t *testing.T) {
	cfg := Config{Production: true, AuthServerURL: "http://auth.internal"}
	cfg.AccessToken.Issuer = "iss"
	cfg.AccessToken.Audience = "aud"
	cfg.JWKS.AllowHTTP = true

	if _, err := NewAccessVerifier(cfg); err == nil {
		t.Fatal("expected plain HTTP to be rejected in production")
	}
}
