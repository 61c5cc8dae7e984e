package authcore

import (
	"errors"
	"time"

	"github.com/authcore-dev/authcore/jwt"
)

// Config defines a public type used by authcore APIs. Instances are
// configured once before [Builder.Build] and treated as immutable
// afterwards.
type Config struct {
	// Production hardens runtime behavior; with it set, the JWKS resolver
	// refuses plain-HTTP endpoints regardless of [JWKSConfig.AllowHTTP].
	Production bool

	// AuthServerURL is the base URL of the token-issuing server. Guards
	// without a static public key resolve verification keys from
	// {AuthServerURL}/.well-known/jwks.json.
	AuthServerURL string

	// JWKSRoute controls whether the module exposes its own public key set
	// at /.well-known/jwks.json.
	JWKSRoute bool

	AccessToken  AccessTokenConfig
	RefreshToken RefreshTokenConfig
	JWKS         JWKSConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

// AccessTokenConfig holds the signing parameters for access tokens.
type AccessTokenConfig struct {
	// PrivateKey is the RS256 signing key in PEM form. Required.
	PrivateKey string
	// PublicKey is the verification key in PEM form. When empty it is
	// derived from PrivateKey at build time; when set explicitly, guards
	// verify against it statically instead of consulting a JWKS endpoint.
	PublicKey string
	Issuer    string
	Audience  string
	// ExpireTime bounds the access token lifetime.
	ExpireTime time.Duration
}

// RefreshTokenConfig holds the signing parameters for refresh tokens.
// Empty fields fall back to the access token configuration. Refresh tokens
// carry no expiry; revocation is their only lifecycle control.
type RefreshTokenConfig struct {
	PrivateKey string
	Issuer     string
	Audience   string
}

// JWKSConfig tunes the remote key resolver used by guards without a static
// public key.
type JWKSConfig struct {
	// AllowHTTP permits a plain-HTTP JWKS endpoint. It exists for local
	// development only and is rejected when Production is set.
	AllowHTTP bool
	// CacheTTL bounds how long fetched keys are served without a refresh.
	CacheTTL time.Duration
	// MinRefreshInterval is the floor between two JWKS fetches, guarding
	// the endpoint against a thundering herd of cold-cache verifications.
	MinRefreshInterval time.Duration
	// FetchTimeout bounds a single JWKS HTTP request.
	FetchTimeout time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking when the buffer is full.
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		AccessToken: AccessTokenConfig{
			ExpireTime: time.Hour,
		},
		JWKS: JWKSConfig{
			CacheTTL:           10 * time.Hour,
			MinRefreshInterval: 6 * time.Second,
			FetchTimeout:       5 * time.Second,
		},
		Audit: AuditConfig{
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

// Validate reports the first configuration problem, if any.
func (c Config) Validate() error {
	if c.AccessToken.PrivateKey == "" {
		return errors.New("access token private key required")
	}
	if _, err := jwt.ParsePrivateKeyPEM(c.AccessToken.PrivateKey); err != nil {
		return err
	}
	if c.AccessToken.PublicKey != "" {
		if _, err := jwt.ParsePublicKeyPEM(c.AccessToken.PublicKey); err != nil {
			return err
		}
	}
	if c.AccessToken.Issuer == "" {
		return errors.New("access token issuer required")
	}
	if c.AccessToken.Audience == "" {
		return errors.New("access token audience required")
	}
	if c.AccessToken.ExpireTime <= 0 {
		return errors.New("access token expire time must be positive")
	}
	if c.RefreshToken.PrivateKey != "" {
		if _, err := jwt.ParsePrivateKeyPEM(c.RefreshToken.PrivateKey); err != nil {
			return err
		}
	}
	if c.Production && c.JWKS.AllowHTTP {
		return errors.New("JWKS AllowHTTP must not be set in production")
	}
	return nil
}
