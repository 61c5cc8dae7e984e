package authcore

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	Production    bool   `env:"AUTH_PRODUCTION" envDefault:"false"`
	AuthServerURL string `env:"AUTH_SERVER_URL"`
	JWKSRoute     bool   `env:"AUTH_JWKS_ROUTE" envDefault:"false"`

	AccessPrivateKey string        `env:"AUTH_ACCESS_TOKEN_PRIVATE_KEY"`
	AccessPublicKey  string        `env:"AUTH_ACCESS_TOKEN_PUBLIC_KEY"`
	AccessIssuer     string        `env:"AUTH_ACCESS_TOKEN_ISSUER"`
	AccessAudience   string        `env:"AUTH_ACCESS_TOKEN_AUDIENCE"`
	AccessExpireTime time.Duration `env:"AUTH_ACCESS_TOKEN_EXPIRE_TIME" envDefault:"1h"`

	RefreshPrivateKey string `env:"AUTH_REFRESH_TOKEN_PRIVATE_KEY"`
	RefreshIssuer     string `env:"AUTH_REFRESH_TOKEN_ISSUER"`
	RefreshAudience   string `env:"AUTH_REFRESH_TOKEN_AUDIENCE"`

	JWKSAllowHTTP          bool          `env:"AUTH_JWKS_ALLOW_HTTP" envDefault:"false"`
	JWKSCacheTTL           time.Duration `env:"AUTH_JWKS_CACHE_TTL" envDefault:"10h"`
	JWKSMinRefreshInterval time.Duration `env:"AUTH_JWKS_MIN_REFRESH_INTERVAL" envDefault:"6s"`
	JWKSFetchTimeout       time.Duration `env:"AUTH_JWKS_FETCH_TIMEOUT" envDefault:"5s"`

	AuditEnabled    bool `env:"AUTH_AUDIT_ENABLED" envDefault:"false"`
	AuditBufferSize int  `env:"AUTH_AUDIT_BUFFER_SIZE" envDefault:"64"`
	AuditDropIfFull bool `env:"AUTH_AUDIT_DROP_IF_FULL" envDefault:"true"`

	MetricsEnabled bool `env:"AUTH_METRICS_ENABLED" envDefault:"false"`
}

// ConfigFromEnv loads configuration from AUTH_* environment variables,
// filling unset fields with the same defaults [New] starts from.
func ConfigFromEnv() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse auth config: %w", err)
	}

	cfg := defaultConfig()
	cfg.Production = raw.Production
	cfg.AuthServerURL = raw.AuthServerURL
	cfg.JWKSRoute = raw.JWKSRoute
	cfg.AccessToken = AccessTokenConfig{
		PrivateKey: raw.AccessPrivateKey,
		PublicKey:  raw.AccessPublicKey,
		Issuer:     raw.AccessIssuer,
		Audience:   raw.AccessAudience,
		ExpireTime: raw.AccessExpireTime,
	}
	cfg.RefreshToken = RefreshTokenConfig{
		PrivateKey: raw.RefreshPrivateKey,
		Issuer:     raw.RefreshIssuer,
		Audience:   raw.RefreshAudience,
	}
	cfg.JWKS = JWKSConfig{
		AllowHTTP:          raw.JWKSAllowHTTP,
		CacheTTL:           raw.JWKSCacheTTL,
		MinRefreshInterval: raw.JWKSMinRefreshInterval,
		FetchTimeout:       raw.JWKSFetchTimeout,
	}
	cfg.Audit = AuditConfig{
		Enabled:    raw.AuditEnabled,
		BufferSize: raw.AuditBufferSize,
		DropIfFull: raw.AuditDropIfFull,
	}
	cfg.Metrics = MetricsConfig{Enabled: raw.MetricsEnabled}

	return cfg, nil
}
