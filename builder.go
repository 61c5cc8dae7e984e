package authcore

import (
	"errors"
	"fmt"

	"github.com/authcore-dev/authcore/jwks"
	"github.com/authcore-dev/authcore/jwt"
)

// ModuleKind is the closed union of module shapes. Exactly one kind is
// computed at build time from the optional capabilities supplied to the
// [Builder]; transport adapters switch on it exhaustively instead of
// probing for nil fields at request time.
type ModuleKind uint8

const (
	// KindBasic is login + registration only.
	KindBasic ModuleKind = iota
	// KindWithValidation adds the email-verification controller.
	KindWithValidation
	// KindWithRefresh adds authorize/refresh/revoke controllers.
	KindWithRefresh
	// KindFull combines validation and refresh.
	KindFull
)

// String implements fmt.Stringer.
func (k ModuleKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindWithValidation:
		return "with-validation"
	case KindWithRefresh:
		return "with-refresh"
	case KindFull:
		return "full"
	default:
		return fmt.Sprintf("ModuleKind(%d)", uint8(k))
	}
}

// Module is the assembled auth core: the engine, the precomputed key
// identity, the access-token verifier for guards, and (optionally) the
// served key set. The kind is the single source of truth for which routes
// and resolvers exist.
type Module struct {
	kind     ModuleKind
	keyID    string
	engine   *Engine
	keySet   *jwks.KeySet
	verifier AccessVerifier
	users    UserModel
	config   Config
}

// Kind returns the module's shape.
func (m *Module) Kind() ModuleKind { return m.kind }

// KeyID returns the content-derived identifier of the verification key.
func (m *Module) KeyID() string { return m.keyID }

// Engine returns the controller engine.
func (m *Module) Engine() *Engine { return m.engine }

// KeySet returns the served JWKS document, or nil when
// [Config.JWKSRoute] is off.
func (m *Module) KeySet() *jwks.KeySet { return m.keySet }

// AccessVerifier returns the verifier guards authenticate with: the static
// codec when a public key is configured locally, otherwise a JWKS-resolver
// backed verifier.
func (m *Module) AccessVerifier() AccessVerifier { return m.verifier }

// Users exposes the injected user model for the active-user guard.
func (m *Module) Users() UserModel { return m.users }

// Config returns the configuration the module was built from.
func (m *Module) Config() Config { return m.config }

// HasEmailVerification reports whether the verify controller exists.
func (m *Module) HasEmailVerification() bool {
	return m.kind == KindWithValidation || m.kind == KindFull
}

// HasRefreshTokens reports whether authorize/refresh/revoke exist.
func (m *Module) HasRefreshTokens() bool {
	return m.kind == KindWithRefresh || m.kind == KindFull
}

// Builder assembles a [Module]. Configure it during initialization, call
// [Builder.Build] once, and treat the result as immutable.
type Builder struct {
	config             Config
	users              UserModel
	verificationTokens VerificationTokenModel
	sendEmail          VerifyEmail
	refreshTokens      RefreshTokenModel
	auditSink          AuditSink

	built bool
}

// New returns a builder seeded with defaults (1h access tokens, 10h JWKS
// cache, audit and metrics off).
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithUserModel injects the user persistence model. Required.
func (b *Builder) WithUserModel(users UserModel) *Builder {
	b.users = users
	return b
}

// WithEmailVerification enables the verify flow. Both the token model and
// the sender are required together.
func (b *Builder) WithEmailVerification(tokens VerificationTokenModel, send VerifyEmail) *Builder {
	b.verificationTokens = tokens
	b.sendEmail = send
	return b
}

// WithRefreshTokens enables the authorize/refresh/revoke flows.
func (b *Builder) WithRefreshTokens(tokens RefreshTokenModel) *Builder {
	b.refreshTokens = tokens
	return b
}

// WithAuditSink receives the engine's audit events when
// [AuditConfig.Enabled] is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, derives the public key and key ID,
// and assembles exactly one of the four module kinds.
func (b *Builder) Build() (*Module, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.users == nil {
		return nil, errors.New("user model required")
	}
	if (b.verificationTokens == nil) != (b.sendEmail == nil) {
		return nil, errors.New("email verification requires both a token model and a sender")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	publicKeyPEM := cfg.AccessToken.PublicKey
	if publicKeyPEM == "" {
		derived, err := jwt.PublicPEMFromPrivate(cfg.AccessToken.PrivateKey)
		if err != nil {
			return nil, err
		}
		publicKeyPEM = derived
	}
	keyID := jwt.KeyID(publicKeyPEM)

	codec, err := jwt.NewCodec(jwt.Config{
		PrivateKey:      cfg.AccessToken.PrivateKey,
		PublicKey:       publicKeyPEM,
		Issuer:          cfg.AccessToken.Issuer,
		Audience:        cfg.AccessToken.Audience,
		AccessTTL:       cfg.AccessToken.ExpireTime,
		KeyID:           keyID,
		RefreshIssuer:   cfg.RefreshToken.Issuer,
		RefreshAudience: cfg.RefreshToken.Audience,
	})
	if err != nil {
		return nil, err
	}

	var keySet *jwks.KeySet
	if cfg.JWKSRoute {
		keySet, err = jwks.NewKeySet(publicKeyPEM, keyID)
		if err != nil {
			return nil, err
		}
	}

	engine := &Engine{
		config:             cfg,
		codec:              codec,
		users:              b.users,
		verificationTokens: b.verificationTokens,
		refreshTokens:      b.refreshTokens,
		sendEmail:          b.sendEmail,
		audit:              newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:            NewMetrics(cfg.Metrics),
	}

	kind := KindBasic
	switch {
	case b.verificationTokens != nil && b.refreshTokens != nil:
		kind = KindFull
	case b.verificationTokens != nil:
		kind = KindWithValidation
	case b.refreshTokens != nil:
		kind = KindWithRefresh
	}

	b.built = true

	return &Module{
		kind:     kind,
		keyID:    keyID,
		engine:   engine,
		keySet:   keySet,
		verifier: codec,
		users:    b.users,
		config:   cfg,
	}, nil
}

// NewAccessVerifier builds the verifier for a service that only guards
// routes. The two sources are mutually exclusive and decided here, once:
// an explicitly configured public key keeps verification local; without
// one, keys are resolved remotely from the auth server's JWKS endpoint.
// The module built by [Builder.Build] always verifies locally since it
// holds the signing key itself.
func NewAccessVerifier(cfg Config) (AccessVerifier, error) {
	if cfg.AccessToken.Issuer == "" || cfg.AccessToken.Audience == "" {
		return nil, errors.New("access token issuer and audience required")
	}

	if cfg.AccessToken.PublicKey != "" {
		ttl := cfg.AccessToken.ExpireTime
		if ttl <= 0 {
			ttl = defaultConfig().AccessToken.ExpireTime
		}
		return jwt.NewCodec(jwt.Config{
			PublicKey: cfg.AccessToken.PublicKey,
			Issuer:    cfg.AccessToken.Issuer,
			Audience:  cfg.AccessToken.Audience,
			AccessTTL: ttl,
		})
	}

	if cfg.Production && cfg.JWKS.AllowHTTP {
		return nil, errors.New("JWKS AllowHTTP must not be set in production")
	}

	resolver, err := jwks.NewResolver(jwks.Config{
		AuthServerURL:      cfg.AuthServerURL,
		AllowHTTP:          cfg.JWKS.AllowHTTP,
		CacheTTL:           cfg.JWKS.CacheTTL,
		MinRefreshInterval: cfg.JWKS.MinRefreshInterval,
		FetchTimeout:       cfg.JWKS.FetchTimeout,
	})
	if err != nil {
		return nil, err
	}
	return jwks.NewVerifier(resolver, cfg.AccessToken.Issuer, cfg.AccessToken.Audience)
}
