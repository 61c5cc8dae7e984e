package jwt

import (
	"context"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config defines a public type used by the token codec. Instances are
// configured during initialization and then treated as immutable.
type Config struct {
	// PrivateKey is the RS256 signing key in PEM form. A codec built
	// without one can only verify.
	PrivateKey string
	// PublicKey is the verification key in PEM form.
	PublicKey string
	Issuer    string
	Audience  string
	// AccessTTL bounds access token lifetime. Refresh tokens never expire.
	AccessTTL time.Duration
	// KeyID is placed in the kid header of signed tokens.
	KeyID string
	// RefreshIssuer and RefreshAudience override Issuer/Audience for
	// refresh tokens when set.
	RefreshIssuer   string
	RefreshAudience string
}

// Claims is the claim set carried by both token types. Role is optional and
// only present when the caller attached one at signing time.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies RS256 access and refresh tokens.
type Codec struct {
	config    Config
	signKey   *rsa.PrivateKey
	verifyKey *rsa.PublicKey
}

// NewCodec validates cfg and builds a codec. PublicKey is required; when
// PrivateKey is empty the codec is verify-only and the Sign methods fail.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("issuer and audience required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("access TTL must be positive")
	}
	if cfg.PublicKey == "" {
		return nil, errors.New("public key required")
	}

	verifyKey, err := ParsePublicKeyPEM(cfg.PublicKey)
	if err != nil {
		return nil, err
	}

	codec := &Codec{config: cfg, verifyKey: verifyKey}
	if cfg.PrivateKey != "" {
		signKey, err := ParsePrivateKeyPEM(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		codec.signKey = signKey
	}

	return codec, nil
}

// KeyID returns the identifier stamped into the kid header of signed
// tokens.
func (c *Codec) KeyID() string {
	return c.config.KeyID
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration {
	return c.config.AccessTTL
}

// SignAccess produces an access token asserting subject, issuer, audience
// and expiry. No other user-derived claims are added by default; a non-empty
// role is the only optional extra.
func (c *Codec) SignAccess(subject, role string) (string, error) {
	if c.signKey == nil {
		return "", errors.New("codec has no signing key")
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.config.Issuer,
			Audience:  jwt.ClaimStrings{c.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if c.config.KeyID != "" {
		token.Header["kid"] = c.config.KeyID
	}
	return token.SignedString(c.signKey)
}

// SignRefresh produces a refresh token with subject, issuer and audience
// but no expiry. Refresh tokens stay valid until revoked; the persisted
// token store is their only lifecycle control.
func (c *Codec) SignRefresh(subject string) (string, error) {
	if c.signKey == nil {
		return "", errors.New("codec has no signing key")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			Issuer:   c.refreshIssuer(),
			Audience: jwt.ClaimStrings{c.refreshAudience()},
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if c.config.KeyID != "" {
		token.Header["kid"] = c.config.KeyID
	}
	return token.SignedString(c.signKey)
}

// VerifyAccess verifies signature, issuer, audience and expiry of an access
// token against the static public key. The returned error is never surfaced
// to clients directly; callers collapse every failure into a single opaque
// unauthorized result.
func (c *Codec) VerifyAccess(_ context.Context, tokenStr string) (*Claims, error) {
	return Verify(tokenStr, c.staticKeyfunc, c.config.Issuer, c.config.Audience)
}

// VerifyRefresh verifies signature, issuer and audience of a refresh token.
// Expiry is not checked because refresh tokens carry none.
func (c *Codec) VerifyRefresh(tokenStr string) (*Claims, error) {
	return Verify(tokenStr, c.staticKeyfunc, c.refreshIssuer(), c.refreshAudience())
}

func (c *Codec) staticKeyfunc(*jwt.Token) (interface{}, error) {
	return c.verifyKey, nil
}

func (c *Codec) refreshIssuer() string {
	if c.config.RefreshIssuer != "" {
		return c.config.RefreshIssuer
	}
	return c.config.Issuer
}

func (c *Codec) refreshAudience() string {
	if c.config.RefreshAudience != "" {
		return c.config.RefreshAudience
	}
	return c.config.Audience
}

// Verify parses and validates a token with the given keyfunc, enforcing
// RS256, issuer and audience. It is shared by the static codec path and the
// JWKS-resolver path so both apply identical claim checks.
func Verify(tokenStr string, keyfunc jwt.Keyfunc, issuer, audience string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, keyfunc)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
