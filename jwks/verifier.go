package jwks

import (
	"context"
	"errors"

	"github.com/authcore-dev/authcore/jwt"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Verifier verifies access tokens against keys resolved from a remote JWKS
// endpoint. It applies the same RS256/issuer/audience checks as the static
// codec path.
type Verifier struct {
	resolver *Resolver
	issuer   string
	audience string
}

// NewVerifier wires a resolver to the expected issuer and audience.
func NewVerifier(resolver *Resolver, issuer, audience string) (*Verifier, error) {
	if resolver == nil {
		return nil, errors.New("jwks: resolver required")
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("jwks: issuer and audience required")
	}
	return &Verifier{resolver: resolver, issuer: issuer, audience: audience}, nil
}

// VerifyAccess resolves the signing key by the token's kid and validates
// the token. Any resolution or validation failure is returned as-is for the
// caller to collapse into an opaque unauthorized result.
func (v *Verifier) VerifyAccess(ctx context.Context, tokenStr string) (*jwt.Claims, error) {
	keyfunc := func(t *jwtlib.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errMalformedToken
		}
		return v.resolver.Key(ctx, kid)
	}
	return jwt.Verify(tokenStr, keyfunc, v.issuer, v.audience)
}
