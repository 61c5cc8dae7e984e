package graphql

import (
	"context"

	"github.com/authcore-dev/authcore"
)

// Resolvers holds one typed closure per controller operation. Closures for
// flows the module was not built with are nil; a schema should only bind
// the non-nil ones.
type Resolvers struct {
	Register      func(ctx context.Context, input authcore.NewUser) (*authcore.User, error)
	Login         func(ctx context.Context, username, password string) (*authcore.LoginResult, error)
	UserAvailable func(ctx context.Context, username string) (*authcore.AvailabilityResult, error)

	// Nil unless the module includes email verification.
	Verify func(ctx context.Context, email, token string) (*authcore.VerifyResult, error)

	// Nil unless the module includes refresh tokens.
	Authorize func(ctx context.Context, username, password string) (*authcore.AuthorizeResult, error)
	Refresh   func(ctx context.Context, username, refreshToken string) (*authcore.RefreshResult, error)
	Revoke    func(ctx context.Context, refreshToken string) (*authcore.RevokeResult, error)
}

// NewResolvers derives the resolver set from the module's kind.
func NewResolvers(m *authcore.Module) *Resolvers {
	engine := m.Engine()
	r := &Resolvers{
		Register:      engine.Register,
		Login:         engine.Login,
		UserAvailable: engine.UserAvailable,
	}
	if m.HasEmailVerification() {
		r.Verify = engine.Verify
	}
	if m.HasRefreshTokens() {
		r.Authorize = engine.Authorize
		r.Refresh = engine.RefreshAccessToken
		r.Revoke = engine.RevokeRefreshToken
	}
	return r
}
