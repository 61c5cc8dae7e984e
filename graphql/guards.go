package graphql

import (
	"context"

	"github.com/authcore-dev/authcore"
	"github.com/authcore-dev/authcore/jwt"
)

type tokenKey struct{}

type claimsKey struct{}

type userKey struct{}

// WithToken attaches the raw bearer token extracted by the transport so
// guards deeper in the resolver chain can verify it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// ClaimsFromContext returns the claims attached by [Authenticated], or nil.
func ClaimsFromContext(ctx context.Context) *jwt.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims
}

// UserFromContext returns the user attached by [ActiveUser], or nil.
func UserFromContext(ctx context.Context) *authcore.User {
	user, _ := ctx.Value(userKey{}).(*authcore.User)
	return user
}

// Guard inspects the context before a resolver runs, optionally enriching
// it. Returning an error aborts the chain; guards fail exclusively with
// [authcore.ErrUnauthorized] so the caller learns nothing about which
// check rejected the request.
type Guard func(ctx context.Context) (context.Context, error)

// Authenticated verifies the token placed by [WithToken] and attaches its
// claims.
func Authenticated(verifier authcore.AccessVerifier) Guard {
	return func(ctx context.Context) (context.Context, error) {
		token, _ := ctx.Value(tokenKey{}).(string)
		if token == "" {
			return ctx, authcore.ErrUnauthorized
		}
		claims, err := verifier.VerifyAccess(ctx, token)
		if err != nil {
			return ctx, authcore.ErrUnauthorized
		}
		return context.WithValue(ctx, claimsKey{}, claims), nil
	}
}

// ActiveUser re-resolves the authenticated subject and rejects tokens
// whose account no longer exists or has been deactivated. Run it after
// [Authenticated].
func ActiveUser(users authcore.UserModel) Guard {
	return func(ctx context.Context) (context.Context, error) {
		claims := ClaimsFromContext(ctx)
		if claims == nil || claims.Subject == "" {
			return ctx, authcore.ErrUnauthorized
		}
		user, err := users.FindByID(ctx, claims.Subject)
		if err != nil || user == nil || !user.Active {
			return ctx, authcore.ErrUnauthorized
		}
		return context.WithValue(ctx, userKey{}, user), nil
	}
}

// RequireRole rejects authenticated requests whose token carries a
// different role. Run it after [Authenticated].
func RequireRole(role string) Guard {
	return func(ctx context.Context) (context.Context, error) {
		claims := ClaimsFromContext(ctx)
		if claims == nil || claims.Role != role {
			return ctx, authcore.ErrUnauthorized
		}
		return ctx, nil
	}
}

// Guarded wraps a resolver so the guards run, in order, before it.
func Guarded[Args, Result any](fn func(ctx context.Context, args Args) (Result, error), guards ...Guard) func(ctx context.Context, args Args) (Result, error) {
	return func(ctx context.Context, args Args) (Result, error) {
		for _, guard := range guards {
			var err error
			if ctx, err = guard(ctx); err != nil {
				var zero Result
				return zero, err
			}
		}
		return fn(ctx, args)
	}
}
