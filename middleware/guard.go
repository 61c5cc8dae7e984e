package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/authcore-dev/authcore"
	"github.com/authcore-dev/authcore/jwt"
)

type claimsKey struct{}

type userKey struct{}

// ClaimsFromContext returns the verified token claims attached by
// [Authenticate], or nil when the request did not pass through it.
func ClaimsFromContext(ctx context.Context) *jwt.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims
}

// UserFromContext returns the user attached by [RequireActiveUser], or nil
// when the request did not pass through it.
func UserFromContext(ctx context.Context) *authcore.User {
	user, _ := ctx.Value(userKey{}).(*authcore.User)
	return user
}

// Authenticate verifies the bearer token on every request and attaches the
// resulting claims to the context. Missing, malformed, and invalid tokens
// are all rejected with the same 401.
func Authenticate(verifier authcore.AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w)
				return
			}
			claims, err := verifier.VerifyAccess(r.Context(), token)
			if err != nil {
				writeUnauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, authcore.ErrUnauthorized.Error(), http.StatusUnauthorized)
}
