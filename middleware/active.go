package middleware

import (
	"context"
	"net/http"

	"github.com/authcore-dev/authcore"
)

// RequireActiveUser re-resolves the token subject against the user model
// and rejects the request unless the account still exists and is active.
// A signed token stays cryptographically valid until it expires; this
// guard is what makes deactivation take effect immediately. It must run
// after [Authenticate].
func RequireActiveUser(users authcore.UserModel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || claims.Subject == "" {
				writeUnauthorized(w)
				return
			}
			user, err := users.FindByID(r.Context(), claims.Subject)
			if err != nil || user == nil || !user.Active {
				writeUnauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose token does not carry the given role.
// It must run after [Authenticate].
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || claims.Role != role {
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
