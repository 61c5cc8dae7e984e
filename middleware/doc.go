// Package middleware provides the request-level guards protecting API
// routes: bearer-token authentication, a live re-check that the token's
// subject is still an active user, and role enforcement.
//
// Guards compose in that order. Authenticate attaches the verified claims
// to the request context; RequireActiveUser additionally attaches the
// re-resolved user, closing the gap where a still-valid signed token
// outlives an account deactivation. Every failure answers 401 with the
// same opaque body regardless of which check rejected the request.
package middleware
