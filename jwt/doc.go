// Package jwt signs and verifies the access and refresh tokens issued by
// the authentication core.
//
// # Token shapes
//
// Access tokens are RS256-signed with subject, issuer, audience, expiry and
// a kid header; refresh tokens use the same algorithm and claims but carry
// no expiry. Revocation against the persisted token store is their only
// lifecycle control.
//
// # Key identity
//
// KeyID derives a stable identifier from the public key content (an MD5
// fingerprint, not a security boundary) so a JWKS endpoint or a fleet of
// stateless instances can expose rotated keys without coordinating IDs out
// of band.
//
// # Architecture boundaries
//
// This package owns signing, verification, and PEM key handling. Which key
// verifies a given token (static configuration versus remote JWKS lookup)
// is decided by the caller; remote resolution lives in the jwks package.
package jwt
