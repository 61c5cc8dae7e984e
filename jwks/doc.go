// Package jwks serves and resolves JSON Web Key Sets.
//
// [KeySet] renders a module's RSA public key as the RFC 7517 document
// served at /.well-known/jwks.json. [Resolver] is the consuming side: it
// reads the kid from a token's unverified header, fetches the matching key
// from a remote endpoint, and caches the result behind a refresh rate
// limit so a cold-start burst of verifications cannot stampede the
// endpoint.
//
// HTTPS is required for the remote endpoint by default; plain HTTP needs
// an explicit development-only opt-in and is always refused in production.
package jwks
