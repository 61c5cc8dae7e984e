// Package authcore implements the authentication and authorization core
// shared by the server applications that embed it: user registration with
// optional email verification, credential login, RS256 access and refresh
// token issuance, refresh-token revocation, and the guard layer that
// protects transport routes and resolvers.
//
// The package owns no persistence. Callers inject [UserModel],
// [VerificationTokenModel] and [RefreshTokenModel] implementations through
// the [Builder], which assembles exactly one of four module shapes
// ([KindBasic], [KindWithValidation], [KindWithRefresh], [KindFull])
// depending on which optional capabilities are supplied. Transport adapters
// live in the httpapi and graphql subpackages and branch on the module kind
// when deciding which routes or resolvers exist.
//
// Token signing and verification live in the jwt subpackage; remote key
// resolution against a JSON Web Key Set endpoint lives in the jwks
// subpackage; request-level guards live in the middleware subpackage.
package authcore
