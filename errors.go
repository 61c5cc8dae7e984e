package authcore

import "errors"

var (
	// ErrUnauthorized covers every credential, token-signature, token-claim,
	// and JWKS-resolution failure. The message is deliberately generic so a
	// caller cannot distinguish a wrong password from an unknown user or an
	// expired token.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNoPassword rejects a registration without a password.
	ErrNoPassword = errors.New("No password provided")
	// ErrPasswordPolicy rejects a password that fails [IsPasswordAllowed].
	ErrPasswordPolicy = errors.New("Password does not meet requirements")
	// ErrUsernameTaken rejects a registration for an existing username.
	ErrUsernameTaken = errors.New("Username is not available")
	// ErrEmailNotFound rejects a verification for an unknown email address.
	ErrEmailNotFound = errors.New("Email address is not available")
	// ErrAlreadyVerified rejects a second verification of the same user.
	ErrAlreadyVerified = errors.New("User is already registered")
	// ErrTokenNotValid rejects a verification token with no persisted row.
	ErrTokenNotValid = errors.New("Token is not valid")
	// ErrTokenEmailMismatch rejects a verification token that belongs to a
	// different user than the one resolved by email.
	ErrTokenEmailMismatch = errors.New("Token does not match email address")
)

// Kind partitions engine errors for transport adapters. Messages of
// KindBadRequest errors are specific and safe to show the end user;
// KindUnauthorized is always the opaque "Unauthorized"; everything else is
// an upstream/infra failure and maps to a 5xx, never to 400 or 401.
type Kind uint8

const (
	// KindInternal marks datastore, email, or network failures.
	KindInternal Kind = iota
	// KindBadRequest marks precondition violations by the caller.
	KindBadRequest
	// KindUnauthorized marks authentication failures.
	KindUnauthorized
)

var badRequestErrors = []error{
	ErrNoPassword,
	ErrPasswordPolicy,
	ErrUsernameTaken,
	ErrEmailNotFound,
	ErrAlreadyVerified,
	ErrTokenNotValid,
	ErrTokenEmailMismatch,
}

// Classify reports the taxonomy kind of err. It is the single mapping point
// used by the httpapi and graphql adapters when translating errors to
// protocol status codes.
func Classify(err error) Kind {
	if errors.Is(err, ErrUnauthorized) {
		return KindUnauthorized
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return KindBadRequest
		}
	}
	return KindInternal
}
