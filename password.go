package authcore

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt operates on at most 72 bytes of input, so the policy enforces that
// as the upper bound instead of leaving password length unbounded.
const (
	minPasswordLength = 9
	maxPasswordLength = 72
	passwordSymbols   = "@$!%*#?&"
	bcryptCost        = 10
)

// IsPasswordAllowed reports whether a password satisfies the registration
// policy: longer than 8 characters, at most 72 bytes, and containing at
// least one digit, one non-digit, and one symbol from @$!%*#?&.
func IsPasswordAllowed(password string) bool {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return false
	}

	var hasDigit, hasNonDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasNonDigit = true
		}
		if strings.ContainsRune(passwordSymbols, r) {
			hasSymbol = true
		}
	}

	return hasDigit && hasNonDigit && hasSymbol
}

// StripSecretFields returns a shallow copy of user with the hashed password
// removed. Every registration and user response must pass through it; the
// struct additionally tags HashedPassword with json:"-" as a second line of
// defense.
func StripSecretFields(user *User) *User {
	if user == nil {
		return nil
	}
	stripped := *user
	stripped.HashedPassword = ""
	return &stripped
}

// HashPassword hashes a plaintext password with bcrypt at cost 10.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
