package authcore

import (
	"context"

	"github.com/authcore-dev/authcore/jwt"
)

// User is the persistence entity the engine operates on. It is owned by the
// caller's datastore and reaches the engine only through [UserModel].
//
// HashedPassword is never serialized and must be stripped from every
// response payload; see [StripSecretFields].
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
	Active         bool   `json:"active"`
	IsVerified     bool   `json:"isVerified"`
	HashedPassword string `json:"-"`
}

// VerificationToken links a randomly generated opaque token to a newly
// registered, not yet verified user. It is consumed (deleted) exactly once
// by [Engine.Verify].
type VerificationToken struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// RefreshToken is the persisted counterpart of a signed refresh JWT. The
// row stores the owning user's ID; the engine re-resolves the owner through
// [UserModel.FindByID] on every refresh.
type RefreshToken struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// UserModel is the user persistence contract consumed by the engine and
// guards. Find methods return (nil, nil) when no row matches; a non-nil
// error always means the datastore itself failed.
type UserModel interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) (*User, error)
}

// VerificationTokenModel persists email-verification tokens.
type VerificationTokenModel interface {
	FindByToken(ctx context.Context, token string) (*VerificationToken, error)
	Save(ctx context.Context, token *VerificationToken) error
	Remove(ctx context.Context, token *VerificationToken) error
}

// RefreshTokenModel persists refresh tokens for lookup by their literal
// signed string.
type RefreshTokenModel interface {
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)
	Save(ctx context.Context, token *RefreshToken) error
	Remove(ctx context.Context, token *RefreshToken) error
}

// VerifyEmail delivers a verification token to a newly registered address.
// Errors propagate out of [Engine.Register] unmodified; the engine never
// swallows a failed send.
type VerifyEmail func(ctx context.Context, to, token string) error

// AccessVerifier verifies a raw access token and returns its claims. It is
// satisfied by [jwt.Codec] (static public key) and by the jwks package's
// resolver-backed verifier; the builder picks exactly one of the two.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, token string) (*jwt.Claims, error)
}

// NewUser carries the registration input. Password is the only secret and
// is hashed before anything is persisted.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Password string `json:"password"`
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AuthorizeResult is returned by [Engine.Authorize]: an access token plus a
// long-lived refresh token that was persisted before being handed out.
type AuthorizeResult struct {
	Token        string `json:"token"`
	ExpiresIn    int64  `json:"expiresIn"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshResult is returned by [Engine.RefreshAccessToken].
type RefreshResult struct {
	Token string `json:"token"`
}

// RevokeResult is returned by [Engine.RevokeRefreshToken]. Success is true
// whether or not the token existed; revocation is idempotent.
type RevokeResult struct {
	Success bool `json:"success"`
}

// AvailabilityResult is returned by [Engine.UserAvailable].
type AvailabilityResult struct {
	IsAvailable bool `json:"isAvailable"`
}

// VerifyResult is returned by [Engine.Verify].
type VerifyResult struct {
	Message string `json:"message"`
}
