package authcore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// verification tokens are 128-bit random values, hex encoded
const verificationTokenBytes = 16

// Register creates a new user with a hashed password, marked active and
// unverified. When the module is configured with email verification, a
// verification token is persisted and mailed alongside; a failed send
// propagates as an error rather than a partial success. The returned user
// never carries password material.
func (e *Engine) Register(ctx context.Context, input NewUser) (*User, error) {
	if input.Password == "" {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegister, false, "", ErrNoPassword, map[string]string{"username": input.Username})
		return nil, ErrNoPassword
	}
	if !IsPasswordAllowed(input.Password) {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegister, false, "", ErrPasswordPolicy, map[string]string{"username": input.Username})
		return nil, ErrPasswordPolicy
	}

	existing, err := e.users.FindByUsername(ctx, input.Username)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	if existing != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegister, false, "", ErrUsernameTaken, map[string]string{"username": input.Username})
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	saved, err := e.users.Save(ctx, &User{
		Username:       input.Username,
		Email:          input.Email,
		Role:           input.Role,
		Active:         true,
		IsVerified:     false,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return nil, fmt.Errorf("save user: %w", err)
	}

	if e.verificationTokens != nil {
		token, err := newVerificationToken()
		if err != nil {
			e.metricInc(MetricRegisterFailure)
			return nil, fmt.Errorf("generate verification token: %w", err)
		}
		verification := &VerificationToken{
			ID:     uuid.NewString(),
			UserID: saved.ID,
			Token:  token,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return e.verificationTokens.Save(gctx, verification)
		})
		g.Go(func() error {
			return e.sendEmail(gctx, saved.Email, verification.Token)
		})
		if err := g.Wait(); err != nil {
			e.metricInc(MetricRegisterFailure)
			e.emitAudit(ctx, auditEventRegister, false, saved.ID, err, map[string]string{"username": input.Username})
			return nil, fmt.Errorf("send verification email: %w", err)
		}
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, true, saved.ID, nil, map[string]string{"username": saved.Username})
	return StripSecretFields(saved), nil
}

// UserAvailable reports whether a username is free to register. An empty
// username is reported unavailable without a lookup.
func (e *Engine) UserAvailable(ctx context.Context, username string) (*AvailabilityResult, error) {
	e.metricInc(MetricAvailabilityCheck)
	if username == "" {
		return &AvailabilityResult{IsAvailable: false}, nil
	}

	existing, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &AvailabilityResult{IsAvailable: existing == nil}, nil
}

func newVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
