package authcore

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Verify confirms a registered email address: it resolves the user by
// email, checks the provided token against the persisted verification
// token, flips IsVerified, and deletes the token.
//
// The user update and the token deletion are two independent writes run
// concurrently; there is no transactional boundary because persistence is
// an injected capability. A crash between the two leaves either an
// unverified user with no token or a verified user with a dangling token;
// stores that support transactions should wrap their Save/Remove
// implementations accordingly.
func (e *Engine) Verify(ctx context.Context, email, token string) (*VerifyResult, error) {
	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricVerifyFailure)
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, false, "", ErrEmailNotFound, nil)
		return nil, ErrEmailNotFound
	}
	if user.IsVerified {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, false, user.ID, ErrAlreadyVerified, nil)
		return nil, ErrAlreadyVerified
	}

	verification, err := e.verificationTokens.FindByToken(ctx, token)
	if err != nil {
		e.metricInc(MetricVerifyFailure)
		return nil, fmt.Errorf("find verification token: %w", err)
	}
	if verification == nil {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, false, user.ID, ErrTokenNotValid, nil)
		return nil, ErrTokenNotValid
	}
	if verification.UserID != user.ID {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, false, user.ID, ErrTokenEmailMismatch, nil)
		return nil, ErrTokenEmailMismatch
	}

	user.IsVerified = true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := e.users.Save(gctx, user)
		return err
	})
	g.Go(func() error {
		return e.verificationTokens.Remove(gctx, verification)
	})
	if err := g.Wait(); err != nil {
		e.metricInc(MetricVerifyFailure)
		e.emitAudit(ctx, auditEventVerify, false, user.ID, err, nil)
		return nil, fmt.Errorf("apply verification: %w", err)
	}

	e.metricInc(MetricVerifySuccess)
	e.emitAudit(ctx, auditEventVerify, true, user.ID, nil, nil)
	return &VerifyResult{
		Message: fmt.Sprintf("User with %s has been verified", user.Email),
	}, nil
}
