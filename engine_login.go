package authcore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Login validates a username/password pair and issues an access token.
// Unknown user, inactive user, and wrong password all fail with the same
// opaque [ErrUnauthorized]; the engine never reveals which check rejected
// the attempt.
func (e *Engine) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := e.authenticateCredentials(ctx, auditEventLogin, MetricLoginFailure, username, password)
	if err != nil {
		return nil, err
	}

	token, err := e.codec.SignAccess(user.ID, user.Role)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLogin, true, user.ID, nil, nil)
	return &LoginResult{
		Token:     token,
		ExpiresIn: e.expiresInSeconds(),
	}, nil
}

// Authorize performs the same credential checks as [Engine.Login] and
// additionally issues a refresh token, persisting it before returning so
// revocation always has a row to act on.
func (e *Engine) Authorize(ctx context.Context, username, password string) (*AuthorizeResult, error) {
	user, err := e.authenticateCredentials(ctx, auditEventAuthorize, MetricAuthorizeFailure, username, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := e.codec.SignAccess(user.ID, user.Role)
	if err != nil {
		e.metricInc(MetricAuthorizeFailure)
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := e.codec.SignRefresh(user.ID)
	if err != nil {
		e.metricInc(MetricAuthorizeFailure)
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	err = e.refreshTokens.Save(ctx, &RefreshToken{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Token:  refreshToken,
	})
	if err != nil {
		e.metricInc(MetricAuthorizeFailure)
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	e.metricInc(MetricAuthorizeSuccess)
	e.emitAudit(ctx, auditEventAuthorize, true, user.ID, nil, nil)
	return &AuthorizeResult{
		Token:        accessToken,
		ExpiresIn:    e.expiresInSeconds(),
		RefreshToken: refreshToken,
	}, nil
}

func (e *Engine) authenticateCredentials(ctx context.Context, eventType string, failureMetric MetricID, username, password string) (*User, error) {
	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		e.metricInc(failureMetric)
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	if user == nil || !user.Active {
		e.metricInc(failureMetric)
		e.emitAudit(ctx, eventType, false, "", ErrUnauthorized, map[string]string{"username": username})
		return nil, ErrUnauthorized
	}
	if !passwordMatches(user.HashedPassword, password) {
		e.metricInc(failureMetric)
		e.emitAudit(ctx, eventType, false, user.ID, ErrUnauthorized, map[string]string{"username": username})
		return nil, ErrUnauthorized
	}
	return user, nil
}
