package authcore

import (
	"context"
	"fmt"
)

// RefreshAccessToken exchanges a persisted refresh token for a new access
// token. The signature/issuer/audience check runs before any datastore
// lookup so a forged token fails without I/O. A refresh token whose owner
// has been deactivated is deleted as a side effect of the rejected call.
// The refresh token itself is not rotated on use; one long-lived token per
// login is a deliberate design choice.
func (e *Engine) RefreshAccessToken(ctx context.Context, username, providedToken string) (*RefreshResult, error) {
	if _, err := e.codec.VerifyRefresh(providedToken); err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefresh, false, "", ErrUnauthorized, map[string]string{"username": username})
		return nil, ErrUnauthorized
	}

	stored, err := e.refreshTokens.FindByToken(ctx, providedToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if stored == nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefresh, false, "", ErrUnauthorized, map[string]string{"username": username})
		return nil, ErrUnauthorized
	}

	owner, err := e.users.FindByID(ctx, stored.UserID)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, fmt.Errorf("find refresh token owner: %w", err)
	}
	if owner == nil || owner.Username != username {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefresh, false, "", ErrUnauthorized, map[string]string{"username": username})
		return nil, ErrUnauthorized
	}

	if !owner.Active {
		// Revoke on the spot: an inactive account must not keep a live
		// refresh token behind.
		if err := e.refreshTokens.Remove(ctx, stored); err != nil {
			e.metricInc(MetricRefreshFailure)
			return nil, fmt.Errorf("revoke refresh token of inactive user: %w", err)
		}
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefresh, false, owner.ID, ErrUnauthorized, map[string]string{"username": username, "revoked": "inactive_user"})
		return nil, ErrUnauthorized
	}

	accessToken, err := e.codec.SignAccess(owner.ID, owner.Role)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefresh, true, owner.ID, nil, nil)
	return &RefreshResult{Token: accessToken}, nil
}

// RevokeRefreshToken deletes a persisted refresh token. The call is
// idempotent: revoking an unknown or already-revoked token still reports
// success.
func (e *Engine) RevokeRefreshToken(ctx context.Context, token string) (*RevokeResult, error) {
	e.metricInc(MetricRevokeRequest)

	stored, err := e.refreshTokens.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	if stored != nil {
		if err := e.refreshTokens.Remove(ctx, stored); err != nil {
			return nil, fmt.Errorf("remove refresh token: %w", err)
		}
		e.emitAudit(ctx, auditEventRevoke, true, stored.UserID, nil, nil)
	} else {
		e.emitAudit(ctx, auditEventRevoke, true, "", nil, map[string]string{"noop": "token_not_found"})
	}

	return &RevokeResult{Success: true}, nil
}
