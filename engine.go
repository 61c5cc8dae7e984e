package authcore

import (
	"context"
	"time"

	"github.com/authcore-dev/authcore/jwt"
)

// Engine executes the authentication flows against injected persistence
// models. Instances are produced by [Builder.Build] and are immutable and
// safe for concurrent use; the engine keeps no shared mutable state of its
// own.
type Engine struct {
	config             Config
	codec              *jwt.Codec
	users              UserModel
	verificationTokens VerificationTokenModel
	refreshTokens      RefreshTokenModel
	sendEmail          VerifyEmail
	audit              *auditDispatcher
	metrics            *Metrics
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped under
// back-pressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID string, failure error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	if ua := userAgentFromContext(ctx); ua != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		event.Metadata["user_agent"] = ua
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) expiresInSeconds() int64 {
	return int64(e.config.AccessToken.ExpireTime / time.Second)
}
