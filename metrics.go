package authcore

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint8

const (
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterFailure counts rejected or failed registrations.
	MetricRegisterFailure
	// MetricVerifySuccess counts completed email verifications.
	MetricVerifySuccess
	// MetricVerifyFailure counts rejected or failed email verifications.
	MetricVerifyFailure
	// MetricLoginSuccess counts successful credential logins.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricAuthorizeSuccess counts logins that issued a refresh token.
	MetricAuthorizeSuccess
	// MetricAuthorizeFailure counts rejected authorize calls.
	MetricAuthorizeFailure
	// MetricRefreshSuccess counts access tokens minted from refresh tokens.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh attempts.
	MetricRefreshFailure
	// MetricRevokeRequest counts revocation requests. Revocation is
	// idempotent, so success and no-op are not counted separately.
	MetricRevokeRequest
	// MetricAvailabilityCheck counts username availability lookups.
	MetricAvailabilityCheck

	metricIDCount
)

// Metrics holds atomic counters. When built from a disabled
// [MetricsConfig] all operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a [Metrics] instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get reads one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot deep-copies all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
