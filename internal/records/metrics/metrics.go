// Package metrics provides Prometheus observability for the records gate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	// Gate requests by action and outcome
	Requests *prometheus.CounterVec

	// Audit entries appended
	AuditEntries prometheus.Counter

	// Sessions dropped by idle expiry
	SessionsExpired prometheus.Counter

	// Patient rows purged by the retention sweeper
	SweepPurged prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wardgate_requests_total",
			Help: "Total gate requests by action and outcome",
		}, []string{"action", "outcome"}),

		AuditEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardgate_audit_entries_total",
			Help: "Total audit entries appended",
		}),

		SessionsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardgate_sessions_expired_total",
			Help: "Total sessions dropped by idle expiry",
		}),

		SweepPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wardgate_sweep_purged_rows_total",
			Help: "Total patient rows purged by the retention sweeper",
		}),
	}
}

// IncRequest records one gate request outcome.
func (m *Metrics) IncRequest(action, outcome string) {
	if m != nil {
		m.Requests.WithLabelValues(action, outcome).Inc()
	}
}

// IncAuditEntry records one appended audit entry.
func (m *Metrics) IncAuditEntry() {
	if m != nil {
		m.AuditEntries.Inc()
	}
}

// IncSessionExpired records one idle-expired session.
func (m *Metrics) IncSessionExpired() {
	if m != nil {
		m.SessionsExpired.Inc()
	}
}

// AddSweepPurged records rows removed by a retention sweep.
func (m *Metrics) AddSweepPurged(n int64) {
	if m != nil {
		m.SweepPurged.Add(float64(n))
	}
}
