package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opheus2/form-schema-validator/pkg/config"
)

// Audit outcome label values.
const (
	AuditStored  = "stored"
	AuditDropped = "dropped"
	AuditFailed  = "failed"
	AuditPruned  = "pruned"
)

// AuditMetrics tracks the validation audit trail.
//
// Metrics:
//   - <ns>_<sub>_audit_records_total{outcome}
type AuditMetrics struct {
	recordsTotal *prometheus.CounterVec
}

// NewAuditMetrics creates and registers audit trail metrics.
func NewAuditMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_records_total",
				Help:      "Audit records by outcome (stored, dropped, failed, pruned)",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(am.recordsTotal)
	return am
}

// Add counts n records with the given outcome.
func (am *AuditMetrics) Add(outcome string, n int64) {
	am.recordsTotal.WithLabelValues(outcome).Add(float64(n))
}
