package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opheus2/form-schema-validator/pkg/config"
)

// SchemaMetrics tracks the named schema registry.
//
// Metrics:
//   - <ns>_<sub>_schema_reloads_total{outcome}
//   - <ns>_<sub>_schemas_loaded
type SchemaMetrics struct {
	reloadsTotal *prometheus.CounterVec
	loaded       prometheus.Gauge
}

// NewSchemaMetrics creates and registers schema registry metrics.
func NewSchemaMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SchemaMetrics {
	sm := &SchemaMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "schema_reloads_total",
				Help:      "Total number of schema registry reloads by outcome",
			},
			[]string{"outcome"},
		),
		loaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "schemas_loaded",
				Help:      "Number of schemas currently registered",
			},
		),
	}

	registry.MustRegister(sm.reloadsTotal, sm.loaded)
	return sm
}

// RecordReload counts a reload attempt.
func (sm *SchemaMetrics) RecordReload(outcome string) {
	sm.reloadsTotal.WithLabelValues(outcome).Inc()
}

// SetLoaded sets the number of registered schemas.
func (sm *SchemaMetrics) SetLoaded(n int) {
	sm.loaded.Set(float64(n))
}
