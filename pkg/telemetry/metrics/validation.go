package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opheus2/form-schema-validator/pkg/config"
)

// ValidationMetrics tracks schema and submission validation.
//
// Metrics:
//   - <ns>_<sub>_validations_total{kind,outcome}
//   - <ns>_<sub>_validation_duration_seconds{kind}
//   - <ns>_<sub>_field_errors_total{kind,rule}
type ValidationMetrics struct {
	validationsTotal   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	fieldErrorsTotal   *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of validation passes by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Duration of validation passes in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"kind"},
		),

		fieldErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "field_errors_total",
				Help:      "Total number of field errors by failing rule",
			},
			[]string{"kind", "rule"},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.validationDuration,
		vm.fieldErrorsTotal,
	)
	return vm
}

// RecordValidation counts a pass and observes its duration.
func (vm *ValidationMetrics) RecordValidation(kind, outcome string, duration time.Duration) {
	vm.validationsTotal.WithLabelValues(kind, outcome).Inc()
	vm.validationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFieldError counts one failed field.
func (vm *ValidationMetrics) RecordFieldError(kind, rule string) {
	vm.fieldErrorsTotal.WithLabelValues(kind, rule).Inc()
}
