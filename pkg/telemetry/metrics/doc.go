// Package metrics provides Prometheus metrics for schema and submission validation.
//
// A Collector owns a prometheus.Registry and three metric groups:
//
//   - Validation: passes by kind (schema, submission) and outcome, their
//     duration, and field errors by failing rule
//   - Schema registry: reloads by outcome and the number of loaded schemas
//   - HTTP: requests by route, method and status, and their duration
//
// Rule names are authored in schemas, so the rule label passes through a
// CardinalityLimiter and collapses to "other" beyond DefaultMaxRuleLabels values.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// A nil *Collector is valid and records nothing, as does a collector whose
// configuration has Enabled set to false.
package metrics
