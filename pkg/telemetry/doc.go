// Package telemetry groups the observability packages used by formcheck.
//
//   - logging: structured slog logging with payload redaction
//   - metrics: Prometheus counters and histograms for validations, schema
//     reloads and HTTP requests
//   - tracing: OpenTelemetry spans around schema and submission validation
//   - health: liveness, readiness and version endpoints
package telemetry
