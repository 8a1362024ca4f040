// Package tracing wraps validation passes and HTTP requests in OpenTelemetry spans.
//
// New builds an SDK tracer provider from config.TracingConfig: a parent-based
// sampler ("always", "never" or "ratio"), a service.name resource, and an
// OTLP gRPC exporter when an endpoint is configured. Without an endpoint,
// spans are still sampled so trace IDs reach logs and response headers.
// When tracing is disabled every span is a noop.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.StartValidation(ctx, "submission", "contact")
//	res := validator.Validate(s, payload, nil)
//	tracing.EndValidation(span, res, nil)
//
// Span attributes use the formcheck.* namespace. Error messages of a result
// are never attached to spans since they can echo submitted values.
package tracing
