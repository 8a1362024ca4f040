package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// FormKey is the context key for the name of the form being validated.
	FormKey contextKey = "form"

	// SourceKey is the context key for the origin of a document (file path, endpoint).
	SourceKey contextKey = "source"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithForm adds a form name to the context.
func WithForm(ctx context.Context, form string) context.Context {
	return context.WithValue(ctx, FormKey, form)
}

// GetForm retrieves the form name from the context.
func GetForm(ctx context.Context) string {
	return stringValue(ctx, FormKey)
}

// WithSource adds a document source to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the document source from the context.
func GetSource(ctx context.Context) string {
	return stringValue(ctx, SourceKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// extractContextFields returns key-value pairs for the request fields in ctx,
// including the trace and span IDs of an active span.
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, string(RequestIDKey), requestID)
	}
	if form := GetForm(ctx); form != "" {
		fields = append(fields, string(FormKey), form)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, string(SourceKey), source)
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			"trace_id", sc.TraceID().String(),
			"span_id", sc.SpanID().String(),
		)
	}
	return fields
}
