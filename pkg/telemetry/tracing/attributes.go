package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/opheus2/form-schema-validator/pkg/result"
)

// SpanValidatePrefix prefixes validation span names ("formcheck.validate.submission").
const SpanValidatePrefix = "formcheck.validate."

// Attribute keys use the "formcheck.*" namespace.
const (
	AttrKind       = "formcheck.kind"
	AttrForm       = "formcheck.form"
	AttrRequestID  = "formcheck.request_id"
	AttrValid      = "formcheck.valid"
	AttrErrorCount = "formcheck.errors.count"
	AttrErrorKeys  = "formcheck.errors.keys"
	AttrErrorType  = "formcheck.error.type"
	AttrErrorMsg   = "formcheck.error.message"
)

// MaxErrorKeys bounds the keys copied into AttrErrorKeys.
const MaxErrorKeys = 20

// SetResultAttributes records validity, error count and the first failing keys.
// Messages are not recorded since they may echo submitted values.
func SetResultAttributes(span trace.Span, res *result.Result) {
	keys := res.Keys()
	if len(keys) > MaxErrorKeys {
		keys = keys[:MaxErrorKeys]
	}
	span.SetAttributes(
		attribute.Bool(AttrValid, res.IsValid()),
		attribute.Int(AttrErrorCount, res.Len()),
	)
	if len(keys) > 0 {
		span.SetAttributes(attribute.StringSlice(AttrErrorKeys, keys))
	}
}

// SetErrorAttributes records err on the span and marks it failed.
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.SetAttributes(
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMsg, err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent adds a named event with optional attributes.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{attrs: make([]attribute.KeyValue, 0, 4)}
}

// WithKind adds the validation kind.
func (ab *AttributeBuilder) WithKind(kind string) *AttributeBuilder {
	if kind != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrKind, kind))
	}
	return ab
}

// WithForm adds the schema name.
func (ab *AttributeBuilder) WithForm(form string) *AttributeBuilder {
	if form != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrForm, form))
	}
	return ab
}

// WithRequest adds the request ID.
func (ab *AttributeBuilder) WithRequest(requestID string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrRequestID, requestID))
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value any) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply sets the attributes on span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
