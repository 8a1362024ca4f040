package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

func newRecordingTracer(t *testing.T, cfg *config.TracingConfig) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tracer, err := New(cfg, WithSpanProcessor(recorder), WithoutGlobal())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, recorder
}

func attrMap(span sdktrace.ReadOnlySpan) map[string]attribute.Value {
	out := make(map[string]attribute.Value)
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled", config: &config.TracingConfig{Enabled: false}},
		{name: "always", config: &config.TracingConfig{Enabled: true, Sampler: SamplerAlways}, wantEnabled: true},
		{name: "ratio", config: &config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: 0.5}, wantEnabled: true},
		{name: "invalid sampler", config: &config.TracingConfig{Enabled: true, Sampler: "sometimes"}, wantErr: true},
		{name: "invalid ratio", config: &config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: 1.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, WithoutGlobal())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())
			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestTracer_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("disabled tracer should produce invalid span contexts")
	}
	if TraceID(ctx) != "" || SpanID(ctx) != "" {
		t.Error("disabled tracer should not expose IDs")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_Nil(t *testing.T) {
	var tracer *Tracer
	_, span := tracer.StartValidation(context.Background(), "schema", "")
	EndValidation(span, result.New(), nil)
	if tracer.Enabled() {
		t.Error("nil tracer should not be enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_StartValidation(t *testing.T) {
	tracer, recorder := newRecordingTracer(t, &config.TracingConfig{Enabled: true, ServiceName: "test"})

	ctx := logging.WithRequestID(context.Background(), "req-9")
	ctx, span := tracer.StartValidation(ctx, "submission", "contact")
	if TraceID(ctx) == "" || SpanID(ctx) == "" {
		t.Error("expected trace and span IDs in context")
	}

	res := result.New()
	res.Add("email", "The email field is required.")
	res.Add("age", "The age must be at least 18.")
	EndValidation(span, res, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	got := spans[0]
	if got.Name() != "formcheck.validate.submission" {
		t.Errorf("span name = %q", got.Name())
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", got.Status().Code)
	}

	attrs := attrMap(got)
	if attrs[AttrForm].AsString() != "contact" || attrs[AttrKind].AsString() != "submission" {
		t.Errorf("form/kind attributes = %v", attrs)
	}
	if attrs[AttrRequestID].AsString() != "req-9" {
		t.Errorf("request id = %v", attrs[AttrRequestID])
	}
	if attrs[AttrValid].AsBool() || attrs[AttrErrorCount].AsInt64() != 2 {
		t.Errorf("result attributes = %v", attrs)
	}
	if diff := cmp.Diff([]string{"email", "age"}, attrs[AttrErrorKeys].AsStringSlice()); diff != "" {
		t.Errorf("error keys mismatch (-want +got):\n%s", diff)
	}
	if got.Resource().String() == "" {
		t.Error("expected a resource")
	}
}

func TestEndValidation_ProcessingError(t *testing.T) {
	tracer, recorder := newRecordingTracer(t, &config.TracingConfig{Enabled: true})

	_, span := tracer.StartValidation(context.Background(), "schema", "")
	EndValidation(span, nil, errors.New("unexpected end of JSON input"))

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status().Code)
	}
	if len(got.Events()) != 1 || got.Events()[0].Name != "exception" {
		t.Errorf("events = %v, want one exception", got.Events())
	}
	if attrMap(got)[AttrErrorType].AsString() != "processing" {
		t.Error("expected processing error type")
	}
}

func TestSetResultAttributes_LimitsKeys(t *testing.T) {
	tracer, recorder := newRecordingTracer(t, &config.TracingConfig{Enabled: true})

	res := result.New()
	for i := 0; i < MaxErrorKeys+5; i++ {
		res.Add(string(rune('a'+i)), "bad")
	}
	_, span := tracer.Start(context.Background(), "bulk")
	SetResultAttributes(span, res)
	span.End()

	attrs := attrMap(recorder.Ended()[0])
	if n := len(attrs[AttrErrorKeys].AsStringSlice()); n != MaxErrorKeys {
		t.Errorf("error keys = %d, want %d", n, MaxErrorKeys)
	}
	if attrs[AttrErrorCount].AsInt64() != int64(MaxErrorKeys+5) {
		t.Errorf("error count = %v", attrs[AttrErrorCount])
	}
}

func TestTracer_NeverSampler(t *testing.T) {
	tracer, recorder := newRecordingTracer(t, &config.TracingConfig{Enabled: true, Sampler: SamplerNever})

	_, span := tracer.Start(context.Background(), "dropped")
	span.End()

	if len(recorder.Ended()) != 0 {
		t.Error("never sampler should not record spans")
	}
}

func TestAttributeBuilder(t *testing.T) {
	attrs := NewAttributeBuilder().
		WithKind("schema").
		WithForm("").
		WithCustom("fields", 3).
		WithCustom("strict", true).
		WithCustom("ratio", 0.5).
		WithCustom("other", []int{1}).
		Attributes()

	want := []attribute.KeyValue{
		attribute.String(AttrKind, "schema"),
		attribute.Int("fields", 3),
		attribute.Bool("strict", true),
		attribute.Float64("ratio", 0.5),
		attribute.String("other", "[1]"),
	}
	if diff := cmp.Diff(want, attrs, cmp.Comparer(func(a, b attribute.Value) bool { return a.Emit() == b.Emit() && a.Type() == b.Type() })); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{"", 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.25, false},
		{SamplerRatio, -0.1, true},
		{SamplerRatio, 1.1, true},
		{"probabilistic", 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && sampler == nil {
				t.Error("expected a sampler")
			}
		})
	}
}
