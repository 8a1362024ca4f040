package formcheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/opheus2/form-schema-validator/pkg/config"
	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/submission"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/metrics"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/tracing"
)

type m = map[string]any

func contactSchema(fields ...any) map[string]any {
	if len(fields) == 0 {
		fields = []any{
			m{"key": "name", "type": "short-text", "required": true},
			m{"key": "age", "type": "number", "constraints": m{"min": 18}},
		}
	}
	return m{"form": m{"pages": []any{
		m{"key": "p1", "sections": []any{
			m{"key": "s1", "fields": fields},
		}},
	}}}
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want map[string]string
	}{
		{name: "valid", raw: contactSchema(), want: map[string]string{}},
		{
			name: "bad field type",
			raw:  contactSchema(m{"key": "x", "type": "nope"}),
			want: map[string]string{"form.pages[0].sections[0].fields[0].type": "Field type is invalid or missing."},
		},
		{
			name: "missing form",
			raw:  m{},
			want: map[string]string{"form": "Schema must include a form object."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSchema(tt.raw).Errors()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ValidateSchema() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssertValidSubmission(t *testing.T) {
	s := schema.FromMap(contactSchema())

	if err := AssertValidSubmission(s, m{"name": "Ada", "age": 30}, nil); err != nil {
		t.Fatalf("AssertValidSubmission() error = %v", err)
	}

	err := AssertValidSubmission(s, m{"age": 12}, nil)
	var invalid *result.InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *result.InvalidError, got %v", err)
	}
	if diff := cmp.Diff([]string{"name", "age"}, invalid.Result.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(err.Error(), "Invalid submission: {") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestAssertValidSchema(t *testing.T) {
	if err := AssertValidSchema(contactSchema()); err != nil {
		t.Fatalf("AssertValidSchema() error = %v", err)
	}
	err := AssertValidSchema(m{})
	if err == nil || !strings.HasPrefix(err.Error(), "Invalid form schema: ") {
		t.Errorf("AssertValidSchema() error = %v", err)
	}
}

func TestReplacementsOverridePayload(t *testing.T) {
	s := schema.FromMap(contactSchema())
	res := ValidateSubmission(s, m{"name": "Ada", "age": 30}, m{"name": nil})
	if diff := cmp.Diff(map[string]string{"name": "The name field is required."}, res.Errors()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSchemaBytes(t *testing.T) {
	yamlDoc := []byte(`
form:
  pages:
    - key: p1
      sections:
        - key: s1
          fields:
            - key: name
              type: short-text
`)
	res, err := ValidateSchemaBytes(yamlDoc, schema.FormatYAML)
	if err != nil {
		t.Fatalf("ValidateSchemaBytes() error = %v", err)
	}
	if !res.IsValid() {
		t.Errorf("expected valid schema, got %v", res)
	}

	_, err = ValidateSchemaBytes([]byte(`{"form":`), schema.FormatJSON)
	var parseErr *schema.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *schema.ParseError, got %v", err)
	}
}

func TestEngine_ValidateSubmissionBytes(t *testing.T) {
	e := New()
	s := schema.FromMap(contactSchema())

	res, err := e.ValidateSubmissionBytes(context.Background(), s, []byte(`{"name":"Ada","age":17}`), schema.FormatAuto, nil)
	if err != nil {
		t.Fatalf("ValidateSubmissionBytes() error = %v", err)
	}
	if diff := cmp.Diff([]string{"age"}, res.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	if _, err := e.ValidateSubmissionBytes(context.Background(), s, []byte(`[1, 2]`), schema.FormatJSON, nil); !errors.Is(err, schema.ErrNotObject) {
		t.Errorf("expected ErrNotObject, got %v", err)
	}
}

func TestEngine_CustomValidator(t *testing.T) {
	v := submission.New(submission.WithRule("even", func(value any, _ submission.Args) error {
		n, ok := value.(int64)
		if !ok || n%2 != 0 {
			return submission.Failf("The :attribute must be even.")
		}
		return nil
	}))
	e := New(WithValidator(v))
	s := schema.FromMap(contactSchema(m{"key": "n", "type": "number", "validations": []any{m{"rule": "even"}}}))

	res := e.ValidateSubmission(context.Background(), s, m{"n": int64(3)}, nil)
	if got := res.Get("n"); got != "The n must be even." {
		t.Errorf("message = %q", got)
	}
	if !e.ValidateSubmission(context.Background(), s, m{"n": int64(4)}, nil).IsValid() {
		t.Error("expected even value to pass")
	}
}

func TestEngine_Telemetry(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "forms",
	}, registry)

	recorder := tracetest.NewSpanRecorder()
	tracer, err := tracing.New(&config.TracingConfig{Enabled: true, ServiceName: "test"},
		tracing.WithSpanProcessor(recorder), tracing.WithoutGlobal())
	if err != nil {
		t.Fatalf("tracing.New() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	e := New(WithMetrics(collector), WithTracer(tracer), WithLogger(logging.Nop()))
	ctx := logging.WithForm(context.Background(), "contact")
	s := schema.FromMap(contactSchema())

	e.ValidateSubmission(ctx, s, m{"name": "Ada"}, nil)
	e.ValidateSubmission(ctx, s, m{"age": 3}, nil)
	e.ValidateSchema(ctx, m{})

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"test_forms_validations_total", map[string]string{"kind": "submission", "outcome": "valid"}, 1},
		{"test_forms_validations_total", map[string]string{"kind": "submission", "outcome": "invalid"}, 1},
		{"test_forms_validations_total", map[string]string{"kind": "schema", "outcome": "invalid"}, 1},
		{"test_forms_field_errors_total", map[string]string{"kind": "submission", "rule": "required"}, 1},
		{"test_forms_field_errors_total", map[string]string{"kind": "submission", "rule": "min"}, 1},
		{"test_forms_field_errors_total", map[string]string{"kind": "schema", "rule": StructureRule}, 1},
	}
	for _, c := range checks {
		if got := counterValue(t, registry, c.name, c.labels); got != c.want {
			t.Errorf("%s%v = %v, want %v", c.name, c.labels, got, c.want)
		}
	}

	spans := recorder.Ended()
	if len(spans) != 3 {
		t.Fatalf("got %d spans, want 3", len(spans))
	}
	if spans[0].Name() != tracing.SpanValidatePrefix+metrics.KindSubmission {
		t.Errorf("span name = %q", spans[0].Name())
	}
	var form string
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == tracing.AttrForm {
			form = kv.Value.AsString()
		}
	}
	if form != "contact" {
		t.Errorf("form attribute = %q, want contact", form)
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metricLoop:
		for _, metric := range mf.GetMetric() {
			got := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metricLoop
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
