package logging

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/trace"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithForm(ctx, "contact")
	ctx = WithSource(ctx, "forms/contact.yaml")

	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}
	if got := GetForm(ctx); got != "contact" {
		t.Errorf("GetForm() = %q, want %q", got, "contact")
	}
	if got := GetSource(ctx); got != "forms/contact.yaml" {
		t.Errorf("GetSource() = %q, want %q", got, "forms/contact.yaml")
	}
}

func TestContextKeys_Empty(t *testing.T) {
	tests := []struct {
		name string
		get  func(context.Context) string
	}{
		{"RequestID", GetRequestID},
		{"Form", GetForm},
		{"Source", GetSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(context.Background()); got != "" {
				t.Errorf("Get%s() = %q, want empty string", tt.name, got)
			}
		})
	}
}

func TestExtractContextFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	span := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	tests := []struct {
		name string
		ctx  context.Context
		want []any
	}{
		{
			name: "empty context",
			ctx:  context.Background(),
			want: nil,
		},
		{
			name: "request ID only",
			ctx:  WithRequestID(context.Background(), "req-1"),
			want: []any{"request_id", "req-1"},
		},
		{
			name: "form and source",
			ctx:  WithSource(WithForm(context.Background(), "contact"), "api"),
			want: []any{"form", "contact", "source", "api"},
		},
		{
			name: "active span",
			ctx:  trace.ContextWithSpanContext(context.Background(), span),
			want: []any{
				"trace_id", "4bf92f3577b34da6a3ce929d0e0e4736",
				"span_id", "00f067aa0ba902b7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, extractContextFields(tt.ctx)); diff != "" {
				t.Errorf("extractContextFields() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := WithForm(context.Background(), "first")
	ctx = WithForm(ctx, "second")
	if got := GetForm(ctx); got != "second" {
		t.Errorf("GetForm() = %q, want %q", got, "second")
	}
}
