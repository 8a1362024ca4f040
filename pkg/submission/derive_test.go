package submission

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeriveRules(t *testing.T) {
	tests := []struct {
		name  string
		field m
		want  []string
	}{
		{
			name:  "text with lengths",
			field: m{"key": "bio", "type": "medium-text", "constraints": m{"min_length": 5, "max_length": 6}},
			want:  []string{"string", "min_length", "max_length"},
		},
		{
			name:  "address",
			field: m{"key": "addr", "type": "address"},
			want:  []string{"string"},
		},
		{
			name:  "non-numeric constraint is ignored",
			field: m{"key": "bio", "type": "text", "constraints": m{"min_length": "abc"}},
			want:  []string{"string"},
		},
		{
			name:  "email with domains",
			field: m{"key": "email", "type": "email", "constraints": m{"allowed_domains": []any{"google.com"}, "max_length": 50}},
			want:  []string{"email", "string", "max_length", "email_domains"},
		},
		{
			name:  "email with empty domain lists",
			field: m{"key": "email", "type": "email", "constraints": m{"allowed_domains": []any{}}},
			want:  []string{"email", "string"},
		},
		{
			name:  "phone",
			field: m{"key": "phone", "type": "phone"},
			want:  []string{"phone", "string"},
		},
		{
			name:  "url",
			field: m{"key": "site", "type": "url"},
			want:  []string{"url", "string"},
		},
		{
			name:  "country lists",
			field: m{"key": "country", "type": "country", "constraints": m{"allow_countries": []any{"NG", "US"}, "exclude_countries": "RU, CN"}},
			want:  []string{"string", "in", "not_in"},
		},
		{
			name:  "number with range and step",
			field: m{"key": "amount", "type": "number", "constraints": m{"min": 10, "max": 1000, "step": 2}},
			want:  []string{"numeric", "min", "max", "step"},
		},
		{
			name:  "rating ignores step",
			field: m{"key": "stars", "type": "rating", "constraints": m{"min": 1, "step": 1}},
			want:  []string{"numeric", "min"},
		},
		{
			name:  "boolean",
			field: m{"key": "agree", "type": "boolean"},
			want:  []string{"boolean"},
		},
		{
			name:  "date",
			field: m{"key": "d", "type": "date"},
			want:  []string{"date"},
		},
		{
			name:  "time",
			field: m{"key": "t", "type": "time"},
			want:  []string{"time"},
		},
		{
			name:  "datetime",
			field: m{"key": "dt", "type": "datetime"},
			want:  []string{"datetime"},
		},
		{
			name:  "tag counts",
			field: m{"key": "tags", "type": "tag", "constraints": m{"min": 1, "max": 3}},
			want:  []string{"array", "min", "max"},
		},
		{
			name: "single select",
			field: m{"key": "choice", "type": "options", "option_properties": m{
				"type": "select", "data": []any{m{"key": "a", "value": "A"}},
			}},
			want: []string{"option"},
		},
		{
			name: "multi select with max",
			field: m{"key": "choice", "type": "options", "option_properties": m{
				"type": "multi-select", "max_select": 2, "data": []any{m{"key": "a", "value": "A"}},
			}},
			want: []string{"array", "max", "option_each"},
		},
		{
			name: "checkbox with count constraints",
			field: m{"key": "choice", "type": "options", "constraints": m{"min": 1}, "option_properties": m{
				"type": "checkbox", "data": []any{m{"key": "a", "value": "A"}},
			}},
			want: []string{"array", "min", "option_each"},
		},
		{
			name:  "options without properties",
			field: m{"key": "choice", "type": "options"},
			want:  nil,
		},
		{
			name:  "image",
			field: m{"key": "image", "type": "image", "constraints": m{"max": 2}},
			want:  []string{"files"},
		},
		{
			name:  "document without constraints",
			field: m{"key": "doc", "type": "document"},
			want:  []string{"files"},
		},
		{
			name:  "divider",
			field: m{"key": "d", "type": "divider"},
			want:  nil,
		},
		{
			name:  "hidden",
			field: m{"key": "h", "type": "hidden", "constraints": m{"min_length": 3}},
			want:  nil,
		},
		{
			name:  "unknown type",
			field: m{"key": "x", "type": "mystery"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := schemaFor(tt.field).Fields()[0]
			got := DeriveRules(f)
			var names []string
			if len(got) > 0 {
				names = ruleNames(got)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("DeriveRules() mismatch (-want +got):\n%s", diff)
			}
			for _, r := range got {
				if !r.Derived {
					t.Errorf("rule %s not marked derived", r.Name)
				}
			}
		})
	}
}

func TestDeriveRules_StepBaseFromMin(t *testing.T) {
	f := schemaFor(m{"key": "n", "type": "number", "constraints": m{"min": 1, "step": 2}}).Fields()[0]
	rules := DeriveRules(f)
	step := rules[len(rules)-1]
	if step.Name != "step" || len(step.Params) != 2 {
		t.Fatalf("expected step rule with base, got %+v", step)
	}

	ctx := NewContext(nil, nil)
	if got := step.Params[1].Resolve(ctx); got != int64(1) {
		t.Errorf("step base = %#v, want 1", got)
	}
}

func TestValidatorRules_Order(t *testing.T) {
	f := schemaFor(m{
		"key":         "name",
		"type":        "short-text",
		"required":    true,
		"constraints": m{"max_length": 10},
		"validations": []any{
			m{"rule": "starts_with", "params": []any{"J"}},
			m{"rule": "min", "params": []any{3}},
		},
	}).Fields()[0]

	got := ruleNames(New().Rules(f))
	want := []string{"required", "string", "max_length", "starts_with", "min"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rules() mismatch (-want +got):\n%s", diff)
	}

	divider := schemaFor(m{"key": "d", "type": "divider", "required": true}).Fields()[0]
	if rules := New().Rules(divider); len(rules) != 0 {
		t.Errorf("divider rules = %v, want none", ruleNames(rules))
	}
}
