package formcheck

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name       string
		raw        map[string]any
		wantErrors int
		want       []Warning
	}{
		{
			name: "clean",
			raw: contactSchema(m{"key": "a", "type": "text", "validations": []any{
				m{"rule": "gt", "params": []any{"{field:b}"}},
			}}),
		},
		{
			name: "unknown rule",
			raw: contactSchema(m{"key": "a", "type": "text", "validations": []any{
				m{"rule": "is_pretty"},
			}}),
			want: []Warning{{
				Path:    "form.pages[0].sections[0].fields[0].validations[0]",
				Message: `unknown rule "is_pretty" always passes`,
			}},
		},
		{
			name: "malformed references in wrapped list",
			raw: contactSchema(m{"key": "a", "type": "text", "validations": []any{
				m{"rule": "required_with", "params": []any{[]any{"{field:}", "{field:b"}}},
			}}),
			want: []Warning{
				{Path: "form.pages[0].sections[0].fields[0].validations[0]", Message: `malformed field reference "{field:}" is treated as a literal`},
				{Path: "form.pages[0].sections[0].fields[0].validations[0]", Message: `malformed field reference "{field:b" is treated as a literal`},
			},
		},
		{
			name: "missing rule name",
			raw: contactSchema(m{"key": "a", "type": "text", "validations": []any{
				m{"params": []any{1}},
			}}),
			want: []Warning{{Path: "form.pages[0].sections[0].fields[0].validations[0]", Message: "missing rule name"}},
		},
		{
			name:       "structural errors",
			raw:        m{"form": m{"pages": []any{}}},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Lint(tt.raw)
			if len(report.Errors) != tt.wantErrors {
				t.Errorf("errors = %v, want %d", report.Errors, tt.wantErrors)
			}
			if diff := cmp.Diff(tt.want, report.Warnings); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLintReport_OK(t *testing.T) {
	warned := LintReport{Errors: map[string]string{}, Warnings: []Warning{{Path: "p", Message: "w"}}}
	if !warned.OK(false) {
		t.Error("warnings should pass without strict")
	}
	if warned.OK(true) {
		t.Error("warnings should fail with strict")
	}
	broken := LintReport{Errors: map[string]string{"form": "x"}}
	if broken.OK(false) {
		t.Error("errors should always fail")
	}
}
