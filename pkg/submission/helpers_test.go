package submission

import (
	"testing"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

type m = map[string]any

// schemaFor wraps fields into a single page, single section schema.
func schemaFor(fields ...m) *schema.Schema {
	list := make([]any, len(fields))
	for i, f := range fields {
		list[i] = f
	}
	raw := m{"form": m{"pages": []any{
		m{"key": "page_1", "sections": []any{
			m{"key": "section_1", "fields": list},
		}},
	}}}
	return schema.FromMap(schema.NormalizeValue(raw).(map[string]any))
}

// evaluate runs a single rule the way the walker does.
func evaluate(t *testing.T, name string, params []any, value any, ctx m) error {
	t.Helper()
	rule := Rule{Name: name, Params: NormalizeParams(params)}
	args := Args{Attribute: "field", Context: NewContext(ctx, nil)}
	return NewRegistry().Evaluate(rule, schema.NormalizeValue(value), args)
}

func ruleNames(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func normalize(v m) map[string]any {
	if v == nil {
		return nil
	}
	return schema.NormalizeValue(v).(map[string]any)
}

func normalizeAny(v any) any {
	return schema.NormalizeValue(v)
}
