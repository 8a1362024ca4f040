package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleYAML = `
form:
  pages:
    - key: page_1
      sections:
        - key: section_1
          fields:
            - key: choice
              type: options
              required: "1"
              option_properties:
                type: multi-select
                max_select: 2
                data:
                  - {key: a, value: A}
                  - {key: 2, value: Two}
              validations:
                - rule: min
                  params: 1
                  message: Pick one.
                - {params: [1]}
            - not-a-field
`

func TestParseDocument_YAML(t *testing.T) {
	raw, err := ParseDocument([]byte(sampleYAML), FormatAuto, "sample.yaml")
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	s := FromMap(raw)
	fields := s.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	max := int64(2)
	want := Field{
		Key:      "choice",
		Type:     FieldTypeOptions,
		Required: true,
		OptionProperties: &OptionProperties{
			Type:      OptionTypeMultiSelect,
			MaxSelect: &max,
			Data:      []OptionItem{{Key: "a", Value: "A"}, {Key: "2", Value: "Two"}},
		},
		Validations: []RuleSpec{
			{Rule: "min", Params: []any{int64(1)}, Message: "Pick one."},
			{Rule: "", Params: []any{int64(1)}},
		},
		Path: "form.pages[0].sections[0].fields[0]",
	}
	if diff := cmp.Diff(want, fields[0]); diff != "" {
		t.Errorf("field mismatch (-want +got):\n%s", diff)
	}

	if fields[1].Key != "" || fields[1].Path != "form.pages[0].sections[0].fields[1]" {
		t.Errorf("non-object field should keep its path with an empty key, got %+v", fields[1])
	}
}

func TestParseDocument_JSONNumbers(t *testing.T) {
	raw, err := ParseDocument([]byte(`{"a": 1, "b": 1.5, "c": [2, "x"], "d": 1e2}`), FormatJSON, "")
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	want := map[string]any{
		"a": int64(1),
		"b": 1.5,
		"c": []any{int64(2), "x"},
		"d": float64(100),
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "invalid json", data: `{"form":`, format: FormatJSON},
		{name: "invalid yaml", data: "form: [", format: FormatYAML},
		{name: "array root", data: `[1, 2]`, format: FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.data), tt.format, "doc")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("a/b.YML"); err != nil || f != FormatYAML {
		t.Errorf("FormatFromPath(.YML) = %q, %v", f, err)
	}
	if _, err := FormatFromPath("a/b.toml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "int", in: 3, want: int64(3)},
		{name: "uint8", in: uint8(7), want: int64(7)},
		{name: "float32", in: float32(0.5), want: 0.5},
		{name: "json number int", in: json.Number("42"), want: int64(42)},
		{name: "json number float", in: json.Number("4.2"), want: 4.2},
		{name: "string slice", in: []string{"a", "b"}, want: []any{"a", "b"}},
		{name: "typed map", in: map[string]int{"n": 1}, want: map[string]any{"n": int64(1)}},
		{name: "any-keyed map", in: map[any]any{1: "x"}, want: map[string]any{"1": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NormalizeValue(tt.in)); diff != "" {
				t.Errorf("NormalizeValue() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	falsy := []any{nil, false, int64(0), 0.0, "", "0", []any{}}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%#v) = true, want false", v)
		}
	}
	truthy := []any{true, int64(1), "false", "no", []any{1}}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%#v) = false, want true", v)
		}
	}
}
