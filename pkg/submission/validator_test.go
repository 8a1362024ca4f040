package submission

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/schema"
)

func TestValidate_Scenarios(t *testing.T) {
	bio := schemaFor(m{"key": "bio", "type": "medium-text", "constraints": m{"min_length": 5, "max_length": 6}})
	amount := schemaFor(m{"key": "amount", "type": "number", "constraints": m{"min": 10, "max": 1000, "step": 2}})
	comment := schemaFor(m{"key": "comment", "type": "text", "validations": []any{
		m{"rule": "required_if", "params": []any{"{field:flag}", true}},
	}})
	choice := schemaFor(m{"key": "choice", "type": "options", "option_properties": m{
		"type":       "multi-select",
		"max_select": 2,
		"data": []any{
			m{"key": "a", "value": "A"},
			m{"key": "b", "value": "B"},
			m{"key": "c", "value": "C"},
		},
	}})
	tags := schemaFor(m{"key": "tags", "type": "tag", "constraints": m{"min": 1, "max": 3}})
	email := schemaFor(m{"key": "email", "type": "email", "constraints": m{
		"allowed_domains":    []any{"google.com"},
		"disallowed_domains": []any{"gmail.com"},
		"max_length":         50,
	}})
	country := schemaFor(m{"key": "country", "type": "country", "constraints": m{
		"allow_countries":   []any{"NG", "US"},
		"exclude_countries": []any{"RU", "CN"},
	}})
	agree := schemaFor(m{"key": "agree", "type": "boolean"})

	tests := []struct {
		name    string
		schema  *schema.Schema
		payload m
		valid   bool
	}{
		{"bio absent", bio, m{}, true},
		{"bio too short", bio, m{"bio": "abcd"}, false},
		{"bio at minimum", bio, m{"bio": "abcde"}, true},
		{"bio too long", bio, m{"bio": "abcdefg"}, false},

		{"amount not numeric", amount, m{"amount": "abc"}, false},
		{"amount below min", amount, m{"amount": 9}, false},
		{"amount on step", amount, m{"amount": 12}, true},
		{"amount off step", amount, m{"amount": 13}, false},
		{"amount above max", amount, m{"amount": 1001}, false},
		{"amount numeric string", amount, m{"amount": "20"}, true},

		{"comment not required", comment, m{"flag": false}, true},
		{"comment required", comment, m{"flag": true}, false},
		{"comment given", comment, m{"flag": true, "comment": "ok"}, true},

		{"choice within max", choice, m{"choice": []any{"a", "b"}}, true},
		{"choice over max", choice, m{"choice": []any{"a", "b", "c"}}, false},
		{"choice unknown key", choice, m{"choice": []any{"a", "nope"}}, false},
		{"choice not a list", choice, m{"choice": "a"}, false},
		{"choice empty", choice, m{"choice": []any{}}, true},

		{"tags absent", tags, m{}, true},
		{"tags one", tags, m{"tags": []any{"a"}}, true},
		{"tags too many", tags, m{"tags": []any{"a", "b", "c", "d"}}, false},

		{"email invalid", email, m{"email": "not-an-email"}, false},
		{"email other domain", email, m{"email": "user@example.com"}, false},
		{"email disallowed", email, m{"email": "user@gmail.com"}, false},
		{"email allowed", email, m{"email": "user@google.com"}, true},

		{"country allowed", country, m{"country": "US"}, true},
		{"country not allowed", country, m{"country": "CA"}, false},
		{"country excluded", country, m{"country": "RU"}, false},

		{"boolean absent", agree, m{}, true},
		{"boolean on", agree, m{"agree": "on"}, true},
		{"boolean maybe", agree, m{"agree": "maybe"}, false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.schema, tt.payload, nil)
			if res.IsValid() != tt.valid {
				t.Errorf("IsValid() = %v, want %v (errors: %v)", res.IsValid(), tt.valid, res.Errors())
			}
		})
	}
}

func TestValidate_ExplicitRules(t *testing.T) {
	tests := []struct {
		name    string
		field   m
		payload m
		valid   bool
	}{
		{
			name: "text rules",
			field: m{"key": "text", "type": "short-text", "validations": []any{
				m{"rule": "min", "params": []any{3}},
				m{"rule": "max", "params": []any{5}},
				m{"rule": "between", "params": []any{3, 5}},
				m{"rule": "starts_with", "params": []any{"he"}},
				m{"rule": "ends_with", "params": []any{"lo"}},
			}},
			payload: m{"text": "hello"},
			valid:   true,
		},
		{
			name: "number rules",
			field: m{"key": "age", "type": "number", "required": true, "validations": []any{
				m{"rule": "numeric"},
				m{"rule": "min", "params": []any{18}},
				m{"rule": "max", "params": []any{30}},
				m{"rule": "between", "params": []any{18, 30}},
			}},
			payload: m{"age": 25},
			valid:   true,
		},
		{
			name:    "boolean rule",
			field:   m{"key": "active", "type": "boolean", "validations": []any{m{"rule": "boolean"}}},
			payload: m{"active": true},
			valid:   true,
		},
		{
			name:    "email rule",
			field:   m{"key": "email", "type": "email", "validations": []any{m{"rule": "email"}}},
			payload: m{"email": "user@example.com"},
			valid:   true,
		},
		{
			name: "membership rules",
			field: m{"key": "color", "type": "short-text", "validations": []any{
				m{"rule": "in", "params": []any{"red", "blue"}},
				m{"rule": "not_in", "params": []any{"green"}},
			}},
			payload: m{"color": "red"},
			valid:   true,
		},
		{
			name:    "regex rule",
			field:   m{"key": "slug", "type": "short-text", "validations": []any{m{"rule": "regex", "params": []any{"/^[-a-z0-9]+$/i"}}}},
			payload: m{"slug": "abc-123"},
			valid:   true,
		},
		{
			name:    "before rule",
			field:   m{"key": "start", "type": "date", "validations": []any{m{"rule": "before", "params": []any{"2025-01-01"}}}},
			payload: m{"start": "2024-12-31"},
			valid:   true,
		},
		{
			name:    "required_if bare key not triggered",
			field:   m{"key": "comment", "type": "text", "validations": []any{m{"rule": "required_if", "params": []any{"flag", true}}}},
			payload: m{"flag": false},
			valid:   true,
		},
		{
			name:    "required_if bare key triggered",
			field:   m{"key": "comment", "type": "text", "validations": []any{m{"rule": "required_if", "params": []any{"flag", true}}}},
			payload: m{"flag": true},
			valid:   false,
		},
		{
			name:    "ends_with mismatch",
			field:   m{"key": "phrase", "type": "text", "validations": []any{m{"rule": "ends_with", "params": []any{"world"}}}},
			payload: m{"phrase": "hello"},
			valid:   false,
		},
		{
			name:    "unknown rule passes",
			field:   m{"key": "x", "type": "text", "validations": []any{m{"rule": "future_rule", "params": []any{1}}}},
			payload: m{"x": "anything"},
			valid:   true,
		},
		{
			name:    "hidden field runs explicit rules",
			field:   m{"key": "token", "type": "hidden", "validations": []any{m{"rule": "required"}}},
			payload: m{},
			valid:   false,
		},
		{
			name:    "divider ignores rules",
			field:   m{"key": "line", "type": "divider", "required": true, "validations": []any{m{"rule": "required"}}},
			payload: m{},
			valid:   true,
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(schemaFor(tt.field), tt.payload, nil)
			if res.IsValid() != tt.valid {
				t.Errorf("IsValid() = %v, want %v (errors: %v)", res.IsValid(), tt.valid, res.Errors())
			}
		})
	}
}

var contactSchema = m{
	"form": m{"pages": []any{m{"key": "page_1", "sections": []any{m{"key": "section_1", "fields": []any{
		m{"key": "name", "type": "short-text", "required": true, "validations": []any{
			m{"rule": "min", "params": []any{3}, "message": "Name must be at least 3 chars."},
		}},
		m{"key": "email", "type": "email", "validations": []any{
			m{"rule": "email", "message": "Email must be valid."},
		}},
		m{"key": "terms", "type": "boolean", "validations": []any{
			m{"rule": "required_if_accepted", "params": []any{"consent"}, "message": "Terms required if consent accepted."},
		}},
	}}}}}},
}

func TestValidateMap_Submission(t *testing.T) {
	raw := schema.NormalizeValue(contactSchema).(map[string]any)
	v := New()

	t.Run("valid", func(t *testing.T) {
		res := v.ValidateMap(raw, m{"name": "John Doe", "email": "john@example.com"}, nil)
		if !res.IsValid() {
			t.Errorf("expected valid, got %v", res.Errors())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		res := v.ValidateMap(raw, m{"name": "Al", "email": "invalid"}, nil)
		want := map[string]string{
			"name":  "Name must be at least 3 chars.",
			"email": "The email must be a valid email address.",
		}
		if diff := cmp.Diff(want, res.Errors()); diff != "" {
			t.Errorf("errors mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"name", "email"}, res.Keys()); diff != "" {
			t.Errorf("key order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replacements fill missing values", func(t *testing.T) {
		res := v.ValidateMap(raw, m{}, m{"consent": true, "terms": "yes", "name": "John Doe"})
		if !res.IsValid() {
			t.Errorf("expected valid, got %v", res.Errors())
		}
	})

	t.Run("consent requires terms", func(t *testing.T) {
		res := v.ValidateMap(raw, m{"name": "John Doe", "consent": "on"}, nil)
		if got := res.Get("terms"); got != "Terms required if consent accepted." {
			t.Errorf("terms error = %q", got)
		}
	})

	t.Run("replacement nil overrides payload", func(t *testing.T) {
		res := v.ValidateMap(raw, m{"name": "John Doe"}, m{"name": nil})
		if got := res.Get("name"); got != "The name field is required." {
			t.Errorf("name error = %q", got)
		}
	})
}

func TestValidate_FirstFailureWins(t *testing.T) {
	s := schemaFor(
		m{"key": "code", "type": "short-text", "validations": []any{
			m{"rule": "min", "params": []any{10}, "message": "first"},
			m{"rule": "max", "params": []any{1}, "message": "second"},
		}},
		m{"key": "code", "type": "short-text", "validations": []any{
			m{"rule": "in", "params": []any{"zzz"}, "message": "duplicate key"},
		}},
	)

	res := New().Validate(s, m{"code": "abc"}, nil)
	if got := res.Get("code"); got != "first" {
		t.Errorf("code error = %q, want %q", got, "first")
	}
	if res.Len() != 1 {
		t.Errorf("Len() = %d, want 1", res.Len())
	}
}

func TestValidate_DerivedRulesBeforeExplicit(t *testing.T) {
	s := schemaFor(m{"key": "email", "type": "email", "validations": []any{
		m{"rule": "email", "message": "Custom email message."},
	}})

	res := New().Validate(s, m{"email": "nope"}, nil)
	if got := res.Get("email"); got != "The email must be a valid email address." {
		t.Errorf("email error = %q", got)
	}
}

func TestValidate_MissingFieldKey(t *testing.T) {
	raw := schema.NormalizeValue(m{"form": m{"pages": []any{m{"key": "p", "sections": []any{m{"key": "s", "fields": []any{
		m{"type": "text", "required": true},
		"not an object",
		m{"key": "ok", "type": "text", "required": true},
	}}}}}}}).(map[string]any)

	res := New().ValidateMap(raw, m{}, nil)
	want := map[string]string{
		"form.pages[0].sections[0].fields[0].key": MsgFieldKeyRequired,
		"form.pages[0].sections[0].fields[1].key": MsgFieldKeyRequired,
		"ok": "The ok field is required.",
	}
	if diff := cmp.Diff(want, res.Errors()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ZeroFieldsAlwaysValid(t *testing.T) {
	empty := schema.FromMap(map[string]any{"form": map[string]any{"pages": []any{
		map[string]any{"key": "p", "sections": []any{map[string]any{"key": "s", "fields": []any{}}}},
	}}})
	payloads := []m{nil, {}, {"anything": "goes", "n": 1, "list": []any{1, 2}}}

	for _, p := range payloads {
		if res := Validate(empty, p, nil); !res.IsValid() {
			t.Errorf("Validate(%v) = %v, want valid", p, res.Errors())
		}
	}
	if res := Validate(nil, m{"a": 1}, nil); !res.IsValid() {
		t.Error("nil schema should validate")
	}
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name    string
		field   m
		payload m
		want    string
	}{
		{
			name:    "required default",
			field:   m{"key": "name", "type": "text", "required": true},
			payload: m{},
			want:    "The name field is required.",
		},
		{
			name:    "custom message placeholders",
			field:   m{"key": "name", "type": "text", "validations": []any{m{"rule": "min", "params": []any{3}, "message": "Need :min characters for :attribute."}}},
			payload: m{"name": "ab"},
			want:    "Need 3 characters for name.",
		},
		{
			name:    "between default",
			field:   m{"key": "qty", "type": "number", "validations": []any{m{"rule": "between", "params": []any{1, 2.5}}}},
			payload: m{"qty": 3},
			want:    "The qty must be between 1 and 2.5.",
		},
		{
			name:    "values placeholder",
			field:   m{"key": "code", "type": "text", "validations": []any{m{"rule": "starts_with", "params": []any{"AB", "CD"}}}},
			payload: m{"code": "XY"},
			want:    "The code must start with one of the following: AB, CD.",
		},
		{
			name:    "reference renders key",
			field:   m{"key": "comment", "type": "text", "validations": []any{m{"rule": "required_if", "params": []any{"{field:flag}", true}}}},
			payload: m{"flag": true},
			want:    "The comment field is required when flag is true.",
		},
		{
			name:    "derived max renders bound",
			field:   m{"key": "amount", "type": "number", "constraints": m{"max": 10}},
			payload: m{"amount": 11},
			want:    "The amount must not be greater than 10.",
		},
		{
			name:    "step message",
			field:   m{"key": "amount", "type": "number", "constraints": m{"step": 5}},
			payload: m{"amount": 7},
			want:    "The amount must be a multiple of 5.",
		},
		{
			name:    "email domain not allowed",
			field:   m{"key": "email", "type": "email", "constraints": m{"allowed_domains": []any{"acme.com"}}},
			payload: m{"email": "a@example.com"},
			want:    "The email must use one of the allowed email domains: acme.com.",
		},
		{
			name:    "email domain denied",
			field:   m{"key": "email", "type": "email", "constraints": m{"disallowed_domains": []any{"gmail.com"}}},
			payload: m{"email": "a@gmail.com"},
			want:    "The email must not use the email domain gmail.com.",
		},
		{
			name:    "unknown placeholder left alone",
			field:   m{"key": "x", "type": "text", "validations": []any{m{"rule": "in", "params": []any{"a"}, "message": "Ratio 1:2 :nothing"}}},
			payload: m{"x": "b"},
			want:    "Ratio 1:2 :nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(schemaFor(tt.field), tt.payload, nil)
			key := tt.field["key"].(string)
			if got := res.Get(key); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssertValid(t *testing.T) {
	s := schemaFor(m{"key": "name", "type": "text", "required": true})

	if err := AssertValid(s, m{"name": "x"}, nil); err != nil {
		t.Fatalf("AssertValid(valid) = %v", err)
	}

	err := AssertValid(s, m{}, nil)
	var invalid *result.InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *result.InvalidError, got %T", err)
	}
	if invalid.Subject != result.SubjectSubmission {
		t.Errorf("Subject = %q", invalid.Subject)
	}
	want := `Invalid submission: {"name":"The name field is required."}`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCheck_ReportsRuleNames(t *testing.T) {
	s := schemaFor(
		m{"key": "a", "type": "number"},
		m{"key": "b", "type": "text", "required": true},
		m{"key": "c", "type": "text"},
	)
	v := New()
	got := v.Check(s, v.NewContext(m{"a": "x"}, nil))

	var rules []string
	for _, fe := range got {
		rules = append(rules, fe.Key+":"+fe.Rule)
	}
	if diff := cmp.Diff([]string{"a:numeric", "b:required"}, rules); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}
	if got[0].Path != "form.pages[0].sections[0].fields[0]" {
		t.Errorf("Path = %q", got[0].Path)
	}
}

func TestCustomRules(t *testing.T) {
	even := func(value any, _ Args) error {
		n, ok := toInt64(value)
		if !ok || n%2 != 0 {
			return ErrFailed
		}
		return nil
	}
	always := func(value any, args Args) error {
		if IsEmpty(value) {
			return Failf("The :attribute must be provided for %s.", args.Attribute)
		}
		return nil
	}

	v := New(
		WithRule("even", even),
		WithImplicitRule("present", always),
		WithMessage("even", "The :attribute must be even."),
	)
	s := schemaFor(
		m{"key": "n", "type": "number", "validations": []any{m{"rule": "even"}}},
		m{"key": "p", "type": "text", "validations": []any{m{"rule": "present"}}},
	)

	res := v.Validate(s, m{"n": 3}, nil)
	want := map[string]string{
		"n": "The n must be even.",
		"p": "The p must be provided for p.",
	}
	if diff := cmp.Diff(want, res.Errors()); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}

	if !v.Registry().Has("even") || NewRegistry().Has("even") {
		t.Error("custom rules must be scoped to their registry")
	}
}

func TestWithClock(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	v := New(WithClock(func() time.Time { return fixed }))
	s := schemaFor(m{"key": "due", "type": "date", "validations": []any{m{"rule": "after", "params": []any{"today"}}}})

	if res := v.Validate(s, m{"due": "2024-06-16"}, nil); !res.IsValid() {
		t.Errorf("expected valid, got %v", res.Errors())
	}
	if res := v.Validate(s, m{"due": "2024-06-14"}, nil); res.IsValid() {
		t.Error("expected past date to fail")
	}
}

func TestValidate_Concurrent(t *testing.T) {
	s := schemaFor(
		m{"key": "amount", "type": "number", "constraints": m{"min": 10, "max": 1000, "step": 2}},
		m{"key": "slug", "type": "short-text", "validations": []any{m{"rule": "regex", "params": []any{"/^[a-z-]+$/"}}}},
		m{"key": "choice", "type": "options", "option_properties": m{
			"type": "checkbox", "max_select": 2,
			"data": []any{m{"key": "a", "value": "A"}, m{"key": "b", "value": "B"}},
		}},
	)
	v := New()

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := m{"amount": 10 + 2*i, "slug": "ok-slug", "choice": []any{"a"}}
			wantValid := 10+2*i <= 1000
			if i%2 == 1 {
				payload["slug"] = fmt.Sprintf("Bad %d", i)
				wantValid = false
			}
			res := v.Validate(s, payload, nil)
			if res.IsValid() != wantValid {
				errs <- fmt.Sprintf("goroutine %d: valid = %v, errors = %v", i, res.IsValid(), res.Errors())
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	var failures []string
	for e := range errs {
		failures = append(failures, e)
	}
	if len(failures) > 0 {
		t.Error(strings.Join(failures, "\n"))
	}
}

func TestValidate_DecodedJSONPayload(t *testing.T) {
	s := schemaFor(
		m{"key": "agree", "type": "boolean"},
		m{"key": "terms", "type": "text", "validations": []any{
			m{"rule": "required_if_accepted", "params": []any{"{field:agree}"}},
		}},
		m{"key": "size", "type": "options", "option_properties": m{
			"type": "select", "data": []any{m{"key": 1, "value": "Small"}, m{"key": 2, "value": "Large"}},
		}},
		m{"key": "extras", "type": "options", "option_properties": m{
			"type": "checkbox", "data": []any{m{"key": 1, "value": "Gift wrap"}, m{"key": "note", "value": "Note"}},
		}},
	)

	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "numbers decode as float64",
			body: `{"agree": 1, "terms": "ok", "size": 2, "extras": [1, "note"]}`,
			want: map[string]string{},
		},
		{
			name: "accepted flag requires terms",
			body: `{"agree": 1, "size": 1}`,
			want: map[string]string{"terms": "The terms field is required when agree is accepted."},
		},
		{
			name: "unknown option",
			body: `{"agree": 0, "size": 3, "extras": [2]}`,
			want: map[string]string{
				"size":   "The selected size is invalid.",
				"extras": "The extras contains an invalid selection.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload map[string]any
			if err := json.Unmarshal([]byte(tt.body), &payload); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			res := New().Validate(s, payload, nil)
			if diff := cmp.Diff(tt.want, res.Errors()); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
