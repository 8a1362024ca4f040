package submission

import (
	"strings"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

const (
	fieldRefPrefix = "{field:"
	fieldRefSuffix = "}"
)

// Param is a rule parameter: either a literal value or a reference to
// another field whose value is looked up when the rule is evaluated.
type Param struct {
	value any
	ref   string
}

// Literal returns a parameter holding v.
func Literal(v any) Param {
	return Param{value: schema.NormalizeValue(v)}
}

// FieldRef returns a parameter that resolves to the value of key.
func FieldRef(key string) Param {
	return Param{ref: key}
}

// ParseParam turns a raw parameter into a Param. Strings of the exact form
// {field:<key>} with a non-empty key become references; anything else,
// including malformed reference syntax, is a literal.
func ParseParam(v any) Param {
	if s, ok := v.(string); ok {
		if key, ok := ParseFieldRef(s); ok {
			return FieldRef(key)
		}
	}
	return Literal(v)
}

// ParseFieldRef extracts the key of a {field:<key>} token.
func ParseFieldRef(s string) (string, bool) {
	if !strings.HasPrefix(s, fieldRefPrefix) || !strings.HasSuffix(s, fieldRefSuffix) {
		return "", false
	}
	key := s[len(fieldRefPrefix) : len(s)-len(fieldRefSuffix)]
	if key == "" {
		return "", false
	}
	return key, true
}

// LooksLikeFieldRef reports whether s was probably meant as a field
// reference but is not a valid one, e.g. "{field:}" or "{field:name".
func LooksLikeFieldRef(s string) bool {
	if !strings.HasPrefix(s, fieldRefPrefix) {
		return false
	}
	_, ok := ParseFieldRef(s)
	return !ok
}

// NormalizeParams flattens a single wrapped list into positional
// parameters and parses field references.
func NormalizeParams(raw []any) []Param {
	if len(raw) == 1 {
		if inner, ok := schema.NormalizeValue(raw[0]).([]any); ok {
			raw = inner
		}
	}
	params := make([]Param, len(raw))
	for i, v := range raw {
		params[i] = ParseParam(v)
	}
	return params
}

// IsRef reports whether p is a field reference.
func (p Param) IsRef() bool {
	return p.ref != ""
}

// Ref returns the referenced key, or "" for literals.
func (p Param) Ref() string {
	return p.ref
}

// Resolve returns the literal value or the current value of the referenced field.
func (p Param) Resolve(ctx *Context) any {
	if p.ref == "" {
		return p.value
	}
	return ctx.Get(p.ref)
}

// FieldKey returns the field key a parameter names: the key of a reference,
// or a non-empty literal string used as a bare key.
func (p Param) FieldKey() (string, bool) {
	if p.ref != "" {
		return p.ref, true
	}
	s, ok := p.value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// String renders the parameter for messages. References render as the key.
func (p Param) String() string {
	if p.ref != "" {
		return p.ref
	}
	return renderValue(p.value)
}
