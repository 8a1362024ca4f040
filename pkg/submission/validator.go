package submission

import (
	"time"

	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// MsgFieldKeyRequired is recorded at the schema path of a field without a key.
const MsgFieldKeyRequired = "Field key is required."

// FieldError describes the first failing rule of a field.
type FieldError struct {
	// Key is the field key, or the field's schema path plus ".key" when
	// the field has no key.
	Key     string
	Path    string
	Rule    string
	Message string
}

// Validator evaluates submissions. It is immutable and safe for concurrent use.
type Validator struct {
	registry *Registry
	now      func() time.Time
}

// New creates a Validator with the built-in rules and any options.
func New(opts ...Option) *Validator {
	o := buildOptions(opts)
	return &Validator{
		registry: &Registry{rules: o.rules, messages: o.messages},
		now:      o.now,
	}
}

// Registry returns the rule registry of the validator.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Rules returns the effective rule list of a field: required, then the
// derived rules, then the explicit validations in declared order.
// Layout fields have no rules.
func (v *Validator) Rules(f schema.Field) []Rule {
	if f.Type.IsLayout() {
		return nil
	}
	var rules []Rule
	if f.Required {
		rules = append(rules, derived("required"))
	}
	rules = append(rules, DeriveRules(f)...)
	for _, spec := range f.Validations {
		rules = append(rules, NewRule(spec))
	}
	return rules
}

// Check walks the schema in document order and returns the first failure
// of every failing field.
func (v *Validator) Check(s *schema.Schema, ctx *Context) []FieldError {
	var failures []FieldError
	for _, f := range s.Fields() {
		if f.Key == "" {
			failures = append(failures, FieldError{
				Key:     f.Path + ".key",
				Path:    f.Path,
				Message: MsgFieldKeyRequired,
			})
			continue
		}
		if fe, failed := v.CheckField(f, ctx); failed {
			failures = append(failures, fe)
		}
	}
	return failures
}

// CheckField evaluates the effective rules of one field and stops at the
// first failure.
func (v *Validator) CheckField(f schema.Field, ctx *Context) (FieldError, bool) {
	value := ctx.Get(f.Key)
	if f.Type.IsFile() {
		value = DropMissingFiles(value)
	}

	args := Args{Attribute: f.Key, Context: ctx}
	for _, rule := range v.Rules(f) {
		err := v.registry.Evaluate(rule, value, args)
		if err == nil {
			continue
		}
		return FieldError{
			Key:     f.Key,
			Path:    f.Path,
			Rule:    rule.Name,
			Message: v.registry.message(rule, f.Key, err),
		}, true
	}
	return FieldError{}, false
}

// NewContext builds the context of a pass using the validator's clock.
func (v *Validator) NewContext(payload, replacements map[string]any) *Context {
	return newContext(payload, replacements, v.now())
}

// Validate checks payload, overlaid by replacements, against s. Errors are
// keyed by field key; when two fields share a key the first error is kept.
func (v *Validator) Validate(s *schema.Schema, payload, replacements map[string]any) *result.Result {
	res := result.New()
	if s == nil {
		return res
	}
	for _, fe := range v.Check(s, v.NewContext(payload, replacements)) {
		res.Add(fe.Key, fe.Message)
	}
	return res
}

// ValidateMap is Validate for a schema given as a decoded document.
func (v *Validator) ValidateMap(raw, payload, replacements map[string]any) *result.Result {
	return v.Validate(schema.FromMap(raw), payload, replacements)
}

// AssertValid runs a full pass and returns a *result.InvalidError carrying
// every field error when the submission is invalid.
func (v *Validator) AssertValid(s *schema.Schema, payload, replacements map[string]any) error {
	return result.Check(result.SubjectSubmission, v.Validate(s, payload, replacements))
}

var defaultValidator = New()

// Validate checks a submission with the built-in rules.
func Validate(s *schema.Schema, payload, replacements map[string]any) *result.Result {
	return defaultValidator.Validate(s, payload, replacements)
}

// AssertValid is Validate returning a *result.InvalidError for invalid input.
func AssertValid(s *schema.Schema, payload, replacements map[string]any) error {
	return defaultValidator.AssertValid(s, payload, replacements)
}
