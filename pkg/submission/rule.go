package submission

import (
	"errors"
	"fmt"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// ErrFailed is returned by predicates that fail without a specific reason.
var ErrFailed = errors.New("validation failed")

// Failure is a rule failure with a specific default message.
// The message may use the :attribute placeholder.
type Failure struct {
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Failf returns a *Failure with a formatted message.
func Failf(format string, args ...any) error {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}

// Predicate evaluates one rule against a value. It returns nil when the
// value passes or the rule does not apply, and ErrFailed or a *Failure
// otherwise.
type Predicate func(value any, args Args) error

// Rule is a named rule with its parameters, ready for evaluation.
type Rule struct {
	Name    string
	Params  []Param
	Message string

	// Derived marks rules synthesised from the field type and constraints.
	Derived bool
}

// NewRule converts an authored rule into a Rule, normalising its parameters.
func NewRule(spec schema.RuleSpec) Rule {
	return Rule{
		Name:    spec.Rule,
		Params:  NormalizeParams(spec.Params),
		Message: spec.Message,
	}
}

func derived(name string, params ...Param) Rule {
	return Rule{Name: name, Params: params, Derived: true}
}

// Args is what a predicate sees besides the value.
type Args struct {
	// Attribute is the key of the field being validated.
	Attribute string
	Params    []Param
	Context   *Context
}

// Len returns the number of parameters.
func (a Args) Len() int {
	return len(a.Params)
}

// Value returns the resolved value of parameter i.
func (a Args) Value(i int) (any, bool) {
	if i < 0 || i >= len(a.Params) {
		return nil, false
	}
	return a.Params[i].Resolve(a.Context), true
}

// Values returns the resolved values of the parameters from index i on.
func (a Args) Values(from int) []any {
	if from >= len(a.Params) {
		return nil
	}
	out := make([]any, 0, len(a.Params)-from)
	for _, p := range a.Params[from:] {
		out = append(out, p.Resolve(a.Context))
	}
	return out
}

// Number returns parameter i as a number.
func (a Args) Number(i int) (float64, bool) {
	v, ok := a.Value(i)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}
