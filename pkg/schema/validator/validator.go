package validator

import (
	"github.com/opheus2/form-schema-validator/pkg/result"
)

var defaultValidator = NewStructuralValidator()

// Validate runs the structural checks on a decoded schema document.
func Validate(raw map[string]any) *result.Result {
	return defaultValidator.Validate(raw)
}

// AssertValid returns a *result.InvalidError carrying every structural
// error when raw is not a valid schema.
func AssertValid(raw map[string]any) error {
	return result.Check(result.SubjectSchema, Validate(raw))
}
