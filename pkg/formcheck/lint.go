package formcheck

import (
	"fmt"

	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/schema/validator"
	"github.com/opheus2/form-schema-validator/pkg/submission"
)

// Warning is a lint finding that does not make a schema invalid.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// LintReport combines structural errors with lint warnings.
type LintReport struct {
	Errors   map[string]string `json:"errors"`
	Warnings []Warning         `json:"warnings"`
}

// OK reports whether the schema is valid, and with strict also free of
// warnings.
func (r LintReport) OK(strict bool) bool {
	if len(r.Errors) > 0 {
		return false
	}
	return !strict || len(r.Warnings) == 0
}

// Lint reports rules the engine does not know, which always pass, and
// parameters that look like field references but are malformed, which are
// compared as literal strings.
func (e *Engine) Lint(raw map[string]any) LintReport {
	report := LintReport{Errors: validator.Validate(raw).Errors()}
	registry := e.submissions.Registry()

	for _, f := range schema.FromMap(raw).Fields() {
		for i, spec := range f.Validations {
			path := fmt.Sprintf("%s.validations[%d]", f.Path, i)
			if spec.Rule == "" {
				report.Warnings = append(report.Warnings, Warning{Path: path, Message: "missing rule name"})
				continue
			}
			if !registry.Has(spec.Rule) {
				report.Warnings = append(report.Warnings, Warning{
					Path:    path,
					Message: fmt.Sprintf("unknown rule %q always passes", spec.Rule),
				})
			}
			for _, p := range flattenParams(spec.Params) {
				s, ok := p.(string)
				if ok && submission.LooksLikeFieldRef(s) {
					report.Warnings = append(report.Warnings, Warning{
						Path:    path,
						Message: fmt.Sprintf("malformed field reference %q is treated as a literal", s),
					})
				}
			}
		}
	}
	return report
}

// Lint runs Engine.Lint on the package level engine.
func Lint(raw map[string]any) LintReport {
	return defaultEngine.Lint(raw)
}

func flattenParams(params []any) []any {
	if len(params) == 1 {
		if inner, ok := schema.NormalizeValue(params[0]).([]any); ok {
			return inner
		}
	}
	return params
}
