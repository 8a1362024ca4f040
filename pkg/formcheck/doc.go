// Package formcheck is the entry point for validating form schemas and
// submissions.
//
// The package level functions use a shared Engine with the built-in rules:
//
//	res := formcheck.ValidateSchema(raw)
//	if !res.IsValid() {
//		// res.Errors() is keyed by schema path, e.g. form.pages[0].key
//	}
//
//	s := schema.FromMap(raw)
//	if err := formcheck.AssertValidSubmission(s, payload, nil); err != nil {
//		var invalid *result.InvalidError
//		errors.As(err, &invalid) // invalid.Result is keyed by field key
//	}
//
// An Engine built with New can carry custom rules (WithValidator), a logger,
// a Prometheus collector and a tracer. Every pass then records its outcome,
// duration and failing rules.
//
// Lint extends schema validation with warnings for authoring mistakes that
// do not make a schema invalid: unknown rule names, which always pass, and
// malformed {field:...} references, which are compared as literals.
package formcheck
