// Package submission evaluates a submitted payload against a form schema.
//
// For every field, in document order, the Validator builds an effective rule
// list (a leading required rule, the rules derived from the field type and
// constraints, then the explicit validations in declared order) and evaluates
// it until the first failure. The first failing rule's message is recorded
// against the field key.
//
// Rules are pure predicates held in an immutable Registry. A rule parameter is
// either a literal or a field reference written as {field:<key>}; references
// are resolved against the submission Context at evaluation time, so a rule
// may compare against fields that appear later in the schema.
//
// Empty values (nil, blank strings, empty lists) pass every rule except the
// required family. Unknown rule names pass.
//
// Basic usage:
//
//	v := submission.New()
//	res := v.Validate(s, payload, replacements)
//	if !res.IsValid() {
//		for _, key := range res.Keys() {
//			fmt.Println(key, res.Get(key))
//		}
//	}
package submission
