package submission

import (
	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// DeriveRules synthesises the implicit rules of a field from its type,
// constraints and option properties. Constraint rules are only derived when
// the constraint is present and well formed.
func DeriveRules(f schema.Field) []Rule {
	t := f.Type
	switch {
	case t.IsLayout(), t == schema.FieldTypeHidden:
		return nil
	case t.IsFile():
		constraints := f.Constraints
		if constraints == nil {
			constraints = map[string]any{}
		}
		return []Rule{derived("files", Literal(constraints))}
	}

	var rules []Rule
	switch t {
	case schema.FieldTypeEmail:
		rules = append(rules, derived("email"), derived("string"))
		rules = append(rules, lengthRules(f)...)
		allowed := listConstraint(f, "allowed_domains")
		disallowed := listConstraint(f, "disallowed_domains")
		if len(allowed) > 0 || len(disallowed) > 0 {
			rules = append(rules, derived("email_domains", Literal(allowed), Literal(disallowed)))
		}

	case schema.FieldTypePhone:
		rules = append(rules, derived("phone"), derived("string"))
		rules = append(rules, lengthRules(f)...)

	case schema.FieldTypeURL:
		rules = append(rules, derived("url"), derived("string"))
		rules = append(rules, lengthRules(f)...)

	case schema.FieldTypeCountry:
		rules = append(rules, derived("string"))
		rules = append(rules, lengthRules(f)...)
		if allow := listConstraint(f, "allow_countries"); len(allow) > 0 {
			rules = append(rules, derived("in", literals(allow)...))
		}
		if exclude := listConstraint(f, "exclude_countries"); len(exclude) > 0 {
			rules = append(rules, derived("not_in", literals(exclude)...))
		}

	case schema.FieldTypeNumber, schema.FieldTypeRating:
		rules = append(rules, derived("numeric"))
		rules = append(rules, boundRules(f)...)
		if t == schema.FieldTypeNumber {
			if step, ok := numericConstraint(f, "step"); ok {
				params := []Param{step}
				if base, ok := numericConstraint(f, "min"); ok {
					params = append(params, base)
				}
				rules = append(rules, derived("step", params...))
			}
		}

	case schema.FieldTypeBoolean:
		rules = append(rules, derived("boolean"))

	case schema.FieldTypeDate:
		rules = append(rules, derived("date"))
	case schema.FieldTypeTime:
		rules = append(rules, derived("time"))
	case schema.FieldTypeDateTime:
		rules = append(rules, derived("datetime"))

	case schema.FieldTypeTag:
		rules = append(rules, derived("array"))
		rules = append(rules, boundRules(f)...)

	case schema.FieldTypeOptions:
		rules = append(rules, optionRules(f)...)

	default:
		if t.IsText() {
			rules = append(rules, derived("string"))
			rules = append(rules, lengthRules(f)...)
		}
	}
	return rules
}

// optionRules restricts values to the declared option keys. Multiple
// choice styles require a list, bound its length by max_select and check
// every element.
func optionRules(f schema.Field) []Rule {
	props := f.OptionProperties
	if props == nil {
		return nil
	}
	keys := make([]any, 0, len(props.Data))
	for _, k := range props.Keys() {
		keys = append(keys, k)
	}

	if !props.Type.Multiple() {
		if len(keys) == 0 {
			return nil
		}
		return []Rule{derived("option", literals(keys)...)}
	}

	rules := []Rule{derived("array")}
	if props.MaxSelect != nil {
		rules = append(rules, derived("max", Literal(*props.MaxSelect)))
	}
	rules = append(rules, boundRules(f)...)
	if len(keys) > 0 {
		rules = append(rules, derived("option_each", literals(keys)...))
	}
	return rules
}

func lengthRules(f schema.Field) []Rule {
	var rules []Rule
	if p, ok := numericConstraint(f, "min_length"); ok {
		rules = append(rules, derived("min_length", p))
	}
	if p, ok := numericConstraint(f, "max_length"); ok {
		rules = append(rules, derived("max_length", p))
	}
	return rules
}

func boundRules(f schema.Field) []Rule {
	var rules []Rule
	if p, ok := numericConstraint(f, "min"); ok {
		rules = append(rules, derived("min", p))
	}
	if p, ok := numericConstraint(f, "max"); ok {
		rules = append(rules, derived("max", p))
	}
	return rules
}

func numericConstraint(f schema.Field, name string) (Param, bool) {
	v, ok := f.Constraint(name)
	if !ok || !IsNumeric(v) {
		return Param{}, false
	}
	return Literal(v), true
}

func listConstraint(f schema.Field, name string) []any {
	v, ok := f.Constraint(name)
	if !ok {
		return nil
	}
	return listOf(v)
}

func literals(values []any) []Param {
	params := make([]Param, len(values))
	for i, v := range values {
		params[i] = Literal(v)
	}
	return params
}
