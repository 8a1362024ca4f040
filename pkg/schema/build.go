package schema

import "fmt"

// FromMap builds a typed Schema from a decoded JSON/YAML document.
//
// The conversion is lenient: containers of the wrong shape are treated as
// empty and unexpected scalar types become zero values. Structural problems
// are reported by the schema validator, not here, so FromMap never fails.
// Entries of fields that are not objects are kept as fields with an empty key
// so the submission walker can report them by path.
func FromMap(raw map[string]any) *Schema {
	s := &Schema{}
	form, _ := raw["form"].(map[string]any)
	if form == nil {
		return s
	}

	pages, _ := form["pages"].([]any)
	for pi, rawPage := range pages {
		pageMap, _ := rawPage.(map[string]any)
		page := Page{Key: stringOf(pageMap["key"])}

		sections, _ := pageMap["sections"].([]any)
		for si, rawSection := range sections {
			sectionMap, _ := rawSection.(map[string]any)
			section := Section{Key: stringOf(sectionMap["key"])}

			fields, _ := sectionMap["fields"].([]any)
			for fi, rawField := range fields {
				fieldMap, _ := rawField.(map[string]any)
				field := buildField(fieldMap)
				field.Path = FieldPath(pi, si, fi)
				section.Fields = append(section.Fields, field)
			}
			page.Sections = append(page.Sections, section)
		}
		s.Form.Pages = append(s.Form.Pages, page)
	}
	return s
}

// FieldPath renders the schema location of a field.
func FieldPath(page, section, field int) string {
	return fmt.Sprintf("form.pages[%d].sections[%d].fields[%d]", page, section, field)
}

func buildField(m map[string]any) Field {
	field := Field{
		Key:      stringOf(m["key"]),
		Type:     FieldType(stringOf(m["type"])),
		Required: Truthy(m["required"]),
	}

	if constraints, ok := m["constraints"].(map[string]any); ok {
		field.Constraints = NormalizeMap(constraints)
	}

	if props, ok := m["option_properties"].(map[string]any); ok {
		field.OptionProperties = buildOptionProperties(props)
	}

	if rules, ok := m["validations"].([]any); ok {
		for _, rawRule := range rules {
			ruleMap, ok := rawRule.(map[string]any)
			if !ok {
				continue
			}
			field.Validations = append(field.Validations, buildRuleSpec(ruleMap))
		}
	}
	return field
}

func buildOptionProperties(m map[string]any) *OptionProperties {
	props := &OptionProperties{Type: OptionType(stringOf(m["type"]))}
	if max, ok := asInt64(m["max_select"]); ok {
		props.MaxSelect = &max
	}
	data, _ := m["data"].([]any)
	for _, rawItem := range data {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		props.Data = append(props.Data, OptionItem{
			Key:   scalarString(item["key"]),
			Value: scalarString(item["value"]),
		})
	}
	return props
}

func buildRuleSpec(m map[string]any) RuleSpec {
	spec := RuleSpec{Rule: stringOf(m["rule"])}
	switch params := m["params"].(type) {
	case nil:
	case []any:
		spec.Params = make([]any, len(params))
		for i, p := range params {
			spec.Params[i] = NormalizeValue(p)
		}
	default:
		spec.Params = []any{NormalizeValue(params)}
	}
	if msg, ok := asString(m["message"]); ok {
		spec.Message = msg
	}
	return spec
}

func stringOf(v any) string {
	s, _ := asString(v)
	return s
}

// scalarString renders option keys that were authored as numbers.
func scalarString(v any) string {
	switch val := NormalizeValue(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case int64, float64, bool:
		return fmt.Sprint(val)
	}
	return ""
}
