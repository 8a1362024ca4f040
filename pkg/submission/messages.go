package submission

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

const fallbackMessage = "The :attribute is invalid."

var defaultMessages = map[string]string{
	"required":             "The :attribute field is required.",
	"required_if":          "The :attribute field is required when :other is :value.",
	"required_unless":      "The :attribute field is required unless :other is in :values.",
	"required_if_accepted": "The :attribute field is required when :other is accepted.",
	"required_if_declined": "The :attribute field is required when :other is declined.",
	"required_with":        "The :attribute field is required when :values is present.",
	"required_with_all":    "The :attribute field is required when :values are present.",
	"required_without":     "The :attribute field is required when :values is not present.",
	"required_without_all": "The :attribute field is required when none of :values are present.",

	"string":   "The :attribute must be a string.",
	"numeric":  "The :attribute must be a number.",
	"boolean":  "The :attribute field must be true or false.",
	"array":    "The :attribute must be a list.",
	"email":    "The :attribute must be a valid email address.",
	"url":      "The :attribute must be a valid URL.",
	"phone":    "The :attribute must be a valid phone number.",
	"date":     "The :attribute must be a valid date (YYYY-MM-DD).",
	"time":     "The :attribute must be a valid time (HH:MM or HH:MM:SS).",
	"datetime": "The :attribute must be a valid date and time.",

	"min":         "The :attribute must be at least :min.",
	"max":         "The :attribute must not be greater than :max.",
	"min_length":  "The :attribute must be at least :min characters.",
	"max_length":  "The :attribute must not be greater than :max characters.",
	"between":     "The :attribute must be between :min and :max.",
	"not_between": "The :attribute must not be between :min and :max.",
	"size":        "The :attribute must be :size.",
	"gt":          "The :attribute must be greater than :value.",
	"gte":         "The :attribute must be greater than or equal to :value.",
	"lt":          "The :attribute must be less than :value.",
	"lte":         "The :attribute must be less than or equal to :value.",
	"step":        "The :attribute must be a multiple of :step.",

	"in":          "The selected :attribute is invalid.",
	"not_in":      "The selected :attribute is invalid.",
	"in_each":     "The :attribute contains an invalid selection.",
	"option":      "The selected :attribute is invalid.",
	"option_each": "The :attribute contains an invalid selection.",
	"starts_with": "The :attribute must start with one of the following: :values.",
	"ends_with":   "The :attribute must end with one of the following: :values.",
	"regex":       "The :attribute format is invalid.",

	"before": "The :attribute must be a date before :date.",
	"after":  "The :attribute must be a date after :date.",

	"email_domains": "The :attribute must use an allowed email domain.",
	"files":         "The :attribute is not a valid file upload.",
}

// placeholders names the positional parameters each rule exposes to messages.
// :values always renders the parameters from valuesFrom on.
var placeholders = map[string]struct {
	names      []string
	valuesFrom int
}{
	"required_if":          {names: []string{"other", "value"}, valuesFrom: 1},
	"required_unless":      {names: []string{"other"}, valuesFrom: 1},
	"required_if_accepted": {names: []string{"other"}},
	"required_if_declined": {names: []string{"other"}},
	"min":                  {names: []string{"min"}},
	"max":                  {names: []string{"max"}},
	"min_length":           {names: []string{"min"}},
	"max_length":           {names: []string{"max"}},
	"between":              {names: []string{"min", "max"}},
	"not_between":          {names: []string{"min", "max"}},
	"size":                 {names: []string{"size"}},
	"gt":                   {names: []string{"value"}},
	"gte":                  {names: []string{"value"}},
	"lt":                   {names: []string{"value"}},
	"lte":                  {names: []string{"value"}},
	"step":                 {names: []string{"step", "base"}},
	"before":               {names: []string{"date"}},
	"after":                {names: []string{"date"}},
}

// message picks the text recorded for a failed rule: the authored message,
// else the predicate's specific failure, else the rule default.
func (r *Registry) message(rule Rule, attribute string, err error) string {
	template := rule.Message
	if template == "" {
		var failure *Failure
		if errors.As(err, &failure) && failure.Message != "" {
			template = failure.Message
		}
	}
	if template == "" {
		template = r.messages[rule.Name]
	}
	if template == "" {
		template = fallbackMessage
	}
	return formatMessage(template, attribute, rule)
}

func formatMessage(template, attribute string, rule Rule) string {
	if !strings.Contains(template, ":") {
		return template
	}

	values := map[string]string{":attribute": attribute}
	spec := placeholders[rule.Name]
	for i, name := range spec.names {
		if i < len(rule.Params) {
			values[":"+name] = rule.Params[i].String()
		}
	}
	if spec.valuesFrom < len(rule.Params) {
		parts := make([]string, 0, len(rule.Params)-spec.valuesFrom)
		for _, p := range rule.Params[spec.valuesFrom:] {
			parts = append(parts, p.String())
		}
		values[":values"] = strings.Join(parts, ", ")
	}

	// Longer names first so :values is not consumed by :value.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, values[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// renderValue formats a parameter value for a message.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = renderValue(item)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
