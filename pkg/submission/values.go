package submission

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// numericPattern matches decimal numbers with optional sign, fraction and exponent.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// IsNumeric reports whether v is a number or a numeric string.
// Surrounding whitespace is allowed; hex, octal and underscores are not.
func IsNumeric(v any) bool {
	_, ok := toNumber(v)
	return ok
}

// toNumber converts numbers and numeric strings to float64.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, !math.IsNaN(val)
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case float32:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if !numericPattern.MatchString(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// toInt64 converts an integral number or numeric string to int64.
func toInt64(v any) (int64, bool) {
	f, ok := toNumber(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// toText renders scalar values as text. Lists, maps, booleans and nil are not text.
func toText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int:
		return strconv.Itoa(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	}
	return "", false
}

// lengthOf measures strings in characters and lists or maps by element count.
// Numbers are measured by the length of their text form.
func lengthOf(v any) (int, bool) {
	switch val := v.(type) {
	case []any:
		return len(val), true
	case map[string]any:
		return len(val), true
	}
	s, ok := toText(v)
	if !ok {
		return 0, false
	}
	return utf8.RuneCountInString(s), true
}

// sizeOf returns the numeric value of numeric input, otherwise its length.
func sizeOf(v any) (float64, bool) {
	if n, ok := toNumber(v); ok {
		return n, true
	}
	n, ok := lengthOf(v)
	return float64(n), ok
}

// listOf turns a list, a comma separated string or a single scalar into a list.
// Blank string entries are dropped.
func listOf(v any) []any {
	switch val := schema.NormalizeValue(v).(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				item = s
			}
			out = append(out, item)
		}
		return out
	case string:
		var out []any
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []any{val}
	}
}

// stringList is listOf restricted to text entries.
func stringList(v any) []string {
	var out []string
	for _, item := range listOf(v) {
		if s, ok := toText(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// asList returns v as a list when it is one.
func asList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}
