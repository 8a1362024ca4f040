package submission

import (
	"math"
	"reflect"
	"strconv"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// LooseEqual compares two values the way form backends compare loosely typed
// input: numeric strings compare numerically, nil equals the zero values,
// and lists compare element-wise.
//
// A boolean equals a string only when the string is blank (false) or numeric
// (its truthiness decides), so "yes" == true and "no" == false are both false.
func LooseEqual(a, b any) bool {
	a = schema.NormalizeValue(a)
	b = schema.NormalizeValue(b)

	if a == nil {
		return looseNil(b)
	}
	if b == nil {
		return looseNil(a)
	}
	if x, ok := a.(bool); ok {
		return looseBool(x, b)
	}
	if y, ok := b.(bool); ok {
		return looseBool(y, a)
	}

	switch x := a.(type) {
	case int64, float64:
		return looseNumber(x, b)
	case string:
		switch y := b.(type) {
		case int64, float64:
			return looseNumber(y, x)
		case string:
			xn, xok := toNumber(x)
			yn, yok := toNumber(y)
			if xok && yok {
				return xn == yn
			}
			return x == y
		}
		return false
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !LooseEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !LooseEqual(xv, yv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// StrictEqual requires identical kinds: 1 and 1.0 differ, 1 and "1" differ.
func StrictEqual(a, b any) bool {
	return reflect.DeepEqual(schema.NormalizeValue(a), schema.NormalizeValue(b))
}

func looseNil(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case int64:
		return val == 0
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

func looseBool(b bool, v any) bool {
	if s, ok := v.(string); ok {
		if s == "" {
			return !b
		}
		if n, ok := toNumber(s); ok {
			return b == (n != 0)
		}
		return false
	}
	return b == schema.Truthy(v)
}

// looseNumber compares a number with a number or a string.
func looseNumber(n any, other any) bool {
	switch y := other.(type) {
	case int64:
		if x, ok := n.(int64); ok {
			return x == y
		}
	case string:
		if yn, ok := toNumber(y); ok {
			xn, _ := toNumber(n)
			return xn == yn
		}
		return formatNumber(n) == y
	}
	xn, xok := toNumber(n)
	yn, yok := toNumber(other)
	return xok && yok && xn == yn
}

func formatNumber(n any) string {
	switch val := n.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}

// containsStrict reports whether list holds an element strictly equal to v.
func containsStrict(list []any, v any) bool {
	for _, item := range list {
		if StrictEqual(item, v) {
			return true
		}
	}
	return false
}

var (
	acceptedValues = []any{true, int64(1), "1", "true", "on", "yes"}
	declinedValues = []any{false, int64(0), "0", "false", "off", "no"}
)

// IsAccepted reports strict membership in true, 1, "1", "true", "on", "yes".
// Integral floats, as decoded by encoding/json, count as integers.
func IsAccepted(v any) bool {
	return containsStrict(acceptedValues, integral(v))
}

// IsDeclined reports strict membership in false, 0, "0", "false", "off", "no".
func IsDeclined(v any) bool {
	return containsStrict(declinedValues, integral(v))
}

// integral converts a float64 holding a whole number to int64.
func integral(v any) any {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return v
	}
	return int64(f)
}
