package submission

import "testing"

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"blank string", " \t\n", true},
		{"empty list", []any{}, true},
		{"empty map", map[string]any{}, true},
		{"empty typed slice", []string{}, true},
		{"nil pointer", (*int)(nil), true},
		{"text", "x", false},
		{"zero", int64(0), false},
		{"false", false, false},
		{"zero string", "0", false},
		{"list", []any{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.value); got != tt.want {
				t.Errorf("IsEmpty(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{int64(12), true},
		{1.5, true},
		{"12", true},
		{" 12 ", true},
		{"-3.25", true},
		{".5", true},
		{"1e3", true},
		{"+7", true},
		{"", false},
		{"abc", false},
		{"0x1A", false},
		{"1_000", false},
		{"NaN", false},
		{"Inf", false},
		{true, false},
		{nil, false},
		{[]any{int64(1)}, false},
	}

	for _, tt := range tests {
		if got := IsNumeric(tt.value); got != tt.want {
			t.Errorf("IsNumeric(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"int and numeric string", int64(1), "1", true},
		{"int and float", int64(1), 1.0, true},
		{"numeric strings", "1.0", "1", true},
		{"different strings", "abc", "ABC", false},
		{"number and text", int64(0), "abc", false},
		{"number and its text", 1.5, "1.5", true},
		{"bool and bool", true, true, true},
		{"bool and one", true, int64(1), true},
		{"false and zero", false, int64(0), true},
		{"true and yes", true, "yes", false},
		{"false and no", false, "no", false},
		{"true and numeric string", true, "1", true},
		{"false and zero string", false, "0", true},
		{"false and empty string", false, "", true},
		{"nil and false", nil, false, true},
		{"nil and empty string", nil, "", true},
		{"nil and zero", nil, int64(0), true},
		{"nil and zero string", nil, "0", false},
		{"nil and text", nil, "a", false},
		{"lists", []any{int64(1), "2"}, []any{"1", int64(2)}, true},
		{"lists of different length", []any{int64(1)}, []any{int64(1), int64(2)}, false},
		{"maps", map[string]any{"a": "1"}, map[string]any{"a": int64(1)}, true},
		{"list and string", []any{"a"}, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooseEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("LooseEqual(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := LooseEqual(tt.b, tt.a); got != tt.want {
				t.Errorf("LooseEqual(%#v, %#v) = %v, want %v (reversed)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestStrictEqual(t *testing.T) {
	if !StrictEqual(1, int64(1)) {
		t.Error("ints of different Go kinds should be equal")
	}
	if StrictEqual(int64(1), 1.0) {
		t.Error("int and float should differ")
	}
	if StrictEqual("1", int64(1)) {
		t.Error("string and int should differ")
	}
	if !StrictEqual([]string{"a"}, []any{"a"}) {
		t.Error("normalised lists should be equal")
	}
}

func TestAcceptedAndDeclined(t *testing.T) {
	for _, v := range []any{true, int64(1), 1, 1.0, "1", "true", "on", "yes"} {
		if !IsAccepted(v) {
			t.Errorf("IsAccepted(%#v) = false, want true", v)
		}
	}
	for _, v := range []any{"YES", "y", 1.5, 2.0, false, nil} {
		if IsAccepted(v) {
			t.Errorf("IsAccepted(%#v) = true, want false", v)
		}
	}
	for _, v := range []any{false, int64(0), 0.0, "0", "false", "off", "no"} {
		if !IsDeclined(v) {
			t.Errorf("IsDeclined(%#v) = false, want true", v)
		}
	}
	for _, v := range []any{"No", nil, "", true} {
		if IsDeclined(v) {
			t.Errorf("IsDeclined(%#v) = true, want false", v)
		}
	}
}
