package submission

// Range rules compare numeric values by value and everything else by length.
// A missing or non-numeric bound makes the rule non-applicable.

func checkMin(value any, args Args) error {
	bound, ok := args.Number(0)
	if !ok {
		return nil
	}
	size, ok := sizeOf(value)
	if !ok || size < bound {
		return ErrFailed
	}
	return nil
}

func checkMax(value any, args Args) error {
	bound, ok := args.Number(0)
	if !ok {
		return nil
	}
	size, ok := sizeOf(value)
	if !ok || size > bound {
		return ErrFailed
	}
	return nil
}

func checkMinLength(value any, args Args) error {
	bound, ok := args.Number(0)
	if !ok {
		return nil
	}
	n, ok := lengthOf(value)
	if !ok || float64(n) < bound {
		return ErrFailed
	}
	return nil
}

func checkMaxLength(value any, args Args) error {
	bound, ok := args.Number(0)
	if !ok {
		return nil
	}
	n, ok := lengthOf(value)
	if !ok || float64(n) > bound {
		return ErrFailed
	}
	return nil
}

// inRange evaluates the inclusive range of a between style rule.
// applicable is false when the bounds are malformed.
func inRange(value any, args Args) (inside, measurable, applicable bool) {
	lo, okLo := args.Number(0)
	hi, okHi := args.Number(1)
	if !okLo || !okHi {
		return false, false, false
	}
	size, ok := sizeOf(value)
	if !ok {
		return false, false, true
	}
	return size >= lo && size <= hi, true, true
}

func checkBetween(value any, args Args) error {
	inside, measurable, applicable := inRange(value, args)
	if !applicable {
		return nil
	}
	if !measurable || !inside {
		return ErrFailed
	}
	return nil
}

func checkNotBetween(value any, args Args) error {
	inside, measurable, applicable := inRange(value, args)
	if !applicable {
		return nil
	}
	if !measurable || inside {
		return ErrFailed
	}
	return nil
}

func checkSize(value any, args Args) error {
	want, ok := args.Number(0)
	if !ok {
		return nil
	}
	size, ok := sizeOf(value)
	if !ok || size != want {
		return ErrFailed
	}
	return nil
}

// compareNumbers applies cmp to the value and the resolved target. A
// missing target makes the rule non-applicable; a non-numeric value or
// target fails.
func compareNumbers(value any, args Args, cmp func(v, target float64) bool) error {
	target, ok := args.Value(0)
	if !ok {
		return nil
	}
	v, okV := toNumber(value)
	t, okT := toNumber(target)
	if !okV || !okT || !cmp(v, t) {
		return ErrFailed
	}
	return nil
}

func checkGt(value any, args Args) error {
	return compareNumbers(value, args, func(v, t float64) bool { return v > t })
}

func checkGte(value any, args Args) error {
	return compareNumbers(value, args, func(v, t float64) bool { return v >= t })
}

func checkLt(value any, args Args) error {
	return compareNumbers(value, args, func(v, t float64) bool { return v < t })
}

func checkLte(value any, args Args) error {
	return compareNumbers(value, args, func(v, t float64) bool { return v <= t })
}
