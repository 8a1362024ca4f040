package submission

// The required family runs on empty values. Each variant decides whether
// the field is required; a required field fails when empty.

func checkRequired(value any, _ Args) error {
	if IsEmpty(value) {
		return ErrFailed
	}
	return nil
}

func requiredWhen(required bool, value any) error {
	if required && IsEmpty(value) {
		return ErrFailed
	}
	return nil
}

// otherField returns the key named by the first parameter.
func otherField(args Args) (string, bool) {
	if args.Len() == 0 {
		return "", false
	}
	return args.Params[0].FieldKey()
}

// fieldKeys returns the distinct keys named by all parameters.
func fieldKeys(args Args) []string {
	seen := make(map[string]bool, args.Len())
	var keys []string
	for _, p := range args.Params {
		key, ok := p.FieldKey()
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// matchesAny reports whether the other field loosely equals any target.
func matchesAny(args Args) (bool, bool) {
	key, ok := otherField(args)
	targets := args.Values(1)
	if !ok || len(targets) == 0 {
		return false, false
	}
	actual := args.Context.Get(key)
	for _, target := range targets {
		if LooseEqual(actual, target) {
			return true, true
		}
	}
	return false, true
}

func checkRequiredIf(value any, args Args) error {
	matched, ok := matchesAny(args)
	if !ok {
		return nil
	}
	return requiredWhen(matched, value)
}

func checkRequiredUnless(value any, args Args) error {
	matched, ok := matchesAny(args)
	if !ok {
		return nil
	}
	return requiredWhen(!matched, value)
}

func checkRequiredIfAccepted(value any, args Args) error {
	key, ok := otherField(args)
	if !ok {
		return nil
	}
	return requiredWhen(IsAccepted(args.Context.Get(key)), value)
}

func checkRequiredIfDeclined(value any, args Args) error {
	key, ok := otherField(args)
	if !ok {
		return nil
	}
	return requiredWhen(IsDeclined(args.Context.Get(key)), value)
}

// countPresent returns how many of keys hold a non-empty value.
func countPresent(ctx *Context, keys []string) int {
	n := 0
	for _, key := range keys {
		if !IsEmpty(ctx.Get(key)) {
			n++
		}
	}
	return n
}

func checkRequiredWith(value any, args Args) error {
	keys := fieldKeys(args)
	if len(keys) == 0 {
		return nil
	}
	return requiredWhen(countPresent(args.Context, keys) > 0, value)
}

func checkRequiredWithAll(value any, args Args) error {
	keys := fieldKeys(args)
	if len(keys) == 0 {
		return nil
	}
	return requiredWhen(countPresent(args.Context, keys) == len(keys), value)
}

func checkRequiredWithout(value any, args Args) error {
	keys := fieldKeys(args)
	if len(keys) == 0 {
		return nil
	}
	return requiredWhen(countPresent(args.Context, keys) < len(keys), value)
}

func checkRequiredWithoutAll(value any, args Args) error {
	keys := fieldKeys(args)
	if len(keys) == 0 {
		return nil
	}
	return requiredWhen(countPresent(args.Context, keys) == 0, value)
}
