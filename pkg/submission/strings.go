package submission

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// regexTimeout bounds a single pattern match.
const regexTimeout = 250 * time.Millisecond

func checkIn(value any, args Args) error {
	if !containsStrict(args.Values(0), value) {
		return ErrFailed
	}
	return nil
}

func checkNotIn(value any, args Args) error {
	if containsStrict(args.Values(0), value) {
		return ErrFailed
	}
	return nil
}

// checkOption compares a selection with the declared option keys by their
// text form, so keys authored as numbers match numeric submissions.
func checkOption(value any, args Args) error {
	if !containsOption(args.Values(0), value) {
		return ErrFailed
	}
	return nil
}

// checkOptionEach applies checkOption to every element of a list.
func checkOptionEach(value any, args Args) error {
	keys := args.Values(0)
	items, ok := asList(value)
	if !ok {
		items = []any{value}
	}
	for _, item := range items {
		if !containsOption(keys, item) {
			return ErrFailed
		}
	}
	return nil
}

func containsOption(keys []any, v any) bool {
	s, ok := toText(v)
	if !ok {
		return false
	}
	for _, k := range keys {
		if ks, ok := toText(k); ok && ks == s {
			return true
		}
	}
	return false
}

// checkInEach requires every element of a list to be one of the parameters.
// A scalar is treated as a one element list.
func checkInEach(value any, args Args) error {
	allowed := args.Values(0)
	items, ok := asList(value)
	if !ok {
		items = []any{value}
	}
	for _, item := range items {
		if !containsStrict(allowed, item) {
			return ErrFailed
		}
	}
	return nil
}

// affixes resolves the parameters to text, dropping empty entries.
func affixes(args Args) []string {
	var out []string
	for _, v := range args.Values(0) {
		if s, ok := toText(v); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func checkStartsWith(value any, args Args) error {
	return matchAffix(value, affixes(args), strings.HasPrefix)
}

func checkEndsWith(value any, args Args) error {
	return matchAffix(value, affixes(args), strings.HasSuffix)
}

func matchAffix(value any, candidates []string, match func(s, affix string) bool) error {
	if len(candidates) == 0 {
		return nil
	}
	s, ok := toText(value)
	if !ok {
		return ErrFailed
	}
	for _, c := range candidates {
		if match(s, c) {
			return nil
		}
	}
	return ErrFailed
}

func checkRegex(value any, args Args) error {
	raw, _ := args.Value(0)
	pattern, ok := raw.(string)
	if !ok {
		return nil
	}

	re, err := CompilePattern(pattern)
	if err != nil {
		return ErrFailed
	}
	s, ok := toText(value)
	if !ok {
		return ErrFailed
	}
	matched, err := re.MatchString(s)
	if err != nil || !matched {
		return ErrFailed
	}
	return nil
}

var regexFlags = map[rune]regexp2.RegexOptions{
	'i': regexp2.IgnoreCase,
	'm': regexp2.Multiline,
	's': regexp2.Singleline,
	'x': regexp2.IgnorePatternWhitespace,
	'u': regexp2.None,
}

// delimiters that mark a wrapped pattern. Brackets are not included so that
// plain patterns like [a-z]+ keep working.
var delimiters = map[byte]bool{
	'/': true, '#': true, '~': true, '!': true, '@': true, '%': true, '|': true,
}

// CompilePattern compiles a pattern that is either plain (used as-is) or
// wrapped in delimiters with trailing flags, such as /^[a-z]+$/i.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	body, opts, err := splitDelimited(pattern)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(body, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = regexTimeout
	return re, nil
}

func splitDelimited(pattern string) (string, regexp2.RegexOptions, error) {
	if len(pattern) < 2 {
		return pattern, regexp2.None, nil
	}
	if !delimiters[pattern[0]] {
		return pattern, regexp2.None, nil
	}
	end := strings.LastIndexByte(pattern, pattern[0])
	if end <= 0 {
		return pattern, regexp2.None, nil
	}

	opts := regexp2.None
	for _, flag := range pattern[end+1:] {
		opt, ok := regexFlags[flag]
		if !ok {
			return "", regexp2.None, fmt.Errorf("unknown pattern modifier %q", flag)
		}
		opts |= opt
	}
	return pattern[1:end], opts, nil
}
