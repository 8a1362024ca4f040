package submission

import (
	"sort"
	"time"
)

type ruleEntry struct {
	check Predicate

	// implicit rules also run on empty values.
	implicit bool
}

// Registry maps rule names to predicates and default messages.
// It is built once and read-only afterwards, so one Registry can serve
// any number of concurrent validation passes.
type Registry struct {
	rules    map[string]ruleEntry
	messages map[string]string
}

type options struct {
	rules    map[string]ruleEntry
	messages map[string]string
	now      func() time.Time
}

// Option configures a Registry or Validator at construction time.
type Option func(*options)

// WithRule registers a custom rule, or replaces a built-in one.
// The predicate is skipped for empty values.
func WithRule(name string, check Predicate) Option {
	return func(o *options) {
		o.rules[name] = ruleEntry{check: check}
	}
}

// WithImplicitRule registers a rule that is also evaluated for empty values,
// like the required family.
func WithImplicitRule(name string, check Predicate) Option {
	return func(o *options) {
		o.rules[name] = ruleEntry{check: check, implicit: true}
	}
}

// WithMessage sets the default message template of a rule.
func WithMessage(name, template string) Option {
	return func(o *options) {
		o.messages[name] = template
	}
}

// WithClock sets the time source used for relative dates such as "today".
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		rules:    builtinRules(),
		messages: make(map[string]string, len(defaultMessages)),
		now:      time.Now,
	}
	for name, msg := range defaultMessages {
		o.messages[name] = msg
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewRegistry builds a registry of the built-in rules plus any custom ones.
func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{rules: o.rules, messages: o.messages}
}

// Has reports whether name is a registered rule.
func (r *Registry) Has(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// Names returns the registered rule names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate runs rule against value. Unknown rules pass, and non-implicit
// rules pass for empty values.
func (r *Registry) Evaluate(rule Rule, value any, args Args) error {
	entry, ok := r.rules[rule.Name]
	if !ok {
		return nil
	}
	if !entry.implicit && IsEmpty(value) {
		return nil
	}
	args.Params = rule.Params
	return entry.check(value, args)
}

func builtinRules() map[string]ruleEntry {
	rules := map[string]ruleEntry{}
	add := func(name string, check Predicate) {
		rules[name] = ruleEntry{check: check}
	}
	implicit := func(name string, check Predicate) {
		rules[name] = ruleEntry{check: check, implicit: true}
	}

	implicit("required", checkRequired)
	implicit("required_if", checkRequiredIf)
	implicit("required_unless", checkRequiredUnless)
	implicit("required_if_accepted", checkRequiredIfAccepted)
	implicit("required_if_declined", checkRequiredIfDeclined)
	implicit("required_with", checkRequiredWith)
	implicit("required_with_all", checkRequiredWithAll)
	implicit("required_without", checkRequiredWithout)
	implicit("required_without_all", checkRequiredWithoutAll)

	add("string", checkString)
	add("numeric", checkNumeric)
	add("boolean", checkBoolean)
	add("array", checkArray)
	add("email", checkEmail)
	add("url", checkURL)
	add("phone", checkPhone)
	add("date", checkDate)
	add("time", checkTime)
	add("datetime", checkDateTime)

	add("min", checkMin)
	add("max", checkMax)
	add("min_length", checkMinLength)
	add("max_length", checkMaxLength)
	add("between", checkBetween)
	add("not_between", checkNotBetween)
	add("size", checkSize)
	add("gt", checkGt)
	add("gte", checkGte)
	add("lt", checkLt)
	add("lte", checkLte)
	add("step", checkStep)

	add("in", checkIn)
	add("not_in", checkNotIn)
	add("in_each", checkInEach)
	add("option", checkOption)
	add("option_each", checkOptionEach)
	add("starts_with", checkStartsWith)
	add("ends_with", checkEndsWith)
	add("regex", checkRegex)

	add("before", checkBefore)
	add("after", checkAfter)

	add("email_domains", checkEmailDomains)
	add("files", checkFiles)
	return rules
}
