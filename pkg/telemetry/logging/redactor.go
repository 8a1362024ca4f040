package logging

import (
	"regexp"
	"strings"

	"github.com/opheus2/form-schema-validator/pkg/config"
)

// Redactor masks personal data in log fields and submission payloads.
type Redactor struct {
	patterns []*redactPattern
	keys     []string
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternEmail       = "email"
	PatternCreditCard  = "credit_card"
	PatternPhone       = "phone"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

// Masked replaces the value of a sensitive key.
const Masked = "***"

var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternPassword, `(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, "***@$1"},
	{PatternCreditCard, `\b(?:\d[ -]?){12,15}\d\b`, "****-****-****-****"},
	{PatternPhone, `\+\d[\d\s().-]{7,}\d|\(\d{3}\)\s?\d{3}[-.\s]\d{4}|\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`, "***-***-****"},
}

var defaultSensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"authorization",
	"ssn", "social_security",
	"credit_card", "creditcard", "card_number", "cvv",
	"email", "phone",
}

// NewRedactor creates a Redactor with the built-in patterns, the custom
// patterns, and the given extra sensitive keys. Invalid custom patterns are skipped.
func NewRedactor(customPatterns []config.RedactPattern, extraKeys ...string) *Redactor {
	r := &Redactor{
		keys: append([]string(nil), defaultSensitiveKeys...),
	}
	for _, key := range extraKeys {
		if key = strings.ToLower(strings.TrimSpace(key)); key != "" {
			r.keys = append(r.keys, key)
		}
	}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}
	return r
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// RedactArgs redacts variadic log arguments of the form key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		if key, ok := redacted[i-1].(string); ok && r.isSensitiveKey(key) {
			redacted[i] = Masked
			continue
		}
		redacted[i] = r.redactAny(redacted[i])
	}
	return redacted
}

// RedactPayload returns a deep copy of payload with sensitive entries masked.
func (r *Redactor) RedactPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if r.isSensitiveKey(k) {
			out[k] = Masked
			continue
		}
		out[k] = r.redactAny(v)
	}
	return out
}

func (r *Redactor) redactAny(v any) any {
	switch val := v.(type) {
	case string:
		return r.RedactString(val)
	case map[string]any:
		return r.RedactPayload(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.redactAny(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = r.RedactString(item)
		}
		return out
	}
	return v
}

func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range r.keys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactEmail keeps the first character of the local part and the domain.
func RedactEmail(email string) string {
	username, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}
	if username == "" {
		return "***@" + domain
	}
	return username[:1] + "***@" + domain
}
