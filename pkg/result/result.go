// Package result holds the outcome of schema and submission validation.
package result

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

// Result is a path or field keyed set of error messages.
// Keys keep the order in which they were first recorded.
type Result struct {
	errors map[string]string
	order  []string
}

// New returns an empty Result.
func New() *Result {
	return &Result{errors: make(map[string]string)}
}

// FromMap builds a Result from an existing error map. Key order is unspecified.
func FromMap(errs map[string]string) *Result {
	r := New()
	for k, v := range errs {
		r.Set(k, v)
	}
	return r
}

// Set records msg for key, replacing an existing message.
func (r *Result) Set(key, msg string) {
	if _, ok := r.errors[key]; !ok {
		r.order = append(r.order, key)
	}
	r.errors[key] = msg
}

// Add records msg for key unless key already has a message.
// It reports whether the message was stored.
func (r *Result) Add(key, msg string) bool {
	if _, ok := r.errors[key]; ok {
		return false
	}
	r.Set(key, msg)
	return true
}

// Merge copies all errors of other into r, keeping messages already in r.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for _, k := range other.order {
		r.Add(k, other.errors[k])
	}
}

// IsValid reports whether no errors were recorded.
func (r *Result) IsValid() bool {
	return r == nil || len(r.errors) == 0
}

// Len returns the number of keys with errors.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.errors)
}

// Has reports whether key has an error.
func (r *Result) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.errors[key]
	return ok
}

// Get returns the message recorded for key.
func (r *Result) Get(key string) string {
	if r == nil {
		return ""
	}
	return r.errors[key]
}

// Keys returns the error keys in recording order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Errors returns a copy of the error map.
func (r *Result) Errors() map[string]string {
	out := make(map[string]string, r.Len())
	if r == nil {
		return out
	}
	for k, v := range r.errors {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the errors as a JSON object in recording order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.ConfigStd.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := sonic.ConfigStd.Marshal(r.errors[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of messages.
func (r *Result) UnmarshalJSON(data []byte) error {
	var errs map[string]string
	if err := sonic.ConfigStd.Unmarshal(data, &errs); err != nil {
		return err
	}
	*r = *FromMap(errs)
	return nil
}

// String renders the errors as JSON.
func (r *Result) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", r.Errors())
	}
	return string(data)
}
