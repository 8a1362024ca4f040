package submission

import (
	"sort"
	"time"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// Context is the merged view of a payload and its replacements used for one
// validation pass. It is a private normalised copy and is never mutated
// after construction.
type Context struct {
	values map[string]any
	now    time.Time
}

// NewContext overlays replacements onto payload. Replacement keys win,
// including keys whose replacement value is nil.
func NewContext(payload, replacements map[string]any) *Context {
	return newContext(payload, replacements, time.Now())
}

func newContext(payload, replacements map[string]any, now time.Time) *Context {
	values := make(map[string]any, len(payload)+len(replacements))
	for k, v := range payload {
		values[k] = schema.NormalizeValue(v)
	}
	for k, v := range replacements {
		values[k] = schema.NormalizeValue(v)
	}
	return &Context{values: values, now: now}
}

// Get returns the value of key, or nil when absent.
func (c *Context) Get(key string) any {
	if c == nil {
		return nil
	}
	return c.values[key]
}

// Lookup returns the value of key and whether it is present.
func (c *Context) Lookup(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Keys returns the context keys in sorted order.
func (c *Context) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Now is the reference time of the pass, used by relative dates.
func (c *Context) Now() time.Time {
	if c == nil || c.now.IsZero() {
		return time.Now()
	}
	return c.now
}
