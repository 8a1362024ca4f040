package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaNotFound is returned by Get for names the registry does not hold.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrDuplicateName is returned when two files map to the same schema name.
	ErrDuplicateName = errors.New("duplicate schema name")
)

// LoadError describes a schema file that could not be loaded.
type LoadError struct {
	// Path is the file that failed to load.
	Path string

	// Cause is a *schema.ParseError, a *result.InvalidError in strict mode,
	// or a file system error.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema file %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadErrors collects every failure of a directory load.
type LoadErrors []*LoadError

// Error implements the error interface.
func (e LoadErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d schema files failed to load:\n  %s", len(e), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e LoadErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, err := range e {
		out[i] = err
	}
	return out
}
