package formcheck

import (
	"context"

	"github.com/opheus2/form-schema-validator/pkg/result"
	"github.com/opheus2/form-schema-validator/pkg/schema"
)

var defaultEngine = New()

// Default returns the package level engine.
func Default() *Engine {
	return defaultEngine
}

// ValidateSchema checks the structure of a decoded schema document.
func ValidateSchema(raw map[string]any) *result.Result {
	return defaultEngine.ValidateSchema(context.Background(), raw)
}

// ValidateSubmission checks a submission with the built-in rules.
func ValidateSubmission(s *schema.Schema, payload, replacements map[string]any) *result.Result {
	return defaultEngine.ValidateSubmission(context.Background(), s, payload, replacements)
}

// AssertValidSchema is ValidateSchema returning a *result.InvalidError.
func AssertValidSchema(raw map[string]any) error {
	return defaultEngine.AssertValidSchema(context.Background(), raw)
}

// AssertValidSubmission is ValidateSubmission returning a *result.InvalidError.
func AssertValidSubmission(s *schema.Schema, payload, replacements map[string]any) error {
	return defaultEngine.AssertValidSubmission(context.Background(), s, payload, replacements)
}

// ValidateSchemaBytes decodes and validates a schema document.
func ValidateSchemaBytes(data []byte, format schema.Format) (*result.Result, error) {
	return defaultEngine.ValidateSchemaBytes(context.Background(), data, format)
}
