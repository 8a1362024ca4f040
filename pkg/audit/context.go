package audit

import "context"

type contextKey struct{}

// WithSchemaVersion attaches the checksum of the schema being validated
// against, stored as Record.SchemaVersion.
func WithSchemaVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, contextKey{}, version)
}

// SchemaVersion returns the schema version attached to ctx, or "".
func SchemaVersion(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
