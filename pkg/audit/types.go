package audit

import (
	"context"
	"io"
	"time"
)

// Outcome values of a Record.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Record is the audit trail of one validation pass: what was validated,
// against which form, and which fields and rules failed. Submitted values
// are never stored; PayloadHash identifies a payload without revealing it.
type Record struct {
	ID        string `json:"id"`                   // UUID v4
	RequestID string `json:"request_id,omitempty"` // X-Request-ID when served over HTTP

	Kind   string `json:"kind"`             // "schema" or "submission"
	Form   string `json:"form,omitempty"`   // registry name of the schema
	Source string `json:"source,omitempty"` // file path or endpoint

	Outcome     string   `json:"outcome"`      // valid, invalid or error
	ErrorCount  int      `json:"error_count"`  // number of keys in the result
	ErrorKeys   []string `json:"error_keys"`   // field keys or schema paths, in result order
	FailedRules []string `json:"failed_rules"` // rule of each error, parallel to ErrorKeys
	Error       string   `json:"error,omitempty"`

	PayloadHash   string `json:"payload_hash,omitempty"`   // SHA-256 of the canonical document
	SchemaVersion string `json:"schema_version,omitempty"` // registry version when the pass ran

	ValidatedAt time.Time     `json:"validated_at"`
	Duration    time.Duration `json:"duration"`
	RecordedAt  time.Time     `json:"recorded_at"`
}

// Valid reports whether the pass found no errors.
func (r *Record) Valid() bool {
	return r.Outcome == OutcomeValid
}

// Query defines filter parameters for audit records. Zero fields do not filter.
type Query struct {
	// Time range over ValidatedAt, both inclusive.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Kind      string `json:"kind,omitempty"`
	Form      string `json:"form,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`

	// Rule matches records where at least one field failed this rule.
	Rule string `json:"rule,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Sorting: "validated_at", "recorded_at", "duration" or "error_count".
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage persists audit records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns the records matching query, sorted and paginated.
	// It returns an empty slice when nothing matches.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// QueryStream streams the records matching query. Both channels are
	// closed when the query completes; at most one error is sent.
	QueryStream(ctx context.Context, query *Query) (<-chan *Record, <-chan error, error)

	// Count returns the number of records matching the filters of query.
	// Pagination is ignored.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes the records matching the filters of query and returns
	// how many were removed. Pagination is ignored.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases the resources held by the backend.
	Close() error
}

// Exporter writes audit records in a file format.
type Exporter interface {
	// Export writes records as one document.
	Export(ctx context.Context, records []*Record, w io.Writer) error

	// ExportStream writes records as they arrive on records until the
	// channel is closed or ctx is done.
	ExportStream(ctx context.Context, records <-chan *Record, w io.Writer) error
}
