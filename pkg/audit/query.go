package audit

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimit is the number of records returned when Limit is zero.
	DefaultLimit = 100

	// MaxLimit is the largest page a single query may request.
	MaxLimit = 10000

	// DefaultSortBy is the sort column applied by ApplyDefaults.
	DefaultSortBy = "validated_at"
)

// ValidSortFields contains the fields records can be sorted by.
var ValidSortFields = map[string]bool{
	"validated_at": true,
	"recorded_at":  true,
	"duration":     true,
	"error_count":  true,
}

var validOutcomes = map[string]bool{
	OutcomeValid:   true,
	OutcomeInvalid: true,
	OutcomeError:   true,
}

// Validate reports the first invalid parameter of q as a *QueryError.
func Validate(q *Query) error {
	if q.Limit < 0 {
		return NewQueryError(q, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return NewQueryError(q, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}
	if q.Offset < 0 {
		return NewQueryError(q, fmt.Errorf("offset must be >= 0, got %d", q.Offset))
	}
	if q.SortBy != "" && !ValidSortFields[q.SortBy] {
		return NewQueryError(q, fmt.Errorf("invalid sort field: %s", q.SortBy))
	}
	if q.SortOrder != "" {
		switch strings.ToLower(q.SortOrder) {
		case "asc", "desc":
		default:
			return NewQueryError(q, fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder))
		}
	}
	if q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime) {
		return NewQueryError(q, fmt.Errorf("start_time must be before end_time"))
	}
	if q.Outcome != "" && !validOutcomes[q.Outcome] {
		return NewQueryError(q, fmt.Errorf("invalid outcome: %s (must be 'valid', 'invalid', or 'error')", q.Outcome))
	}
	return nil
}

// ApplyDefaults fills the limit and sort parameters of q.
func ApplyDefaults(q *Query) {
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	q.SortOrder = strings.ToLower(q.SortOrder)
}
