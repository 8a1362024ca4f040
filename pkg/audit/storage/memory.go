package storage

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/opheus2/form-schema-validator/pkg/audit"
)

// MemoryStorage implements audit.Storage in memory. Records are lost on
// exit; it serves tests and short-lived processes.
type MemoryStorage struct {
	records map[string]*audit.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*audit.Record),
	}
}

// Store keeps a copy of record.
func (s *MemoryStorage) Store(ctx context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = cloneRecord(record)
	return nil
}

// Query returns copies of the records matching query.
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	s.mu.RLock()
	matched := s.match(query)
	s.mu.RUnlock()

	sortRecords(matched, query)
	return paginate(matched, query), nil
}

// QueryStream streams the records matching query.
func (s *MemoryStorage) QueryStream(ctx context.Context, query *audit.Query) (<-chan *audit.Record, <-chan error, error) {
	records, err := s.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	recordsCh := make(chan *audit.Record, 100)
	errCh := make(chan error, 1)
	go func() {
		defer close(recordsCh)
		defer close(errCh)
		for _, record := range records {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}
	}()
	return recordsCh, errCh, nil
}

// Count returns the number of records matching the filters of query.
func (s *MemoryStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.match(query))), nil
}

// Delete removes the records matching the filters of query.
func (s *MemoryStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, record := range s.records {
		if matches(record, query) {
			delete(s.records, id)
			n++
		}
	}
	return n, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

// match returns copies of matching records. Callers hold the lock.
func (s *MemoryStorage) match(query *audit.Query) []*audit.Record {
	var out []*audit.Record
	for _, record := range s.records {
		if matches(record, query) {
			out = append(out, cloneRecord(record))
		}
	}
	return out
}

func matches(r *audit.Record, q *audit.Query) bool {
	if q.StartTime != nil && r.ValidatedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.ValidatedAt.After(*q.EndTime) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Form != "" && r.Form != q.Form {
		return false
	}
	if q.RequestID != "" && r.RequestID != q.RequestID {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Rule != "" && !slices.Contains(r.FailedRules, q.Rule) {
		return false
	}
	return true
}

func sortRecords(records []*audit.Record, q *audit.Query) {
	desc := !strings.EqualFold(q.SortOrder, "asc")
	less := func(a, b *audit.Record) int {
		var c int
		switch q.SortBy {
		case "recorded_at":
			c = a.RecordedAt.Compare(b.RecordedAt)
		case "duration":
			c = compareInt(int64(a.Duration), int64(b.Duration))
		case "error_count":
			c = compareInt(int64(a.ErrorCount), int64(b.ErrorCount))
		default:
			c = a.ValidatedAt.Compare(b.ValidatedAt)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	}
	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(records[i], records[j]) > 0
		}
		return less(records[i], records[j]) < 0
	})
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func paginate(records []*audit.Record, q *audit.Query) []*audit.Record {
	limit := q.Limit
	if limit <= 0 {
		limit = audit.DefaultLimit
	}
	if q.Offset >= len(records) {
		return []*audit.Record{}
	}
	records = records[q.Offset:]
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

func cloneRecord(r *audit.Record) *audit.Record {
	c := *r
	c.ErrorKeys = slices.Clone(r.ErrorKeys)
	c.FailedRules = slices.Clone(r.FailedRules)
	return &c
}
