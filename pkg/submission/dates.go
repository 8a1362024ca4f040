package submission

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTime reads a calendar timestamp. It understands now, today, tomorrow
// and yesterday relative to ref, plus the broad set of layouts dateparse
// recognises. Values without a zone are read as UTC.
func ParseTime(v any, ref time.Time) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		ref = ref.UTC()
		midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		switch strings.ToLower(s) {
		case "now":
			return ref, true
		case "today", "midnight":
			return midnight, true
		case "tomorrow":
			return midnight.AddDate(0, 0, 1), true
		case "yesterday":
			return midnight.AddDate(0, 0, -1), true
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// compareDates compares at whole second resolution. A missing target makes
// the rule non-applicable; an unparsable value or target fails.
func compareDates(value any, args Args, ok func(v, target int64) bool) error {
	target, present := args.Value(0)
	if !present {
		return nil
	}
	now := args.Context.Now()
	v, okV := ParseTime(value, now)
	t, okT := ParseTime(target, now)
	if !okV || !okT || !ok(v.Unix(), t.Unix()) {
		return ErrFailed
	}
	return nil
}

func checkBefore(value any, args Args) error {
	return compareDates(value, args, func(v, t int64) bool { return v < t })
}

func checkAfter(value any, args Args) error {
	return compareDates(value, args, func(v, t int64) bool { return v > t })
}
