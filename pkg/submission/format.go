package submission

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// formats checks email and URL grammar. A validator.Validate caches
	// nothing per call and is safe for concurrent use.
	formats = validator.New()

	phonePattern = regexp.MustCompile(`^[0-9 +().-]{6,}$`)
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

	booleanStrings = map[string]bool{
		"true": true, "false": true, "0": true, "1": true,
		"y": true, "n": true, "yes": true, "no": true, "on": true, "off": true,
	}
)

// DateLayout is the only layout the date rule accepts.
const DateLayout = "2006-01-02"

// DateTimeLayouts are the layouts the datetime rule accepts.
var DateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

func checkString(value any, _ Args) error {
	if _, ok := value.(string); !ok {
		return ErrFailed
	}
	return nil
}

func checkNumeric(value any, _ Args) error {
	if !IsNumeric(value) {
		return ErrFailed
	}
	return nil
}

func checkArray(value any, _ Args) error {
	if _, ok := asList(value); !ok {
		return ErrFailed
	}
	return nil
}

func checkBoolean(value any, _ Args) error {
	switch val := integral(value).(type) {
	case bool:
		return nil
	case int64:
		if val == 0 || val == 1 {
			return nil
		}
	case string:
		if booleanStrings[strings.ToLower(strings.TrimSpace(val))] {
			return nil
		}
	}
	return ErrFailed
}

func checkEmail(value any, _ Args) error {
	s, ok := value.(string)
	if !ok || formats.Var(s, "email") != nil {
		return ErrFailed
	}
	return nil
}

func checkURL(value any, _ Args) error {
	s, ok := value.(string)
	if !ok || formats.Var(s, "url") != nil {
		return ErrFailed
	}
	return nil
}

func checkPhone(value any, _ Args) error {
	s, ok := toText(value)
	if !ok || !phonePattern.MatchString(s) {
		return ErrFailed
	}
	return nil
}

func checkTime(value any, _ Args) error {
	s, ok := value.(string)
	if !ok || !timePattern.MatchString(s) {
		return ErrFailed
	}
	return nil
}

func checkDate(value any, _ Args) error {
	if _, ok := value.(time.Time); ok {
		return nil
	}
	s, ok := value.(string)
	if !ok || !roundTrips(s, DateLayout) {
		return ErrFailed
	}
	return nil
}

func checkDateTime(value any, _ Args) error {
	if _, ok := value.(time.Time); ok {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return ErrFailed
	}
	s = strings.TrimSpace(s)
	for _, layout := range DateTimeLayouts {
		if roundTrips(s, layout) {
			return nil
		}
	}
	return ErrFailed
}

// roundTrips reports whether s parses with layout and formats back to itself,
// which rejects out of range components instead of normalising them.
func roundTrips(s, layout string) bool {
	t, err := time.Parse(layout, s)
	if err != nil {
		return false
	}
	return t.Format(layout) == s
}
