package time_parser

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD or RFC3339")

// ParseDate converts a calendar date or timestamp string to midnight UTC of
// that day. Supported formats, in order:
//   - "2006-01-02"
//   - RFC3339 / RFC3339Nano
//   - "2006-01-02T15:04:05" and "2006-01-02 15:04:05" (treated as UTC)
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}

	formats := []string{
		time.DateOnly,
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		time.DateTime,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return TruncateToDate(t), nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

func TruncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsBeforeDay reports whether date falls on an earlier calendar day than now.
func IsBeforeDay(date time.Time, now time.Time) bool {
	return TruncateToDate(date).Before(TruncateToDate(now))
}
