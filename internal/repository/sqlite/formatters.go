package sqlite

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// FormatTimePtrForDB formats a *time.Time value as RFC3339 string, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ParseTimePtrFromDB parses an optional RFC3339 time string, returning
// nil for NULL columns.
func ParseTimePtrFromDB(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseTimeFromDB(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
