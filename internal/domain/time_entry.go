package domain

import (
	"fmt"
	"time"
)

// EntrySource records how a time entry was captured.
type EntrySource string

const (
	SourceManual EntrySource = "MANUAL"
	SourceTimer  EntrySource = "TIMER"
)

// IsValid reports whether the source is a known value.
func (s EntrySource) IsValid() bool {
	return s == SourceManual || s == SourceTimer
}

// TimeEntry represents one logged interval of work in the domain model.
// Start and end times are wall-clock minutes since midnight on Date;
// the interval is half-open, [start, end).
type TimeEntry struct {
	ID                int64
	EmployeeID        int64
	TaskID            *int64
	TaskTitleSnapshot string
	Date              time.Time // calendar date, midnight in the deployment zone
	StartMinutes      int
	EndMinutes        int
	DurationMinutes   int
	ShortDescription  string
	Source            EntrySource
	IsDeleted         bool
	EditedBy          *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Overlaps reports whether the entry's interval conflicts with
// [startMinutes, endMinutes). Touching endpoints do not overlap.
func (te TimeEntry) Overlaps(startMinutes, endMinutes int) bool {
	return !(endMinutes <= te.StartMinutes || startMinutes >= te.EndMinutes)
}

// IsValid checks if the time entry has valid data.
func (te TimeEntry) IsValid() bool {
	if te.EmployeeID <= 0 {
		return false
	}
	if te.Date.IsZero() {
		return false
	}
	return te.EndMinutes > te.StartMinutes
}

// ParseClock parses a wall-clock value in "HH:MM" form into minutes
// since midnight. "24:00" is accepted so an entry may end at midnight.
func ParseClock(s string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if minute < 0 || minute > 59 || hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("invalid clock value %q: out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DateFormat is the wire and storage layout for calendar dates.
const DateFormat = "2006-01-02"

// ParseDate parses a calendar date in "YYYY-MM-DD" form, placed at
// midnight in the given zone.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, loc)
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
