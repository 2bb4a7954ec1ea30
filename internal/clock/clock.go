package clock

import (
	"fmt"
	"time"
)

// Clock resolves calendar dates and zone-aware durations in the single
// time zone configured for the deployment.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New creates a Clock for the named IANA time zone.
func New(zone string) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixed creates a Clock whose "now" is supplied by the caller.
// Used by tests to pin the current date.
func NewFixed(loc *time.Location, now func() time.Time) *Clock {
	return &Clock{loc: loc, now: now}
}

// Location returns the configured deployment time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the configured zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current local calendar date at midnight.
func (c *Clock) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

// TodayAndYesterday returns the current local calendar date and the
// previous calendar date.
func (c *Clock) TodayAndYesterday() (time.Time, time.Time) {
	today := c.Today()
	return today, today.AddDate(0, 0, -1)
}

// CurrentPeriod returns the local calendar year and month.
func (c *Clock) CurrentPeriod() (int, time.Month) {
	now := c.Now()
	return now.Year(), now.Month()
}

// DurationMinutes composes date+start and date+end into zone-aware
// instants and returns the integer floor of their difference in minutes.
// Both clock values are minutes since midnight on the same nominal day.
// Going through instants keeps the result correct when a daylight-saving
// transition falls between the two wall-clock times.
func (c *Clock) DurationMinutes(date time.Time, startMinutes, endMinutes int) int {
	start := c.Instant(date, startMinutes)
	end := c.Instant(date, endMinutes)
	return int(end.Sub(start).Minutes())
}

// Instant converts a (date, minutes-since-midnight) pair into a
// zone-aware instant in the configured zone.
func (c *Clock) Instant(date time.Time, clockMinutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clockMinutes/60, clockMinutes%60, 0, 0, c.loc)
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
