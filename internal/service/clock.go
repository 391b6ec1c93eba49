package service

import (
	"time"

	"parrot-ordering/internal/model"
)

// Clock reports the current calendar date in a fixed time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a wall clock for loc. A nil loc means UTC.
func NewClock(loc *time.Location) Clock {
	return NewClockFunc(loc, time.Now)
}

// NewClockFunc returns a clock that reads the current instant from now.
func NewClockFunc(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: now}
}

// Now returns the current instant in the clock's time zone.
func (c Clock) Now() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	return now().In(c.location())
}

// Today returns the current date.
func (c Clock) Today() time.Time {
	return DateOf(c.Now(), c.location())
}

func (c Clock) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DateOf returns the calendar date of t in loc as midnight UTC, the form
// dates are stored and compared in.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, model.ValidationError("invalid date %q, expected %s", s, model.DateLayout)
	}
	return d, nil
}

// formatDate is the inverse of ParseDate.
func formatDate(d time.Time) string {
	return d.Format(model.DateLayout)
}
