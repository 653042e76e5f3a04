// Package calendar holds the date and wall-clock helpers shared by the planner.
//
// Calendar days are represented as time.Time values at midnight UTC so they
// compare, hash and persist identically regardless of the configured zone.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidWallClock = errors.New("time must be in HH:MM format")

// Day truncates t to its calendar day, keeping the year/month/day as seen in t's location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day(d), nil
}

// AddDays moves a calendar day by n days.
func AddDays(day time.Time, n int) time.Time {
	return Day(day).AddDate(0, 0, n)
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) time.Time {
	day = Day(day)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Clock reports the current instant in the planner's time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock bound to loc. A nil loc means UTC.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, now: time.Now}
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current instant in the clock's location.
func (c Clock) Now() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today returns the current calendar day.
func (c Clock) Today() time.Time {
	return Day(c.Now())
}

// WallClock is a time of day with minute precision.
type WallClock struct {
	Hour   int
	Minute int
}

// ParseWallClock parses "HH:MM" (24h). Both fields must be exactly two digits.
func ParseWallClock(s string) (WallClock, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) != len("15:04") {
		return WallClock{}, fmt.Errorf("%w: %q", ErrInvalidWallClock, s)
	}
	t, err := time.Parse("15:04", trimmed)
	if err != nil {
		return WallClock{}, fmt.Errorf("%w: %q", ErrInvalidWallClock, s)
	}
	return WallClock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// On places the wall clock on the given calendar day.
func (w WallClock) On(day time.Time) time.Time {
	day = Day(day)
	return time.Date(day.Year(), day.Month(), day.Day(), w.Hour, w.Minute, 0, 0, time.UTC)
}

// MinutesUntil returns the minutes from w to end. An end earlier than w
// spans midnight.
func (w WallClock) MinutesUntil(end WallClock) int {
	start := w.Hour*60 + w.Minute
	stop := end.Hour*60 + end.Minute
	if stop < start {
		stop += 24 * 60
	}
	return stop - start
}

// ElapsedMinutes returns whole minutes between start and end. An end before
// start is treated as crossing midnight.
func ElapsedMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
