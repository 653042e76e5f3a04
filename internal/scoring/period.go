package scoring

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
)

var (
	ErrInvalidPeriod = errors.New("period must be one of day, week, month")
	ErrInvalidScope  = errors.New("scope must be one of friends, global")
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// MonthLookbackDays is how far back the month period reaches.
const MonthLookbackDays = 30

// ParsePeriod parses a period query value; empty means week.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodWeek:
		return PeriodWeek, nil
	case PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Range returns the inclusive date range the period covers around today.
func (p Period) Range(today time.Time) DateRange {
	today = calendar.Day(today)
	switch p {
	case PeriodDay:
		return DateRange{Start: today, End: today}
	case PeriodMonth:
		return DateRange{Start: today.AddDate(0, 0, -MonthLookbackDays), End: today}
	default:
		start := calendar.WeekStart(today)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
	}
}

// ChampionBadge is the label awarded to the first row of a board for p.
func (p Period) ChampionBadge() string {
	switch p {
	case PeriodDay:
		return "Daily Champion"
	case PeriodMonth:
		return "Monthly Champion"
	default:
		return "Weekly Champion"
	}
}

type Scope string

const (
	ScopeFriends Scope = "friends"
	ScopeGlobal  Scope = "global"
)

// ParseScope parses a scope query value; empty means friends.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeFriends:
		return ScopeFriends, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether day falls within the range.
func (r DateRange) Contains(day time.Time) bool {
	day = calendar.Day(day)
	return !day.Before(r.Start) && !day.After(r.End)
}
