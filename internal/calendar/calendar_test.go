package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallClock(t *testing.T) {
	w, err := ParseWallClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, WallClock{Hour: 9, Minute: 5}, w)
	assert.Equal(t, "09:05", w.String())

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "12:5", "12:05:00", "+9:30", "-0:05", "009:30", "9:30", "09:+5"} {
		_, err := ParseWallClock(bad)
		assert.ErrorIs(t, err, ErrInvalidWallClock, bad)
	}
}

func TestWallClockMinutesUntil(t *testing.T) {
	start := WallClock{Hour: 9}
	assert.Equal(t, 90, start.MinutesUntil(WallClock{Hour: 10, Minute: 30}))
	assert.Equal(t, 0, start.MinutesUntil(start))
	// Crossing midnight.
	assert.Equal(t, 60, WallClock{Hour: 23, Minute: 30}.MinutesUntil(WallClock{Minute: 30}))
}

func TestElapsedMinutes(t *testing.T) {
	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 45, ElapsedMinutes(base, base.Add(45*time.Minute+30*time.Second)))
	assert.Equal(t, 23*60, ElapsedMinutes(base, base.Add(-time.Hour)))
	assert.Equal(t, 0, ElapsedMinutes(base, base.Add(-48*time.Hour)))
}

func TestWeekStart(t *testing.T) {
	friday := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), WeekStart(friday))

	sunday := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), WeekStart(sunday))

	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday))
}

func TestClockTodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	instant := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)
	clock := FixedClock(instant.In(loc))

	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), clock.Today())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("16/10/2026")
	assert.Error(t, err)
}
