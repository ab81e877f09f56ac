package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodWindows(t *testing.T) {
	// Tuesday.
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	day := DayWindow(now)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), day.End)

	week := WeekWindow(now)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), week.Start)
	assert.Equal(t, time.Monday, week.Start.Weekday())
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), week.End)

	month := MonthWindow(now)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), month.Start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), month.End)
}

func TestWeekWindowOnSunday(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	week := WeekWindow(sunday)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), week.Start)
	assert.True(t, week.Contains(sunday))
}

func TestWindowIsHalfOpen(t *testing.T) {
	w := DayWindow(t0)
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}
