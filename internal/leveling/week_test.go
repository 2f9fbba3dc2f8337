package leveling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsSameWeek(t *testing.T) {
	// 2026-08-30 is a Sunday, the start of a week.
	sunday := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 9, 2, 23, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 23, 59, 0, 0, time.UTC)
	nextSunday := time.Date(2026, 9, 6, 0, 0, 1, 0, time.UTC)

	assert.True(t, IsSameWeek(sunday, wednesday))
	assert.True(t, IsSameWeek(sunday, saturday))
	assert.False(t, IsSameWeek(saturday, nextSunday))
}

func TestIsSameWeekSymmetricAndReflexive(t *testing.T) {
	a := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 13, 20, 0, 0, 0, time.UTC)

	assert.True(t, IsSameWeek(a, a))
	assert.Equal(t, IsSameWeek(a, b), IsSameWeek(b, a))
}

func TestIsSameWeekAcrossYears(t *testing.T) {
	// Same week number in different years is still a different week.
	a := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.False(t, IsSameWeek(a, b))
}

func TestStartAndEndOfWeek(t *testing.T) {
	wednesday := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)

	start := StartOfWeek(wednesday)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), start)

	end := EndOfWeek(wednesday)
	assert.Equal(t, time.Saturday, end.Weekday())
	assert.True(t, end.After(wednesday))
}

func TestWeekNumberFirstOfJanuary(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, WeekNumber(jan1))
}
