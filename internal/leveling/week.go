package leveling

import (
	"math"
	"time"
)

// WeekNumber returns the 1-based week of the year for t, with weeks
// anchored on January 1st and running Sunday through Saturday.
func WeekNumber(t time.Time) int {
	firstDay := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	// Truncate to the calendar day so the time of day cannot push a late
	// Saturday into the following week.
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	pastDays := day.Sub(firstDay).Hours() / 24
	return int(math.Ceil((pastDays + float64(firstDay.Weekday()) + 1) / 7))
}

// IsSameWeek reports whether a and b fall in the same calendar week.
// The check is symmetric and reflexive.
func IsSameWeek(a, b time.Time) bool {
	return a.Year() == b.Year() && WeekNumber(a) == WeekNumber(b)
}

// StartOfWeek returns the Sunday 00:00:00 that opens t's week.
func StartOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	start := t.AddDate(0, 0, -day)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns the last instant of the Saturday that closes t's week.
func EndOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	end := t.AddDate(0, 0, 6-day)
	return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
