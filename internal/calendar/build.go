package calendar

import (
	"fmt"
	"strings"
	"time"
)

// MaxDueDay is the largest due day every month has, February included.
const MaxDueDay = 28

// ClampDueDay forces a card due day into [1, MaxDueDay].
func ClampDueDay(day int) int {
	return min(max(day, 1), MaxDueDay)
}

// DaysIn returns the number of days in the given month. The month may be out of
// range; it is normalized first.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Build constructs a date for year and month, normalizing a month index outside
// 1..12 into the adjacent years, and clamps day to the last valid day of that month.
func Build(year int, month time.Month, day int) Date {
	idx := year*12 + int(month) - 1
	y := floorDiv(idx, 12)
	m := time.Month(idx-y*12) + 1
	return Date{y: y, m: m, d: min(max(day, 1), DaysIn(y, m))}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// ParseMonthKey validates a "YYYY-MM" bucket key and returns its year and month.
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(key))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want format YYYY-MM: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// MonthKey formats a year and month as a "YYYY-MM" bucket key.
func MonthKey(year int, month time.Month) string {
	return Build(year, month, 1).MonthKey()
}
