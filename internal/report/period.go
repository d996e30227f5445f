package report

import (
	"strings"
	"time"

	"github.com/cleared-dev/pocket/internal/calendar"
)

// Period selects the events a total covers: everything, or one "YYYY-MM" bucket.
type Period struct {
	key string // empty means all time
}

// AllTime returns the unbounded period.
func AllTime() Period { return Period{} }

// Month returns the period covering a single year-month bucket.
func Month(key string) (Period, error) {
	y, m, err := calendar.ParseMonthKey(key)
	if err != nil {
		return Period{}, err
	}
	return Period{key: calendar.MonthKey(y, m)}, nil
}

// ParsePeriod accepts "all" (or an empty string) and "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return AllTime(), nil
	}
	return Month(s)
}

// IsAllTime reports whether p is unbounded.
func (p Period) IsAllTime() bool { return p.key == "" }

// Contains reports whether d falls within the period, by month prefix.
func (p Period) Contains(d calendar.Date) bool {
	return p.key == "" || strings.HasPrefix(d.String(), p.key)
}

func (p Period) String() string {
	if p.key == "" {
		return "all"
	}
	return p.key
}

// LastMonths returns the keys of the n months ending with the month of today,
// oldest first.
func LastMonths(today calendar.Date, n int) []string {
	keys := make([]string, 0, max(n, 0))
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, calendar.MonthKey(today.Year(), today.Month()-time.Month(i)))
	}
	return keys
}
