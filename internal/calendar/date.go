package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the ISO-8601 day format used in documents and on the command line.
const Format = "2006-01-02"

// readFormat also accepts single-digit month and day ("2024-3-8").
const readFormat = "2006-1-2"

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the normalized Date for year, month and day, letting time.Date roll
// overflowing values into the following month or year.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date { return New(t.Date()) }

// Today returns the current local date.
func Today() Date { return FromTime(time.Now()) }

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// IsZero reports whether d is the zero Date (never set).
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return New(d.y, d.m, d.d+n) }

// AddMonths returns d shifted by n whole months. The day is clamped to the target
// month's length instead of rolling over (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date { return Build(d.y, d.m+time.Month(n), d.d) }

// MonthKey returns the "YYYY-MM" bucket the date falls in.
func (d Date) MonthKey() string { return fmt.Sprintf("%04d-%02d", d.y, int(d.m)) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(Format)
}

// Parse reads a date in "YYYY-MM-DD" form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(readFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", s, Format, err)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
