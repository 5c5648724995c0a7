package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical calendar-date format.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day with no time-of-day or timezone component.
// The zero value means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing out-of-range values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts a plain YYYY-MM-DD value or a full RFC 3339 timestamp,
// which is reduced to its local calendar day.
func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(Layout, v); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return FromTime(t.Local()), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
}

// MustParse is ParseDate for literals known to be valid.
func MustParse(v string) Date {
	d, err := ParseDate(v)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of d. UTC keeps day arithmetic free of DST gaps.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths keeps the day of month; overflow rolls into the following month
// (Jan 31 + 1 month is Mar 3, or Mar 2 in a leap year).
func (d Date) AddMonths(n int) Date {
	return FromTime(d.Time().AddDate(0, n, 0))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Compare(o Date) int {
	return d.Time().Compare(o.Time())
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// DaysBetween returns the signed number of days from a to b. It works on
// Unix seconds so spans past the range of time.Duration stay exact.
func DaysBetween(a, b Date) int {
	return int((b.Time().Unix() - a.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekOf returns the Sunday and Saturday bounding the week that contains d.
func WeekOf(d Date) (Date, Date) {
	start := d.AddDays(-int(d.Weekday()))
	return start, start.AddDays(6)
}

// Within reports whether d lies in [from, to].
func (d Date) Within(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}
