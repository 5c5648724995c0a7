package recurrence

import "time"

// Search horizons for selector-based rules.
const (
	weeklyScanWeeks   = 8
	monthlyScanMonths = 12
)

// Next returns the first occurrence of r strictly after base. Rules with an
// unknown frequency return base unchanged; callers enumerating occurrences
// must treat a non-advancing result as the end of the sequence.
func Next(base Date, r Rule) Date {
	if !r.Freq.Valid() {
		return base
	}
	next := advance(base, r)
	if !next.After(base) {
		next = base.AddDays(1)
	}
	return next
}

func advance(base Date, r Rule) Date {
	n := r.Step()
	switch r.Freq {
	case Daily:
		return base.AddDays(n)
	case Weekly:
		if len(r.WeeklyDays) > 0 {
			if d, ok := nextWeekday(base, r); ok {
				return d
			}
		}
		return base.AddDays(7 * n)
	case Monthly:
		if len(r.MonthlyDays) > 0 {
			if d, ok := nextMonthDay(base, r); ok {
				return d
			}
		}
		return base.AddMonths(n)
	}
	return base
}

func nextWeekday(base Date, r Rule) (Date, bool) {
	set := r.weekdaySet()
	if len(set) == 0 {
		return Date{}, false
	}
	for i := 1; i <= 7*weeklyScanWeeks; i++ {
		d := base.AddDays(i)
		if set[d.Weekday()] {
			return d, true
		}
	}
	return Date{}, false
}

func nextMonthDay(base Date, r Rule) (Date, bool) {
	days := r.monthDays()
	if len(days) == 0 {
		return Date{}, false
	}
	for i := 0; i < monthlyScanMonths; i++ {
		first := NewDate(base.Year, base.Month+time.Month(i), 1)
		last := DaysIn(first.Year, first.Month)
		for _, dom := range days {
			if dom > last {
				continue
			}
			d := Date{Year: first.Year, Month: first.Month, Day: dom}
			if d.After(base) {
				return d, true
			}
		}
	}
	return Date{}, false
}

// NextDueDate is the string form of Next. A nil rule, an empty frequency or a
// malformed base returns base unchanged.
func NextDueDate(base string, r *Rule) string {
	if r == nil || !r.Freq.Valid() {
		return base
	}
	d, err := ParseDate(base)
	if err != nil {
		return base
	}
	return Next(d, *r).String()
}
