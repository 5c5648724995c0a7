package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Label is the short human form used in lists ("Repeats weekly").
func (f Frequency) Label() string {
	switch f {
	case Daily:
		return "Repeats daily"
	case Weekly:
		return "Repeats weekly"
	case Monthly:
		return "Repeats monthly"
	}
	return ""
}

// ParseFrequency is case-insensitive. An empty value or "none" yields "".
func ParseFrequency(v string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", "NONE", "N":
		return "", nil
	case "DAILY", "D":
		return Daily, nil
	case "WEEKLY", "W":
		return Weekly, nil
	case "MONTHLY", "M":
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, v)
}

// Rule describes how a task repeats. WeeklyDays holds 0 (Sunday) through
// 6 (Saturday); MonthlyDays holds 1 through 31.
type Rule struct {
	Freq        Frequency `json:"freq"`
	Interval    int       `json:"interval,omitempty"`
	WeeklyDays  []int     `json:"weeklyDays,omitempty"`
	MonthlyDays []int     `json:"monthlyDays,omitempty"`
}

// Step is the interval with non-positive values normalized to 1.
func (r Rule) Step() int {
	if r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

func (r Rule) weekdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(r.WeeklyDays))
	for _, d := range r.WeeklyDays {
		if d >= 0 && d <= 6 {
			set[time.Weekday(d)] = true
		}
	}
	return set
}

func (r Rule) monthDays() []int {
	days := make([]int, 0, len(r.MonthlyDays))
	for _, d := range r.MonthlyDays {
		if d >= 1 && d <= 31 {
			days = append(days, d)
		}
	}
	slices.Sort(days)
	return slices.Compact(days)
}

// BySelectors reports whether the rule walks its weekday or month-day
// selectors. Such rules land on the next selected day and ignore Interval.
func (r Rule) BySelectors() bool {
	switch r.Freq {
	case Weekly:
		return len(r.weekdaySet()) > 0
	case Monthly:
		return len(r.monthDays()) > 0
	}
	return false
}

// EffectiveInterval is the step Next actually applies: Step, or 1 for
// selector-driven rules.
func (r Rule) EffectiveInterval() int {
	if r.BySelectors() {
		return 1
	}
	return r.Step()
}

// String renders the rule for detail panels, e.g. "every 2 weeks on Mon, Thu".
func (r Rule) String() string {
	if !r.Freq.Valid() {
		return ""
	}
	unit := map[Frequency]string{Daily: "day", Weekly: "week", Monthly: "month"}[r.Freq]
	var b strings.Builder
	if n := r.EffectiveInterval(); n == 1 {
		b.WriteString("every " + unit)
	} else {
		fmt.Fprintf(&b, "every %d %ss", n, unit)
	}
	switch {
	case r.Freq == Weekly && r.BySelectors():
		b.WriteString(" on " + FormatWeekdays(r.WeeklyDays))
	case r.Freq == Monthly && r.BySelectors():
		b.WriteString(" on day " + FormatMonthDays(r.monthDays()))
	}
	return b.String()
}

var weekdayNames = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// ParseWeekdays reads a comma or space separated list of weekday names
// ("mon,thu") or numbers (0=Sunday).
func ParseWeekdays(v string) ([]int, error) {
	var out []int
	for _, f := range splitList(v) {
		if n, err := strconv.Atoi(f); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday %d out of range 0-6", n)
			}
			out = append(out, n)
			continue
		}
		idx := -1
		for i, name := range weekdayNames {
			if strings.HasPrefix(strings.ToLower(f), name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("unknown weekday %q", f)
		}
		out = append(out, idx)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// ParseMonthDays reads a comma or space separated list of days 1-31.
func ParseMonthDays(v string) ([]int, error) {
	var out []int
	for _, f := range splitList(v) {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("month day %q is not a number", f)
		}
		if n < 1 || n > 31 {
			return nil, fmt.Errorf("month day %d out of range 1-31", n)
		}
		out = append(out, n)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func FormatWeekdays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			name := weekdayNames[d]
			parts = append(parts, strings.ToUpper(name[:1])+name[1:])
		}
	}
	return strings.Join(parts, ", ")
}

func FormatMonthDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ", ")
}

func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
}
