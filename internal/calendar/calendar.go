// Package calendar models the mini month view: the day grid, the days that
// have something due, and a cursor used to pick a date filter.
package calendar

import (
	"time"

	"todocal/internal/recurrence"
	"todocal/internal/task"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d recurrence.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

func (m Month) First() recurrence.Date {
	return recurrence.Date{Year: m.Year, Month: m.Month, Day: 1}
}

func (m Month) Days() int {
	return recurrence.DaysIn(m.Year, m.Month)
}

// Add moves n months, wrapping years.
func (m Month) Add(n int) Month {
	return MonthOf(recurrence.NewDate(m.Year, m.Month+time.Month(n), 1))
}

func (m Month) Contains(d recurrence.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

func (m Month) String() string {
	return m.First().Time().Format("January 2006")
}

// Weeks lays the month out Sunday first. Cells outside the month are zero.
func (m Month) Weeks() [][7]recurrence.Date {
	var weeks [][7]recurrence.Date
	var row [7]recurrence.Date
	col := int(m.First().Weekday())
	for day := 1; day <= m.Days(); day++ {
		row[col] = recurrence.Date{Year: m.Year, Month: m.Month, Day: day}
		col++
		if col == 7 {
			weeks = append(weeks, row)
			row = [7]recurrence.Date{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, row)
	}
	return weeks
}

// Marks returns every day on which at least one task is due.
func Marks(tasks []task.Task) map[recurrence.Date]bool {
	set := map[recurrence.Date]bool{}
	for _, t := range tasks {
		if t.DueDate == "" {
			continue
		}
		for d := range t.Schedule().Occurrences() {
			set[d] = true
		}
	}
	return set
}

// Picker is the navigable state of the widget.
type Picker struct {
	View     Month
	Cursor   recurrence.Date
	Selected recurrence.Date
}

func NewPicker(today recurrence.Date) Picker {
	return Picker{View: MonthOf(today), Cursor: today}
}

// MoveDays shifts the cursor, following it into other months.
func (p *Picker) MoveDays(n int) {
	p.Cursor = p.Cursor.AddDays(n)
	p.View = MonthOf(p.Cursor)
}

// MoveMonths changes the visible month, keeping the cursor inside it.
func (p *Picker) MoveMonths(n int) {
	p.View = p.View.Add(n)
	day := min(p.Cursor.Day, p.View.Days())
	p.Cursor = recurrence.Date{Year: p.View.Year, Month: p.View.Month, Day: day}
}

// Toggle selects the cursor day, or clears the selection if it was already
// selected. It returns the new selection (zero when cleared).
func (p *Picker) Toggle() recurrence.Date {
	if p.Selected == p.Cursor {
		p.Selected = recurrence.Date{}
	} else {
		p.Selected = p.Cursor
	}
	return p.Selected
}

func (p *Picker) Clear() {
	p.Selected = recurrence.Date{}
}
