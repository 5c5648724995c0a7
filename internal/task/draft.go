package task

import (
	"fmt"
	"slices"
	"strings"

	"todocal/internal/recurrence"
)

// Draft is the user input behind create and edit. Date is the due date of a
// one-off task and the end date of a recurring one.
type Draft struct {
	Title string
	Desc  string
	Date  string
	Rule  *recurrence.Rule
}

// DraftFrom rebuilds the form input for an existing task.
func DraftFrom(t Task) Draft {
	d := Draft{Title: t.Title, Desc: t.Desc, Date: t.DueDate}
	if t.Desc == DefaultDescription {
		d.Desc = ""
	}
	if t.Recurring() {
		r := *t.Recurrence
		r.WeeklyDays = slices.Clone(r.WeeklyDays)
		r.MonthlyDays = slices.Clone(r.MonthlyDays)
		d.Rule = &r
		d.Date = t.EndDate
	}
	return d
}

func (d Draft) recurring() bool {
	return d.Rule != nil && d.Rule.Freq != ""
}

// apply validates d and writes it onto t. cur is t as it was before the edit,
// or the zero Task on create.
func (d Draft) apply(t *Task, cur Task, today recurrence.Date) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	desc := strings.TrimSpace(d.Desc)
	if desc == "" {
		desc = DefaultDescription
	}

	var date recurrence.Date
	if v := strings.TrimSpace(d.Date); v != "" {
		parsed, err := recurrence.ParseDate(v)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, v)
		}
		date = parsed
	}

	if d.recurring() {
		if !d.Rule.Freq.Valid() {
			return fmt.Errorf("%w: %q", recurrence.ErrUnknownFrequency, d.Rule.Freq)
		}
		start, ok := cur.Start()
		if !cur.Recurring() || !ok {
			start = today
		}
		if !date.IsZero() && date.Before(start) {
			return fmt.Errorf("%w: %s < %s", ErrEndBeforeStart, date, start)
		}
		due, ok := cur.Due()
		if !cur.Recurring() || !ok || due.Before(start) || (!date.IsZero() && due.After(date)) {
			due = start
		}
		rule := *d.Rule
		if rule.Interval <= 0 {
			rule.Interval = 1
		}
		t.Recurrence = &rule
		t.StartDate = start.String()
		t.EndDate = date.String()
		t.DueDate = due.String()
	} else {
		t.Recurrence = nil
		t.StartDate = ""
		t.EndDate = ""
		t.DueDate = date.String()
	}
	t.Title = title
	t.Desc = desc
	return nil
}
