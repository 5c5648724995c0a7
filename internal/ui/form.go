package ui

import (
	"fmt"
	"strconv"
	"strings"

	"todocal/internal/recurrence"
	"todocal/internal/task"
)

// formState backs both the add and the edit form.
type formState struct {
	editID    string
	title     string
	desc      string
	freq      string
	interval  string
	weekdays  string
	monthDays string
	date      string
	index     int
}

const (
	fieldTitle = iota
	fieldDesc
	fieldFreq
	fieldInterval
	fieldWeekdays
	fieldMonthDays
	fieldDate
	fieldCount
)

func newFormState(t *task.Task) *formState {
	fs := &formState{interval: "1"}
	if t == nil {
		return fs
	}
	d := task.DraftFrom(*t)
	fs.editID = t.ID
	fs.title = d.Title
	fs.desc = d.Desc
	fs.date = d.Date
	if d.Rule != nil {
		fs.freq = strings.ToLower(string(d.Rule.Freq))
		fs.interval = strconv.Itoa(d.Rule.Step())
		fs.weekdays = strings.ToLower(recurrence.FormatWeekdays(d.Rule.WeeklyDays))
		fs.monthDays = recurrence.FormatMonthDays(d.Rule.MonthlyDays)
	}
	return fs
}

func (fs formState) recurring() bool {
	f, err := recurrence.ParseFrequency(fs.freq)
	return err == nil && f != ""
}

func (fs formState) labelAt(i int) string {
	switch i {
	case fieldTitle:
		return "title"
	case fieldDesc:
		return "description"
	case fieldFreq:
		return "repeat (none/daily/weekly/monthly)"
	case fieldInterval:
		return "every N"
	case fieldWeekdays:
		return "weekdays (weekly, e.g. mon,thu)"
	case fieldMonthDays:
		return "month days (monthly, e.g. 1,15)"
	case fieldDate:
		if fs.recurring() {
			return "end date (YYYY-MM-DD)"
		}
		return "due date (YYYY-MM-DD)"
	}
	return ""
}

func (fs formState) currentLabel() string {
	return fs.labelAt(fs.index)
}

func (fs formState) valueAt(i int) string {
	switch i {
	case fieldTitle:
		return fs.title
	case fieldDesc:
		return fs.desc
	case fieldFreq:
		return fs.freq
	case fieldInterval:
		return fs.interval
	case fieldWeekdays:
		return fs.weekdays
	case fieldMonthDays:
		return fs.monthDays
	case fieldDate:
		return fs.date
	}
	return ""
}

func (fs formState) currentValue() string {
	return fs.valueAt(fs.index)
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case fieldTitle:
		fs.title = v
	case fieldDesc:
		fs.desc = v
	case fieldFreq:
		fs.freq = v
	case fieldInterval:
		fs.interval = v
	case fieldWeekdays:
		fs.weekdays = v
	case fieldMonthDays:
		fs.monthDays = v
	case fieldDate:
		fs.date = v
	}
}

func charLimit(field int) int {
	switch field {
	case fieldTitle:
		return task.TitleLimit
	case fieldDesc:
		return task.DescriptionLimit
	}
	return 32
}

func (fs formState) toDraft() (task.Draft, error) {
	d := task.Draft{Title: fs.title, Desc: fs.desc, Date: fs.date}
	freq, err := recurrence.ParseFrequency(fs.freq)
	if err != nil {
		return d, err
	}
	if freq == "" {
		return d, nil
	}
	rule := recurrence.Rule{Freq: freq, Interval: 1}
	if v := strings.TrimSpace(fs.interval); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return d, fmt.Errorf("interval must be a positive number, got %q", v)
		}
		rule.Interval = n
	}
	switch freq {
	case recurrence.Weekly:
		if rule.WeeklyDays, err = recurrence.ParseWeekdays(fs.weekdays); err != nil {
			return d, err
		}
	case recurrence.Monthly:
		if rule.MonthlyDays, err = recurrence.ParseMonthDays(fs.monthDays); err != nil {
			return d, err
		}
	}
	d.Rule = &rule
	return d, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
