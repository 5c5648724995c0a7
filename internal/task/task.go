// Package task holds the to-do list state and the rules for matching,
// ordering and completing tasks.
package task

import (
	"errors"
	"time"

	"todocal/internal/recurrence"
)

const (
	DefaultDescription = "No description provided"
	TitleLimit         = 40
	DescriptionLimit   = 80
)

var (
	ErrNotFound       = errors.New("task not found")
	ErrAmbiguous      = errors.New("task id prefix is ambiguous")
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrEndBeforeStart = errors.New("end date is before the start date")
)

// Task is one entry of the list. Dates are stored as YYYY-MM-DD strings and
// parsed on use; a value that fails to parse behaves as absent.
type Task struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Desc       string           `json:"desc"`
	CreatedAt  time.Time        `json:"createdAt"`
	DueDate    string           `json:"dueDate,omitempty"`
	StartDate  string           `json:"startDate,omitempty"`
	EndDate    string           `json:"endDate,omitempty"`
	Recurrence *recurrence.Rule `json:"recurrence,omitempty"`
}

func (t Task) Recurring() bool {
	return t.Recurrence != nil && t.Recurrence.Freq != ""
}

func (t Task) Due() (recurrence.Date, bool)   { return parseField(t.DueDate) }
func (t Task) Start() (recurrence.Date, bool) { return parseField(t.StartDate) }
func (t Task) End() (recurrence.Date, bool)   { return parseField(t.EndDate) }

// Schedule returns the days the task is due on. A recurring task spans
// startDate (or dueDate) through endDate (or dueDate).
func (t Task) Schedule() recurrence.Schedule {
	due, _ := t.Due()
	if !t.Recurring() {
		return recurrence.Single{Due: due}
	}
	start, ok := t.Start()
	if !ok {
		start = due
	}
	end, ok := t.End()
	if !ok {
		end = due
	}
	return recurrence.Recurring{Rule: *t.Recurrence, Start: start, End: end}
}

func parseField(v string) (recurrence.Date, bool) {
	if v == "" {
		return recurrence.Date{}, false
	}
	d, err := recurrence.ParseDate(v)
	if err != nil {
		return recurrence.Date{}, false
	}
	return d, true
}
