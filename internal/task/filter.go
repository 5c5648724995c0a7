package task

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"todocal/internal/recurrence"
)

// View is a named window over the list.
type View string

const (
	ViewAll      View = "ALL"
	ViewToday    View = "TODAY"
	ViewThisWeek View = "THIS_WEEK"
	ViewOverdue  View = "OVERDUE"
)

var ErrUnknownView = errors.New("unknown view")

// Views lists the windows in display order.
var Views = []View{ViewAll, ViewToday, ViewThisWeek, ViewOverdue}

// ParseView accepts "this_week", "this-week", "This Week" and friends.
func ParseView(v string) (View, error) {
	key := strings.ToUpper(strings.TrimSpace(v))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "", "ALL":
		return ViewAll, nil
	case "TODAY":
		return ViewToday, nil
	case "THIS_WEEK", "WEEK":
		return ViewThisWeek, nil
	case "OVERDUE":
		return ViewOverdue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, v)
}

func (v View) Label() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewThisWeek:
		return "This Week"
	case ViewOverdue:
		return "Overdue"
	}
	return "All"
}

// Next cycles through Views.
func (v View) Next() View {
	i := slices.Index(Views, v)
	return Views[(i+1)%len(Views)]
}

// Match reports whether some due day of t falls in the window on today.
func (v View) Match(t Task, today recurrence.Date) bool {
	if v == ViewAll || v == "" {
		return true
	}
	weekStart, weekEnd := recurrence.WeekOf(today)
	return recurrence.Any(t.Schedule(), func(d recurrence.Date) bool {
		switch v {
		case ViewToday:
			return d == today
		case ViewThisWeek:
			return d.Within(weekStart, weekEnd)
		case ViewOverdue:
			return d.Before(today)
		}
		return false
	})
}

// MatchDate reports whether t is due on day.
func MatchDate(t Task, day recurrence.Date) bool {
	return recurrence.Any(t.Schedule(), func(d recurrence.Date) bool { return d == day })
}

// Filter combines a view with an optional selected day.
type Filter struct {
	View View
	Date recurrence.Date
}

// Active reports whether the filter narrows the list at all.
func (f Filter) Active() bool {
	return !f.Date.IsZero() || (f.View != ViewAll && f.View != "")
}

func (f Filter) Match(t Task, today recurrence.Date) bool {
	if !f.Date.IsZero() && !MatchDate(t, f.Date) {
		return false
	}
	return f.View.Match(t, today)
}

// Visible returns the tasks passing f in display order.
func (s *State) Visible(f Filter, today recurrence.Date) []Task {
	out := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if f.Match(t, today) {
			out = append(out, t)
		}
	}
	Sort(out, today)
	return out
}

// Sort orders overdue tasks first, then by ascending due date with undated
// tasks last, then newest first.
func Sort(tasks []Task, today recurrence.Date) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		aDue, aOK := a.Due()
		bDue, bOK := b.Due()
		aOver := aOK && aDue.Before(today)
		bOver := bOK && bDue.Before(today)
		if aOver != bOver {
			if aOver {
				return -1
			}
			return 1
		}
		switch {
		case aOK && bOK:
			if c := aDue.Compare(bDue); c != 0 {
				return c
			}
		case aOK:
			return -1
		case bOK:
			return 1
		}
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
}

// Hint classifies how close a task's due date is.
type Hint int

const (
	HintNone Hint = iota
	HintSoon
	HintOverdue
)

// soonDays is how far ahead a due date still counts as soon.
const soonDays = 2

func Deadline(t Task, today recurrence.Date) Hint {
	due, ok := t.Due()
	switch {
	case !ok:
		return HintNone
	case due.Before(today):
		return HintOverdue
	case !due.After(today.AddDays(soonDays)):
		return HintSoon
	}
	return HintNone
}
