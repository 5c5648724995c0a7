package task

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"todocal/internal/recurrence"
)

var newID = uuid.NewString

// Outcome reports what a toggle did.
type Outcome int

const (
	Completed Outcome = iota + 1
	Reopened
	RolledOver
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Reopened:
		return "reopened"
	case RolledOver:
		return "rolled over"
	}
	return "unknown"
}

// State is the whole list: tasks in insertion order and the ids marked done.
type State struct {
	Tasks     []Task
	completed map[string]struct{}
}

// NewState builds a State from persisted collections.
func NewState(tasks []Task, completed []string) State {
	st := State{Tasks: tasks, completed: make(map[string]struct{}, len(completed))}
	for _, id := range completed {
		st.completed[id] = struct{}{}
	}
	return st
}

// CompletedIDs returns the completed set sorted for stable persistence.
func (s *State) CompletedIDs() []string {
	ids := make([]string, 0, len(s.completed))
	for id := range s.completed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *State) IsCompleted(id string) bool {
	_, ok := s.completed[id]
	return ok
}

func (s *State) CompletedCount() int { return len(s.completed) }

func (s *State) markCompleted(id string) {
	if s.completed == nil {
		s.completed = map[string]struct{}{}
	}
	s.completed[id] = struct{}{}
}

func (s *State) index(id string) int {
	return slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
}

func (s *State) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.Tasks[i], true
}

// Resolve finds a task by full id or by a unique id prefix.
func (s *State) Resolve(ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, ErrNotFound
	}
	if t, ok := s.Get(ref); ok {
		return t, nil
	}
	var found []Task
	for _, t := range s.Tasks {
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return Task{}, ErrNotFound
	case 1:
		return found[0], nil
	}
	return Task{}, ErrAmbiguous
}

// Add appends a new task built from d.
func (s *State) Add(d Draft, now time.Time) (Task, error) {
	t := Task{ID: newID(), CreatedAt: now}
	if err := d.apply(&t, Task{}, recurrence.FromTime(now)); err != nil {
		return Task{}, err
	}
	s.Tasks = append(s.Tasks, t)
	return t, nil
}

// Edit replaces the editable fields of task id. Completion is untouched and
// the start date of a task that stays recurring is preserved.
func (s *State) Edit(id string, d Draft, today recurrence.Date) (Task, error) {
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	cur := s.Tasks[i]
	next := cur
	if err := d.apply(&next, cur, today); err != nil {
		return Task{}, err
	}
	s.Tasks[i] = next
	return next, nil
}

func (s *State) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.Tasks = slices.Delete(s.Tasks, i, i+1)
	delete(s.completed, id)
	return nil
}

// ClearCompleted drops every completed task, keeping the others in order.
func (s *State) ClearCompleted() int {
	before := len(s.Tasks)
	s.Tasks = slices.DeleteFunc(s.Tasks, func(t Task) bool { return s.IsCompleted(t.ID) })
	clear(s.completed)
	return before - len(s.Tasks)
}

// Toggle flips completion of task id. A recurring task that still has an
// occurrence left rolls its due date forward instead of completing; one
// without an end date always rolls over.
func (s *State) Toggle(id string, today recurrence.Date) (Outcome, error) {
	i := s.index(id)
	if i < 0 {
		return 0, ErrNotFound
	}
	if s.IsCompleted(id) {
		delete(s.completed, id)
		return Reopened, nil
	}
	t := &s.Tasks[i]
	if !t.Recurring() {
		s.markCompleted(id)
		return Completed, nil
	}

	end, hasEnd := t.End()
	if hasEnd && !today.Before(end) {
		s.markCompleted(id)
		return Completed, nil
	}
	cur, ok := t.Due()
	if !ok {
		if cur, ok = t.Start(); !ok {
			cur = today
		}
	}
	next := recurrence.Next(cur, *t.Recurrence)
	if !next.After(cur) || (hasEnd && next.After(end)) {
		s.markCompleted(id)
		return Completed, nil
	}
	t.DueDate = next.String()
	return RolledOver, nil
}
