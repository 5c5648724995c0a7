package recurrence

import "iter"

// Schedule is the set of days a task is due on: either a single date or the
// occurrences of a rule between two bounds.
type Schedule interface {
	// Occurrences yields due days in ascending order.
	Occurrences() iter.Seq[Date]
	isSchedule()
}

// Single is a one-off due date. A zero Due has no occurrences.
type Single struct {
	Due Date
}

func (Single) isSchedule() {}

func (s Single) Occurrences() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if !s.Due.IsZero() {
			yield(s.Due)
		}
	}
}

// Recurring enumerates Rule from Start through End, both inclusive.
// A zero bound or an invalid rule has no occurrences.
type Recurring struct {
	Rule  Rule
	Start Date
	End   Date
}

func (Recurring) isSchedule() {}

func (r Recurring) Occurrences() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) || !r.Rule.Freq.Valid() {
			return
		}
		// Next always advances by at least a day, so the span in days bounds
		// the walk even if a rule misbehaves.
		limit := DaysBetween(r.Start, r.End) + 1
		cur := r.Start
		for i := 0; i < limit && !cur.After(r.End); i++ {
			if !yield(cur) {
				return
			}
			next := Next(cur, r.Rule)
			if !next.After(cur) {
				return
			}
			cur = next
		}
	}
}

// Any reports whether some occurrence of s satisfies match.
func Any(s Schedule, match func(Date) bool) bool {
	for d := range s.Occurrences() {
		if match(d) {
			return true
		}
	}
	return false
}

// Collect returns every occurrence of s.
func Collect(s Schedule) []Date {
	var out []Date
	for d := range s.Occurrences() {
		out = append(out, d)
	}
	return out
}
