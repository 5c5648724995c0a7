// Package ical exports tasks as iCalendar events.
package ical

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todocal/internal/recurrence"
	"todocal/internal/task"
)

const dateLayout = "20060102"

var ErrNoDate = errors.New("task has no date to export")

var icsWeekdays = []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// Event renders t as a single all-day VEVENT. Recurring tasks start on their
// first occurrence and carry an RRULE.
func Event(t task.Task, now time.Time) (string, error) {
	start, ok := t.Due()
	if t.Recurring() {
		if s, sok := t.Start(); sok {
			start, ok = s, true
		}
	}
	if !ok {
		return "", ErrNoDate
	}

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Untitled task"
	}
	uid := fmt.Sprintf("task-%s@todocal", strings.TrimSpace(t.ID))
	if strings.TrimSpace(t.ID) == "" {
		uid = fmt.Sprintf("task-export-%d@todocal", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//todocal//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeText(title),
		"DTSTART;VALUE=DATE:" + start.Time().Format(dateLayout),
		"DTEND;VALUE=DATE:" + start.AddDays(1).Time().Format(dateLayout),
	}
	if desc := strings.TrimSpace(t.Desc); desc != "" && desc != task.DefaultDescription {
		lines = append(lines, "DESCRIPTION:"+escapeText(desc))
	}
	if t.Recurring() {
		lines = append(lines, recurrenceLines(t, start)...)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

// recurrenceLines describes the repeats after start. A month-end start on a
// plain monthly rule rolls into the following month on short months, which
// no RRULE can express, so bounded tasks of that shape list their dates.
func recurrenceLines(t task.Task, start recurrence.Date) []string {
	r := *t.Recurrence
	end, hasEnd := t.End()
	if hasEnd && drifts(r, start) {
		var lines []string
		for d := range t.Schedule().Occurrences() {
			if d.After(start) {
				lines = append(lines, "RDATE;VALUE=DATE:"+d.Time().Format(dateLayout))
			}
		}
		return lines
	}
	if rrule := RRule(r, end); rrule != "" {
		return []string{"RRULE:" + rrule}
	}
	return nil
}

func drifts(r recurrence.Rule, start recurrence.Date) bool {
	return r.Freq == recurrence.Monthly && !r.BySelectors() && start.Day > 28
}

// RRule renders r as an RFC 5545 recurrence rule. A zero until leaves the
// rule open-ended. Selector rules always step by one, as Next does.
func RRule(r recurrence.Rule, until recurrence.Date) string {
	if !r.Freq.Valid() {
		return ""
	}
	parts := []string{
		"FREQ=" + string(r.Freq),
		fmt.Sprintf("INTERVAL=%d", r.EffectiveInterval()),
	}
	switch r.Freq {
	case recurrence.Weekly:
		var days []string
		for _, d := range r.WeeklyDays {
			if d >= 0 && d <= 6 {
				days = append(days, icsWeekdays[d])
			}
		}
		if len(days) > 0 {
			parts = append(parts, "BYDAY="+strings.Join(days, ","))
		}
	case recurrence.Monthly:
		var days []string
		for _, d := range r.MonthlyDays {
			if d >= 1 && d <= 31 {
				days = append(days, fmt.Sprint(d))
			}
		}
		if len(days) > 0 {
			parts = append(parts, "BYMONTHDAY="+strings.Join(days, ","))
		}
	}
	if !until.IsZero() {
		parts = append(parts, "UNTIL="+until.Time().Format(dateLayout))
	}
	return strings.Join(parts, ";")
}

func escapeText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
