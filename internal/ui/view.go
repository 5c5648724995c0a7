package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todocal/internal/config"
	"todocal/internal/recurrence"
	"todocal/internal/task"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("todocal"))
	b.WriteString("  ")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")
	b.WriteString(m.renderChips())
	b.WriteString("\n\n")

	list := m.renderTaskList()
	cal := panelStyle.Render(m.renderCalendar())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", cal))
	b.WriteString("\n")

	if m.form != nil {
		b.WriteString(m.renderForm())
	} else {
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.renderHelp()))
	return b.String()
}

func (m Model) renderSummary() string {
	total := len(m.state.Tasks)
	if total == 0 {
		return "No tasks yet."
	}
	return fmt.Sprintf("%d of %d tasks completed", m.state.CompletedCount(), total)
}

func (m Model) renderChips() string {
	chips := make([]string, 0, len(task.Views)+2)
	for i, v := range task.Views {
		label := fmt.Sprintf("%d %s", i+1, v.Label())
		if v == m.filter.View {
			chips = append(chips, chipActive.Render(label))
		} else {
			chips = append(chips, chipStyle.Render(label))
		}
	}
	if !m.filter.Date.IsZero() {
		chips = append(chips, chipActive.Render("on "+m.filter.Date.String()))
	}
	count := fmt.Sprintf("Showing %d task(s)", len(m.visible))
	if m.filter.Active() {
		count += " (filtered)"
	}
	chips = append(chips, mutedStyle.Render(count))
	return strings.Join(chips, " ")
}

func (m Model) renderTaskList() string {
	if len(m.visible) == 0 {
		if len(m.state.Tasks) == 0 {
			return "No tasks yet. Press 'a' to add one."
		}
		return "No tasks match this view."
	}
	today := m.today()
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		done := m.state.IsCompleted(t.ID)
		checkbox := "[ ]"
		if done {
			checkbox = "[x]"
		}

		title := t.Title
		switch {
		case done:
			title = doneStyle.Render(title)
		case m.cursor == i:
			title = selectedStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s %s", cursor, checkbox, title)
		if t.DueDate != "" {
			due := "due " + t.DueDate
			if !done {
				switch task.Deadline(t, today) {
				case task.HintOverdue:
					due = overdueStyle.Render(due + " (overdue)")
				case task.HintSoon:
					due = soonStyle.Render(due)
				}
			}
			line += "  " + due
		}
		if t.Recurring() {
			line += "  " + badgeStyle.Render("↻ "+t.Recurrence.String())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCalendar() string {
	p := m.picker
	today := m.today()
	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(20, lipgloss.Center, p.View.String()))
	b.WriteString("\nSu Mo Tu We Th Fr Sa\n")
	for _, week := range p.View.Weeks() {
		cells := make([]string, 0, 7)
		for _, d := range week {
			cells = append(cells, m.renderDay(d, today))
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderDay(d, today recurrence.Date) string {
	if d.IsZero() {
		return "  "
	}
	cell := fmt.Sprintf("%2d", d.Day)
	switch {
	case d == m.picker.Selected:
		return calSelectedStyle.Render(cell)
	case m.mode == modeCalendar && d == m.picker.Cursor:
		return calCursorStyle.Render(cell)
	case d == today:
		return calTodayStyle.Render(cell)
	case m.marks[d]:
		return calMarkStyle.Render(cell)
	}
	return cell
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.form.editID == "" {
		b.WriteString("New task\n")
	} else {
		b.WriteString("Edit task\n")
	}
	for i := 0; i < fieldCount; i++ {
		prefix := " "
		val := m.form.valueAt(i)
		if i == m.form.index {
			prefix = ">"
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-34s : %s\n", prefix, m.form.labelAt(i), val))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(t.Desc)))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(m.state.IsCompleted(t.ID))))
	b.WriteString(fmt.Sprintf("Due         : %s\n", emptyPlaceholder(t.DueDate)))
	if t.Recurring() {
		b.WriteString(fmt.Sprintf("Repeats     : %s\n", t.Recurrence.String()))
		b.WriteString(fmt.Sprintf("From        : %s\n", emptyPlaceholder(t.StartDate)))
		b.WriteString(fmt.Sprintf("Until       : %s\n", emptyPlaceholder(t.EndDate)))
	}
	b.WriteString(fmt.Sprintf("Created     : %s", t.CreatedAt.Local().Format("2006-01-02 15:04")))
	return panelStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	switch {
	case m.form != nil:
		return "tab/shift+tab move • enter next/save • ctrl+s save • esc cancel"
	case m.confirmDel:
		return "y delete • n keep"
	case m.mode == modeCalendar:
		k := m.cfg.Keys
		return fmt.Sprintf("hjkl/arrows move • %s/%s month • %s pick day • %s back",
			k.PrevMonth, k.NextMonth, k.Confirm, k.Cancel)
	}
	return listHelp(m.cfg.Keys)
}

func listHelp(k config.Keymap) string {
	toggle := k.Toggle
	if toggle == " " {
		toggle = "space"
	}
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s clear done • %s/1-4 view • %s calendar • %s quit",
		k.Up, k.Down, k.Add, k.Edit, toggle, k.Delete, k.ClearCompleted, k.NextView, k.Calendar, k.Quit)
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
