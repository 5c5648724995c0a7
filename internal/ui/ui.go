package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todocal/internal/calendar"
	"todocal/internal/config"
	"todocal/internal/logging"
	"todocal/internal/recurrence"
	"todocal/internal/storage"
	"todocal/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeCalendar
)

type Options struct {
	Repo   storage.Repository
	Config config.Config
	Logger *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	repo   storage.Repository
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time

	state   task.State
	filter  task.Filter
	visible []task.Task
	marks   map[recurrence.Date]bool
	picker  calendar.Picker

	cursor     int
	mode       mode
	form       *formState
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	width      int
}

func Run(ctx context.Context, opts Options) error {
	st, err := opts.Repo.Load(ctx)
	if err != nil {
		return err
	}
	m := New(st, opts)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func New(st task.State, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	ti := textinput.New()
	ti.CharLimit = task.TitleLimit
	ti.Width = 40

	m := Model{
		repo:   opts.Repo,
		cfg:    opts.Config,
		logger: opts.Logger,
		now:    opts.Now,
		state:  st,
		filter: task.Filter{View: opts.Config.View()},
		input:  ti,
		mode:   modeList,
		status: "Press 'a' to add, space to toggle, 'c' for the calendar.",
	}
	m.picker = calendar.NewPicker(m.today())
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) today() recurrence.Date {
	return recurrence.FromTime(m.now())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeCalendar {
			return m.updateCalendarMode(msg.String())
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 20)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		out, err := m.state.Toggle(t.ID, m.today())
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		switch out {
		case task.RolledOver:
			next, _ := m.state.Get(t.ID)
			m.status = "Next occurrence: " + next.DueDate
		case task.Completed:
			m.status = fmt.Sprintf("Completed %q", t.Title)
		default:
			m.status = fmt.Sprintf("Reopened %q", t.Title)
		}
		m.logger.Debug("toggled task", "id", t.ID, "outcome", out)
		m.persist()
		m.refresh()
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.ClearCompleted:
		n := m.state.ClearCompleted()
		if n == 0 {
			m.status = "Nothing to clear"
			return m, nil
		}
		m.status = fmt.Sprintf("Cleared %d completed task(s)", n)
		m.persist()
		m.refresh()
	case m.cfg.Keys.NextView:
		m.setView(m.filter.View.Next())
	case "1", "2", "3", "4":
		m.setView(task.Views[int(key[0]-'1')])
	case m.cfg.Keys.Calendar:
		m.mode = modeCalendar
		m.status = "Calendar: move with arrows or hjkl, enter to pick a day, esc to leave"
	case m.cfg.Keys.PrevMonth:
		m.picker.MoveMonths(-1)
	case m.cfg.Keys.NextMonth:
		m.picker.MoveMonths(1)
	case m.cfg.Keys.Cancel:
		if !m.filter.Date.IsZero() {
			m.filter.Date = recurrence.Date{}
			m.picker.Clear()
			m.status = "Date filter cleared"
			m.refresh()
		}
	}
	return m, nil
}

// setView switches the view filter. ALL also drops the date filter.
func (m *Model) setView(v task.View) {
	m.filter.View = v
	if v == task.ViewAll {
		m.filter.Date = recurrence.Date{}
		m.picker.Clear()
	}
	m.status = "View: " + v.Label()
	m.cursor = 0
	m.refresh()
}

func (m Model) updateCalendarMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel, m.cfg.Keys.Calendar:
		m.mode = modeList
		m.status = ""
	case "left", "h":
		m.picker.MoveDays(-1)
	case "right", "l":
		m.picker.MoveDays(1)
	case "up", "k":
		m.picker.MoveDays(-7)
	case "down", "j":
		m.picker.MoveDays(7)
	case m.cfg.Keys.PrevMonth:
		m.picker.MoveMonths(-1)
	case m.cfg.Keys.NextMonth:
		m.picker.MoveMonths(1)
	case m.cfg.Keys.Confirm:
		m.filter.Date = m.picker.Toggle()
		if m.filter.Date.IsZero() {
			m.status = "Date filter cleared"
		} else {
			m.status = "Showing tasks due " + m.filter.Date.String()
		}
		m.cursor = 0
		m.refresh()
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		if err := m.state.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			break
		}
		m.status = "Deleted task"
		m.persist()
		m.refresh()
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = nil
	return m, nil
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	m.form = newFormState(t)
	m.mode = modeForm
	m.loadField()
	m.input.Focus()
	if t == nil {
		m.status = "New task: tab to move, enter to advance, ctrl+s to save, esc to cancel"
	} else {
		m.status = "Editing task: tab to move, enter to advance, ctrl+s to save, esc to cancel"
	}
	return m, textinput.Blink
}

func (m *Model) loadField() {
	m.input.CharLimit = charLimit(m.form.index)
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
}

func (m *Model) moveField(delta int) {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, fieldCount)
	m.loadField()
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case "ctrl+s":
		m.form.setCurrentValue(m.input.Value())
		return m.saveForm()
	case m.cfg.Keys.Confirm:
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= fieldCount-1 {
			return m.saveForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	d, err := m.form.toDraft()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	var saved task.Task
	if m.form.editID == "" {
		saved, err = m.state.Add(d, m.now())
	} else {
		saved, err = m.state.Edit(m.form.editID, d, m.today())
	}
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if m.form.editID == "" {
		m.status = "Added task"
		m.logger.Info("task added", "id", saved.ID)
	} else {
		m.status = "Task saved"
		m.logger.Info("task edited", "id", saved.ID)
	}
	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.persist()
	m.refresh()
	m.focus(saved.ID)
	return m, nil
}

// persist writes the whole state. A failed save keeps the in-memory change
// and reports it on the status line.
func (m *Model) persist() {
	if m.repo == nil {
		return
	}
	if err := m.repo.Save(context.Background(), m.state); err != nil {
		m.logger.Error("save failed", "err", err)
		m.status += fmt.Sprintf(" (not saved: %v)", err)
	}
}

func (m *Model) refresh() {
	today := m.today()
	m.visible = m.state.Visible(m.filter, today)
	m.marks = calendar.Marks(m.state.Tasks)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m *Model) focus(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
