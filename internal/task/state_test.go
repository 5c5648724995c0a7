package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/internal/recurrence"
)

func day(s string) recurrence.Date { return recurrence.MustParse(s) }

func at(s string) time.Time {
	d := day(s)
	return time.Date(d.Year, d.Month, d.Day, 9, 30, 0, 0, time.Local)
}

func daily() *recurrence.Rule { return &recurrence.Rule{Freq: recurrence.Daily, Interval: 1} }

func TestAddOneOff(t *testing.T) {
	var st State
	got, err := st.Add(Draft{Title: "  pick up eggs ", Date: "2024-06-10"}, at("2024-06-01"))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "pick up eggs", got.Title)
	assert.Equal(t, DefaultDescription, got.Desc)
	assert.Equal(t, "2024-06-10", got.DueDate)
	assert.Empty(t, got.StartDate)
	assert.Empty(t, got.EndDate)
	assert.Nil(t, got.Recurrence)
	assert.Equal(t, at("2024-06-01"), got.CreatedAt)
	assert.Len(t, st.Tasks, 1)
}

func TestAddRecurringStartsToday(t *testing.T) {
	var st State
	got, err := st.Add(Draft{Title: "stretch", Desc: "10 min", Date: "2024-01-03", Rule: &recurrence.Rule{Freq: recurrence.Daily}}, at("2024-01-01"))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", got.StartDate)
	assert.Equal(t, "2024-01-01", got.DueDate)
	assert.Equal(t, "2024-01-03", got.EndDate)
	assert.Equal(t, 1, got.Recurrence.Interval)
	assert.Equal(t, "10 min", got.Desc)
}

func TestAddRejectsBadInput(t *testing.T) {
	var st State
	_, err := st.Add(Draft{Title: "   "}, at("2024-01-01"))
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = st.Add(Draft{Title: "x", Date: "tomorrow"}, at("2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = st.Add(Draft{Title: "x", Date: "2023-12-31", Rule: daily()}, at("2024-01-01"))
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	_, err = st.Add(Draft{Title: "x", Rule: &recurrence.Rule{Freq: "YEARLY"}}, at("2024-01-01"))
	assert.ErrorIs(t, err, recurrence.ErrUnknownFrequency)

	assert.Empty(t, st.Tasks)
}

func TestToggleRecurringRollsOverUntilEnd(t *testing.T) {
	st := NewState([]Task{{
		ID: "r1", Title: "water plants",
		DueDate: "2024-01-01", StartDate: "2024-01-01", EndDate: "2024-01-03",
		Recurrence: daily(),
	}}, nil)
	today := day("2024-01-01")

	out, err := st.Toggle("r1", today)
	require.NoError(t, err)
	assert.Equal(t, RolledOver, out)
	assert.Equal(t, "2024-01-02", st.Tasks[0].DueDate)
	assert.False(t, st.IsCompleted("r1"))

	out, err = st.Toggle("r1", today)
	require.NoError(t, err)
	assert.Equal(t, RolledOver, out)
	assert.Equal(t, "2024-01-03", st.Tasks[0].DueDate)
	assert.False(t, st.IsCompleted("r1"))

	out, err = st.Toggle("r1", today)
	require.NoError(t, err)
	assert.Equal(t, Completed, out)
	assert.Equal(t, "2024-01-03", st.Tasks[0].DueDate)
	assert.True(t, st.IsCompleted("r1"))
}

func TestToggleRecurringAtEndCompletes(t *testing.T) {
	st := NewState([]Task{{
		ID: "r1", DueDate: "2024-01-01", StartDate: "2024-01-01", EndDate: "2024-01-03",
		Recurrence: daily(),
	}}, nil)

	out, err := st.Toggle("r1", day("2024-01-03"))
	require.NoError(t, err)
	assert.Equal(t, Completed, out)
	assert.Equal(t, "2024-01-01", st.Tasks[0].DueDate)
}

func TestToggleRecurringWithoutEndNeverCompletes(t *testing.T) {
	st := NewState([]Task{{
		ID: "r1", StartDate: "2024-01-01",
		Recurrence: &recurrence.Rule{Freq: recurrence.Weekly},
	}}, nil)

	want := []string{"2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"}
	for _, w := range want {
		out, err := st.Toggle("r1", day("2030-01-01"))
		require.NoError(t, err)
		assert.Equal(t, RolledOver, out)
		assert.Equal(t, w, st.Tasks[0].DueDate)
	}
	assert.False(t, st.IsCompleted("r1"))
}

func TestToggleOneOffIsReversible(t *testing.T) {
	st := NewState([]Task{{ID: "a", DueDate: "2024-06-10"}}, nil)

	out, err := st.Toggle("a", day("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, Completed, out)
	assert.True(t, st.IsCompleted("a"))

	out, err = st.Toggle("a", day("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, Reopened, out)
	assert.False(t, st.IsCompleted("a"))
	assert.Equal(t, "2024-06-10", st.Tasks[0].DueDate)
}

func TestReopenDoesNotRollBack(t *testing.T) {
	st := NewState([]Task{{
		ID: "r1", DueDate: "2024-01-03", StartDate: "2024-01-01", EndDate: "2024-01-03",
		Recurrence: daily(),
	}}, []string{"r1"})

	out, err := st.Toggle("r1", day("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, Reopened, out)
	assert.Equal(t, "2024-01-03", st.Tasks[0].DueDate)
}

func TestToggleUnknown(t *testing.T) {
	var st State
	_, err := st.Toggle("missing", day("2024-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditKeepsStartDate(t *testing.T) {
	var st State
	created, err := st.Add(Draft{Title: "run", Date: "2024-01-31", Rule: daily()}, at("2024-01-01"))
	require.NoError(t, err)
	_, err = st.Toggle(created.ID, day("2024-01-01"))
	require.NoError(t, err)

	edited, err := st.Edit(created.ID, Draft{Title: "run far", Date: "2024-02-29", Rule: &recurrence.Rule{Freq: recurrence.Weekly}}, day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, "run far", edited.Title)
	assert.Equal(t, "2024-01-01", edited.StartDate)
	assert.Equal(t, "2024-01-02", edited.DueDate)
	assert.Equal(t, "2024-02-29", edited.EndDate)
	assert.Equal(t, recurrence.Weekly, edited.Recurrence.Freq)
	assert.Equal(t, created.CreatedAt, edited.CreatedAt)
}

func TestEditSwitchesScheduleKind(t *testing.T) {
	st := NewState([]Task{{ID: "a", Title: "a", DueDate: "2024-01-05"}}, []string{"a"})

	edited, err := st.Edit("a", Draft{Title: "a", Date: "2024-03-01", Rule: daily()}, day("2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", edited.StartDate)
	assert.Equal(t, "2024-02-01", edited.DueDate)
	assert.Equal(t, "2024-03-01", edited.EndDate)
	assert.True(t, st.IsCompleted("a"))

	edited, err = st.Edit("a", Draft{Title: "a", Date: "2024-04-01"}, day("2024-02-02"))
	require.NoError(t, err)
	assert.Nil(t, edited.Recurrence)
	assert.Empty(t, edited.StartDate)
	assert.Empty(t, edited.EndDate)
	assert.Equal(t, "2024-04-01", edited.DueDate)

	_, err = st.Edit("missing", Draft{Title: "a"}, day("2024-02-02"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftFromRoundTrips(t *testing.T) {
	tk := Task{
		Title: "t", Desc: DefaultDescription,
		DueDate: "2024-01-02", StartDate: "2024-01-01", EndDate: "2024-01-09",
		Recurrence: &recurrence.Rule{Freq: recurrence.Weekly, Interval: 1, WeeklyDays: []int{1}},
	}
	d := DraftFrom(tk)
	assert.Equal(t, "", d.Desc)
	assert.Equal(t, "2024-01-09", d.Date)
	require.NotNil(t, d.Rule)
	d.Rule.WeeklyDays[0] = 3
	assert.Equal(t, 1, tk.Recurrence.WeeklyDays[0])
}

func TestDeleteDropsCompletion(t *testing.T) {
	st := NewState([]Task{{ID: "a"}, {ID: "b"}}, []string{"a"})
	require.NoError(t, st.Delete("a"))
	assert.False(t, st.IsCompleted("a"))
	assert.Equal(t, 0, st.CompletedCount())
	assert.Len(t, st.Tasks, 1)
	assert.ErrorIs(t, st.Delete("a"), ErrNotFound)
}

func TestClearCompletedPreservesOrder(t *testing.T) {
	st := NewState([]Task{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}, []string{"b", "d"})

	assert.Equal(t, 2, st.ClearCompleted())
	ids := make([]string, 0, len(st.Tasks))
	for _, tk := range st.Tasks {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"a", "c", "e"}, ids)
	assert.Equal(t, 0, st.CompletedCount())
	assert.Empty(t, st.CompletedIDs())
}

func TestResolve(t *testing.T) {
	st := NewState([]Task{{ID: "abc1"}, {ID: "abc2"}, {ID: "xyz"}}, nil)

	got, err := st.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, "xyz", got.ID)

	got, err = st.Resolve("abc2")
	require.NoError(t, err)
	assert.Equal(t, "abc2", got.ID)

	_, err = st.Resolve("abc")
	assert.ErrorIs(t, err, ErrAmbiguous)
	_, err = st.Resolve("q")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletedIDsSorted(t *testing.T) {
	st := NewState(nil, []string{"c", "a", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, st.CompletedIDs())
}
