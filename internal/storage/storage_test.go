package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/internal/recurrence"
	"todocal/internal/task"
)

func sampleState() task.State {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return task.NewState([]task.Task{
		{ID: "a", Title: "buy milk", Desc: task.DefaultDescription, CreatedAt: created, DueDate: "2024-06-10"},
		{
			ID: "b", Title: "gym", Desc: "legs", CreatedAt: created.Add(time.Hour),
			DueDate: "2024-06-03", StartDate: "2024-06-03", EndDate: "2024-06-30",
			Recurrence: &recurrence.Rule{Freq: recurrence.Weekly, Interval: 1, WeeklyDays: []int{1, 4}},
		},
		{ID: "c", Title: "call mom", Desc: task.DefaultDescription, CreatedAt: created.Add(2 * time.Hour)},
	}, []string{"c"})
}

func openAll(t *testing.T) map[string]*Repo {
	t.Helper()
	dir := t.TempDir()
	sq, err := OpenSQLite(filepath.Join(dir, "db", "todo.db"), nil)
	require.NoError(t, err)
	fr, err := OpenFile(filepath.Join(dir, "data"), nil)
	require.NoError(t, err)
	repos := map[string]*Repo{"sqlite": sq, "file": fr, "memory": NewMemory(nil)}
	t.Cleanup(func() {
		for _, r := range repos {
			r.Close()
		}
	})
	return repos
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, repo := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleState()
			require.NoError(t, repo.Save(ctx, want))

			got, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want.Tasks, got.Tasks)
			assert.Equal(t, []string{"c"}, got.CompletedIDs())
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, repo := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			st := sampleState()
			require.NoError(t, repo.Save(ctx, st))
			st.ClearCompleted()
			require.NoError(t, repo.Save(ctx, st))

			got, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Len(t, got.Tasks, 2)
			assert.Empty(t, got.CompletedIDs())
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	ctx := context.Background()
	for name, repo := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got.Tasks)
			assert.Equal(t, 0, got.CompletedCount())
		})
	}
}

func TestLoadMalformedEntriesAsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, repo := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.kv.putAll(ctx, map[string][]byte{
				EntryTasks:     []byte(`[{"id": 5, "title": "typed wrong"}]`),
				EntryCompleted: []byte(`["x", "y"]`),
			}))
			got, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got.Tasks)
			assert.Equal(t, []string{"x", "y"}, got.CompletedIDs())

			require.NoError(t, repo.kv.putAll(ctx, map[string][]byte{
				EntryTasks:     []byte(`[]`),
				EntryCompleted: []byte(`{not json`),
			}))
			got, err = repo.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got.Tasks)
			assert.Equal(t, 0, got.CompletedCount())
		})
	}
}

func TestLoadUnreadableEntryAsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tasks.json"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "completed.json"), []byte(`["a"]`), 0o644))

	var buf bytes.Buffer
	repo, err := OpenFile(dir, log.New(&buf))
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Equal(t, []string{"a"}, got.CompletedIDs())
	assert.Contains(t, buf.String(), "reading entry failed")
	assert.Contains(t, buf.String(), "tasks")
}

func TestSaveNilTasksWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(nil)
	require.NoError(t, repo.Save(ctx, task.State{}))

	raw, ok, err := repo.kv.get(ctx, EntryTasks)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
	assert.Equal(t, 1, repo.kv.(*memoryBackend).writes)
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todo.db")

	repo, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sampleState()))
	require.NoError(t, repo.Close())

	repo, err = OpenSQLite(path, nil)
	require.NoError(t, err)
	defer repo.Close()
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Tasks, 3)
}

func TestFileBackendLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := OpenFile(dir, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sampleState()))

	for _, name := range []string{"tasks.json", "completed.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	data, err := os.ReadFile(filepath.Join(dir, "completed.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `["c"]`, string(data))
}

func TestOpenKinds(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{KindSQLite, KindFile, KindMemory, ""} {
		repo, err := Open(Options{Kind: kind, DBPath: filepath.Join(dir, "todo.db"), DataDir: filepath.Join(dir, "data")}, nil)
		require.NoError(t, err, kind)
		require.NoError(t, repo.Close())
	}
	_, err := Open(Options{Kind: "redis"}, nil)
	assert.Error(t, err)
	_, err = OpenSQLite("", nil)
	assert.Error(t, err)
	_, err = OpenFile("", nil)
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN("/tmp/todo.db")
	assert.Contains(t, dsn, "file:///tmp/todo.db?")
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "_pragma=busy_timeout%285000%29")
}
