// Package storage persists the to-do state as two named JSON entries.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todocal/internal/task"
)

// Entry names.
const (
	EntryTasks     = "tasks"
	EntryCompleted = "completed"
)

// Repository loads the state once at startup and saves it after every change.
type Repository interface {
	Load(ctx context.Context) (task.State, error)
	Save(ctx context.Context, st task.State) error
	Close() error
}

// backend is a key-value store holding raw entries.
type backend interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	putAll(ctx context.Context, entries map[string][]byte) error
	Close() error
}

// Repo encodes state into entries of a backend.
type Repo struct {
	kv     backend
	logger *log.Logger
}

func newRepo(kv backend, logger *log.Logger) *Repo {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Repo{kv: kv, logger: logger}
}

// Load reads both entries. An entry that is missing, malformed or cannot be
// read is treated as empty, so a broken store still starts.
func (r *Repo) Load(ctx context.Context) (task.State, error) {
	tasks := readEntry[[]task.Task](ctx, r, EntryTasks)
	completed := readEntry[[]string](ctx, r, EntryCompleted)
	r.logger.Debug("state loaded", "tasks", len(tasks), "completed", len(completed))
	return task.NewState(tasks, completed), nil
}

func readEntry[T any](ctx context.Context, r *Repo, key string) T {
	var v T
	raw, ok, err := r.kv.get(ctx, key)
	if err != nil {
		r.logger.Error("reading entry failed, starting empty", "key", key, "err", err)
		return v
	}
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.Warn("ignoring malformed entry", "key", key, "err", err)
		var zero T
		return zero
	}
	return v
}

// Save rewrites both entries in full.
func (r *Repo) Save(ctx context.Context, st task.State) error {
	tasks := st.Tasks
	if tasks == nil {
		tasks = []task.Task{}
	}
	tasksRaw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	completedRaw, err := json.Marshal(st.CompletedIDs())
	if err != nil {
		return fmt.Errorf("encode completed: %w", err)
	}
	if err := r.kv.putAll(ctx, map[string][]byte{
		EntryTasks:     tasksRaw,
		EntryCompleted: completedRaw,
	}); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	r.logger.Debug("state saved", "tasks", len(tasks), "completed", st.CompletedCount())
	return nil
}

func (r *Repo) Close() error {
	return r.kv.Close()
}

// Kinds of backend accepted by Open.
const (
	KindSQLite = "sqlite"
	KindFile   = "file"
	KindMemory = "memory"
)

// Options selects and locates a backend.
type Options struct {
	Kind    string
	DBPath  string
	DataDir string
}

func Open(opts Options, logger *log.Logger) (*Repo, error) {
	switch opts.Kind {
	case KindSQLite, "":
		return OpenSQLite(opts.DBPath, logger)
	case KindFile:
		return OpenFile(opts.DataDir, logger)
	case KindMemory:
		return NewMemory(logger), nil
	}
	return nil, fmt.Errorf("unknown storage kind %q", opts.Kind)
}
