package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// fileBackend keeps each entry in <dir>/<key>.json.
type fileBackend struct {
	dir string
}

func OpenFile(dir string, logger *log.Logger) (*Repo, error) {
	if dir == "" {
		return nil, errors.New("data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return newRepo(&fileBackend{dir: dir}, logger), nil
}

func (b *fileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *fileBackend) get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *fileBackend) putAll(ctx context.Context, entries map[string][]byte) error {
	for key, value := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeAtomic(b.path(key), value); err != nil {
			return err
		}
	}
	return nil
}

func (b *fileBackend) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
