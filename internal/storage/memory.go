package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
	// writes counts putAll calls so tests can check saves are batched.
	writes int
}

// NewMemory returns a Repo that keeps entries in process memory.
func NewMemory(logger *log.Logger) *Repo {
	return newRepo(&memoryBackend{entries: map[string][]byte{}}, logger)
}

func (b *memoryBackend) get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.entries[key]
	return slices.Clone(v), ok, nil
}

func (b *memoryBackend) putAll(_ context.Context, entries map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range entries {
		b.entries[k] = slices.Clone(v)
	}
	b.writes++
	return nil
}

func (b *memoryBackend) Close() error { return nil }
