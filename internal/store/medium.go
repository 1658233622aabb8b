package store

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is returned by a medium that cannot be reached.
var ErrUnavailable = errors.New("storage medium unavailable")

// Medium is a key-value backing medium for the briefing store. Read reports
// ok=false when the key has never been written.
type Medium interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
}

// MemoryMedium keeps values in process memory
type MemoryMedium struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryMedium creates an empty in-memory medium
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: make(map[string]string)}
}

// Read returns the value stored under key
func (m *MemoryMedium) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Write stores value under key
func (m *MemoryMedium) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
