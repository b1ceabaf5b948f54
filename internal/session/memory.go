package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	codec
	mem *memKV
}

type memKV struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

func NewMemory() *MemoryStore {
	m := &memKV{values: make(map[string]string)}
	return &MemoryStore{codec: codec{kv: m}, mem: m}
}

func (s *MemoryStore) Close() error {
	s.mem.mu.Lock()
	s.mem.closed = true
	s.mem.mu.Unlock()
	return nil
}

func (m *memKV) get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.values[key] = value
	return nil
}

func (m *memKV) del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
