package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Gateway used by tests and by the seed tool when no
// Redis is configured. It records every call so tests can assert on the
// persistence traffic, and errors can be injected per operation.
type Memory struct {
	mu    sync.Mutex
	data  map[string][]byte
	calls []string

	FailGet error
	FailSet error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "get "+key)
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	val, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	cloned := append([]byte(nil), val...)
	return cloned, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "set "+key)
	if m.FailSet != nil {
		return m.FailSet
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "remove "+key)
	delete(m.data, key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "clear")
	m.data = make(map[string][]byte)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Calls returns the recorded operations in order, e.g. "set appointments".
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
