// Package storetest provides an in-memory store for service and handler tests.
package storetest

import (
	"context"
	"sync"

	"studentz/internal/store"
)

// MemoryStore keeps records newest-first and enforces identifier uniqueness
// the way the unique index does.
type MemoryStore[T any] struct {
	mu    sync.Mutex
	items []T
	key   func(*T) string

	// FailWith, when set, is returned by every call.
	FailWith error
}

func NewMemoryStore[T any](key func(*T) string) *MemoryStore[T] {
	return &MemoryStore[T]{key: key}
}

func (m *MemoryStore[T]) Insert(ctx context.Context, record *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	id := m.key(record)
	for i := range m.items {
		if m.key(&m.items[i]) == id {
			return store.ErrDuplicateIdentifier
		}
	}
	m.items = append([]T{*record}, m.items...)
	return nil
}

func (m *MemoryStore[T]) List(ctx context.Context, limit int64) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	n := min(max(limit, 0), int64(len(m.items)))
	out := make([]T, n)
	copy(out, m.items[:n])
	return out, nil
}

func (m *MemoryStore[T]) EnsureIndexes(ctx context.Context) error {
	return nil
}

// Len reports how many records are stored.
func (m *MemoryStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
