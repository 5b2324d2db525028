package store

import "sync"

type Repository[T any] interface {
	List() []T
	// Append stores the item built by create, which receives the 1-based
	// position the item will occupy.
	Append(create func(next int) T) T
	Len() int
}

type Memory[T any] struct {
	mu    sync.RWMutex
	items []T
}

func NewMemory[T any](seed ...T) *Memory[T] {
	return &Memory[T]{items: append([]T{}, seed...)}
}

func (m *Memory[T]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T{}, m.items...)
}

func (m *Memory[T]) Append(create func(next int) T) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := create(len(m.items) + 1)
	m.items = append(m.items, item)
	return item
}

func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
