package status

import (
	"maps"
	"slices"
	"sync"
)

// MetricMap names metrics of one atomic type T. Registration takes the
// lock; callers keep the returned pointer and update it lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

func (m *MetricMap[T]) lookup(key string) (*T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.items[key]
	return p, ok
}

// Get returns the metric for key, registering it on first use
func (m *MetricMap[T]) Get(key string) *T {
	if p, ok := m.lookup(key); ok {
		return p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[key]; ok {
		return p
	}
	p := new(T)
	m.items[key] = p
	return p
}

func (m *MetricMap[T]) Has(key string) bool {
	_, ok := m.lookup(key)
	return ok
}

// Keys returns registered names in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.items))
}

// Range calls fn for every metric in key order. fn runs without the lock
// held, so it may register further metrics
func (m *MetricMap[T]) Range(fn func(key string, p *T)) {
	m.mu.RLock()
	keys := slices.Sorted(maps.Keys(m.items))
	ptrs := make([]*T, len(keys))
	for i, k := range keys {
		ptrs[i] = m.items[k]
	}
	m.mu.RUnlock()

	for i, k := range keys {
		fn(k, ptrs[i])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
