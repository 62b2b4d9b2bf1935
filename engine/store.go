package engine

import (
	"sync"
)

// versioned pairs a component value with the world version of its last change
type versioned[T comparable] struct {
	value   T
	version uint64
}

// Store is a container for one component type with per-entity change versions
type Store[T comparable] struct {
	mu         sync.RWMutex
	components map[Entity]versioned[T]
}

// NewStore creates a new component store for type T
func NewStore[T comparable]() *Store[T] {
	return &Store[T]{
		components: make(map[Entity]versioned[T]),
	}
}

// set stores val stamped with version; writing an equal value is not a change
func (s *Store[T]) set(e Entity, val T, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, exists := s.components[e]; exists && cur.value == val {
		return false
	}
	s.components[e] = versioned[T]{value: val, version: version}
	return true
}

// touch restamps an existing component without changing its value
func (s *Store[T]) touch(e Entity, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.components[e]
	if !exists {
		return false
	}
	cur.version = version
	s.components[e] = cur
	return true
}

// Get retrieves a component
func (s *Store[T]) Get(e Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.components[e]
	return v.value, ok
}

// Version returns the world version of the component's last change
func (s *Store[T]) Version(e Entity) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.components[e]
	return v.version, ok
}

func (s *Store[T]) getVersioned(e Entity) (versioned[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.components[e]
	return v, ok
}

// Has checks if entity has this component
func (s *Store[T]) Has(e Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// remove deletes an entity's component
func (s *Store[T]) remove(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.components, e)
}

// Count returns number of entities with this component
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.components)
}

func (s *Store[T]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[Entity]versioned[T])
}
