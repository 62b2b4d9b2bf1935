package asset

// Handle is a generation-checked index into an Arena.
// The zero Handle never resolves
type Handle[T any] struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h was never assigned
func (h Handle[T]) IsZero() bool {
	return h.gen == 0
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values behind stable handles. Removing a value tombstones its
// slot and bumps the generation, so stale handles fail to resolve instead of
// aliasing whatever reuses the slot
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Add stores v and returns its handle
func (a *Arena[T]) Add(v T) Handle[T] {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		// Wrapped; generation 0 is reserved for the zero Handle
		s.gen = 1
	}
	s.value = v
	s.live = true
	a.live++
	return Handle[T]{index: idx, gen: s.gen}
}

func (a *Arena[T]) lookup(h Handle[T]) *slot[T] {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

// Get resolves h; ok is false for zero, stale or removed handles
func (a *Arena[T]) Get(h Handle[T]) (T, bool) {
	if s := a.lookup(h); s != nil {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Contains reports whether h resolves
func (a *Arena[T]) Contains(h Handle[T]) bool {
	return a.lookup(h) != nil
}

// Replace swaps the value behind a live handle
func (a *Arena[T]) Replace(h Handle[T], v T) bool {
	s := a.lookup(h)
	if s == nil {
		return false
	}
	s.value = v
	return true
}

// Remove tombstones the slot; later Gets on h report false
func (a *Arena[T]) Remove(h Handle[T]) bool {
	s := a.lookup(h)
	if s == nil {
		return false
	}
	var zero T
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of live values
func (a *Arena[T]) Len() int {
	return a.live
}
