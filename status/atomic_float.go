package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 stored as its IEEE-754 bits. The zero value is 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *AtomicFloat) Get() float64 { return math.Float64frombits(f.bits.Load()) }

// Update applies fn with compare-and-swap until it lands and returns the stored value
func (f *AtomicFloat) Update(fn func(old float64) float64) float64 {
	for {
		old := f.bits.Load()
		next := fn(math.Float64frombits(old))
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Add adds delta and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	return f.Update(func(old float64) float64 { return old + delta })
}
