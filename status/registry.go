// Package status holds lock-free metrics the render loop writes and
// anything else may read.
package status

import "sync/atomic"

// Registry is the central metrics facade.
// Components cache pointers once; per-frame code writes directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric value keyed by name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, p *atomic.Bool) { out[k] = p.Load() })
	r.Ints.Range(func(k string, p *atomic.Int64) { out[k] = p.Load() })
	r.Floats.Range(func(k string, p *AtomicFloat) { out[k] = p.Get() })
	r.Strings.Range(func(k string, p *AtomicString) { out[k] = p.Load() })
	return out
}
