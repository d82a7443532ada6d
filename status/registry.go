// Package status is the named metric registry read by the HUD
// Writers cache metric pointers at construction and update atomics directly,
// so the frame loop never touches the registry lock
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Registry holds named counters and gauges
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
	gauges   map[string]*Gauge
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Int64),
		gauges:   make(map[string]*Gauge),
	}
}

// Counter returns the counter for name, creating it on first use
func (r *Registry) Counter(name string) *atomic.Int64 {
	return lookup(r, r.counters, name)
}

// Gauge returns the gauge for name, creating it on first use
func (r *Registry) Gauge(name string) *Gauge {
	return lookup(r, r.gauges, name)
}

func lookup[T any](r *Registry, m map[string]*T, name string) *T {
	r.mu.RLock()
	ptr, ok := m[name]
	r.mu.RUnlock()
	if ok {
		return ptr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ptr, ok := m[name]; ok {
		return ptr
	}
	ptr = new(T)
	m[name] = ptr
	return ptr
}

// Sample is one metric reading
type Sample struct {
	Name  string
	Value float64
}

// Snapshot returns all metrics sorted by name
func (r *Registry) Snapshot() []Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sample, 0, len(r.counters)+len(r.gauges))
	for name, c := range r.counters {
		out = append(out, Sample{Name: name, Value: float64(c.Load())})
	}
	for name, g := range r.gauges {
		out = append(out, Sample{Name: name, Value: g.Get()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the number of registered metrics
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters) + len(r.gauges)
}
