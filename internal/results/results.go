// Package results holds the diagnostic result registry: the most recent
// annotation result per label, for inspection by tests and the diagnose
// command. It is not an output channel; nothing reads it to make decisions.
package results

import "sync"

// Label is the key under which the stage runner records annotation results.
const Label = "result"

// Sink receives annotation results.
type Sink interface {
	Put(label string, value any)
}

// Registry is a last-write-wins map of label to value.
type Registry struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{values: map[string]any{}}
}

// Default is the process-wide registry. It is never cleared.
var Default = NewRegistry()

// Put overwrites the value stored under label.
func (r *Registry) Put(label string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[label] = value
}

// Get returns the last value stored under label.
func (r *Registry) Get(label string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[label]
	return v, ok
}

// Len reports the number of labels held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}
