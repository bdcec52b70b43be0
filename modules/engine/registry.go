package engine

import (
	"sync"

	"github.com/Deepreo/schedulerd/core"
)

// Registry owns every live timer handle, keyed by schedule record id.
// It guarantees at most one active timer chain per record id: Set stops
// and replaces whatever was registered under the same id before.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]core.Timer
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string][]core.Timer),
	}
}

// Set registers the timer chain for a record id, destroying any existing
// chain for that id first.
func (r *Registry) Set(id string, timers []core.Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyLocked(id)
	r.entries[id] = timers
}

// Destroy stops all timers registered under the id and removes the entry.
// An unknown id is a no-op.
func (r *Registry) Destroy(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyLocked(id)
}

// DestroyAll stops every registered timer and empties the registry.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.entries {
		r.destroyLocked(id)
	}
}

// List returns the record ids with an active entry.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) destroyLocked(id string) {
	timers, exists := r.entries[id]
	if !exists {
		return
	}
	for _, t := range timers {
		t.Stop()
	}
	delete(r.entries, id)
}
