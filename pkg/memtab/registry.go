// Package memtab is the process-wide registry backing in-memory
// dataset taps. An entry is published exactly once, before its
// identifier is handed out inside a tap, and is read-only afterwards.
package memtab

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// Registry maps opaque identifiers to immutable record buffers.
// Safe for concurrent lookups once entries are published. It is
// injected into taps rather than reached as ambient state so tests can
// run against an isolated instance.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[string]interface{})}
}

var defaultRegistry = New()

// Default returns the process-wide registry used by the framework
// runtime. Tests should build their own with New.
func Default() *Registry {
	return defaultRegistry
}

// NewID returns a fresh identifier, unique for the process lifetime
func NewID() string {
	return uuid.NewString()
}

// Publish inserts elems under id. The slice is copied so later caller
// mutations cannot corrupt the published entry. Publishing under an
// existing identifier is a programming defect and fails with a
// registry-misuse error.
func Publish[T any](r *Registry, id string, elems []T) error {
	buf := make([]T, len(elems))
	copy(buf, elems)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return errors.Newf(errors.ErrorTypeRegistry, "identifier %s already published", id)
	}
	r.entries[id] = buf
	return nil
}

// Retrieve returns the sequence published under id, in publication
// order. An unknown identifier is an unresolvable-reference error, not
// an empty result: it means the producing step never ran in this
// process.
func Retrieve[T any](r *Registry, id string) ([]T, error) {
	r.mu.RLock()
	entry, exists := r.entries[id]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown registry identifier %s", id)
	}

	buf, ok := entry.([]T)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeData, "registry entry %s holds %T, not the requested element type", id, entry)
	}

	// callers receive a copy; the entry itself stays immutable
	out := make([]T, len(buf))
	copy(out, buf)
	return out, nil
}

// Has reports whether id has been published
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[id]
	return exists
}

// Remove deletes an entry at teardown
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Len returns the number of published entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes all entries (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]interface{})
}
