package model

import (
	"sort"
	"sync"
)

// RegistryEntry records the last digest for which a file was confirmed clean.
type RegistryEntry struct {
	Path   Path
	Digest Digest
}

// Registry maps file paths to their last known clean digest.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[Path]Digest
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Path]Digest)}
}

// Lookup returns the stored digest for path, if any.
func (r *Registry) Lookup(path Path) (Digest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	digest, ok := r.entries[path]

	return digest, ok
}

// Update inserts or overwrites the entry for path.
func (r *Registry) Update(path Path, digest Digest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[path] = digest
}

// Delete removes the entry for path and reports whether it existed.
func (r *Registry) Delete(path Path) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[path]
	delete(r.entries, path)

	return ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Entries returns a snapshot of all entries sorted by path.
func (r *Registry) Entries() []RegistryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]RegistryEntry, 0, len(r.entries))
	for path, digest := range r.entries {
		entries = append(entries, RegistryEntry{Path: path, Digest: digest})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries
}
