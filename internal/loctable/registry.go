package loctable

import "sync"

// entry pairs a built table with the exact source text it was built
// from, so a stale entry can be detected by content comparison rather
// than a separate version counter.
type entry struct {
	source string
	table  []uint32
}

// Registry memoizes location tables per path so a transpile that calls
// update repeatedly for the same file does not rebuild the table on
// every call. Grounded on the same shape as a source-file set that
// tracks one entry per path, but scoped to just the table, since the
// virtual-file host already owns file content elsewhere.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Get returns the location table for source, rebuilding and caching it
// under path if the cached entry is absent or stale.
func (r *Registry) Get(path, source string) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[path]; ok && e.source == source {
		return e.table
	}
	table := BuildTable(source)
	r.entries[path] = entry{source: source, table: table}
	return table
}

// Delete drops the cached table for path, if any.
func (r *Registry) Delete(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, path)
}
