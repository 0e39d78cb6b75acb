package directive

import (
	"sort"
	"sync"
)

// Registry collects the directive blocks found in all source files.
// Extraction workers may Add concurrently; Blocks always returns files in
// sorted path order so the assembled model does not depend on scheduling.
type Registry struct {
	mu     sync.Mutex
	byPath map[string][]Block
	byKind map[string]int // kind -> number of blocks
}

// NewRegistry creates an empty directive registry.
func NewRegistry() *Registry {
	return &Registry{
		byPath: make(map[string][]Block),
		byKind: make(map[string]int),
	}
}

// Add registers the blocks of one file. Adding the same path again replaces
// its previous blocks.
func (r *Registry) Add(path string, blocks []Block) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.byPath[path] {
		r.byKind[r.byPath[path][i].Kind()]--
	}
	stored := make([]Block, len(blocks))
	copy(stored, blocks)
	for i := range stored {
		if stored[i].Path == "" {
			stored[i].Path = path
		}
		r.byKind[stored[i].Kind()]++
	}
	r.byPath[path] = stored
}

// Paths returns the registered file paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedPathsLocked()
}

func (r *Registry) sortedPathsLocked() []string {
	paths := make([]string, 0, len(r.byPath))
	for p := range r.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Blocks returns all blocks: files in sorted path order, blocks in source order.
func (r *Registry) Blocks() []Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Block
	for _, p := range r.sortedPathsLocked() {
		out = append(out, r.byPath[p]...)
	}
	return out
}

// FilterByKind returns blocks whose Kind is one of kinds.
// If kinds is empty, returns all blocks.
func (r *Registry) FilterByKind(kinds []string) []Block {
	all := r.Blocks()
	if len(kinds) == 0 {
		return all
	}

	allowed := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}

	var result []Block
	for _, b := range all {
		if allowed[b.Kind()] {
			result = append(result, b)
		}
	}
	return result
}

// CountKind returns how many registered blocks have the given kind.
func (r *Registry) CountKind(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKind[kind]
}

// Len returns the total number of blocks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, blocks := range r.byPath {
		n += len(blocks)
	}
	return n
}
