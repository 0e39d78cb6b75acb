package directive

import (
	"fmt"
	"io"
	"path/filepath"
)

// ListerConfig configures block listing.
type ListerConfig struct {
	// Filter limits output to specific block kinds (empty = all).
	Filter []string

	// Output is where to write the listing.
	Output io.Writer
}

// ListResult summarizes a listing.
type ListResult struct {
	Total   int
	ByKind  map[string]int
	Bodies  int
	Unnamed int
}

// Lister prints registered blocks, one per line.
type Lister struct {
	config   ListerConfig
	registry *Registry
}

// NewLister creates a block lister.
func NewLister(registry *Registry, config ListerConfig) *Lister {
	return &Lister{
		config:   config,
		registry: registry,
	}
}

// Run writes every matching block and a summary line.
func (l *Lister) Run() ListResult {
	blocks := l.registry.FilterByKind(l.config.Filter)

	result := ListResult{
		Total:  len(blocks),
		ByKind: make(map[string]int),
	}

	index := make(map[string]int)
	for i := range blocks {
		b := &blocks[i]
		kind := b.Kind()
		if kind == "" {
			kind = "-"
			result.Unnamed++
		}
		result.ByKind[kind]++
		if b.Body != nil {
			result.Bodies++
		}

		name := ""
		if d, ok := b.First(b.Kind()); ok {
			name = d.Token(0)
		}
		fmt.Fprintf(l.config.Output, "%s %-9s %s (%d directives)\n",
			formatLocation(b, index[b.Path]), kind, name, len(b.Directives))
		index[b.Path]++
	}

	fmt.Fprintln(l.config.Output)
	fmt.Fprintf(l.config.Output, "Block summary: %d total, %d with bodies, %d without name\n",
		result.Total, result.Bodies, result.Unnamed)

	return result
}

// formatLocation returns a human-readable location string.
func formatLocation(b *Block, idx int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(b.Path), idx)
}
