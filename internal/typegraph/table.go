package typegraph

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var synonymsYAML []byte

// Table is the alias table consulted by FindSynonyms.
type Table struct {
	Primitives []string            `yaml:"primitives"`
	Synonyms   map[string][]string `yaml:"synonyms"`

	alias map[string]string // lower-case alias -> canonical
}

// ParseTable decodes an alias table. Every synonym target must be a primitive.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("synonym table: %w", err)
	}
	prim := make(map[string]bool, len(t.Primitives))
	for _, p := range t.Primitives {
		prim[p] = true
	}
	t.alias = make(map[string]string)
	canon := make([]string, 0, len(t.Synonyms))
	for c := range t.Synonyms {
		canon = append(canon, c)
	}
	sort.Strings(canon)
	for _, c := range canon {
		if !prim[c] {
			return nil, fmt.Errorf("synonym table: %q is not a primitive", c)
		}
		for _, a := range t.Synonyms[c] {
			key := strings.ToLower(a)
			if prev, dup := t.alias[key]; dup && prev != c {
				return nil, fmt.Errorf("synonym table: %q maps to both %q and %q", a, prev, c)
			}
			t.alias[key] = c
		}
	}
	return &t, nil
}

// Canonical returns the canonical type for an alias spelling.
func (t *Table) Canonical(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.alias[strings.ToLower(name)]
	return c, ok
}

var defaultTable = mustParseTable(synonymsYAML)

func mustParseTable(data []byte) *Table {
	t, err := ParseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the embedded alias table.
func DefaultTable() *Table { return defaultTable }
