package typegraph

import (
	"sort"
	"sync"

	"bindoc/internal/source"
)

// MatchMode selects the lookup strategies tried by Find.
type MatchMode uint8

const (
	// Strict is an exact name lookup.
	Strict MatchMode = 1 << iota
	// FindSynonyms maps alias spellings to canonical primitives.
	FindSynonyms
	// FindSimilar accepts the nearest name above the similarity threshold.
	FindSimilar
)

// DefaultRoot is the root type used when the project does not name one.
const DefaultRoot = "Object"

// Graph is the registry of all types of a run. Mutation is serialized by a
// mutex; reads after assembly need no locking.
type Graph struct {
	mu    sync.Mutex
	root  *TypeEntity
	types map[string]*TypeEntity
	table *Table
}

// NewGraph creates a graph holding the root type and the primitives of the
// embedded alias table.
func NewGraph(root string) *Graph {
	return NewGraphWithTable(root, DefaultTable())
}

// NewGraphWithTable is NewGraph with an explicit alias table.
func NewGraphWithTable(root string, table *Table) *Graph {
	if root == "" {
		root = DefaultRoot
	}
	g := &Graph{
		types: make(map[string]*TypeEntity),
		table: table,
	}
	if table != nil {
		for _, p := range table.Primitives {
			t := g.getOrCreateLocked(p)
			t.IsPrimitive = true
			t.IsDocumented = true
		}
	}
	g.root = g.getOrCreateLocked(root)
	return g
}

// Root returns the designated root type.
func (g *Graph) Root() *TypeEntity { return g.root }

// Table returns the alias table in use.
func (g *Graph) Table() *Table { return g.table }

// GetOrCreate returns the type called name, creating it when needed. Every
// given span is recorded as a reference, also for existing types.
func (g *Graph) GetOrCreate(name string, refs ...source.Span) *TypeEntity {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.getOrCreateLocked(name)
	for _, sp := range refs {
		t.addReference(sp)
	}
	return t
}

func (g *Graph) getOrCreateLocked(name string) *TypeEntity {
	if t, ok := g.types[name]; ok {
		return t
	}
	t := &TypeEntity{Name: name, byName: make(map[string]Member)}
	g.types[name] = t
	return t
}

// AddReference records that name was mentioned at sp.
func (g *Graph) AddReference(t *TypeEntity, sp source.Span) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t.addReference(sp)
}

// Lookup returns the type called exactly name.
func (g *Graph) Lookup(name string) (*TypeEntity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.types[name]
	return t, ok
}

// Len returns the number of types.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.types)
}

// Types returns all types sorted by name.
func (g *Graph) Types() []*TypeEntity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sortedLocked()
}

func (g *Graph) sortedLocked() []*TypeEntity {
	out := make([]*TypeEntity, 0, len(g.types))
	for _, t := range g.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find looks name up with the strategies in mode, in the order Strict,
// FindSynonyms, FindSimilar. allow may be nil to accept every type.
func (g *Graph) Find(name string, mode MatchMode, allow func(*TypeEntity) bool) (*TypeEntity, bool) {
	t, _, ok := g.Match(name, mode, allow)
	return t, ok
}

// Match is Find that also reports which strategy succeeded.
func (g *Graph) Match(name string, mode MatchMode, allow func(*TypeEntity) bool) (*TypeEntity, MatchMode, bool) {
	if allow == nil {
		allow = func(*TypeEntity) bool { return true }
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if mode&Strict != 0 {
		if t, ok := g.types[name]; ok && allow(t) {
			return t, Strict, true
		}
	}
	if mode&FindSynonyms != 0 {
		if canon, ok := g.table.Canonical(name); ok {
			if t, ok := g.types[canon]; ok && allow(t) {
				return t, FindSynonyms, true
			}
		}
	}
	if mode&FindSimilar != 0 {
		if t := g.similarLocked(name, allow); t != nil {
			return t, FindSimilar, true
		}
	}
	return nil, 0, false
}

// similarLocked returns the allowed type nearest to name, or nil when none
// reaches the threshold. Equal distances go to the smallest name.
func (g *Graph) similarLocked(name string, allow func(*TypeEntity) bool) *TypeEntity {
	target := []rune(name)
	var (
		best     *TypeEntity
		bestDist int
	)
	for _, t := range g.sortedLocked() {
		if !allow(t) {
			continue
		}
		cand := []rune(t.Name)
		d := levenshtein(target, cand)
		if !similarEnough(d, max(len(target), len(cand))) {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// AddBase appends base to t's bases unless it is already there.
func (g *Graph) AddBase(t, base *TypeEntity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !t.HasBase(base) {
		t.BaseTypes = append(t.BaseTypes, base)
	}
}

// AddMember inserts m into t. When t already has a member of that name the
// existing member is returned with false and m is not added.
func (g *Graph) AddMember(t *TypeEntity, m Member) (Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := t.byName[m.MemberName()]; ok {
		return existing, false
	}
	baseOf(m).owner = t
	t.byName[m.MemberName()] = m
	t.Members = append(t.Members, m)
	return m, true
}

func baseOf(m Member) *MemberBase {
	switch m := m.(type) {
	case *Constant:
		return &m.MemberBase
	case *Flag:
		return &m.MemberBase
	case *Attribute:
		return &m.MemberBase
	case *Method:
		return &m.MemberBase
	}
	panic("typegraph: unknown member kind")
}

// Ancestors returns the transitive bases of t in breadth-first order,
// without duplicates and without t itself. Cycles terminate.
func (g *Graph) Ancestors(t *TypeEntity) []*TypeEntity {
	visited := map[*TypeEntity]bool{t: true}
	var out []*TypeEntity
	queue := append([]*TypeEntity(nil), t.BaseTypes...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		out = append(out, cur)
		queue = append(queue, cur.BaseTypes...)
	}
	return out
}

// HasCycle reports whether t is reachable from its own bases.
func (g *Graph) HasCycle(t *TypeEntity) bool {
	visited := make(map[*TypeEntity]bool)
	queue := append([]*TypeEntity(nil), t.BaseTypes...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == t {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		queue = append(queue, cur.BaseTypes...)
	}
	return false
}

// NormalizeRoot makes the root an ancestor of every non-root, non-primitive
// type and returns the types that were changed. Bases are handled before the
// types deriving from them, so only the topmost types get a direct root base.
func (g *Graph) NormalizeRoot() []*TypeEntity {
	visited := make(map[*TypeEntity]bool)
	var order []*TypeEntity
	var visit func(t *TypeEntity)
	visit = func(t *TypeEntity) {
		if visited[t] {
			return
		}
		visited[t] = true
		for _, b := range t.BaseTypes {
			visit(b)
		}
		order = append(order, t)
	}
	for _, t := range g.Types() {
		visit(t)
	}

	var changed []*TypeEntity
	for _, t := range order {
		if t == g.root || t.IsPrimitive {
			continue
		}
		if containsType(g.Ancestors(t), g.root) {
			continue
		}
		g.AddBase(t, g.root)
		changed = append(changed, t)
	}
	return changed
}

func containsType(ts []*TypeEntity, t *TypeEntity) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
