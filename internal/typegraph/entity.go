package typegraph

import "bindoc/internal/source"

// TypeEntity is one named type of the model. It is created on the first
// reference and enriched when its class block is assembled.
type TypeEntity struct {
	Name         string
	IsPrimitive  bool
	IsRegistered bool // seen in a registration call
	IsDocumented bool // defined by a class block
	Description  string
	BaseTypes    []*TypeEntity
	Members      []Member
	References   []source.Span // first-seen order, no duplicates
	Definition   source.Span
	Registration source.Span

	refSeen map[source.Span]bool
	byName  map[string]Member
}

// Member returns the member with the given name.
func (t *TypeEntity) Member(name string) (Member, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// Methods returns the methods of t in declaration order.
func (t *TypeEntity) Methods() []*Method {
	var out []*Method
	for _, m := range t.Members {
		if mm, ok := m.(*Method); ok {
			out = append(out, mm)
		}
	}
	return out
}

// HasBase reports whether base is a direct base of t.
func (t *TypeEntity) HasBase(base *TypeEntity) bool {
	for _, b := range t.BaseTypes {
		if b == base {
			return true
		}
	}
	return false
}

func (t *TypeEntity) addReference(sp source.Span) {
	if t.refSeen == nil {
		t.refSeen = make(map[source.Span]bool)
	}
	if t.refSeen[sp] {
		return
	}
	t.refSeen[sp] = true
	t.References = append(t.References, sp)
}
