package signature

import "strings"

// Node is a compact signature tree: *Leaf, *Sequence, *Choice or *Option.
type Node interface {
	node()
}

// Leaf is a single required parameter.
type Leaf struct {
	Param Param
}

// Sequence requires all of its items, in order.
type Sequence struct {
	Items []Node
}

// Choice accepts exactly one of its items.
type Choice struct {
	Items []Node
}

// Option accepts its child or nothing.
type Option struct {
	Child Node
}

func (*Leaf) node()     {}
func (*Sequence) node() {}
func (*Choice) node()   {}
func (*Option) node()   {}

// LeafCount returns the number of parameters written in the tree.
func LeafCount(n Node) int {
	switch n := n.(type) {
	case *Leaf:
		return 1
	case *Sequence:
		return sumOf(n.Items, LeafCount)
	case *Choice:
		return sumOf(n.Items, LeafCount)
	case *Option:
		return LeafCount(n.Child)
	}
	return 0
}

// NodeCount returns the number of nodes in the tree.
func NodeCount(n Node) int {
	switch n := n.(type) {
	case *Leaf:
		return 1
	case *Sequence:
		return 1 + sumOf(n.Items, NodeCount)
	case *Choice:
		return 1 + sumOf(n.Items, NodeCount)
	case *Option:
		return 1 + NodeCount(n.Child)
	}
	return 0
}

func sumOf(items []Node, f func(Node) int) int {
	total := 0
	for _, it := range items {
		total += f(it)
	}
	return total
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a.Param == b.Param
	case *Sequence:
		b, ok := b.(*Sequence)
		return ok && equalItems(a.Items, b.Items)
	case *Choice:
		b, ok := b.(*Choice)
		return ok && equalItems(a.Items, b.Items)
	case *Option:
		b, ok := b.(*Option)
		return ok && Equal(a.Child, b.Child)
	case nil:
		return b == nil
	}
	return false
}

func equalItems(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Flatten expands a tree into the parameter lists it accepts, without
// duplicates, in the order they are generated.
func Flatten(n Node) [][]Param {
	return dedupPatterns(flatten(n))
}

func flatten(n Node) [][]Param {
	switch n := n.(type) {
	case *Leaf:
		return [][]Param{{n.Param}}
	case *Sequence:
		acc := [][]Param{{}}
		for _, it := range n.Items {
			sub := flatten(it)
			next := make([][]Param, 0, len(acc)*len(sub))
			for _, prefix := range acc {
				for _, tail := range sub {
					p := make([]Param, 0, len(prefix)+len(tail))
					p = append(append(p, prefix...), tail...)
					next = append(next, p)
				}
			}
			acc = next
		}
		return acc
	case *Choice:
		var out [][]Param
		for _, it := range n.Items {
			out = append(out, flatten(it)...)
		}
		return out
	case *Option:
		return append(flatten(n.Child), []Param{})
	}
	return nil
}

func dedupPatterns(patterns [][]Param) [][]Param {
	seen := make(map[string]bool, len(patterns))
	out := patterns[:0]
	for _, p := range patterns {
		k := patternKey(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

func patternKey(p []Param) string {
	var sb strings.Builder
	for _, prm := range p {
		sb.WriteString(prm.Type)
		sb.WriteByte(0)
		sb.WriteString(prm.Name)
		sb.WriteByte(1)
	}
	return sb.String()
}
