package signature

import (
	"strconv"
	"strings"
)

// Compact builds the compact signature of an overload set. Each overload is
// an ordered parameter list. A set with no overloads yields an empty Choice.
func Compact(overloads [][]Param) (Node, error) {
	if len(overloads) == 0 {
		return &Choice{}, nil
	}
	if err := checkDuplicates(overloads); err != nil {
		return nil, err
	}
	params, err := unionOrder(overloads)
	if err != nil {
		return nil, err
	}

	pos := make(map[Param]int, len(params))
	for i, p := range params {
		pos[p] = i
	}
	vs := make([]vector, len(overloads))
	for i, ov := range overloads {
		v := make(vector, len(params))
		for _, p := range ov {
			v[pos[p]] = true
		}
		vs[i] = v
	}

	c := &compactor{params: params, memo: make(map[string]Node)}
	return c.compact(vs, 0, len(params)), nil
}

// vector marks which parameters of the union an overload carries.
type vector []bool

func (v vector) key(lo, hi int) string {
	var sb strings.Builder
	sb.Grow(hi - lo)
	for _, b := range v[lo:hi] {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

type compactor struct {
	params []Param
	memo   map[string]Node // keyed by range and the ordered vector list
}

func (c *compactor) compact(vs []vector, lo, hi int) Node {
	vs = dedup(vs, lo, hi)

	var kb strings.Builder
	kb.WriteString(strconv.Itoa(lo))
	kb.WriteByte(':')
	kb.WriteString(strconv.Itoa(hi))
	for _, v := range vs {
		kb.WriteByte('|')
		kb.WriteString(v.key(lo, hi))
	}
	key := kb.String()
	if n, ok := c.memo[key]; ok {
		return n
	}
	n := c.compactUnique(vs, lo, hi)
	c.memo[key] = n
	return n
}

func (c *compactor) compactUnique(vs []vector, lo, hi int) Node {
	if len(vs) == 1 {
		return c.sequenceOf(vs[0], lo, hi)
	}
	for i, v := range vs {
		if isEmpty(v, lo, hi) {
			rest := make([]vector, 0, len(vs)-1)
			rest = append(append(rest, vs[:i]...), vs[i+1:]...)
			return &Option{Child: c.compact(rest, lo, hi)}
		}
	}
	if n, ok := c.segment(vs, lo, hi); ok {
		return n
	}
	return c.partition(vs, lo, hi)
}

func (c *compactor) sequenceOf(v vector, lo, hi int) *Sequence {
	seq := &Sequence{}
	for p := lo; p < hi; p++ {
		if v[p] {
			seq.Items = append(seq.Items, &Leaf{Param: c.params[p]})
		}
	}
	return seq
}

// segment emits constant positions as leaves and compacts each independent
// range on its own. It fails when the first independent range is the whole
// of [lo, hi).
func (c *compactor) segment(vs []vector, lo, hi int) (Node, bool) {
	var items []Node
	for p := lo; p < hi; {
		if present, ok := constantAt(vs, p); ok {
			if present {
				items = append(items, &Leaf{Param: c.params[p]})
			}
			p++
			continue
		}
		e := p + 1
		for e < hi && !independent(vs, p, e, lo, hi) {
			e++
		}
		if p == lo && e == hi {
			return nil, false
		}
		sub := c.compact(vs, p, e)
		if seq, ok := sub.(*Sequence); ok {
			items = append(items, seq.Items...)
		} else {
			items = append(items, sub)
		}
		p = e
	}
	return &Sequence{Items: items}, true
}

// partition tries every split of vs into two or more groups and keeps the
// Choice with the fewest leaves, then the fewest nodes, then the one
// enumerated first.
func (c *compactor) partition(vs []vector, lo, hi int) Node {
	m := len(vs)
	rgs := make([]int, m)
	var (
		best                  Node
		bestLeaves, bestNodes int
	)
	for nextRGS(rgs) {
		groups := make([][]vector, maxOf(rgs)+1)
		for i, g := range rgs {
			groups[g] = append(groups[g], vs[i])
		}
		choice := &Choice{}
		for _, g := range groups {
			sub := c.compact(g, lo, hi)
			if ch, ok := sub.(*Choice); ok {
				choice.Items = append(choice.Items, ch.Items...)
			} else {
				choice.Items = append(choice.Items, sub)
			}
		}
		leaves, nodes := LeafCount(choice), NodeCount(choice)
		if best == nil || leaves < bestLeaves || leaves == bestLeaves && nodes < bestNodes {
			best, bestLeaves, bestNodes = choice, leaves, nodes
		}
	}
	return best
}

// nextRGS advances a restricted growth string to its lexicographic
// successor. Starting from all zeros it visits every partition with at
// least two groups and returns false after the last one.
func nextRGS(a []int) bool {
	for i := len(a) - 1; i >= 1; i-- {
		if a[i] <= maxOf(a[:i]) {
			a[i]++
			for j := i + 1; j < len(a); j++ {
				a[j] = 0
			}
			return true
		}
	}
	return false
}

func maxOf(a []int) int {
	m := 0
	for _, x := range a {
		if x > m {
			m = x
		}
	}
	return m
}

// dedup drops vectors equal on [lo, hi) to an earlier one.
func dedup(vs []vector, lo, hi int) []vector {
	seen := make(map[string]bool, len(vs))
	out := make([]vector, 0, len(vs))
	for _, v := range vs {
		k := v.key(lo, hi)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func isEmpty(v vector, lo, hi int) bool {
	for p := lo; p < hi; p++ {
		if v[p] {
			return false
		}
	}
	return true
}

func constantAt(vs []vector, p int) (present, ok bool) {
	first := vs[0][p]
	for _, v := range vs[1:] {
		if v[p] != first {
			return false, false
		}
	}
	return first, true
}

// independent reports whether, for every pair (a, b), a with its [s, e)
// bits replaced by b's is still one of vs.
func independent(vs []vector, s, e, lo, hi int) bool {
	set := make(map[string]bool, len(vs))
	for _, v := range vs {
		set[v.key(lo, hi)] = true
	}
	for _, a := range vs {
		for _, b := range vs {
			k := a.key(lo, s) + b.key(s, e) + a.key(e, hi)
			if !set[k] {
				return false
			}
		}
	}
	return true
}
