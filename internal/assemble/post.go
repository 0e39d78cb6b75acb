package assemble

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"bindoc/internal/diag"
	"bindoc/internal/typegraph"
)

// reportUndocumented emits one diagnostic per referenced type that no class
// block defines, with the nearest documented type as a suggestion.
func (a *Assembler) reportUndocumented() {
	documented := func(t *typegraph.TypeEntity) bool { return t.IsDocumented }
	for _, t := range a.graph.Types() {
		if t.IsDocumented || len(t.References) == 0 {
			continue
		}
		r := diag.ReportWarning(a.rep, diag.TypeUnresolved, t.References[0],
			fmt.Sprintf("type '%s' is missing or undocumented", t.Name))
		for _, sp := range t.References[1:] {
			r = r.WithNote(sp, "also referenced here")
		}
		if guess, ok := a.graph.Find(t.Name, typegraph.FindSimilar, documented); ok {
			edits := make([]diag.FixEdit, len(t.References))
			for i, sp := range t.References {
				edits[i] = diag.FixEdit{Span: sp, OldText: t.Name, NewText: guess.Name}
			}
			r = r.WithFix(fmt.Sprintf("did you mean '%s'?", guess.Name), edits...)
		}
		r.Emit()
	}
}

// reportCycles emits one diagnostic per inheritance cycle.
func (a *Assembler) reportCycles() {
	reported := make(map[*typegraph.TypeEntity]bool)
	for _, t := range a.graph.Types() {
		if reported[t] || !a.graph.HasCycle(t) {
			continue
		}
		members := []*typegraph.TypeEntity{t}
		for _, anc := range a.graph.Ancestors(t) {
			if a.graph.HasCycle(anc) && reaches(a.graph, anc, t) {
				members = append(members, anc)
			}
		}
		names := make([]string, len(members))
		for i, m := range members {
			reported[m] = true
			names[i] = m.Name
		}
		sort.Strings(names)

		at := t.Definition
		if at.Empty() && len(t.References) > 0 {
			at = t.References[0]
		}
		diag.ReportError(a.rep, diag.TypeInheritanceCycle, at,
			fmt.Sprintf("inheritance cycle between %s", strings.Join(quoteAll(names), ", "))).Emit()
	}
}

func reaches(g *typegraph.Graph, from, to *typegraph.TypeEntity) bool {
	for _, anc := range g.Ancestors(from) {
		if anc == to {
			return true
		}
	}
	return false
}

func (a *Assembler) crossCheckRegistration() {
	for _, t := range a.graph.Types() {
		_, defined := a.defined[t]
		switch {
		case defined && !t.IsRegistered && !t.IsPrimitive && t != a.graph.Root():
			diag.ReportWarning(a.rep, diag.TypeNotRegistered, a.defined[t],
				fmt.Sprintf("class '%s' is documented but never registered", t.Name)).Emit()
		case t.IsRegistered && !defined:
			diag.ReportWarning(a.rep, diag.TypeNotDocumented, t.Registration,
				fmt.Sprintf("class '%s' is registered but not documented", t.Name)).Emit()
		}
	}
}

// compact computes both signatures of m and reports failures. It returns
// false when either direction could not be compacted.
func (a *Assembler) compact(m *typegraph.Method) bool {
	ok := true
	if _, err := m.Input(); err != nil {
		ok = false
		diag.ReportWarning(a.rep, diag.SigToolLimitation, m.Span,
			fmt.Sprintf("cannot build the input signature of '%s:%s': %v", m.Owner().Name, m.Name, err)).Emit()
	}
	if _, err := m.Output(); err != nil {
		ok = false
		diag.ReportWarning(a.rep, diag.SigToolLimitation, m.Span,
			fmt.Sprintf("cannot build the output signature of '%s:%s': %v", m.Owner().Name, m.Name, err)).Emit()
	}
	return ok
}

// expandTrailingOptional turns an overload ending in k optional inputs into
// k+1 overloads, from all present down to the required prefix.
func expandTrailingOptional(ovs []*typegraph.Overload) []*typegraph.Overload {
	out := make([]*typegraph.Overload, 0, len(ovs))
	for _, o := range ovs {
		out = append(out, o)
		k := 0
		for i := len(o.In) - 1; i >= 0 && o.In[i].Optional; i-- {
			k++
		}
		for cut := 1; cut <= k; cut++ {
			cp := *o
			cp.In = o.In[:len(o.In)-cut]
			cp.Synthetic = true
			out = append(out, &cp)
		}
	}
	return out
}

var returnCount = regexp.MustCompile(`\breturn\s+(\d+)\s*;`)

// checkBodies compares `return N;` statements of located bodies with the
// documented return counts.
func (a *Assembler) checkBodies(m *typegraph.Method) {
	if len(m.Bodies) == 0 {
		return
	}
	counts := make(map[int]bool)
	for _, o := range m.Overloads {
		counts[len(o.Out)] = true
	}
	for _, body := range m.Bodies {
		for _, match := range returnCount.FindAllStringSubmatch(body.Text, -1) {
			n, err := strconv.Atoi(match[1])
			if err != nil || counts[n] {
				continue
			}
			diag.ReportWarning(a.rep, diag.SigBodyMismatch, body.Span,
				fmt.Sprintf("body of '%s:%s' returns %d value(s); documented overloads return %s",
					m.Owner().Name, m.Name, n, formatCounts(counts))).Emit()
			break
		}
	}
}

func formatCounts(counts map[int]bool) string {
	ns := make([]int, 0, len(counts))
	for n := range counts {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " or ")
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "'" + n + "'"
	}
	return out
}
