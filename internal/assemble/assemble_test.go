package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/signature"
	"bindoc/internal/source"
	"bindoc/internal/typegraph"
)

var withNames = signature.RenderOptions{ShowNames: true}

type fixture struct {
	t      *testing.T
	graph  *typegraph.Graph
	bag    *diag.Bag
	blocks []directive.Block
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, graph: typegraph.NewGraph("Object"), bag: diag.NewBag(0)}
}

// add builds a block from "@command token..." lines; each block gets its
// own file so spans never collide.
func (f *fixture) add(lines ...string) *directive.Block {
	b := directive.Block{File: source.FileID(len(f.blocks) + 1)}
	off := uint32(0)
	for _, ln := range lines {
		fields := strings.Fields(ln)
		b.Directives = append(b.Directives, directive.Directive{
			Command: strings.TrimPrefix(fields[0], "@"),
			Tokens:  fields[1:],
			Span:    source.Span{File: b.File, Start: off, End: off + uint32(len(ln))},
		})
		off += uint32(len(ln)) + 1
	}
	b.Span = source.Span{File: b.File, End: off}
	f.blocks = append(f.blocks, b)
	return &f.blocks[len(f.blocks)-1]
}

func (f *fixture) run(opts Options) Summary {
	return Run(f.graph, f.blocks, diag.BagReporter{Bag: f.bag}, opts)
}

func (f *fixture) with(code diag.Code) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range f.bag.Items() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func (f *fixture) method(owner, name string) *typegraph.Method {
	f.t.Helper()
	t, ok := f.graph.Lookup(owner)
	require.True(f.t, ok, owner)
	m, ok := t.Member(name)
	require.True(f.t, ok, name)
	mm, ok := m.(*typegraph.Method)
	require.True(f.t, ok)
	return mm
}

func TestFooExample(t *testing.T) {
	f := newFixture(t)
	f.add("@class TypeX", "@brief A type.")
	f.add("@method TypeX:foo", "@brief Does foo.",
		"@param TypeX self", "@param number [radius] The radius.", "@return none")

	s := f.run(Options{})
	assert.False(t, f.bag.HasWarnings(), "%v", f.bag.Items())
	assert.Equal(t, 1, s.Methods)
	assert.Equal(t, 1, s.Compacted)

	m := f.method("TypeX", "foo")
	require.Len(t, m.Overloads, 1)
	require.Len(t, m.Expanded, 2)
	assert.True(t, m.Expanded[1].Synthetic)
	assert.True(t, m.Overloads[0].NoReturn)
	assert.Equal(t, "(TypeX self, [number radius])", m.RenderInput(withNames))
	assert.Equal(t, "", m.RenderOutput(withNames))
	assert.False(t, m.IsStatic())
}

func TestExplicitOverloadsMatchExpansion(t *testing.T) {
	f := newFixture(t)
	f.add("@class TypeX", "@brief A type.")
	f.add("@method TypeX:foo", "@brief Does foo.",
		"@overload", "@param TypeX self", "@param number radius", "@return none",
		"@overload", "@param TypeX self", "@return none")
	f.run(Options{})

	m := f.method("TypeX", "foo")
	require.Len(t, m.Overloads, 2)
	assert.Equal(t, "(TypeX self, [number radius])", m.RenderInput(withNames))
}

func TestStaticDetection(t *testing.T) {
	f := newFixture(t)
	f.add("@class TypeX", "@brief A type.")
	f.add("@method TypeX:area", "@brief Area.",
		"@overload", "@param TypeX self", "@param number n", "@return number",
		"@overload", "@param number n", "@return number")
	f.run(Options{})

	m := f.method("TypeX", "area")
	require.Len(t, m.Overloads, 2)
	assert.False(t, m.Overloads[0].Static)
	assert.True(t, m.Overloads[1].Static)
	assert.False(t, m.IsStatic())
}

func TestSelfChecks(t *testing.T) {
	f := newFixture(t)
	f.add("@class TypeX", "@brief A type.")
	f.add("@class Other", "@brief Another type.")
	f.add("@method TypeX:a", "@brief A.", "@param Other self", "@return none")
	f.add("@method TypeX:b", "@brief B.", "@param number n", "@param TypeX self", "@return none")
	f.run(Options{})

	assert.Len(t, f.with(diag.AnnoSelfType), 1)
	assert.Len(t, f.with(diag.AnnoSelfPosition), 1)
	assert.False(t, f.method("TypeX", "a").Overloads[0].Static)
	assert.True(t, f.method("TypeX", "b").Overloads[0].Static, "a late self does not make an instance method")
}

func TestNameAndDescriptionRules(t *testing.T) {
	f := newFixture(t)
	f.add("@class NoBrief")
	f.add("@class Twice", "@brief One.", "@brief Two.", "@class Again")
	f.add("@class Mixed", "@brief Mixed.", "@method Mixed:f")
	f.add("@brief Orphan description.")
	f.add("@todo not ours")
	f.add("@class Placed", "@brief Placed.", "@param number x")
	f.run(Options{})

	assert.Len(t, f.with(diag.AnnoMissingDescription), 1)
	assert.Len(t, f.with(diag.AnnoDuplicateDescription), 1)
	assert.Len(t, f.with(diag.AnnoDuplicateName), 1)
	assert.Len(t, f.with(diag.AnnoConflictingKind), 1)
	assert.Len(t, f.with(diag.AnnoMissingName), 1, "only the orphan @brief block")
	assert.Len(t, f.with(diag.AnnoUnknownDirective), 1)
	assert.Len(t, f.with(diag.AnnoMisplacedDirective), 1)

	twice, ok := f.graph.Lookup("Twice")
	require.True(t, ok)
	assert.Equal(t, "One.", twice.Description, "first description wins")
	_, ok = f.graph.Lookup("Again")
	assert.False(t, ok, "the second name is ignored")

	mixed, _ := f.graph.Lookup("Mixed")
	assert.True(t, mixed.IsDocumented)
	assert.Empty(t, mixed.Members)
}

func TestDuplicateMemberDropped(t *testing.T) {
	f := newFixture(t)
	f.add("@class A", "@brief A.")
	f.add("@method A:f", "@brief First.", "@return none")
	f.add("@method A.f", "@brief Second.", "@param number x", "@return none")
	f.add("@constant A.f 1")
	f.run(Options{})

	dups := f.with(diag.AnnoDuplicateMember)
	require.Len(t, dups, 2)
	assert.Equal(t, diag.SevError, dups[0].Severity)
	require.Len(t, dups[0].Notes, 1)

	m := f.method("A", "f")
	assert.Equal(t, "First.", m.Description)
	a, _ := f.graph.Lookup("A")
	assert.Len(t, a.Members, 1)
}

func TestOverloadRules(t *testing.T) {
	f := newFixture(t)
	f.add("@class A", "@brief A.")
	f.add("@method A:noret", "@brief No return.", "@param number x")
	f.add("@method A:order", "@brief Order.", "@param number [x]", "@param number y", "@return none")
	f.add("@method A:mixed", "@brief Mixed.", "@return none", "@return number n")
	f.add("@method A:bad", "@brief Bad.", "@param number", "@param number [x", "@return")
	f.add("@method A:dup", "@brief Dup.", "@param number x", "@param string x", "@return none")
	f.run(Options{})

	assert.Len(t, f.with(diag.AnnoMissingReturn), 1)
	assert.Len(t, f.with(diag.AnnoOptionalOrder), 1)
	assert.Len(t, f.with(diag.AnnoMixedReturn), 1)
	assert.Len(t, f.with(diag.AnnoMalformedParam), 2)
	assert.Len(t, f.with(diag.AnnoMalformedReturn), 1)
	assert.Len(t, f.with(diag.AnnoDuplicateParamName), 1)

	order := f.method("A", "order")
	require.Len(t, order.Overloads, 1)
	assert.Len(t, order.Overloads[0].In, 2, "an out-of-order overload is kept")

	mixed := f.method("A", "mixed")
	assert.False(t, mixed.Overloads[0].NoReturn)
	assert.Len(t, mixed.Overloads[0].Out, 1)
}

func TestTypeResolution(t *testing.T) {
	f := newFixture(t)
	f.add("@class Vector", "@brief A vector.")
	f.add("@method Vector:scale", "@brief Scale.",
		"@param Vector self", "@param int factor", "@param Vectr other", "@return Vectr")
	f.run(Options{})

	syn := f.with(diag.TypeSynonym)
	require.Len(t, syn, 1)
	assert.Equal(t, diag.SevInfo, syn[0].Severity)

	m := f.method("Vector", "scale")
	assert.Equal(t, "number", m.Overloads[0].In[1].Type.Name)

	unresolved := f.with(diag.TypeUnresolved)
	require.Len(t, unresolved, 1)
	assert.Contains(t, unresolved[0].Message, "'Vectr'")
	assert.Len(t, unresolved[0].Notes, 1, "second reference becomes a note")
	require.Len(t, unresolved[0].Fixes, 1)
	assert.Equal(t, "did you mean 'Vector'?", unresolved[0].Fixes[0].Title)
	edits := unresolved[0].Fixes[0].Edits
	require.Len(t, edits, 2, "one edit per reference")
	assert.Equal(t, "Vectr", edits[0].OldText)
	assert.Equal(t, "Vector", edits[0].NewText)

	require.Len(t, syn[0].Fixes, 1)
	require.Len(t, syn[0].Fixes[0].Edits, 1)
	assert.Equal(t, "int", syn[0].Fixes[0].Edits[0].OldText)
	assert.Equal(t, "number", syn[0].Fixes[0].Edits[0].NewText)
}

func TestRootNormalization(t *testing.T) {
	f := newFixture(t)
	f.add("@class Shape", "@brief A shape.")
	f.add("@class Circle", "@brief A circle.", "@base Shape")
	f.add("@attribute Circle.radius number", "@brief Radius.")
	f.run(Options{})

	number, ok := f.graph.Lookup("number")
	require.True(t, ok)
	assert.True(t, number.IsPrimitive)
	assert.Empty(t, number.BaseTypes, "primitives stay outside the root hierarchy")
	assert.Empty(t, f.graph.Ancestors(number))

	shape, _ := f.graph.Lookup("Shape")
	circle, _ := f.graph.Lookup("Circle")
	root := f.graph.Root()
	assert.Equal(t, []*typegraph.TypeEntity{root}, shape.BaseTypes)
	assert.Equal(t, []*typegraph.TypeEntity{shape}, circle.BaseTypes)
	assert.Equal(t, []*typegraph.TypeEntity{shape, root}, f.graph.Ancestors(circle))
}

func TestInheritanceCycle(t *testing.T) {
	f := newFixture(t)
	f.add("@class A", "@brief A.", "@base B")
	f.add("@class B", "@brief B.", "@base A")
	f.run(Options{})

	cycles := f.with(diag.TypeInheritanceCycle)
	require.Len(t, cycles, 1)
	assert.Contains(t, cycles[0].Message, "'A', 'B'")
}

func TestRegistrationCrossCheck(t *testing.T) {
	f := newFixture(t)
	f.add("@class Documented", "@brief Only documented.")
	f.add("@class Both", "@brief Both.")
	f.add("@register Both")
	f.add("@register Hidden")

	f.run(Options{CheckRegistration: true})
	notReg := f.with(diag.TypeNotRegistered)
	notDoc := f.with(diag.TypeNotDocumented)
	require.Len(t, notReg, 1)
	require.Len(t, notDoc, 1)
	assert.Contains(t, notReg[0].Message, "'Documented'")
	assert.Contains(t, notDoc[0].Message, "'Hidden'")

	f2 := newFixture(t)
	f2.add("@class Documented", "@brief Only documented.")
	f2.run(Options{})
	assert.Empty(t, f2.with(diag.TypeNotRegistered), "cross-check is off by default")
}

func TestExtensions(t *testing.T) {
	f := newFixture(t)
	f.add("@overload A:area", "@param A self", "@param number scale", "@return number")
	f.add("@class A", "@brief A.")
	f.add("@method A:area", "@brief Area.", "@param A self", "@return number")
	f.add("@overload A:areas", "@return none")
	f.run(Options{})

	m := f.method("A", "area")
	assert.Len(t, m.Overloads, 2, "extension applied after declarations")
	assert.Equal(t, "(A self, [number scale])", m.RenderInput(withNames))

	unknown := f.with(diag.AnnoUnknownExtension)
	require.Len(t, unknown, 1)
	require.Len(t, unknown[0].Fixes, 1)
	assert.Equal(t, "extend 'A:area'", unknown[0].Fixes[0].Title)
}

func TestToolLimitation(t *testing.T) {
	f := newFixture(t)
	f.add("@class A", "@brief A.")
	f.add("@method A:swap", "@brief Swap.",
		"@overload", "@param number a", "@param number b", "@return none",
		"@overload", "@param number b", "@param number a", "@return none")
	s := f.run(Options{})

	lim := f.with(diag.SigToolLimitation)
	require.Len(t, lim, 1)
	assert.Contains(t, lim[0].Message, "input signature")
	assert.Equal(t, 1, s.Failed)

	_, err := f.method("A", "swap").Input()
	assert.ErrorIs(t, err, signature.ErrAmbiguousOrder)
	assert.Equal(t, "", f.method("A", "swap").RenderInput(withNames))
}

func TestBodyCheck(t *testing.T) {
	f := newFixture(t)
	f.add("@class A", "@brief A.")
	b := f.add("@method A:get", "@brief Get.", "@param A self", "@return number v")
	b.Body = &directive.BodyEvent{Text: "{ if (!ok) return 2; return 1; }"}
	b = f.add("@method A:put", "@brief Put.", "@param A self", "@return none")
	b.Body = &directive.BodyEvent{Text: "{ return 0; }"}
	f.run(Options{})

	mismatch := f.with(diag.SigBodyMismatch)
	require.Len(t, mismatch, 1)
	assert.Contains(t, mismatch[0].Message, "returns 2 value(s); documented overloads return 1")
}

func TestFields(t *testing.T) {
	f := newFixture(t)
	f.add("@class Color", "@brief A color.")
	f.add("@constant Color.RED 0xff0000", "@brief Red.")
	f.add("@flag Color.OPAQUE")
	f.add("@attribute Color.alpha number readonly", "@brief Alpha.")
	f.add("@attribute Color.broken")
	f.run(Options{})

	c, _ := f.graph.Lookup("Color")
	require.Len(t, c.Members, 3)
	red := c.Members[0].(*typegraph.Constant)
	assert.Equal(t, "0xff0000", red.Value)
	assert.Equal(t, "Red.", red.Doc())
	assert.IsType(t, &typegraph.Flag{}, c.Members[1])
	alpha := c.Members[2].(*typegraph.Attribute)
	assert.True(t, alpha.ReadOnly)
	assert.Equal(t, "number", alpha.Type.Name)
	assert.Same(t, c, alpha.Owner())
	assert.Len(t, f.with(diag.AnnoMalformedName), 1)
	assert.Empty(t, f.with(diag.AnnoMissingDescription), "fields do not require a description")
}

func TestExpandTrailingOptional(t *testing.T) {
	num := &typegraph.TypeEntity{Name: "number"}
	ov := &typegraph.Overload{In: []typegraph.InParameter{
		{Name: "a", Type: num},
		{Name: "b", Type: num, Optional: true},
		{Name: "c", Type: num, Optional: true},
	}}
	out := expandTrailingOptional([]*typegraph.Overload{ov})
	require.Len(t, out, 3)
	assert.Same(t, ov, out[0])
	assert.Len(t, out[1].In, 2)
	assert.Len(t, out[2].In, 1)
	assert.True(t, out[2].Synthetic)

	mid := &typegraph.Overload{In: []typegraph.InParameter{{Name: "a", Type: num, Optional: true}, {Name: "b", Type: num}}}
	assert.Len(t, expandTrailingOptional([]*typegraph.Overload{mid}), 1, "no trailing run")
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		tokens []string
		want   paramDecl
		err    bool
	}{
		{[]string{"number", "x", "the", "value"}, paramDecl{Type: "number", Name: "x", Description: "the value"}, false},
		{[]string{"number", "[x]"}, paramDecl{Type: "number", Name: "x", Optional: true}, false},
		{[]string{"number", "[x=10]", "count"}, paramDecl{Type: "number", Name: "x", Optional: true, Default: "10", Description: "count"}, false},
		{[]string{"number"}, paramDecl{}, true},
		{[]string{"number", "[]"}, paramDecl{}, true},
		{[]string{"number", "[x"}, paramDecl{}, true},
	}
	for _, tc := range tests {
		got, err := parseParam(directive.Directive{Command: "param", Tokens: tc.tokens})
		if tc.err {
			assert.Error(t, err, "%v", tc.tokens)
			continue
		}
		require.NoError(t, err, "%v", tc.tokens)
		assert.Equal(t, tc.want, got)
	}
}

func TestSplitMemberName(t *testing.T) {
	for in, want := range map[string][2]string{
		"Vector:length": {"Vector", "length"},
		"Vector.ZERO":   {"Vector", "ZERO"},
		"a.b.c":         {"a.b", "c"},
	} {
		owner, name, ok := splitMemberName(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, [2]string{owner, name}, in)
	}
	for _, bad := range []string{"", "Vector", ":x", "x:", "a:b:c"} {
		_, _, ok := splitMemberName(bad)
		assert.False(t, ok, bad)
	}
}
