package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	a, b := leaf(num("a")), leaf(num("b"))
	tests := []struct {
		name string
		node Node
		opts RenderOptions
		want string
	}{
		{"leaf type only", a, RenderOptions{}, "number"},
		{"leaf with name", a, RenderOptions{ShowNames: true}, "number a"},
		{"leaf without name", leaf(Param{Type: "any"}), RenderOptions{ShowNames: true}, "any"},
		{"sequence inline", seq(a, b), RenderOptions{ShowNames: true}, "(number a, number b)"},
		{"sequence none", seq(a, b), RenderOptions{ShowNames: true, Grouping: GroupNone}, "number a, number b"},
		{"choice inline", &Choice{Items: []Node{a, b}}, RenderOptions{ShowNames: true}, "(number a | number b)"},
		{"choice none", &Choice{Items: []Node{a, b}}, RenderOptions{ShowNames: true, Grouping: GroupNone}, "number a | number b"},
		{"one element sequence", seq(&Choice{Items: []Node{a, b}}), RenderOptions{Grouping: GroupNone}, "number | number"},
		{"option inline", &Option{Child: seq(a, b)}, RenderOptions{ShowNames: true}, "[number a, number b]"},
		{"option paren", &Option{Child: seq(a)}, RenderOptions{ShowNames: true, Grouping: GroupParen}, "(number a)"},
		{"paren applies at top only", seq(a, &Option{Child: b}), RenderOptions{ShowNames: true, Grouping: GroupParen}, "(number a, [number b])"},
		{"empty sequence", seq(), RenderOptions{}, ""},
		{"nil", nil, RenderOptions{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.node, tc.opts))
		})
	}
}

func TestParseGrouping(t *testing.T) {
	g, err := ParseGrouping("Paren")
	require.NoError(t, err)
	assert.Equal(t, GroupParen, g)
	_, err = ParseGrouping("square")
	assert.Error(t, err)
}

func TestNodeMetrics(t *testing.T) {
	tree := seq(leaf(self), &Option{Child: seq(leaf(radius))})
	assert.Equal(t, 2, LeafCount(tree))
	assert.Equal(t, 5, NodeCount(tree))
	assert.False(t, Equal(tree, seq(leaf(self))))
	assert.ElementsMatch(t, [][]Param{{self, radius}, {self}}, Flatten(tree))
	assert.Empty(t, Flatten(&Choice{}))
}

func TestParseParams(t *testing.T) {
	ps, err := ParseParams("TypeX self, number radius, any")
	require.NoError(t, err)
	assert.Equal(t, []Param{self, radius, {Type: "any"}}, ps)

	ps, err = ParseParams("  ")
	require.NoError(t, err)
	assert.Empty(t, ps)

	_, err = ParseParams("number a b")
	assert.Error(t, err)
}
