package export

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bindoc/internal/assemble"
	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/signature"
	"bindoc/internal/source"
	"bindoc/internal/typegraph"
)

// block builds a directive block from "@command token..." lines.
func block(id int, lines ...string) directive.Block {
	b := directive.Block{File: source.FileID(id)}
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
	return b
}

func sampleModel(t *testing.T) *Model {
	t.Helper()
	blocks := []directive.Block{
		block(1, "@class Vector", "@brief A 2D vector."),
		block(2, "@constant Vector.ZERO 0", "@brief The zero vector."),
		block(3, "@attribute Vector.x number", "@brief X coordinate."),
		block(4, "@method Vector:length", "@brief Length.", "@param Vector self", "@return number len The length."),
		block(5, "@method Vector:new", "@brief Creates.",
			"@overload", "@param number x", "@param number y", "@return Vector",
			"@overload", "@return Vector"),
		block(6, "@method Vector:swap", "@brief Ambiguous.",
			"@overload", "@param number a", "@param string b", "@return none",
			"@overload", "@param string b", "@param number a", "@return none"),
		block(7, "@class Circle", "@brief A circle.", "@base Vector"),
	}
	g := typegraph.NewGraph("Object")
	bag := diag.NewBag(0)
	assemble.Run(g, blocks, diag.BagReporter{Bag: bag}, assemble.Options{})
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	return Build(g, Options{Project: "demo", Digest: "0123456789ab", Render: signature.RenderOptions{ShowNames: true}})
}

func render(t *testing.T, format string, m *Model) string {
	t.Helper()
	w, ok := Lookup(format)
	require.True(t, ok, format)
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, m))
	return buf.String()
}

func TestBuild(t *testing.T) {
	m := sampleModel(t)
	require.Len(t, m.Types, 2)
	assert.Equal(t, "Circle", m.Types[0].Name)
	assert.Equal(t, "Object", m.Root)

	circle, _ := m.Find("Circle")
	assert.Equal(t, []string{"Vector"}, circle.Bases)
	assert.Equal(t, []string{"Vector", "Object"}, circle.Ancestors)

	vec, ok := m.Find("Vector")
	require.True(t, ok)
	require.Len(t, vec.Methods, 3)

	length := vec.Methods[0]
	assert.True(t, length.Compacted)
	assert.False(t, length.Static)
	assert.Equal(t, "Vector self", length.Input)
	assert.Equal(t, "number len", length.Output)
	require.Len(t, length.Returns, 1)
	assert.Equal(t, "The length.", length.Returns[0].Description)

	ctor := vec.Methods[1]
	assert.True(t, ctor.Static)
	assert.Equal(t, "[number x, number y]", ctor.Input)
	assert.Equal(t, "Vector", ctor.Output)
	assert.Len(t, ctor.Overloads, 2)

	swap := vec.Methods[2]
	assert.False(t, swap.Compacted)
	assert.Empty(t, swap.Input)
	require.Len(t, swap.Overloads, 2)
	assert.Equal(t, "(number a, string b)", swap.Overloads[0].Input)
	assert.Equal(t, "(string b, number a)", swap.Overloads[1].Input)
	assert.Len(t, swap.Params, 2, "params are listed once per name and type")
}

func TestCallForm(t *testing.T) {
	assert.Equal(t, "()", CallForm(""))
	assert.Equal(t, "(number x)", CallForm("number x"))
	assert.Equal(t, "([number x])", CallForm("[number x]"))
	assert.Equal(t, "(a, b)", CallForm("(a, b)"))
	assert.Equal(t, "((a | b), c)", CallForm("(a | b), c"))
	assert.Equal(t, "((a) | (b))", CallForm("(a) | (b)"))
	assert.Equal(t, "((a, b)", CallForm("(a, b"))
}

func TestCompletion(t *testing.T) {
	out := render(t, "completion", sampleModel(t))
	assert.True(t, strings.HasPrefix(out, "-- bindoc completion table for demo (model 0123456789ab)\nreturn {\n"))
	for _, want := range []string{
		"  Vector = {\n    type = \"class\",\n    description = \"A 2D vector.\",\n    inherits = \"Object\",\n    childs = {\n",
		`      ZERO = { type = "value", description = "The zero vector. (= 0)" },`,
		`      x = { type = "value", description = "X coordinate." },`,
		`      length = { type = "method", description = "Length.", args = "(Vector self)", returns = "(number len)" },`,
		`      new = { type = "function", description = "Creates.", args = "([number x, number y])", returns = "(Vector)", valuetype = "Vector" },`,
		`      swap = { type = "function", description = "Ambiguous.", args = "(number a, string b) | (string b, number a)" },`,
		`    inherits = "Vector",`,
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "  },\n}\n"))
}

func TestLuaQuoting(t *testing.T) {
	assert.Equal(t, `"a\"b\\c\n\001é"`, luaString("a\"b\\c\n\x01é"))
	assert.Equal(t, "name", luaKey("name"))
	assert.Equal(t, `["end"]`, luaKey("end"))
	assert.Equal(t, `["2d"]`, luaKey("2d"))
}

func TestMarkdown(t *testing.T) {
	out := render(t, "markdown", sampleModel(t))
	for _, want := range []string{
		"# demo API\n\n_model 0123456789ab_\n\n- [Circle](#circle)\n- [Vector](#vector)\n",
		"## Circle\n\nA circle.\n\nInherits: `Vector` → `Object`\n",
		"| Name   | Value | Description      |\n|--------|-------|------------------|\n| `ZERO` | 0     | The zero vector. |\n",
		"#### length\n\n`Vector:length(Vector self) -> number len`\n\nLength.\n",
		"`Vector.new([number x, number y]) -> Vector`",
		"- `Vector.swap(number a, string b)`\n- `Vector.swap(string b, number a)`\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTableWideText(t *testing.T) {
	var buf bytes.Buffer
	tb := table{header: []string{"A", "B"}}
	tb.add("日本", "x")
	tb.markdown(&printer{w: &buf})
	assert.Equal(t, "| A    | B |\n|------|---|\n| 日本 | x |\n\n", buf.String())
}

func TestWiki(t *testing.T) {
	out := render(t, "wiki", sampleModel(t))
	for _, want := range []string{
		"<!-- generated by bindoc, model 0123456789ab -->\n__TOC__\n",
		"== Vector ==\nA 2D vector.\n\n''Inherits:'' [[#Object|Object]]\n",
		"=== Methods ===\n{| class=\"wikitable\"\n! Method !! Signature !! Returns !! Description\n",
		"| <code>.new</code> || <code>(&#91;number x, number y&#93;)</code> || <code>Vector</code> || Creates.",
	} {
		assert.Contains(t, out, want)
	}
}

func TestXML(t *testing.T) {
	out := render(t, "xml", sampleModel(t))
	assert.True(t, strings.HasPrefix(out, xml.Header+`<api project="demo" digest="0123456789ab" root="Object">`))
	assert.Contains(t, out, `<method name="new" static="true" compacted="true">`)
	assert.Contains(t, out, `<constant name="ZERO" value="0">The zero vector.</constant>`)

	var back Model
	require.NoError(t, xml.Unmarshal([]byte(out), &back))
	require.Len(t, back.Types, 2)
	assert.Equal(t, "[number x, number y]", back.Types[1].Methods[1].Input)
}

func TestYAML(t *testing.T) {
	out := render(t, "yaml", sampleModel(t))
	var doc struct {
		Project string `yaml:"project"`
		Types   []struct {
			Name    string `yaml:"name"`
			Methods []struct {
				Name      string `yaml:"name"`
				Compacted bool   `yaml:"compacted"`
			} `yaml:"methods"`
		} `yaml:"types"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "demo", doc.Project)
	require.Len(t, doc.Types, 2)
	require.Len(t, doc.Types[1].Methods, 3)
	assert.False(t, doc.Types[1].Methods[2].Compacted)
}

func TestMsgpack(t *testing.T) {
	m := sampleModel(t)
	out := render(t, "msgpack", m)
	got, err := ReadMsgpack(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Project)
	assert.Equal(t, m.Digest, got.Digest)
	require.Len(t, got.Types, 2)
	assert.Equal(t, []string{"Vector"}, got.Types[0].Bases)

	vector, ok := got.Find("Vector")
	require.True(t, ok)
	want, _ := m.Find("Vector")
	require.Len(t, vector.Methods, len(want.Methods))
	for i := range want.Methods {
		assert.Equal(t, want.Methods[i].Name, vector.Methods[i].Name)
		assert.Equal(t, want.Methods[i].Input, vector.Methods[i].Input)
		assert.Equal(t, want.Methods[i].Compacted, vector.Methods[i].Compacted)
	}
}

func TestParseFormats(t *testing.T) {
	ws, err := ParseFormats([]string{"markdown, xml", "yaml", "xml"})
	require.NoError(t, err)
	var names []string
	for _, w := range ws {
		names = append(names, w.Name())
	}
	assert.Equal(t, []string{"markdown", "xml", "yaml"}, names)

	_, err = ParseFormats([]string{"pdf"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, []string{"completion", "markdown", "msgpack", "wiki", "xml", "yaml"}, Names())
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	ws, err := ParseFormats([]string{"completion,yaml"})
	require.NoError(t, err)
	paths, err := WriteFiles(dir, sampleModel(t), ws)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "demo.lua"), filepath.Join(dir, "demo.yaml")}, paths)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "return {")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")
	assert.Equal(t, "my_lib.md", FileName("my lib", markdownWriter{}))
}
