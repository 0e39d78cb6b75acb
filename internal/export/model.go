package export

import (
	"encoding/xml"

	"bindoc/internal/signature"
	"bindoc/internal/typegraph"
)

// Model is the read-only view of a finished graph that every format
// renders. Only documented, non-primitive types are listed.
type Model struct {
	XMLName xml.Name `yaml:"-" xml:"api"`
	Project string   `yaml:"project" xml:"project,attr"`
	Digest  string   `yaml:"digest,omitempty" xml:"digest,attr,omitempty"`
	Root    string   `yaml:"root" xml:"root,attr"`
	Types   []Type   `yaml:"types" xml:"type"`
}

type Type struct {
	Name        string      `yaml:"name" xml:"name,attr"`
	Description string      `yaml:"description,omitempty" xml:"description,omitempty"`
	Bases       []string    `yaml:"bases,omitempty" xml:"base"`
	Ancestors   []string    `yaml:"ancestors,omitempty" xml:"-"`
	Registered  bool        `yaml:"registered,omitempty" xml:"registered,attr,omitempty"`
	Constants   []Constant  `yaml:"constants,omitempty" xml:"constant"`
	Flags       []Flag      `yaml:"flags,omitempty" xml:"flag"`
	Attributes  []Attribute `yaml:"attributes,omitempty" xml:"attribute"`
	Methods     []Method    `yaml:"methods,omitempty" xml:"method"`
}

type Constant struct {
	Name        string `yaml:"name" xml:"name,attr"`
	Value       string `yaml:"value,omitempty" xml:"value,attr,omitempty"`
	Description string `yaml:"description,omitempty" xml:",chardata"`
}

type Flag struct {
	Name        string `yaml:"name" xml:"name,attr"`
	Description string `yaml:"description,omitempty" xml:",chardata"`
}

type Attribute struct {
	Name        string `yaml:"name" xml:"name,attr"`
	Type        string `yaml:"type" xml:"type,attr"`
	ReadOnly    bool   `yaml:"readonly,omitempty" xml:"readonly,attr,omitempty"`
	Description string `yaml:"description,omitempty" xml:",chardata"`
}

type Method struct {
	Name        string     `yaml:"name" xml:"name,attr"`
	Static      bool       `yaml:"static,omitempty" xml:"static,attr,omitempty"`
	Description string     `yaml:"description,omitempty" xml:"description,omitempty"`
	Compacted   bool       `yaml:"compacted" xml:"compacted,attr"`
	Input       string     `yaml:"input,omitempty" xml:"input,omitempty"`
	Output      string     `yaml:"output,omitempty" xml:"output,omitempty"`
	Overloads   []Overload `yaml:"overloads" xml:"overload"`
	Params      []Param    `yaml:"params,omitempty" xml:"param"`
	Returns     []Param    `yaml:"returns,omitempty" xml:"return"`
}

// Overload is one declared call shape, rendered on its own.
type Overload struct {
	Static bool   `yaml:"static,omitempty" xml:"static,attr,omitempty"`
	Input  string `yaml:"input" xml:"input,attr"`
	Output string `yaml:"output,omitempty" xml:"output,attr,omitempty"`
}

// Param documents a parameter or return value by name across overloads.
type Param struct {
	Name        string `yaml:"name,omitempty" xml:"name,attr,omitempty"`
	Type        string `yaml:"type" xml:"type,attr"`
	Optional    bool   `yaml:"optional,omitempty" xml:"optional,attr,omitempty"`
	Default     string `yaml:"default,omitempty" xml:"default,attr,omitempty"`
	Description string `yaml:"description,omitempty" xml:",chardata"`
}

// Options configures Build and the writers.
type Options struct {
	Project string
	Digest  string
	Render  signature.RenderOptions
}

// Build collects the exported view of g.
func Build(g *typegraph.Graph, opts Options) *Model {
	m := &Model{Project: opts.Project, Digest: opts.Digest, Root: g.Root().Name}
	for _, t := range g.Types() {
		if !t.IsDocumented || t.IsPrimitive {
			continue
		}
		m.Types = append(m.Types, buildType(g, t, opts.Render))
	}
	return m
}

func buildType(g *typegraph.Graph, t *typegraph.TypeEntity, ro signature.RenderOptions) Type {
	out := Type{Name: t.Name, Description: t.Description, Registered: t.IsRegistered}
	for _, b := range t.BaseTypes {
		out.Bases = append(out.Bases, b.Name)
	}
	for _, a := range g.Ancestors(t) {
		out.Ancestors = append(out.Ancestors, a.Name)
	}
	for _, mem := range t.Members {
		switch mem := mem.(type) {
		case *typegraph.Constant:
			out.Constants = append(out.Constants, Constant{Name: mem.Name, Value: mem.Value, Description: mem.Description})
		case *typegraph.Flag:
			out.Flags = append(out.Flags, Flag{Name: mem.Name, Description: mem.Description})
		case *typegraph.Attribute:
			out.Attributes = append(out.Attributes, Attribute{
				Name:        mem.Name,
				Type:        entityName(mem.Type),
				ReadOnly:    mem.ReadOnly,
				Description: mem.Description,
			})
		case *typegraph.Method:
			out.Methods = append(out.Methods, buildMethod(mem, ro))
		}
	}
	return out
}

func buildMethod(mem *typegraph.Method, ro signature.RenderOptions) Method {
	out := Method{Name: mem.Name, Static: mem.IsStatic(), Description: mem.Description}
	_, inErr := mem.Input()
	_, outErr := mem.Output()
	out.Compacted = inErr == nil && outErr == nil
	if out.Compacted {
		out.Input = mem.RenderInput(ro)
		out.Output = mem.RenderOutput(ro)
	}

	params := newParamIndex()
	returns := newParamIndex()
	for _, o := range mem.Overloads {
		out.Overloads = append(out.Overloads, Overload{
			Static: o.Static,
			Input:  signature.Render(sequence(o.InputParams()), ro),
			Output: signature.Render(sequence(o.OutputParams()), ro),
		})
		for _, p := range o.In {
			params.add(Param{Name: p.Name, Type: entityName(p.Type), Optional: p.Optional, Default: p.Default, Description: p.Description})
		}
		for _, p := range o.Out {
			returns.add(Param{Name: p.Name, Type: entityName(p.Type), Description: p.Description})
		}
	}
	out.Params = params.list
	out.Returns = returns.list
	return out
}

func sequence(ps []signature.Param) signature.Node {
	items := make([]signature.Node, len(ps))
	for i, p := range ps {
		items[i] = &signature.Leaf{Param: p}
	}
	return &signature.Sequence{Items: items}
}

func entityName(t *typegraph.TypeEntity) string {
	if t == nil {
		return "any"
	}
	return t.Name
}

// paramIndex keeps the first documented occurrence of each (name, type).
type paramIndex struct {
	seen map[[2]string]int
	list []Param
}

func newParamIndex() *paramIndex {
	return &paramIndex{seen: make(map[[2]string]int)}
}

func (ix *paramIndex) add(p Param) {
	key := [2]string{p.Name, p.Type}
	if i, ok := ix.seen[key]; ok {
		if ix.list[i].Description == "" {
			ix.list[i].Description = p.Description
		}
		return
	}
	ix.seen[key] = len(ix.list)
	ix.list = append(ix.list, p)
}

// CallForm wraps a rendered input so it always reads as an argument list.
func CallForm(input string) string {
	if input == "" {
		return "()"
	}
	if enclosed(input) {
		return input
	}
	return "(" + input + ")"
}

// enclosed reports whether the paren at s[0] closes at the last byte.
func enclosed(s string) bool {
	if s[0] != '(' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// Separator is ":" for instance methods and "." for static ones.
func (m *Method) Separator() string {
	if m.Static {
		return "."
	}
	return ":"
}

// Find returns the type named name.
func (m *Model) Find(name string) (*Type, bool) {
	for i := range m.Types {
		if m.Types[i].Name == name {
			return &m.Types[i], true
		}
	}
	return nil, false
}
