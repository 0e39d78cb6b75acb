package typegraph

import (
	"sync"

	"bindoc/internal/directive"
	"bindoc/internal/signature"
	"bindoc/internal/source"
)

// Member is one of *Constant, *Flag, *Attribute or *Method.
type Member interface {
	Owner() *TypeEntity
	MemberName() string
	Doc() string
	Pos() source.Span
	member()
}

// MemberBase holds the fields shared by all members.
type MemberBase struct {
	owner       *TypeEntity
	Name        string
	Description string
	Span        source.Span
}

func (m *MemberBase) Owner() *TypeEntity { return m.owner }
func (m *MemberBase) MemberName() string { return m.Name }
func (m *MemberBase) Doc() string        { return m.Description }
func (m *MemberBase) Pos() source.Span   { return m.Span }

// Constant is a named value of a type.
type Constant struct {
	MemberBase
	Value string
}

// Flag is a named bit of a flag set.
type Flag struct {
	MemberBase
}

// Attribute is a field readable (and possibly writable) from scripts.
type Attribute struct {
	MemberBase
	Type     *TypeEntity
	ReadOnly bool
}

// Method is a callable member with one or more overloads.
type Method struct {
	MemberBase
	Overloads []*Overload
	// Expanded holds the overloads after trailing optional expansion.
	// When nil, Overloads are compacted as declared.
	Expanded []*Overload
	Bodies   []directive.BodyEvent

	once          sync.Once
	input, output signature.Node
	inErr, outErr error
}

func (*Constant) member()  {}
func (*Flag) member()      {}
func (*Attribute) member() {}
func (*Method) member()    {}

// Overload is one call shape of a method.
type Overload struct {
	Static    bool
	In        []InParameter
	Out       []OutParameter
	NoReturn  bool // declared with a none/nil return
	Synthetic bool // produced by trailing optional expansion
	Span      source.Span
}

// InParameter is an input parameter of an overload.
type InParameter struct {
	Name        string
	Type        *TypeEntity
	Description string
	Optional    bool
	Default     string
}

// OutParameter is a return value of an overload.
type OutParameter struct {
	Name        string
	Type        *TypeEntity
	Description string
}

// InputParams returns the compactor view of the inputs.
func (o *Overload) InputParams() []signature.Param {
	out := make([]signature.Param, len(o.In))
	for i, p := range o.In {
		out[i] = signature.Param{Type: typeName(p.Type), Name: p.Name}
	}
	return out
}

// OutputParams returns the compactor view of the outputs.
func (o *Overload) OutputParams() []signature.Param {
	out := make([]signature.Param, len(o.Out))
	for i, p := range o.Out {
		out[i] = signature.Param{Type: typeName(p.Type), Name: p.Name}
	}
	return out
}

func typeName(t *TypeEntity) string {
	if t == nil {
		return "any"
	}
	return t.Name
}

func (m *Method) shapes() []*Overload {
	if m.Expanded != nil {
		return m.Expanded
	}
	return m.Overloads
}

func (m *Method) compact() {
	m.once.Do(func() {
		ovs := m.shapes()
		in := make([][]signature.Param, len(ovs))
		out := make([][]signature.Param, len(ovs))
		for i, o := range ovs {
			in[i] = o.InputParams()
			out[i] = o.OutputParams()
		}
		m.input, m.inErr = signature.Compact(in)
		m.output, m.outErr = signature.Compact(out)
	})
}

// Input returns the compact input signature, computing it on first use.
func (m *Method) Input() (signature.Node, error) {
	m.compact()
	return m.input, m.inErr
}

// Output returns the compact output signature, computing it on first use.
func (m *Method) Output() (signature.Node, error) {
	m.compact()
	return m.output, m.outErr
}

// RenderInput renders the input signature, or "" when compaction failed.
func (m *Method) RenderInput(opts signature.RenderOptions) string {
	n, err := m.Input()
	if err != nil {
		return ""
	}
	return signature.Render(n, opts)
}

// RenderOutput renders the output signature, or "" when compaction failed.
func (m *Method) RenderOutput(opts signature.RenderOptions) string {
	n, err := m.Output()
	if err != nil {
		return ""
	}
	return signature.Render(n, opts)
}

// IsStatic reports whether every declared overload is static.
func (m *Method) IsStatic() bool {
	if len(m.Overloads) == 0 {
		return false
	}
	for _, o := range m.Overloads {
		if !o.Static {
			return false
		}
	}
	return true
}
