package export

import (
	"io"
	"strings"
)

type markdownWriter struct{}

func (markdownWriter) Name() string { return "markdown" }
func (markdownWriter) Ext() string  { return ".md" }

func (markdownWriter) Write(w io.Writer, m *Model) error {
	p := &printer{w: w}
	p.printf("# %s API\n\n", m.Project)
	if m.Digest != "" {
		p.printf("_model %s_\n\n", m.Digest)
	}
	if len(m.Types) > 1 {
		for _, t := range m.Types {
			p.printf("- [%s](#%s)\n", t.Name, anchor(t.Name))
		}
		p.line("")
	}
	for i := range m.Types {
		markdownType(p, &m.Types[i])
	}
	return p.err
}

func markdownType(p *printer, t *Type) {
	p.printf("## %s\n\n", t.Name)
	if t.Description != "" {
		p.printf("%s\n\n", t.Description)
	}
	if len(t.Ancestors) > 0 {
		p.printf("Inherits: %s\n\n", codeList(t.Ancestors, " → "))
	}

	if len(t.Constants) > 0 {
		p.line("### Constants\n")
		tb := table{header: []string{"Name", "Value", "Description"}}
		for _, c := range t.Constants {
			tb.add(code(c.Name), mdCell(c.Value), mdCell(c.Description))
		}
		tb.markdown(p)
	}
	if len(t.Flags) > 0 {
		p.line("### Flags\n")
		tb := table{header: []string{"Name", "Description"}}
		for _, f := range t.Flags {
			tb.add(code(f.Name), mdCell(f.Description))
		}
		tb.markdown(p)
	}
	if len(t.Attributes) > 0 {
		p.line("### Attributes\n")
		tb := table{header: []string{"Name", "Type", "Access", "Description"}}
		for _, a := range t.Attributes {
			access := "read/write"
			if a.ReadOnly {
				access = "read-only"
			}
			tb.add(code(a.Name), code(a.Type), access, mdCell(a.Description))
		}
		tb.markdown(p)
	}
	if len(t.Methods) > 0 {
		p.line("### Methods\n")
		for i := range t.Methods {
			markdownMethod(p, t.Name, &t.Methods[i])
		}
	}
}

func markdownMethod(p *printer, owner string, m *Method) {
	p.printf("#### %s\n\n", m.Name)
	if m.Compacted {
		p.printf("`%s`\n\n", synopsis(owner, m, m.Input, m.Output))
	} else {
		for _, o := range m.Overloads {
			p.printf("- `%s`\n", synopsis(owner, m, o.Input, o.Output))
		}
		p.line("")
	}
	if m.Description != "" {
		p.printf("%s\n\n", m.Description)
	}
	if len(m.Params) > 0 {
		tb := table{header: []string{"Parameter", "Type", "Description"}}
		for _, prm := range m.Params {
			name := prm.Name
			if prm.Optional {
				name = "[" + name + "]"
			}
			desc := prm.Description
			if prm.Default != "" {
				desc = strings.TrimSpace(desc + " Default: " + prm.Default + ".")
			}
			tb.add(code(name), code(prm.Type), mdCell(desc))
		}
		tb.markdown(p)
	}
	if len(m.Returns) > 0 {
		tb := table{header: []string{"Returns", "Type", "Description"}}
		for _, r := range m.Returns {
			tb.add(code(r.Name), code(r.Type), mdCell(r.Description))
		}
		tb.markdown(p)
	}
}

// synopsis reads like a Lua call: Owner:name(args) -> returns.
func synopsis(owner string, m *Method, input, output string) string {
	s := owner + m.Separator() + m.Name + CallForm(input)
	if output != "" {
		s += " -> " + output
	}
	return s
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

func codeList(names []string, sep string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = code(n)
	}
	return strings.Join(out, sep)
}

func mdCell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}

// anchor follows the GitHub heading slug rules for simple names.
func anchor(name string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if r == ' ' {
			return '-'
		}
		if r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 127 {
			return r
		}
		return -1
	}, name))
}
