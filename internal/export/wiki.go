package export

import (
	"io"
	"strings"
)

// wikiWriter emits MediaWiki markup, one section per type.
type wikiWriter struct{}

func (wikiWriter) Name() string { return "wiki" }
func (wikiWriter) Ext() string  { return ".wiki" }

func (wikiWriter) Write(w io.Writer, m *Model) error {
	p := &printer{w: w}
	if m.Digest != "" {
		p.printf("<!-- generated by bindoc, model %s -->\n", m.Digest)
	}
	p.line("__TOC__")
	p.line("")
	for i := range m.Types {
		wikiType(p, &m.Types[i])
	}
	return p.err
}

func wikiType(p *printer, t *Type) {
	p.printf("== %s ==\n", t.Name)
	if t.Description != "" {
		p.line(wikiText(t.Description))
	}
	if len(t.Ancestors) > 0 {
		links := make([]string, len(t.Ancestors))
		for i, a := range t.Ancestors {
			links[i] = "[[#" + a + "|" + a + "]]"
		}
		p.printf("\n''Inherits:'' %s\n", strings.Join(links, " → "))
	}
	p.line("")

	if len(t.Constants) > 0 || len(t.Flags) > 0 {
		p.line("=== Values ===")
		tb := table{header: []string{"Name", "Value", "Description"}}
		for _, c := range t.Constants {
			tb.add(wikiCode(c.Name), wikiText(c.Value), wikiText(c.Description))
		}
		for _, f := range t.Flags {
			tb.add(wikiCode(f.Name), "''flag''", wikiText(f.Description))
		}
		tb.wiki(p)
	}
	if len(t.Attributes) > 0 {
		p.line("=== Attributes ===")
		tb := table{header: []string{"Name", "Type", "Description"}}
		for _, a := range t.Attributes {
			desc := wikiText(a.Description)
			if a.ReadOnly {
				desc = strings.TrimSpace("''read-only'' " + desc)
			}
			tb.add(wikiCode(a.Name), wikiCode(a.Type), desc)
		}
		tb.wiki(p)
	}
	if len(t.Methods) > 0 {
		p.line("=== Methods ===")
		tb := table{header: []string{"Method", "Signature", "Returns", "Description"}}
		for _, m := range t.Methods {
			if m.Compacted {
				tb.add(wikiCode(m.Separator()+m.Name), wikiCode(CallForm(m.Input)), wikiCode(m.Output), wikiText(m.Description))
				continue
			}
			for i, o := range m.Overloads {
				desc := ""
				if i == 0 {
					desc = wikiText(m.Description)
				}
				tb.add(wikiCode(m.Separator()+m.Name), wikiCode(CallForm(o.Input)), wikiCode(o.Output), desc)
			}
		}
		tb.wiki(p)
	}
}

func wikiCode(s string) string {
	if s == "" {
		return ""
	}
	return "<code>" + wikiText(s) + "</code>"
}

// wikiText escapes the characters that break table cells.
func wikiText(s string) string {
	s = oneLine(s)
	s = strings.ReplaceAll(s, "|", "&#124;")
	s = strings.ReplaceAll(s, "[", "&#91;")
	return strings.ReplaceAll(s, "]", "&#93;")
}
