package export

import (
	"fmt"
	"io"
	"strings"
)

// completionWriter emits a Lua API table in the layout editor
// auto-completion plugins read: one entry per class with type,
// description, inherits and childs.
type completionWriter struct{}

func (completionWriter) Name() string { return "completion" }
func (completionWriter) Ext() string  { return ".lua" }

func (completionWriter) Write(w io.Writer, m *Model) error {
	p := &printer{w: w}
	header := "-- bindoc completion table for " + m.Project
	if m.Digest != "" {
		header += " (model " + m.Digest + ")"
	}
	p.line(header)
	p.line("return {")
	classes := make(map[string]bool, len(m.Types))
	for _, t := range m.Types {
		classes[t.Name] = true
	}
	for i := range m.Types {
		completionType(p, &m.Types[i], classes)
	}
	p.line("}")
	return p.err
}

func completionType(p *printer, t *Type, classes map[string]bool) {
	p.printf("  %s = {\n", luaKey(t.Name))
	p.printf("    type = %s,\n", luaString("class"))
	if t.Description != "" {
		p.printf("    description = %s,\n", luaString(t.Description))
	}
	if len(t.Bases) > 0 {
		p.printf("    inherits = %s,\n", luaString(strings.Join(t.Bases, " ")))
	}
	p.line("    childs = {")
	for _, c := range t.Constants {
		entry := luaEntry{"type", "value"}.with("description", describe(c.Description, c.Value))
		entry.print(p, c.Name)
	}
	for _, f := range t.Flags {
		luaEntry{"type", "value"}.with("description", f.Description).print(p, f.Name)
	}
	for _, a := range t.Attributes {
		entry := luaEntry{"type", "value"}.with("description", a.Description)
		if classes[a.Type] {
			entry = entry.with("valuetype", a.Type)
		}
		entry.print(p, a.Name)
	}
	for _, m := range t.Methods {
		kind := "method"
		if m.Static {
			kind = "function"
		}
		entry := luaEntry{"type", kind}.with("description", m.Description)
		if m.Compacted {
			entry = entry.with("args", CallForm(m.Input)).with("returns", returnsForm(m.Output))
		} else if len(m.Overloads) > 0 {
			forms := make([]string, len(m.Overloads))
			for i, o := range m.Overloads {
				forms[i] = CallForm(o.Input)
			}
			entry = entry.with("args", strings.Join(forms, " | ")).with("returns", returnsForm(m.Overloads[0].Output))
		}
		if len(m.Returns) == 1 && classes[m.Returns[0].Type] {
			entry = entry.with("valuetype", m.Returns[0].Type)
		}
		entry.print(p, m.Name)
	}
	p.line("    },")
	p.line("  },")
}

// luaEntry is a flat list of key, value pairs printed in order.
type luaEntry []string

func (e luaEntry) with(key, value string) luaEntry {
	if value == "" {
		return e
	}
	return append(e, key, value)
}

func (e luaEntry) print(p *printer, name string) {
	parts := make([]string, 0, len(e)/2)
	for i := 0; i+1 < len(e); i += 2 {
		parts = append(parts, e[i]+" = "+luaString(e[i+1]))
	}
	p.printf("      %s = { %s },\n", luaKey(name), strings.Join(parts, ", "))
}

func describe(desc, value string) string {
	if value == "" {
		return desc
	}
	if desc == "" {
		return "= " + value
	}
	return desc + " (= " + value + ")"
}

func returnsForm(output string) string {
	if output == "" {
		return ""
	}
	return CallForm(output)
}

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true, "end": true,
	"false": true, "for": true, "function": true, "goto": true, "if": true, "in": true,
	"local": true, "nil": true, "not": true, "or": true, "repeat": true, "return": true,
	"then": true, "true": true, "until": true, "while": true,
}

func luaKey(name string) string {
	if isLuaIdent(name) && !luaKeywords[name] {
		return name
	}
	return "[" + luaString(name) + "]"
}

func isLuaIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// luaString quotes s as a Lua short string. Bytes >= 0x80 pass through
// so UTF-8 descriptions stay readable.
func luaString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
