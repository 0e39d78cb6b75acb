package assemble

import (
	"fmt"
	"strings"

	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/typegraph"
)

func (a *Assembler) classBlock(b *directive.Block, name directive.Directive) {
	className := name.Token(0)
	if className == "" {
		diag.ReportError(a.rep, diag.AnnoMalformedName, name.Span, "'@class' needs a class name").Emit()
		return
	}
	t := a.graph.GetOrCreate(className)
	desc := a.description(b, name, true)

	if first, dup := a.defined[t]; dup {
		diag.ReportWarning(a.rep, diag.AnnoDuplicateClass, name.Span,
			fmt.Sprintf("class '%s' is documented more than once; bases are merged, the description is ignored", className)).
			WithNote(first, "first documented here").Emit()
	} else {
		a.defined[t] = name.Span
		t.IsDocumented = true
		t.Definition = b.Span
		t.Description = desc
	}

	if b.Has(directive.CmdPrimitive) {
		t.IsPrimitive = true
	}
	for _, d := range b.Find(directive.CmdBase) {
		if len(d.Tokens) == 0 {
			diag.ReportError(a.rep, diag.AnnoMalformedName, d.Span, "'@base' needs a type name").Emit()
			continue
		}
		for _, tok := range d.Tokens {
			a.graph.AddBase(t, a.resolve(strings.TrimSuffix(tok, ","), d.Span))
		}
	}
}

func (a *Assembler) methodBlock(b *directive.Block, name directive.Directive) {
	ownerName, methodName, ok := splitMemberName(name.Token(0))
	if !ok {
		diag.ReportError(a.rep, diag.AnnoMalformedName, name.Span,
			fmt.Sprintf("'@method %s': expected 'Owner:name' or 'Owner.name'", name.Token(0))).Emit()
		return
	}
	owner := a.graph.GetOrCreate(ownerName, name.Span)
	m := &typegraph.Method{MemberBase: typegraph.MemberBase{
		Name:        methodName,
		Description: a.description(b, name, true),
		Span:        name.Span,
	}}

	for _, d := range b.Find(directive.CmdOverload) {
		if len(d.Tokens) > 0 {
			diag.ReportWarning(a.rep, diag.AnnoMisplacedDirective, d.Span,
				fmt.Sprintf("'@overload %s' inside a method block only starts a new overload; extensions need their own block", d.Text())).Emit()
		}
	}
	for _, g := range overloadGroups(b.Directives, false) {
		m.Overloads = append(m.Overloads, a.buildOverload(owner, m, name, g))
	}

	if existing, added := a.graph.AddMember(owner, m); !added {
		diag.ReportError(a.rep, diag.AnnoDuplicateMember, name.Span,
			fmt.Sprintf("'%s' already has a member named '%s'; this declaration is dropped", owner.Name, methodName)).
			WithNote(existing.Pos(), "previous declaration").Emit()
		return
	}
	if b.Body != nil {
		m.Bodies = append(m.Bodies, *b.Body)
	}
}

func (a *Assembler) applyExtension(b *directive.Block) {
	ext, _ := b.First(directive.CmdOverload)
	ownerName, methodName, ok := splitMemberName(ext.Token(0))
	if !ok {
		diag.ReportError(a.rep, diag.AnnoMalformedName, ext.Span,
			fmt.Sprintf("'@overload %s': expected 'Owner:name' or 'Owner.name'", ext.Token(0))).Emit()
		return
	}
	a.checkPlacement(b, directive.CmdMethod)

	var m *typegraph.Method
	owner, found := a.graph.Lookup(ownerName)
	if found {
		if member, ok := owner.Member(methodName); ok {
			m, _ = member.(*typegraph.Method)
		}
	}
	if m == nil {
		r := diag.ReportError(a.rep, diag.AnnoUnknownExtension, ext.Span,
			fmt.Sprintf("'@overload %s' extends a method that is not declared", ext.Token(0)))
		if found {
			if guess, ok := a.similarMethod(owner, methodName); ok {
				r = r.WithFix(fmt.Sprintf("extend '%s:%s'", owner.Name, guess), diag.FixEdit{
					Span:    ext.Span,
					OldText: ext.Token(0),
					NewText: strings.TrimSuffix(ext.Token(0), methodName) + guess,
				})
			}
		}
		r.Emit()
		return
	}

	for _, g := range overloadGroups(b.Directives, true) {
		m.Overloads = append(m.Overloads, a.buildOverload(owner, m, ext, g))
	}
	if b.Body != nil {
		m.Bodies = append(m.Bodies, *b.Body)
	}
}

func (a *Assembler) similarMethod(owner *typegraph.TypeEntity, name string) (string, bool) {
	methods := owner.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return typegraph.Nearest(name, names)
}

func (a *Assembler) fieldBlock(b *directive.Block, name directive.Directive) {
	ownerName, fieldName, ok := splitMemberName(name.Token(0))
	if !ok {
		diag.ReportError(a.rep, diag.AnnoMalformedName, name.Span,
			fmt.Sprintf("'@%s %s': expected 'Owner.NAME'", name.Command, name.Token(0))).Emit()
		return
	}
	owner := a.graph.GetOrCreate(ownerName, name.Span)
	base := typegraph.MemberBase{
		Name:        fieldName,
		Description: a.description(b, name, false),
		Span:        name.Span,
	}

	var m typegraph.Member
	switch name.Command {
	case directive.CmdConstant:
		m = &typegraph.Constant{MemberBase: base, Value: strings.Join(name.Tokens[1:], " ")}
	case directive.CmdFlag:
		m = &typegraph.Flag{MemberBase: base}
	case directive.CmdAttribute:
		typeName := name.Token(1)
		if typeName == "" {
			diag.ReportError(a.rep, diag.AnnoMalformedName, name.Span,
				fmt.Sprintf("'@attribute %s' needs a type", name.Token(0))).Emit()
			return
		}
		attr := &typegraph.Attribute{MemberBase: base, Type: a.resolve(typeName, name.Span)}
		for _, tok := range name.Tokens[2:] {
			if strings.EqualFold(tok, "readonly") {
				attr.ReadOnly = true
			}
		}
		m = attr
	}

	if existing, added := a.graph.AddMember(owner, m); !added {
		diag.ReportError(a.rep, diag.AnnoDuplicateMember, name.Span,
			fmt.Sprintf("'%s' already has a member named '%s'; this declaration is dropped", owner.Name, fieldName)).
			WithNote(existing.Pos(), "previous declaration").Emit()
	}
}

func (a *Assembler) registerBlock(name directive.Directive) {
	className := name.Token(0)
	if className == "" {
		return
	}
	t := a.graph.GetOrCreate(className)
	if !t.IsRegistered {
		t.IsRegistered = true
		t.Registration = name.Span
	}
}

// splitMemberName splits "Owner:name" or "Owner.name".
func splitMemberName(tok string) (owner, name string, ok bool) {
	i := strings.IndexByte(tok, ':')
	if i < 0 {
		i = strings.LastIndexByte(tok, '.')
	}
	if i <= 0 || i >= len(tok)-1 {
		return "", "", false
	}
	owner, name = tok[:i], tok[i+1:]
	if strings.ContainsAny(name, ":.") {
		return "", "", false
	}
	return owner, name, true
}
