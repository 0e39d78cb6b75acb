package assemble

import (
	"errors"
	"fmt"
	"strings"

	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/source"
	"bindoc/internal/typegraph"
)

// group is the directives of one overload.
type group struct {
	span       source.Span
	directives []directive.Directive
}

// overloadGroups splits a block into overloads at each @overload. In a
// method block the directives before the first @overload form an overload
// only when they carry @param or @return; in an extension block the
// extension directive itself opens the first overload.
func overloadGroups(dirs []directive.Directive, extension bool) []group {
	var groups []group
	cur := -1
	separators := 0
	for _, d := range dirs {
		if d.Command == directive.CmdOverload {
			separators++
			groups = append(groups, group{span: d.Span})
			cur = len(groups) - 1
			continue
		}
		if d.Command != directive.CmdParam && d.Command != directive.CmdReturn {
			continue
		}
		if cur < 0 {
			groups = append(groups, group{span: d.Span})
			cur = 0
		}
		groups[cur].directives = append(groups[cur].directives, d)
		groups[cur].span = groups[cur].span.Cover(d.Span)
	}
	if !extension && separators == 0 && len(groups) == 0 {
		// a method without any @param/@return still has one (empty) overload
		groups = append(groups, group{})
	}
	return groups
}

func (a *Assembler) buildOverload(owner *typegraph.TypeEntity, m *typegraph.Method, name directive.Directive, g group) *typegraph.Overload {
	ov := &typegraph.Overload{Span: g.span}
	if ov.Span == (source.Span{}) {
		ov.Span = name.Span
	}
	var (
		returns   int
		noneAt    *directive.Directive
		seenNames = make(map[string]directive.Directive)
	)

	for i := range g.directives {
		d := g.directives[i]
		switch d.Command {
		case directive.CmdParam:
			p, err := parseParam(d)
			if err != nil {
				diag.ReportError(a.rep, diag.AnnoMalformedParam, d.Span,
					fmt.Sprintf("'@param %s': %v", d.Text(), err)).Emit()
				continue
			}
			if prev, dup := seenNames[p.Name]; dup {
				diag.ReportWarning(a.rep, diag.AnnoDuplicateParamName, d.Span,
					fmt.Sprintf("parameter '%s' is declared twice in one overload", p.Name)).
					WithNote(prev.Span, "first declared here").Emit()
			}
			seenNames[p.Name] = d
			ov.In = append(ov.In, typegraph.InParameter{
				Name:        p.Name,
				Type:        a.resolve(p.Type, d.Span),
				Description: p.Description,
				Optional:    p.Optional,
				Default:     p.Default,
			})

		case directive.CmdReturn:
			returns++
			r, err := parseReturn(d)
			if err != nil {
				diag.ReportError(a.rep, diag.AnnoMalformedReturn, d.Span,
					fmt.Sprintf("'@return': %v", err)).Emit()
				continue
			}
			if a.isNone(r.Type) {
				noneAt = &g.directives[i]
				continue
			}
			ov.Out = append(ov.Out, typegraph.OutParameter{
				Name:        r.Name,
				Type:        a.resolve(r.Type, d.Span),
				Description: r.Description,
			})
		}
	}

	switch {
	case returns == 0:
		diag.ReportError(a.rep, diag.AnnoMissingReturn, ov.Span,
			fmt.Sprintf("overload of '%s:%s' declares no '@return'; use '@return none' for no value", owner.Name, m.Name)).Emit()
	case noneAt != nil && len(ov.Out) > 0:
		diag.ReportWarning(a.rep, diag.AnnoMixedReturn, noneAt.Span,
			"'@return none' together with other return values; 'none' is ignored").Emit()
	case noneAt != nil:
		ov.NoReturn = true
	}

	a.checkSelf(owner, ov, g)
	a.checkOptionalOrder(ov, g)
	return ov
}

// checkSelf derives static-ness: an overload whose first input is named
// self is an instance method.
func (a *Assembler) checkSelf(owner *typegraph.TypeEntity, ov *typegraph.Overload, g group) {
	ov.Static = true
	params := paramDirectives(g)
	for i, p := range ov.In {
		if p.Name != "self" {
			continue
		}
		at := ov.Span
		if i < len(params) {
			at = params[i].Span
		}
		if i == 0 {
			ov.Static = false
			if p.Type != owner {
				diag.ReportWarning(a.rep, diag.AnnoSelfType, at,
					fmt.Sprintf("'self' has type '%s' but the method belongs to '%s'", p.Type.Name, owner.Name)).Emit()
			}
			continue
		}
		diag.ReportWarning(a.rep, diag.AnnoSelfPosition, at,
			fmt.Sprintf("'self' is parameter %d; only a first 'self' makes an instance method", i+1)).Emit()
	}
}

func (a *Assembler) checkOptionalOrder(ov *typegraph.Overload, g group) {
	params := paramDirectives(g)
	sawOptional := false
	for i, p := range ov.In {
		if p.Optional {
			sawOptional = true
			continue
		}
		if sawOptional {
			at := ov.Span
			if i < len(params) {
				at = params[i].Span
			}
			diag.ReportWarning(a.rep, diag.AnnoOptionalOrder, at,
				fmt.Sprintf("required parameter '%s' follows an optional one", p.Name)).Emit()
			return
		}
	}
}

// paramDirectives returns the well-formed @param directives of g, aligned
// with the overload's inputs.
func paramDirectives(g group) []directive.Directive {
	var out []directive.Directive
	for _, d := range g.directives {
		if d.Command != directive.CmdParam {
			continue
		}
		if _, err := parseParam(d); err == nil {
			out = append(out, d)
		}
	}
	return out
}

func (a *Assembler) isNone(typeName string) bool {
	if strings.EqualFold(typeName, "none") || strings.EqualFold(typeName, "nil") {
		return true
	}
	canon, ok := a.graph.Table().Canonical(typeName)
	return ok && canon == "none"
}

type paramDecl struct {
	Type        string
	Name        string
	Description string
	Optional    bool
	Default     string
}

var (
	errParamShape  = errors.New("expected 'type name description', 'type [name] description' or 'type [name=default] description'")
	errReturnShape = errors.New("expected 'type [name] description'")
)

// parseParam reads `type name desc`, `type [name] desc` or `type [name=default] desc`.
func parseParam(d directive.Directive) (paramDecl, error) {
	if len(d.Tokens) < 2 {
		return paramDecl{}, errParamShape
	}
	p := paramDecl{Type: d.Tokens[0], Description: strings.Join(d.Tokens[2:], " ")}
	name := d.Tokens[1]
	if strings.HasPrefix(name, "[") {
		if !strings.HasSuffix(name, "]") {
			return paramDecl{}, errParamShape
		}
		name = strings.TrimSpace(name[1 : len(name)-1])
		p.Optional = true
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			p.Default = strings.TrimSpace(name[eq+1:])
			name = strings.TrimSpace(name[:eq])
		}
	}
	if name == "" || strings.ContainsAny(name, "[]=") || strings.ContainsAny(p.Type, "[]") {
		return paramDecl{}, errParamShape
	}
	p.Name = name
	return p, nil
}

// parseReturn reads `type [name] desc`: the second token, when present, is
// the name; brackets around it are optional.
func parseReturn(d directive.Directive) (paramDecl, error) {
	if len(d.Tokens) == 0 {
		return paramDecl{}, errReturnShape
	}
	r := paramDecl{Type: d.Tokens[0]}
	if strings.ContainsAny(r.Type, "[]") {
		return paramDecl{}, errReturnShape
	}
	if len(d.Tokens) > 1 {
		r.Name = strings.TrimSuffix(strings.TrimPrefix(d.Tokens[1], "["), "]")
		r.Description = strings.Join(d.Tokens[2:], " ")
	}
	return r, nil
}
