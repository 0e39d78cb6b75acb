package assemble

import (
	"fmt"

	"bindoc/internal/diag"
	"bindoc/internal/directive"
	"bindoc/internal/source"
	"bindoc/internal/typegraph"
)

// Options configures an Assembler.
type Options struct {
	// CheckRegistration enables the documented/registered cross-check.
	CheckRegistration bool
}

// Summary counts what an assembly produced.
type Summary struct {
	Blocks     int
	Types      int
	Documented int
	Methods    int
	Overloads  int
	Compacted  int
	Failed     int
}

// Assembler turns directive blocks into types and members of a Graph.
// It is not safe for concurrent use; the driver feeds it from one goroutine.
type Assembler struct {
	graph *typegraph.Graph
	rep   diag.Reporter
	opts  Options

	defined    map[*typegraph.TypeEntity]source.Span // types defined by a class block
	extensions []directive.Block
	blocks     int
}

// New creates an Assembler writing into g and reporting to rep.
func New(g *typegraph.Graph, rep diag.Reporter, opts Options) *Assembler {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Assembler{
		graph:   g,
		rep:     rep,
		opts:    opts,
		defined: make(map[*typegraph.TypeEntity]source.Span),
	}
}

// Run assembles blocks into g and runs the post passes.
func Run(g *typegraph.Graph, blocks []directive.Block, rep diag.Reporter, opts Options) Summary {
	a := New(g, rep, opts)
	for i := range blocks {
		a.Block(&blocks[i])
	}
	return a.Finish()
}

// Graph returns the graph being assembled.
func (a *Assembler) Graph() *typegraph.Graph { return a.graph }

// Block processes one documentation block. Overload extension blocks are
// queued until Finish.
func (a *Assembler) Block(b *directive.Block) {
	a.blocks++
	for _, d := range b.Directives {
		if !directive.IsKnownCommand(d.Command) {
			diag.ReportWarning(a.rep, diag.AnnoUnknownDirective, d.Span,
				fmt.Sprintf("unknown directive '@%s'", d.Command)).Emit()
		}
	}

	names := nameDirectives(b)
	if len(names) == 0 {
		if ext, ok := b.First(directive.CmdOverload); ok && len(ext.Tokens) > 0 {
			a.extensions = append(a.extensions, *b)
			return
		}
		if hasKnown(b) {
			diag.ReportError(a.rep, diag.AnnoMissingName, b.Span,
				"documentation block has no name directive").Emit()
		}
		return
	}

	first := names[0]
	for _, d := range names[1:] {
		if d.Command != first.Command {
			diag.ReportError(a.rep, diag.AnnoConflictingKind, d.Span,
				fmt.Sprintf("'@%s' in a %s block; the block is treated as a %s", d.Command, first.Command, first.Command)).
				WithNote(first.Span, "block kind set here").Emit()
		} else {
			diag.ReportWarning(a.rep, diag.AnnoDuplicateName, d.Span,
				fmt.Sprintf("block has more than one '@%s'; using the first", d.Command)).
				WithNote(first.Span, "first name directive").Emit()
		}
	}
	a.checkPlacement(b, first.Command)

	switch first.Command {
	case directive.CmdClass:
		a.classBlock(b, first)
	case directive.CmdMethod:
		a.methodBlock(b, first)
	case directive.CmdConstant, directive.CmdFlag, directive.CmdAttribute:
		a.fieldBlock(b, first)
	case directive.CmdRegister:
		a.registerBlock(first)
	}
}

// Finish applies queued extensions and runs the post passes.
func (a *Assembler) Finish() Summary {
	for i := range a.extensions {
		a.applyExtension(&a.extensions[i])
	}
	a.extensions = nil

	a.graph.NormalizeRoot()
	a.reportUndocumented()
	a.reportCycles()
	if a.opts.CheckRegistration {
		a.crossCheckRegistration()
	}

	s := Summary{Blocks: a.blocks}
	for _, t := range a.graph.Types() {
		s.Types++
		if t.IsDocumented {
			s.Documented++
		}
		for _, m := range t.Methods() {
			s.Methods++
			s.Overloads += len(m.Overloads)
			m.Expanded = expandTrailingOptional(m.Overloads)
			if a.compact(m) {
				s.Compacted++
			} else {
				s.Failed++
			}
			a.checkBodies(m)
		}
	}
	return s
}

func nameDirectives(b *directive.Block) []directive.Directive {
	var out []directive.Directive
	for _, d := range b.Directives {
		if directive.IsNameCommand(d.Command) {
			out = append(out, d)
		}
	}
	return out
}

func hasKnown(b *directive.Block) bool {
	for _, d := range b.Directives {
		if directive.IsKnownCommand(d.Command) {
			return true
		}
	}
	return false
}

var allowed = map[string]map[string]bool{
	directive.CmdClass:     {directive.CmdBrief: true, directive.CmdBase: true, directive.CmdPrimitive: true},
	directive.CmdMethod:    {directive.CmdBrief: true, directive.CmdParam: true, directive.CmdReturn: true, directive.CmdOverload: true},
	directive.CmdConstant:  {directive.CmdBrief: true},
	directive.CmdFlag:      {directive.CmdBrief: true},
	directive.CmdAttribute: {directive.CmdBrief: true},
	directive.CmdRegister:  {},
}

func (a *Assembler) checkPlacement(b *directive.Block, kind string) {
	ok := allowed[kind]
	for _, d := range b.Directives {
		if directive.IsNameCommand(d.Command) || !directive.IsKnownCommand(d.Command) || ok[d.Command] {
			continue
		}
		diag.ReportWarning(a.rep, diag.AnnoMisplacedDirective, d.Span,
			fmt.Sprintf("'@%s' is not allowed in a %s block", d.Command, kind)).Emit()
	}
}

// description returns the text of the first @brief, diagnosing a missing
// one when required and any extra ones.
func (a *Assembler) description(b *directive.Block, name directive.Directive, required bool) string {
	briefs := b.Find(directive.CmdBrief)
	if len(briefs) == 0 {
		if required {
			diag.ReportWarning(a.rep, diag.AnnoMissingDescription, name.Span,
				fmt.Sprintf("'%s' has no '@brief' description", name.Token(0))).Emit()
		}
		return ""
	}
	for _, d := range briefs[1:] {
		diag.ReportWarning(a.rep, diag.AnnoDuplicateDescription, d.Span,
			"more than one '@brief'; using the first").
			WithNote(briefs[0].Span, "first description").Emit()
	}
	return briefs[0].Text()
}

// resolve maps a type name to an entity: exact, then alias, else a
// placeholder that the undocumented-type pass will report.
func (a *Assembler) resolve(name string, at source.Span) *typegraph.TypeEntity {
	t, mode, ok := a.graph.Match(name, typegraph.Strict|typegraph.FindSynonyms, nil)
	if !ok {
		return a.graph.GetOrCreate(name, at)
	}
	a.graph.AddReference(t, at)
	if mode == typegraph.FindSynonyms {
		diag.ReportInfo(a.rep, diag.TypeSynonym, at,
			fmt.Sprintf("'%s' is an alias of '%s'", name, t.Name)).
			WithFix(fmt.Sprintf("write '%s'", t.Name), diag.FixEdit{Span: at, OldText: name, NewText: t.Name}).Emit()
	}
	return t
}
