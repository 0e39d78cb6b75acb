package directive

import (
	"strings"

	"bindoc/internal/source"
)

// Well-known commands. Anything else is preserved and diagnosed by the assembler.
const (
	CmdClass     = "class"
	CmdMethod    = "method"
	CmdOverload  = "overload"
	CmdConstant  = "constant"
	CmdFlag      = "flag"
	CmdAttribute = "attribute"
	CmdBrief     = "brief"
	CmdBase      = "base"
	CmdPrimitive = "primitive"
	CmdParam     = "param"
	CmdReturn    = "return"
	CmdRegister  = "register"
)

// Directive is one `@command token...` record of a comment block.
type Directive struct {
	Command string
	Tokens  []string
	Span    source.Span
}

// Text joins the tokens back into a single space-separated string.
func (d Directive) Text() string {
	return strings.Join(d.Tokens, " ")
}

// Token returns the i-th token or "" when absent.
func (d Directive) Token(i int) string {
	if i < 0 || i >= len(d.Tokens) {
		return ""
	}
	return d.Tokens[i]
}

// BodyEvent carries the raw text of a method body located after a block.
type BodyEvent struct {
	Span source.Span
	Text string
}

// Block groups the directives of one documentation comment.
type Block struct {
	File       source.FileID
	Path       string
	Span       source.Span
	Directives []Directive
	Body       *BodyEvent
}

// Find returns every directive with the given command, in order.
func (b *Block) Find(command string) []Directive {
	var out []Directive
	for _, d := range b.Directives {
		if d.Command == command {
			out = append(out, d)
		}
	}
	return out
}

// First returns the first directive with the given command.
func (b *Block) First(command string) (Directive, bool) {
	for _, d := range b.Directives {
		if d.Command == command {
			return d, true
		}
	}
	return Directive{}, false
}

// Has reports whether the block contains command.
func (b *Block) Has(command string) bool {
	_, ok := b.First(command)
	return ok
}

// Kind is the command of the first name directive, or "" when the block has none.
func (b *Block) Kind() string {
	for _, d := range b.Directives {
		if IsNameCommand(d.Command) {
			return d.Command
		}
	}
	return ""
}

// IsNameCommand reports whether command declares an entity.
func IsNameCommand(command string) bool {
	switch command {
	case CmdClass, CmdMethod, CmdConstant, CmdFlag, CmdAttribute, CmdRegister:
		return true
	}
	return false
}

// IsKnownCommand reports whether command belongs to the annotation vocabulary.
func IsKnownCommand(command string) bool {
	if IsNameCommand(command) {
		return true
	}
	switch command {
	case CmdOverload, CmdBrief, CmdBase, CmdPrimitive, CmdParam, CmdReturn:
		return true
	}
	return false
}
