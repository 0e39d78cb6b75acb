package signature

import (
	"fmt"
	"strings"
)

// Grouping controls how a composite node is bracketed.
type Grouping uint8

const (
	// GroupInline parenthesizes sequences and choices of more than one item.
	GroupInline Grouping = iota
	// GroupNone never parenthesizes.
	GroupNone
	// GroupParen is GroupInline, but an Option is wrapped in "(...)" instead of "[...]".
	GroupParen
)

func (g Grouping) String() string {
	switch g {
	case GroupInline:
		return "inline"
	case GroupNone:
		return "none"
	case GroupParen:
		return "paren"
	default:
		return fmt.Sprintf("Grouping(%d)", uint8(g))
	}
}

// ParseGrouping converts a flag value to Grouping.
func ParseGrouping(s string) (Grouping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inline":
		return GroupInline, nil
	case "none":
		return GroupNone, nil
	case "paren":
		return GroupParen, nil
	default:
		return GroupInline, fmt.Errorf("invalid grouping: %q (expected: inline|none|paren)", s)
	}
}

// RenderOptions configures Render.
type RenderOptions struct {
	ShowNames bool
	Grouping  Grouping
}

// Render returns the canonical text of n. A nil node renders as "".
func Render(n Node, opts RenderOptions) string {
	var sb strings.Builder
	render(&sb, n, opts.Grouping, opts.ShowNames)
	return sb.String()
}

func render(sb *strings.Builder, n Node, mode Grouping, names bool) {
	switch n := n.(type) {
	case *Leaf:
		sb.WriteString(n.Param.Type)
		if names && n.Param.Name != "" {
			sb.WriteByte(' ')
			sb.WriteString(n.Param.Name)
		}
	case *Sequence:
		renderList(sb, n.Items, ", ", mode, names)
	case *Choice:
		renderList(sb, n.Items, " | ", mode, names)
	case *Option:
		open, closing := "[", "]"
		if mode == GroupParen {
			open, closing = "(", ")"
		}
		sb.WriteString(open)
		render(sb, n.Child, GroupNone, names)
		sb.WriteString(closing)
	}
}

func renderList(sb *strings.Builder, items []Node, sep string, mode Grouping, names bool) {
	switch len(items) {
	case 0:
		return
	case 1:
		render(sb, items[0], mode, names)
		return
	}
	if mode != GroupNone {
		sb.WriteByte('(')
	}
	for i, it := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		render(sb, it, GroupInline, names)
	}
	if mode != GroupNone {
		sb.WriteByte(')')
	}
}
