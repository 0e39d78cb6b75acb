package extract

import (
	"strings"

	"bindoc/internal/directive"
)

// parseDirectives splits the lines of a doc comment into directives.
// A line starting with '@' opens a directive; following non-empty lines
// extend its tokens. An empty line ends the current directive, so free-form
// prose after a blank line is ignored.
func parseDirectives(c *comment, mk spanMaker) []directive.Directive {
	var out []directive.Directive
	cur := -1
	for _, ln := range c.lines {
		text := strings.TrimRight(ln.text, " \t\r")
		body := strings.TrimLeft(text, " \t")
		if body == "" {
			cur = -1
			continue
		}
		off := ln.off + len(text) - len(body)

		if body[0] == '@' && len(body) > 1 && isCommandStart(body[1]) {
			cmdEnd := strings.IndexAny(body, " \t")
			if cmdEnd < 0 {
				cmdEnd = len(body)
			}
			out = append(out, directive.Directive{
				Command: body[1:cmdEnd],
				Tokens:  splitTokens(body[cmdEnd:]),
				Span:    mk(off, off+len(body)),
			})
			cur = len(out) - 1
			continue
		}
		if cur >= 0 {
			out[cur].Tokens = append(out[cur].Tokens, splitTokens(body)...)
			out[cur].Span.End = mk(off, off+len(body)).End
		}
	}
	return out
}

// splitTokens splits on whitespace but keeps a bracketed group such as
// `[name=1, 2]` in one token.
func splitTokens(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		if strings.HasPrefix(tok, "[") {
			for depth := bracketDepth(tok); depth > 0 && i+1 < len(fields); depth = bracketDepth(tok) {
				i++
				tok += " " + fields[i]
			}
		}
		out = append(out, tok)
	}
	return out
}

func bracketDepth(s string) int {
	return strings.Count(s, "[") - strings.Count(s, "]")
}

func isCommandStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
