package extract

import "bytes"

// comment is one documentation comment found by the scanner.
type comment struct {
	start, end int    // byte range of the whole comment (or run of /// lines)
	lines      []line // content lines with decoration removed
	closed     bool   // false for a /** block that reaches end of file
}

// line is a piece of comment text and its byte offset in the source.
type line struct {
	off  int
	text string
}

// scanResult holds the doc comments and a copy of the source in which all
// comments are replaced by spaces (newlines kept), so later passes can
// search code without tripping over commented-out text.
type scanResult struct {
	comments []comment
	code     []byte
}

func scan(src []byte) scanResult {
	res := scanResult{code: append([]byte(nil), src...)}
	n := len(src)
	runOpen := false
	runEnd := 0

	for i := 0; i < n; {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			end := bytes.IndexByte(src[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			if isDocLine(src[i:end]) {
				ln := line{off: i + 3, text: string(src[i+3 : end])}
				if runOpen && gapContinuesRun(src[runEnd:i]) {
					last := &res.comments[len(res.comments)-1]
					last.lines = append(last.lines, ln)
					last.end = end
				} else {
					res.comments = append(res.comments, comment{start: i, end: end, lines: []line{ln}, closed: true})
				}
				runOpen, runEnd = true, end
			} else {
				runOpen = false
			}
			blank(res.code, i, end)
			i = end

		case c == '/' && i+1 < n && src[i+1] == '*':
			runOpen = false
			closeAt := bytes.Index(src[i+2:], []byte("*/"))
			end, closed := n, false
			if closeAt >= 0 {
				end, closed = i+2+closeAt+2, true
			}
			if isDocBlock(src[i:end]) {
				bodyEnd := end
				if closed {
					bodyEnd = end - 2
				}
				res.comments = append(res.comments, comment{
					start:  i,
					end:    end,
					lines:  blockLines(src, i+3, bodyEnd),
					closed: closed,
				})
			}
			blank(res.code, i, end)
			i = end

		case c == '\'' && i > 0 && isDigit(src[i-1]):
			// digit separator (1'000), not a literal
			runOpen = false
			i++

		case c == '"' || c == '\'':
			runOpen = false
			i = skipLiteral(src, i)

		default:
			if !isSpace(c) {
				runOpen = false
			}
			i++
		}
	}
	return res
}

// isDocLine reports whether a // comment is a /// doc line (but not ////).
func isDocLine(text []byte) bool {
	return len(text) >= 3 && text[2] == '/' && (len(text) == 3 || text[3] != '/')
}

// isDocBlock reports whether a /* comment is a /** doc block.
// `/**/` and banner comments starting with `/***` are ordinary comments.
func isDocBlock(text []byte) bool {
	if len(text) < 3 || text[2] != '*' {
		return false
	}
	if len(text) >= 4 && (text[3] == '/' || text[3] == '*') {
		return false
	}
	return true
}

// gapContinuesRun reports whether only whitespace with at most one line
// break separates two /// lines.
func gapContinuesRun(gap []byte) bool {
	newlines := 0
	for _, c := range gap {
		if !isSpace(c) {
			return false
		}
		if c == '\n' {
			newlines++
		}
	}
	return newlines <= 1
}

// blockLines splits the inside of a /** ... */ comment into lines, dropping
// the leading `*` decoration.
func blockLines(src []byte, from, to int) []line {
	var out []line
	start := from
	for i := from; i <= to; i++ {
		if i < to && src[i] != '\n' {
			continue
		}
		off, text := start, src[start:i]
		// trim indentation and a single leading '*'
		for len(text) > 0 && (text[0] == ' ' || text[0] == '\t') {
			text, off = text[1:], off+1
		}
		if len(text) > 0 && text[0] == '*' && start != from {
			text, off = text[1:], off+1
		}
		out = append(out, line{off: off, text: string(text)})
		start = i + 1
	}
	return out
}

// skipLiteral returns the index just past the string or character literal at i.
// Raw strings R"delim( ... )delim" are honoured.
func skipLiteral(src []byte, i int) int {
	n := len(src)
	quote := src[i]
	if quote == '"' && i > 0 && src[i-1] == 'R' {
		open := bytes.IndexByte(src[i+1:], '(')
		if open >= 0 {
			delim := src[i+1 : i+1+open]
			closing := append(append([]byte{')'}, delim...), '"')
			if end := bytes.Index(src[i+1+open:], closing); end >= 0 {
				return i + 1 + open + end + len(closing)
			}
			return n
		}
	}
	for j := i + 1; j < n; j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			// unterminated literal; resume on the next line
			return j
		}
	}
	return n
}

func blank(buf []byte, from, to int) {
	for i := from; i < to; i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
