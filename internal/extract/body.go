package extract

// locateBody finds the brace-delimited body that follows a method comment.
// The search runs over comment-free code from `from` up to `limit` and gives
// up at a top-level ';' or '}' (a declaration, or the end of the enclosing
// scope) before any body opens.
func locateBody(code []byte, from, limit int) (start, end int, ok bool) {
	depth := 0
	for i := from; i < limit; {
		switch c := code[i]; {
		case c == '\'' && i > 0 && isDigit(code[i-1]):
		case c == '"' || c == '\'':
			i = skipLiteral(code, i)
			continue
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ';' || c == '}':
			if depth == 0 {
				return 0, 0, false
			}
		case c == '{':
			if depth == 0 {
				e := matchBrace(code, i)
				if e < 0 {
					return 0, 0, false
				}
				return i, e, true
			}
		}
		i++
	}
	return 0, 0, false
}

// matchBrace returns the index just past the '}' matching the '{' at open,
// or -1 when the input ends first.
func matchBrace(code []byte, open int) int {
	depth := 0
	for i := open; i < len(code); {
		switch c := code[i]; {
		case c == '\'' && i > 0 && isDigit(code[i-1]):
		case c == '"' || c == '\'':
			i = skipLiteral(code, i)
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
		i++
	}
	return -1
}
