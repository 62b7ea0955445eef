package compile

// TranslateBRE mechanically rewrites a POSIX Basic Regular Expression to
// the equivalent Extended Regular Expression text, per spec.md §4.3: BRE
// is never parsed directly, it is rewritten to ERE text and handed to the
// same ERE front-end POSIX ERE patterns use. Grounded on the BRE/ERE
// mapping documented for original_source/pcre/pcreposix.c's REG_BASIC path.
//
// The translation:
//   - \( \) become ( ) (BRE's group delimiters -> ERE's)
//   - ( ) become \( \) (ERE metacharacters are literal in BRE)
//   - \{ \} become { } (BRE's interval delimiters -> ERE's)
//   - { } become \{ \} (literal in BRE)
//   - \+  \?  \|  become + ? | (GNU BRE extension passthrough)
//   - + ? | become \+ \? \| (literal in BRE, no ERE meaning to preserve)
//   - * is literal when it is the first character of the expression or of
//     a subexpression (right after \( or ^); otherwise a quantifier in both
//     dialects, so it passes through unescaped.
//   - ^ is literal anywhere except at the very start of the expression or
//     immediately after \( ; $ is literal anywhere except at the very end
//     of the expression or immediately before \).
//   - Bracket expressions ([...]) are copied verbatim (their contents are
//     never reinterpreted by either dialect's outer translation rules).
func TranslateBRE(pattern []byte) ([]byte, error) {
	var out []byte
	atExprStart := true // true at the start of the whole pattern or a \(-delimited subexpression

	i := 0
	for i < len(pattern) {
		c := pattern[i]

		if c == '[' {
			end, err := bracketEnd(pattern, i)
			if err != nil {
				return nil, err
			}
			out = append(out, pattern[i:end]...)
			i = end
			atExprStart = false
			continue
		}

		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			switch next {
			case '(':
				out = append(out, '(')
				atExprStart = true
				i += 2
				continue
			case ')':
				out = append(out, ')')
				i += 2
				atExprStart = false
				continue
			case '{':
				out = append(out, '{')
				i += 2
				atExprStart = false
				continue
			case '}':
				out = append(out, '}')
				i += 2
				atExprStart = false
				continue
			case '+', '?', '|':
				out = append(out, next)
				i += 2
				atExprStart = false
				continue
			default:
				out = append(out, c, next)
				i += 2
				atExprStart = false
				continue
			}
		}

		switch c {
		case '(', ')', '{', '}', '+', '?', '|':
			out = append(out, '\\', c)
			atExprStart = false
		case '*':
			if atExprStart {
				out = append(out, '\\', '*')
			} else {
				out = append(out, '*')
			}
			atExprStart = false
		case '^':
			if atExprStart {
				out = append(out, '^')
			} else {
				out = append(out, '\\', '^')
			}
			atExprStart = false
		case '$':
			if isBREExprEnd(pattern, i) {
				out = append(out, '$')
			} else {
				out = append(out, '\\', '$')
			}
			atExprStart = false
		default:
			out = append(out, c)
			atExprStart = false
		}
		i++
	}
	return out, nil
}

// isBREExprEnd reports whether the '$' at pattern[i] sits at the end of
// the whole pattern or immediately before a "\)" subexpression closer —
// the only two positions BRE treats '$' as an anchor.
func isBREExprEnd(pattern []byte, i int) bool {
	if i == len(pattern)-1 {
		return true
	}
	return i+2 < len(pattern) && pattern[i+1] == '\\' && pattern[i+2] == ')'
}

// bracketEnd returns the offset just past a bracket expression starting
// at pattern[start] ('['), honoring a leading '^' negation and a leading
// ']' (or "^]") being a literal member rather than the closer.
func bracketEnd(pattern []byte, start int) (int, error) {
	i := start + 1
	if i < len(pattern) && pattern[i] == '^' {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for i < len(pattern) {
		if pattern[i] == '[' && i+1 < len(pattern) && (pattern[i+1] == ':' || pattern[i+1] == '.' || pattern[i+1] == '=') {
			kind := pattern[i+1]
			j := i + 2
			for j+1 < len(pattern) && !(pattern[j] == kind && pattern[j+1] == ']') {
				j++
			}
			if j+1 >= len(pattern) {
				return 0, newErr(start, errBRETranslate)
			}
			i = j + 2
			continue
		}
		if pattern[i] == ']' {
			return i + 1, nil
		}
		i++
	}
	return 0, newErr(start, errBRETranslate)
}
