package syntax

import "github.com/coregx/pcre/tables"

var posixClassNames = map[string]tables.ClassID{
	"digit":  tables.ClassDigit,
	"space":  tables.ClassSpace,
	"upper":  tables.ClassUpper,
	"lower":  tables.ClassLower,
	"alpha":  -1, // synthesized below as Upper|Lower
	"alnum":  -2, // synthesized as Upper|Lower|Digit
	"xdigit": tables.ClassXDigit,
	"print":  tables.ClassPrint,
	"punct":  tables.ClassPunct,
	"cntrl":  tables.ClassCntrl,
	"graph":  tables.ClassGraph,
	"blank":  tables.ClassBlank,
	"word":   tables.ClassWord,
}

func (p *parser) parseClass() (*Node, error) {
	start := p.pos
	p.pos++ // consume '['

	negate := false
	if c, ok := p.peek(); ok && c == '^' {
		negate = true
		p.pos++
	}

	var bits [32]byte
	first := true

	setByte := func(b byte) {
		bits[b>>3] |= 1 << (b & 7)
	}
	setRange := func(lo, hi byte) {
		for c := int(lo); c <= int(hi); c++ {
			setByte(byte(c))
		}
	}
	setClass := func(id tables.ClassID) {
		for i := 0; i < 256; i++ {
			if p.tbl.Test(id, byte(i)) {
				setByte(byte(i))
			}
		}
	}

	for {
		c, ok := p.peek()
		if !ok {
			return nil, newErr(start, errUnterminatedClass)
		}
		if c == ']' && !first {
			p.pos++
			break
		}
		first = false

		if c == '[' && p.pos+1 < len(p.pat) && (p.pat[p.pos+1] == ':' || p.pat[p.pos+1] == '.' || p.pat[p.pos+1] == '=') {
			kind := p.pat[p.pos+1]
			end := indexFrom(p.pat, p.pos+2, string([]byte{kind, ']'}))
			if end < 0 {
				return nil, newErr(start, errUnterminatedClass)
			}
			name := string(p.pat[p.pos+2 : end])
			if kind == ':' {
				id, ok := posixClassNames[name]
				if !ok {
					return nil, newErr(p.pos, errUnknownPOSIXClass)
				}
				switch id {
				case -1:
					setClass(tables.ClassUpper)
					setClass(tables.ClassLower)
				case -2:
					setClass(tables.ClassUpper)
					setClass(tables.ClassLower)
					setClass(tables.ClassDigit)
				default:
					setClass(id)
				}
			} else {
				return nil, newErr(p.pos, errCollatingElement)
			}
			p.pos = end + 2
			continue
		}

		if c == '\\' && p.pos+1 < len(p.pat) {
			if id, neg, ok := shorthandClass(p.pat[p.pos+1]); ok {
				p.pos += 2
				for i := 0; i < 256; i++ {
					member := p.tbl.Test(id, byte(i))
					if neg {
						member = !member
					}
					if member {
						setByte(byte(i))
					}
				}
				continue
			}
		}

		lo, err := p.classItemByte()
		if err != nil {
			return nil, err
		}
		if c2, ok := p.peek(); ok && c2 == '-' && p.pos+1 < len(p.pat) && p.pat[p.pos+1] != ']' {
			p.pos++ // consume '-'
			hi, err := p.classItemByte()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, newErr(start, errClassRangeOrder)
			}
			setRange(lo, hi)
			continue
		}
		setByte(lo)
	}

	if p.opts.Caseless {
		var folded [32]byte
		for i := 0; i < 256; i++ {
			if bits[i>>3]&(1<<(i&7)) != 0 {
				b := byte(i)
				folded[b>>3] |= 1 << (b & 7)
				f := p.tbl.Flip[b]
				folded[f>>3] |= 1 << (f & 7)
			}
		}
		bits = folded
	}

	if negate {
		for i := range bits {
			bits[i] = ^bits[i]
		}
	}

	return &Node{Kind: KClass, ClassBits: bits}, nil
}

// classItemByte returns a single literal byte from inside a bracket
// expression. Shorthand class escapes (\d \w \s and their uppercase
// negations) never reach it: parseClass's loop expands them through
// shorthandClass before calling classItemByte.
func (p *parser) classItemByte() (byte, error) {
	c, ok := p.peek()
	if !ok {
		return 0, newErr(p.pos, errUnterminatedClass)
	}
	if c != '\\' {
		p.pos++
		return c, nil
	}
	// Backslash inside a class: only the byte-literal escapes apply here
	// (shorthand classes like \d were already expanded by parseClass via
	// shorthandClass; this path only runs for escapes that resolve to
	// exactly one byte).
	start := p.pos
	p.pos++
	cc, ok := p.peek()
	if !ok {
		return 0, newErr(start, errLoneBackslash)
	}
	switch cc {
	case 'n':
		p.pos++
		return '\n', nil
	case 't':
		p.pos++
		return '\t', nil
	case 'r':
		p.pos++
		return '\r', nil
	case 'f':
		p.pos++
		return '\f', nil
	case 'v':
		p.pos++
		return '\v', nil
	case 'a':
		p.pos++
		return 0x07, nil
	case 'b':
		p.pos++
		return 0x08, nil
	case 'x':
		p.pos++
		n, err := p.parseHexEscape(start)
		if err != nil {
			return 0, err
		}
		return n.Lit[0], nil
	default:
		p.pos++
		return cc, nil
	}
}

// shorthandClass recognizes \d \D \s \S \w \W when used inside a bracket
// expression, per spec.md §4.3 ("recognize \d \D \s \S \w \W inside").
func shorthandClass(c byte) (tables.ClassID, bool, bool) {
	switch c {
	case 'd':
		return tables.ClassDigit, false, true
	case 'D':
		return tables.ClassDigit, true, true
	case 's':
		return tables.ClassSpace, false, true
	case 'S':
		return tables.ClassSpace, true, true
	case 'w':
		return tables.ClassWord, false, true
	case 'W':
		return tables.ClassWord, true, true
	}
	return 0, false, false
}

func indexFrom(s []byte, from int, sub string) int {
	if from > len(s) {
		return -1
	}
	rest := s[from:]
	for i := 0; i+len(sub) <= len(rest); i++ {
		if string(rest[i:i+len(sub)]) == sub {
			return from + i
		}
	}
	return -1
}
