package vm

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/tables"
)

// matchQuant handles a quantified single-atom opcode: mandatory
// repetitions are consumed with no possibility of backtracking into them
// (PCRE never backtracks inside the guaranteed minimum), then the
// remaining optional repetitions are explored per shape/discipline.
func (m *matcher) matchQuant(kind compile.SingletonKind, shape compile.Shape, disc compile.Discipline, ip, eptr, entry int, k cont) (bool, Code) {
	code := m.code
	width := compile.InstrWidth(code, ip)
	stepK := func(e int) (bool, Code) { return m.match(ip+width, e, entry, k) }
	extra := 0
	if shape == compile.ShapeUpto || shape == compile.ShapeExact {
		extra = 2
	}
	operand := code[ip+1 : ip+1+width-1-extra]

	min, max := 0, -1
	switch shape {
	case compile.ShapeStar:
		min, max = 0, -1
	case compile.ShapePlus:
		min, max = 1, -1
	case compile.ShapeQuery:
		min, max = 0, 1
	case compile.ShapeUpto:
		count := int(compile.ReadU16(code, ip+width-2))
		min, max = 0, count
	case compile.ShapeExact:
		count := int(compile.ReadU16(code, ip+width-2))
		min, max = count, count
	}

	pos := eptr
	for i := 0; i < min; i++ {
		next, ok := m.consumeOne(kind, operand, pos)
		if !ok {
			return false, CodeOK
		}
		pos = next
	}
	if max >= 0 && min == max {
		return stepK(pos)
	}

	remaining := -1
	if max >= 0 {
		remaining = max - min
	}

	switch disc {
	case compile.DiscOnce:
		return m.possessiveQuant(kind, operand, pos, remaining, stepK)
	case compile.DiscMin:
		return m.reluctantQuant(kind, operand, pos, remaining, stepK)
	default:
		return m.greedyQuant(kind, operand, pos, remaining, stepK)
	}
}

// greedyQuant consumes as much as possible (up to remaining, or until
// consumeOne fails when remaining < 0) before trying cont, backtracking
// one repetition at a time on failure.
func (m *matcher) greedyQuant(kind compile.SingletonKind, operand []byte, pos, remaining int, k cont) (bool, Code) {
	if remaining == 0 {
		return k(pos)
	}
	m.depth++
	if m.depth > m.maxDepth {
		m.depth--
		return false, CodeNoMemory
	}
	defer func() { m.depth-- }()
	next, ok := m.consumeOne(kind, operand, pos)
	if ok {
		nextRemaining := remaining
		if nextRemaining > 0 {
			nextRemaining--
		}
		matched, c := m.greedyQuant(kind, operand, next, nextRemaining, k)
		if c != CodeOK || matched {
			return matched, c
		}
	}
	return k(pos)
}

// reluctantQuant tries cont first at every step before consuming one more.
func (m *matcher) reluctantQuant(kind compile.SingletonKind, operand []byte, pos, remaining int, k cont) (bool, Code) {
	ok, c := k(pos)
	if c != CodeOK || ok {
		return ok, c
	}
	if remaining == 0 {
		return false, CodeOK
	}
	next, consumed := m.consumeOne(kind, operand, pos)
	if !consumed {
		return false, CodeOK
	}
	nextRemaining := remaining
	if nextRemaining > 0 {
		nextRemaining--
	}
	if next == pos {
		// Zero-width atom (e.g. an unset backreference match) would loop
		// forever; one step is enough to prove it can't make progress.
		return false, CodeOK
	}
	m.depth++
	if m.depth > m.maxDepth {
		m.depth--
		return false, CodeNoMemory
	}
	defer func() { m.depth-- }()
	return m.reluctantQuant(kind, operand, next, nextRemaining, k)
}

// possessiveQuant consumes the maximal run up front with no fallback,
// then calls cont exactly once.
func (m *matcher) possessiveQuant(kind compile.SingletonKind, operand []byte, pos, remaining int, k cont) (bool, Code) {
	for remaining != 0 {
		next, ok := m.consumeOne(kind, operand, pos)
		if !ok || next == pos {
			break
		}
		pos = next
		if remaining > 0 {
			remaining--
		}
	}
	return k(pos)
}

// consumeOne attempts to match one occurrence of the quantified atom at
// pos, returning the position just past it.
func (m *matcher) consumeOne(kind compile.SingletonKind, operand []byte, pos int) (int, bool) {
	switch kind {
	case compile.SKLiteral, compile.SKNotLiteral:
		if pos >= len(m.subject) {
			return pos, false
		}
		want := operand[0]
		got := m.subject[pos]
		var eq bool
		if m.caseless {
			eq = m.tbl.Lower[want] == m.tbl.Lower[got]
		} else {
			eq = want == got
		}
		if kind == compile.SKNotLiteral {
			eq = !eq
		}
		if !eq {
			return pos, false
		}
		return pos + 1, true

	case compile.SKType, compile.SKNotType:
		if pos >= len(m.subject) {
			return pos, false
		}
		has := ctypeMatches(m.tbl, operand[0], m.subject[pos])
		if kind == compile.SKNotType {
			has = !has
		}
		if !has {
			return pos, false
		}
		return pos + 1, true

	case compile.SKClass:
		if pos >= len(m.subject) || !classMatches(operand, m.subject[pos]) {
			return pos, false
		}
		return pos + 1, true

	case compile.SKAny:
		if pos >= len(m.subject) {
			return pos, false
		}
		if m.subject[pos] == '\n' && !m.dotAll {
			return pos, false
		}
		return pos + 1, true

	case compile.SKBackRef:
		ref := int(compile.ReadU16(operand, 0))
		start, end := m.capStart[ref], m.capEnd[ref]
		if start < 0 || end < 0 {
			return pos, false
		}
		n := end - start
		if pos+n > len(m.subject) {
			return pos, false
		}
		want := m.subject[start:end]
		got := m.subject[pos : pos+n]
		for i := 0; i < n; i++ {
			var eq bool
			if m.caseless {
				eq = m.tbl.Lower[want[i]] == m.tbl.Lower[got[i]]
			} else {
				eq = want[i] == got[i]
			}
			if !eq {
				return pos, false
			}
		}
		return pos + n, true

	default:
		return pos, false
	}
}

func classMatches(bitmap []byte, c byte) bool {
	return bitmap[c>>3]&(1<<(c&7)) != 0
}

func ctypeMatches(tbl *tables.Tables, typeOperand byte, c byte) bool {
	neg := typeOperand&compile.CTypeNegateBit != 0
	ctype := tables.CType(typeOperand &^ compile.CTypeNegateBit)
	has := tbl.Type[c]&ctype != 0
	return has != neg
}
