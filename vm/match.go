package vm

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/tables"
)

// match dispatches on the opcode at ip. entry is the subject position at
// which the innermost currently-open bracket was entered — Ket-family
// dispatch uses it to detect a zero-length loop iteration and break out
// rather than recurse forever. cont is "what to do once this opcode (and
// everything after it up to the next bracket boundary) has matched."
func (m *matcher) match(ip, eptr, entry int, k cont) (bool, Code) {
	m.depth++
	if m.depth > m.maxDepth {
		m.depth--
		return false, CodeNoMemory
	}
	defer func() { m.depth-- }()

	code := m.code
	op := compile.Op(code[ip])

	switch op {
	case compile.OpEnd:
		return k(eptr)

	case compile.OpBra, compile.OpOnce, compile.OpAssert, compile.OpAssertNot,
		compile.OpAssertBack, compile.OpAssertBackNot, compile.OpCond:
		after := compile.BracketEnd(code, ip)
		selfCont := func(e int) (bool, Code) { return m.match(after, e, entry, k) }
		return m.dispatchBracket(op, ip, eptr, selfCont)

	case compile.OpKet, compile.OpKetMaxStar, compile.OpKetMinStar, compile.OpKetOnceStar:
		return m.matchKet(op, ip, eptr, entry, k)

	case compile.OpBraZero, compile.OpBraMinZero:
		return m.matchOptional(op, ip, eptr, entry, k)

	case compile.OpAlt:
		// Only ever reached by falling off the end of a preceding branch's
		// content without hitting that branch's own Ket/Alt terminator
		// first, which the bytecode layout never produces — alternation
		// retry is driven entirely by tryBranches walking header "next"
		// pointers, never by stepping onto an OpAlt in the main dispatch.
		return false, CodeUnknownNode

	case compile.OpChars:
		n := int(code[ip+1])
		return m.matchChars(ip, n, eptr, func(e int) (bool, Code) {
			return m.match(ip+2+n, e, entry, k)
		})

	case compile.OpAny:
		if eptr >= len(m.subject) || (m.subject[eptr] == '\n' && !m.dotAll) {
			return false, CodeOK
		}
		return m.match(ip+1, eptr+1, entry, k)

	case compile.OpClass:
		if eptr >= len(m.subject) || !classMatches(code[ip+1:ip+33], m.subject[eptr]) {
			return false, CodeOK
		}
		return m.match(ip+33, eptr+1, entry, k)

	case compile.OpCharType:
		if eptr >= len(m.subject) || !ctypeMatches(m.tbl, code[ip+1], m.subject[eptr]) {
			return false, CodeOK
		}
		return m.match(ip+2, eptr+1, entry, k)

	case compile.OpCirc:
		if !m.atLineStart(eptr) {
			return false, CodeOK
		}
		return m.match(ip+1, eptr, entry, k)

	case compile.OpDoll:
		if !m.atLineEnd(eptr) {
			return false, CodeOK
		}
		return m.match(ip+1, eptr, entry, k)

	case compile.OpSOD:
		if eptr != 0 {
			return false, CodeOK
		}
		return m.match(ip+1, eptr, entry, k)

	case compile.OpEOD:
		if eptr != len(m.subject) {
			return false, CodeOK
		}
		return m.match(ip+1, eptr, entry, k)

	case compile.OpEOSNL:
		if eptr != len(m.subject) && !(eptr == len(m.subject)-1 && m.subject[eptr] == '\n') {
			return false, CodeOK
		}
		return m.match(ip+1, eptr, entry, k)

	case compile.OpAnchorG:
		if eptr != m.anchorPos {
			return false, CodeOK
		}
		return m.match(ip+1, eptr, entry, k)

	case compile.OpWordB:
		negate := code[ip+1] != 0
		if m.atWordBoundary(eptr) == negate {
			return false, CodeOK
		}
		return m.match(ip+2, eptr, entry, k)

	case compile.OpWordEdge:
		start := code[ip+1] != 0
		before := eptr > 0 && isWordByte(m.tbl, m.subject[eptr-1])
		after := eptr < len(m.subject) && isWordByte(m.tbl, m.subject[eptr])
		var holds bool
		if start {
			holds = !before && after
		} else {
			holds = before && !after
		}
		if !holds {
			return false, CodeOK
		}
		return m.match(ip+2, eptr, entry, k)

	case compile.OpBackRef:
		return m.matchBackref(ip, eptr, func(e int) (bool, Code) {
			return m.match(ip+3, e, entry, k)
		})

	case compile.OpRecurse:
		return m.matchRecurse(ip, eptr, entry, k)

	case compile.OpCRef, compile.OpReverse:
		// Only ever appear as OpCond's own pre-branch operand, consumed
		// directly by matchCond — never stepped onto from here.
		return false, CodeUnknownNode

	default:
		kind, shape, disc, ok := compile.DecodeQuantOp(op)
		if !ok {
			return false, CodeUnknownNode
		}
		return m.matchQuant(kind, shape, disc, ip, eptr, entry, k)
	}
}

// dispatchBracket routes a bracket header to the handler appropriate for
// its opening opcode. selfCont already captures "what comes after the
// whole construct" — every handler threads it unchanged through the
// construct's own content.
func (m *matcher) dispatchBracket(op compile.Op, headerIP, eptr int, selfCont cont) (bool, Code) {
	switch op {
	case compile.OpOnce:
		return m.matchAtomic(headerIP, eptr, selfCont)
	case compile.OpAssert, compile.OpAssertNot:
		return m.matchAssertion(op, headerIP, eptr, selfCont)
	case compile.OpAssertBack, compile.OpAssertBackNot:
		return m.matchAssertion(op, headerIP, eptr, selfCont)
	case compile.OpCond:
		return m.matchCond(headerIP, eptr, selfCont)
	default: // OpBra
		return m.matchGroup(headerIP, eptr, selfCont)
	}
}

// tryBranches walks the sibling-branch chain starting at headerIP (every
// branch's own header carries its "next" field pointing at the next
// sibling header, or at the offset right after the whole construct for
// the last branch), trying each branch's content with cont in turn.
func (m *matcher) tryBranches(headerIP, eptr int, entry int, k cont) (bool, Code) {
	code := m.code
	after := compile.BracketEnd(code, headerIP)
	h := headerIP
	for {
		ok, c := m.match(h+5, eptr, entry, k)
		if c != CodeOK {
			return false, c
		}
		if ok {
			return true, CodeOK
		}
		next := compile.ReadU16(code, h+3)
		if int(next) == after || int(next) <= h {
			return false, CodeOK
		}
		h = int(next)
	}
}

// matchGroup matches a non-atomic OpBra construct, saving and restoring
// the group's own capture span around alternation so a failed attempt
// never leaves a stale capture behind for the next branch or the next
// backtrack into this group.
func (m *matcher) matchGroup(headerIP, eptr int, k cont) (bool, Code) {
	code := m.code
	groupNum := int(compile.ReadU16(code, headerIP+1))
	if groupNum <= 0 {
		return m.tryBranches(headerIP, eptr, eptr, k)
	}
	savedStart, savedEnd := m.capStart[groupNum], m.capEnd[groupNum]
	ok, c := m.tryBranches(headerIP, eptr, eptr, k)
	if c != CodeOK || !ok {
		m.capStart[groupNum], m.capEnd[groupNum] = savedStart, savedEnd
	}
	return ok, c
}

// matchAtomic implements OpOnce: explore the group's alternatives using
// the normal greedy reentry machinery but commit to the first successful
// position, discarding any possibility of backtracking back into it.
func (m *matcher) matchAtomic(headerIP, eptr int, k cont) (bool, Code) {
	committed := false
	commitK := func(e int) (bool, Code) {
		m.commitEptr = e
		committed = true
		return true, CodeOK
	}
	ok, c := m.tryBranches(headerIP, eptr, eptr, commitK)
	if c != CodeOK {
		return false, c
	}
	if !ok || !committed {
		return false, CodeOK
	}
	return k(m.commitEptr)
}

// matchAssertion evaluates a lookaround without ever advancing eptr: a
// positive assertion continues from the original eptr on success; a
// negative one continues from it on failure. Lookbehind headers are
// preceded by an OpReverse giving the fixed length to step back first.
func (m *matcher) matchAssertion(op compile.Op, headerIP, eptr int, k cont) (bool, Code) {
	negative := op == compile.OpAssertNot || op == compile.OpAssertBackNot
	startEptr := eptr
	if op == compile.OpAssertBack || op == compile.OpAssertBackNot {
		length := int(compile.ReadU16(m.code, headerIP-2))
		startEptr = eptr - length
		if startEptr < 0 {
			if negative {
				return k(eptr)
			}
			return false, CodeOK
		}
	}

	matched := false
	commitK := func(e int) (bool, Code) {
		matched = true
		return true, CodeOK
	}
	_, c := m.tryBranches(headerIP, startEptr, startEptr, commitK)
	if c != CodeOK {
		return false, c
	}
	if matched == negative {
		return false, CodeOK
	}
	return k(eptr)
}

// matchCond evaluates an OpCond header: its first branch's content is
// preceded by either an OpCRef (group-set test) or a nested assertion
// header (the condition itself); an else branch is present exactly when
// the header's own "next" field doesn't already point past the whole
// construct.
func (m *matcher) matchCond(headerIP, eptr int, k cont) (bool, Code) {
	code := m.code
	after := compile.BracketEnd(code, headerIP)
	thenNext := int(compile.ReadU16(code, headerIP+3))
	hasElse := thenNext != after

	pre := headerIP + 5
	preOp := compile.Op(code[pre])

	var holds bool
	var thenIP int
	switch preOp {
	case compile.OpCRef:
		ref := int(compile.ReadU16(code, pre+1))
		holds = m.capStart[ref] >= 0 && m.capEnd[ref] >= 0
		thenIP = pre + 3

	case compile.OpReverse:
		length := int(compile.ReadU16(code, pre+1))
		assertHeader := pre + 3
		assertOp := compile.Op(code[assertHeader])
		start := eptr - length
		if start < 0 {
			holds = assertOp == compile.OpAssertBackNot
		} else {
			matched := false
			commitK := func(e int) (bool, Code) { matched = true; return true, CodeOK }
			_, c := m.tryBranches(assertHeader, start, start, commitK)
			if c != CodeOK {
				return false, c
			}
			holds = matched
			if assertOp == compile.OpAssertBackNot {
				holds = !matched
			}
		}
		thenIP = compile.BracketEnd(code, assertHeader)

	default: // nested lookahead header (OpAssert/OpAssertNot)
		matched := false
		commitK := func(e int) (bool, Code) { matched = true; return true, CodeOK }
		_, c := m.tryBranches(pre, eptr, eptr, commitK)
		if c != CodeOK {
			return false, c
		}
		holds = matched
		if preOp == compile.OpAssertNot {
			holds = !matched
		}
		thenIP = compile.BracketEnd(code, pre)
	}

	if holds {
		return m.match(thenIP, eptr, eptr, k)
	}
	if !hasElse {
		return k(eptr)
	}
	return m.match(thenNext+5, eptr, eptr, k)
}

// matchKet closes a bracketed construct. braBack points at branch 0's
// header, which is the only branch whose groupNum field is meaningful.
func (m *matcher) matchKet(op compile.Op, ip, eptr, entry int, k cont) (bool, Code) {
	code := m.code
	braBack := int(compile.ReadU16(code, ip+1))
	groupNum := int(compile.ReadU16(code, braBack+1))

	finish := func(e int) (bool, Code) {
		if groupNum <= 0 {
			return k(e)
		}
		savedStart, savedEnd := m.capStart[groupNum], m.capEnd[groupNum]
		m.capStart[groupNum] = entry
		m.capEnd[groupNum] = e
		ok, c := k(e)
		if c != CodeOK || !ok {
			m.capStart[groupNum], m.capEnd[groupNum] = savedStart, savedEnd
		}
		return ok, c
	}

	if op == compile.OpKet || eptr == entry {
		return finish(eptr)
	}

	// reenter tries one more iteration of the group, threading the REAL
	// outer continuation straight through (not finish): whichever nested
	// iteration eventually decides to stop looping calls finish exactly
	// once, with its own entry/eptr, and chains to k directly from there.
	// Threading finish itself here would re-run finish's capture write at
	// every enclosing level on the way back out, clobbering the innermost
	// (correct, "last iteration") capture with an outer, stale one.
	reenter := func(e int) (bool, Code) {
		return m.matchGroup(braBack, e, k)
	}

	switch op {
	case compile.OpKetMinStar:
		ok, c := finish(eptr)
		if c != CodeOK || ok {
			return ok, c
		}
		return reenter(eptr)

	case compile.OpKetOnceStar:
		committed := false
		commitK := func(e int) (bool, Code) {
			m.commitEptr = e
			committed = true
			return true, CodeOK
		}
		ok, c := m.matchGroup(braBack, eptr, commitK)
		if c != CodeOK {
			return false, c
		}
		if ok && committed {
			// A deeper iteration already ran finish (and wrote the
			// capture) on its way to this commitK; hand off to the real
			// continuation directly rather than re-finishing here.
			return k(m.commitEptr)
		}
		return finish(eptr)

	default: // OpKetMaxStar
		ok, c := reenter(eptr)
		if c != CodeOK || ok {
			return ok, c
		}
		return finish(eptr)
	}
}

// matchOptional handles OpBraZero/OpBraMinZero: the group that follows
// may be skipped entirely. A possessive tail (terminated by
// OpKetOnceStar) commits to taking the group if it can be taken at all,
// with no fallback to skipping once a commit attempt has run.
func (m *matcher) matchOptional(op compile.Op, ip, eptr, entry int, k cont) (bool, Code) {
	headerIP := ip + 1
	after := compile.BracketEnd(m.code, headerIP)
	ketIP := after - 3
	possessive := compile.Op(m.code[ketIP]) == compile.OpKetOnceStar

	selfCont := func(e int) (bool, Code) { return m.match(after, e, entry, k) }

	if possessive {
		committed := false
		commitK := func(e int) (bool, Code) {
			m.commitEptr = e
			committed = true
			return true, CodeOK
		}
		ok, c := m.matchGroup(headerIP, eptr, commitK)
		if c != CodeOK {
			return false, c
		}
		if ok && committed {
			return selfCont(m.commitEptr)
		}
		return selfCont(eptr)
	}

	take := func() (bool, Code) { return m.matchGroup(headerIP, eptr, selfCont) }
	skip := func() (bool, Code) { return selfCont(eptr) }

	if op == compile.OpBraZero {
		ok, c := take()
		if c != CodeOK || ok {
			return ok, c
		}
		return skip()
	}
	ok, c := skip()
	if c != CodeOK || ok {
		return ok, c
	}
	return take()
}

// matchChars matches the n-byte literal run emitted by OpChars at ip,
// calling k with the position just past it on success.
func (m *matcher) matchChars(ip, n, eptr int, k cont) (bool, Code) {
	code := m.code
	lit := code[ip+2 : ip+2+n]
	if eptr+n > len(m.subject) {
		return false, CodeOK
	}
	subj := m.subject[eptr : eptr+n]
	if m.caseless {
		for i := 0; i < n; i++ {
			if m.tbl.Lower[lit[i]] != m.tbl.Lower[subj[i]] {
				return false, CodeOK
			}
		}
	} else {
		for i := 0; i < n; i++ {
			if lit[i] != subj[i] {
				return false, CodeOK
			}
		}
	}
	return k(eptr + n)
}

// matchBackref compares the subject at eptr against the span already
// captured by group ref, failing if that group never matched.
func (m *matcher) matchBackref(ip, eptr int, k cont) (bool, Code) {
	ref := int(compile.ReadU16(m.code, ip+1))
	start, end := m.capStart[ref], m.capEnd[ref]
	if start < 0 || end < 0 {
		return false, CodeOK
	}
	n := end - start
	if eptr+n > len(m.subject) {
		return false, CodeOK
	}
	want := m.subject[start:end]
	got := m.subject[eptr : eptr+n]
	if m.caseless {
		for i := 0; i < n; i++ {
			if m.tbl.Lower[want[i]] != m.tbl.Lower[got[i]] {
				return false, CodeOK
			}
		}
	} else {
		for i := 0; i < n; i++ {
			if want[i] != got[i] {
				return false, CodeOK
			}
		}
	}
	return k(eptr + n)
}

func (m *matcher) atLineStart(eptr int) bool {
	if eptr == 0 {
		return !m.opts.NotBOL
	}
	return m.multiline && m.subject[eptr-1] == '\n'
}

func (m *matcher) atLineEnd(eptr int) bool {
	if eptr == len(m.subject) {
		return !m.opts.NotEOL
	}
	if m.subject[eptr] == '\n' {
		if eptr == len(m.subject)-1 {
			return !m.opts.NotEOL
		}
		return m.multiline
	}
	return false
}

func (m *matcher) atWordBoundary(eptr int) bool {
	before := eptr > 0 && isWordByte(m.tbl, m.subject[eptr-1])
	after := eptr < len(m.subject) && isWordByte(m.tbl, m.subject[eptr])
	return before != after
}

func isWordByte(tbl *tables.Tables, b byte) bool {
	return tbl.Type[b]&tables.CTWord != 0
}
