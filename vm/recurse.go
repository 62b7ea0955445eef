package vm

import "github.com/coregx/pcre/compile"

// matchRecurse implements OP_RECURSE. Only whole-pattern recursion
// (group 0, i.e. "(?R)") is supported: the compiled Program carries no
// group-number-to-header-offset index, so there is no way to locate a
// specific numbered group's header for a targeted subroutine call — a
// reference to any other group reports CodeBadOption rather than
// silently recursing into the wrong place.
func (m *matcher) matchRecurse(ip, eptr, entry int, k cont) (bool, Code) {
	groupNum := int(compile.ReadU16(m.code, ip+1))
	if groupNum != 0 {
		return false, CodeBadOption
	}

	savedStart := append([]int(nil), m.capStart...)
	savedEnd := append([]int(nil), m.capEnd...)

	committed := false
	commitK := func(e int) (bool, Code) {
		m.commitEptr = e
		committed = true
		return true, CodeOK
	}

	ok, c := m.match(0, eptr, eptr, commitK)
	// Captures made inside the recursive sub-match never escape it,
	// whether or not the sub-match itself succeeded.
	copy(m.capStart, savedStart)
	copy(m.capEnd, savedEnd)
	if c != CodeOK {
		return false, c
	}
	if !ok || !committed {
		return false, CodeOK
	}

	return m.match(ip+3, m.commitEptr, entry, k)
}
