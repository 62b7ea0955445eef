package study

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/tables"
)

// Prune is spec.md §4.4's possessive-quantifier pass: walk the program
// looking for a MAX/MIN quantified singleton whose matched-byte set is
// disjoint from whatever immediately follows it, and rewrite it in place
// to the ONCE (possessive) variant of the same opcode — eliminating
// backtracking into an atom no subsequent path could ever need to give
// back. Scoped to single-atom repeats (Star/Plus/Upto on a literal, class,
// type, or "."); group repeats are left alone, since proving a group's own
// end-set disjoint from its follower needs walking every exit path through
// its branches, which this pass does not attempt. Safe by construction:
// it rewrites only when the two sets share no byte, so no subject string
// could ever have backtracked into the rewritten atom and succeeded where
// the possessive form now fails. Returns the number of opcodes rewritten.
func Prune(prog *compile.Program) int {
	code := prog.Code
	tbl := prog.Tables
	if tbl == nil {
		tbl = tables.Default()
	}
	rewrites := 0
	ip := 0
	for ip < len(code) {
		op := compile.Op(code[ip])
		width := compile.InstrWidth(code, ip)
		if width <= 0 {
			break
		}

		kind, shape, disc, ok := compile.DecodeQuantOp(op)
		repeatable := shape == compile.ShapeStar || shape == compile.ShapePlus || shape == compile.ShapeUpto
		pruneable := disc == compile.DiscMax || disc == compile.DiscMin
		if ok && repeatable && pruneable {
			var curSet [32]byte
			if unionQuantSet(&curSet, tbl, prog.DotAll, kind, code, ip) {
				nextBits, nextComplete, _ := firstSet(code, ip+width, tbl, prog.DotAll)
				if nextComplete && disjoint(curSet, nextBits) {
					compile.WriteOp(code, ip, compile.QuantOp(kind, shape, compile.DiscOnce))
					rewrites++
				}
			}
		}
		ip += width
	}
	return rewrites
}

func disjoint(a, b [32]byte) bool {
	for i := range a {
		if a[i]&b[i] != 0 {
			return false
		}
	}
	return true
}
