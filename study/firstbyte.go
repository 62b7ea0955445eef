package study

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/tables"
)

// buildStartBits grounds spec.md §4.4's first-byte bitmap: "scan branches
// collecting every byte that could start the pattern... respects... the
// recursive start-bits of assertions and zero-bound groups... returns
// failure if any branch start is undetermined." A group is only treated as
// possibly zero-width (so the scan also unions in whatever follows it) when
// it is itself wrapped by a BRAZERO/BRAMINZERO marker — i.e. it came from a
// `?`/`*`/bounded-tail quantifier. A group with no such marker is treated
// as required and stops the scan right after it, the same simplification
// sizeGroupRepeat and friends make elsewhere: a required group's own
// content being independently nullable (e.g. "(a*)b" also starting with
// 'b') is not detected. This is a documented scope cut, not an oversight.
func buildStartBits(prog *compile.Program) *[32]byte {
	code := prog.Code
	if len(code) == 0 || compile.Op(code[0]) != compile.OpBra {
		return nil
	}
	tbl := prog.Tables
	if tbl == nil {
		tbl = tables.Default()
	}
	bits, complete := groupUnionSet(code, 0, tbl, prog.DotAll)
	if !complete {
		return nil
	}
	out := bits
	return &out
}

// groupUnionSet unions the first-byte set across every branch of the
// bracketed construct opening at headerIP.
func groupUnionSet(code []byte, headerIP int, tbl *tables.Tables, dotAll bool) ([32]byte, bool) {
	var bits [32]byte
	complete := true
	ip := headerIP
	for {
		contentStart := ip + 5
		b, c, term := firstSet(code, contentStart, tbl, dotAll)
		unionBits(&bits, b)
		if !c {
			complete = false
		}
		if term >= len(code) {
			break
		}
		if compile.Op(code[term]) == compile.OpAlt {
			ip = term + 3
			continue
		}
		break
	}
	return bits, complete
}

// firstSet scans one branch's flat term sequence starting at ip, unioning
// in the start set of every optional (possibly zero-width) leading item
// until it reaches either a required item (whose own set is the final
// contribution) or the branch's own terminator (OpAlt/Ket-family, at
// offset termIP) having found nothing but optional/zero-width items.
func firstSet(code []byte, ip int, tbl *tables.Tables, dotAll bool) (bits [32]byte, complete bool, termIP int) {
	complete = true
	settled := false // true once a required/undetermined item fixes the set; keep
	// walking past it (without touching bits) only to locate this branch's
	// own terminator, so groupUnionSet can still find sibling branches.
	pendingOptional := false // set by a BRAZERO/BRAMINZERO marker for the group that follows it
	for ip < len(code) {
		op := compile.Op(code[ip])
		switch {
		case op == compile.OpEnd:
			// True end of the whole program: nothing can follow, so the
			// empty set returned here is vacuously disjoint from anything
			// a caller compares it against (used by the possessive-pruning
			// pass to recognize a quantifier at the very end of a pattern).
			if !settled {
				return bits, true, ip
			}
			return bits, complete, ip

		case op == compile.OpAlt || compile.IsKet(op):
			return bits, complete, ip

		case settled:
			if compile.IsBracketHeader(op) {
				ip = compile.BracketEnd(code, ip)
			} else {
				ip += compile.InstrWidth(code, ip)
			}
			continue

		case op == compile.OpChars:
			n := int(code[ip+1])
			if n == 0 {
				ip += compile.InstrWidth(code, ip)
				continue
			}
			setBit(&bits, code[ip+2])
			settled = true
			ip += compile.InstrWidth(code, ip)
			continue

		case op == compile.OpAny:
			unionAny(&bits, dotAll)
			settled = true
			ip += compile.InstrWidth(code, ip)
			continue

		case op == compile.OpClass:
			unionClassBytes(&bits, code[ip+1:ip+33])
			settled = true
			ip += compile.InstrWidth(code, ip)
			continue

		case op == compile.OpCharType:
			unionTypeBytes(tbl, &bits, code[ip+1])
			settled = true
			ip += compile.InstrWidth(code, ip)
			continue

		case op == compile.OpBackRef || op == compile.OpRecurse:
			complete = false
			settled = true
			ip += compile.InstrWidth(code, ip)
			continue

		case op == compile.OpBraZero || op == compile.OpBraMinZero:
			pendingOptional = true
			ip += compile.InstrWidth(code, ip)
			continue

		case op == compile.OpCirc || op == compile.OpDoll || op == compile.OpSOD ||
			op == compile.OpEOD || op == compile.OpEOSNL || op == compile.OpAnchorG ||
			op == compile.OpWordB || op == compile.OpWordEdge:
			ip += compile.InstrWidth(code, ip)
			continue

		case compile.IsBracketHeader(op):
			childBits, childComplete := groupUnionSet(code, ip, tbl, dotAll)
			unionBits(&bits, childBits)
			optional := pendingOptional
			pendingOptional = false
			if !childComplete {
				complete = false
				settled = true
			} else if !optional {
				settled = true
			}
			ip = compile.BracketEnd(code, ip)
			continue

		default:
			kind, shape, _, ok := compile.DecodeQuantOp(op)
			if !ok {
				complete = false
				settled = true
				ip += compile.InstrWidth(code, ip)
				continue
			}
			width := compile.InstrWidth(code, ip)
			if !unionQuantSet(&bits, tbl, dotAll, kind, code, ip) {
				complete = false
				settled = true
				ip += width
				continue
			}
			switch shape {
			case compile.ShapeStar, compile.ShapeQuery, compile.ShapeUpto:
				ip += width
				continue
			case compile.ShapeExact:
				count := compile.ReadU16(code, ip+width-2)
				if count == 0 {
					ip += width
					continue
				}
				settled = true
				ip += width
				continue
			default: // ShapePlus
				settled = true
				ip += width
				continue
			}
		}
	}
	return bits, complete, len(code)
}

func unionQuantSet(bits *[32]byte, tbl *tables.Tables, dotAll bool, kind compile.SingletonKind, code []byte, ip int) bool {
	switch kind {
	case compile.SKLiteral:
		setBit(bits, code[ip+1])
	case compile.SKClass:
		unionClassBytes(bits, code[ip+1:ip+33])
	case compile.SKType:
		unionTypeBytes(tbl, bits, code[ip+1])
	case compile.SKAny:
		unionAny(bits, dotAll)
	default: // SKNotLiteral, SKBackRef: unsupported/undetermined here
		return false
	}
	return true
}

func setBit(bits *[32]byte, b byte) {
	bits[b>>3] |= 1 << (b & 7)
}

func unionBits(dst *[32]byte, src [32]byte) {
	for i := range dst {
		dst[i] |= src[i]
	}
}

func unionClassBytes(bits *[32]byte, bitmap []byte) {
	for i := range bits {
		bits[i] |= bitmap[i]
	}
}

func unionTypeBytes(tbl *tables.Tables, bits *[32]byte, typeOperand byte) {
	neg := typeOperand&compile.CTypeNegateBit != 0
	ctype := tables.CType(typeOperand &^ compile.CTypeNegateBit)
	for b := 0; b < 256; b++ {
		has := tbl.Type[b]&ctype != 0
		if has != neg {
			setBit(bits, byte(b))
		}
	}
}

func unionAny(bits *[32]byte, dotAll bool) {
	for b := 0; b < 256; b++ {
		if dotAll || b != '\n' {
			setBit(bits, byte(b))
		}
	}
}

// expandStartBits widens a 32-byte bitmap into simd.MemchrInTable's
// one-bool-per-byte shape.
func expandStartBits(bits *[32]byte) *[256]bool {
	var out [256]bool
	for b := 0; b < 256; b++ {
		out[b] = bits[b>>3]&(1<<(uint(b)&7)) != 0
	}
	return &out
}

// classifyStartBits reports whether bits is exactly the set of bytes
// simd.MemchrDigit, simd.MemchrWord, or simd.MemchrNotWord already scan
// for, so vm's scan can use the dedicated SIMD routine in place of a
// generic bitmap walk.
func classifyStartBits(prog *compile.Program, bits *[32]byte) StartClassKind {
	tbl := prog.Tables
	if tbl == nil {
		tbl = tables.Default()
	}
	var digit, word, notWord [32]byte
	for b := 0; b < 256; b++ {
		isWord := tbl.Type[b]&tables.CTWord != 0
		if tbl.Type[b]&tables.CTDigit != 0 {
			setBit(&digit, byte(b))
		}
		if isWord {
			setBit(&word, byte(b))
		} else {
			setBit(&notWord, byte(b))
		}
	}
	switch {
	case *bits == digit:
		return StartClassDigit
	case *bits == word:
		return StartClassWord
	case *bits == notWord:
		return StartClassNotWord
	default:
		return StartClassNone
	}
}
