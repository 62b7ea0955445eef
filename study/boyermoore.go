package study

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/tables"
)

// maxPrefixScan bounds how far buildBoyerMoore walks the opening branch: the
// 257th table slot stores prefixLen in a single byte, so a prefix longer
// than this is truncated the way spec.md §4.4 already caps BM usefulness.
const maxPrefixScan = 255

// buildBoyerMoore grounds spec.md §4.4's skip-table recipe: walk the single
// opening branch greedily over literals, EXACT-shaped repeats, classes, and
// character-type opcodes, recording the first (smallest) distance at which
// each byte value can appear; then convert those distances into skips.
// Returns nil if the top level has more than one branch, or the walkable
// prefix never reaches length 2.
//
// literal is a second return: the exact prefix bytes, populated only when
// every contributing unit was a plain literal run (no class/char-type mixed
// in). A caller holding literal can run simd.Memmem's rare-byte-prefilter
// search instead of this function's Horspool-style skip table, which is
// strictly more selective once the prefix is known byte-for-byte.
func buildBoyerMoore(prog *compile.Program) (*[257]byte, []byte) {
	code := prog.Code
	if len(code) == 0 || compile.Op(code[0]) != compile.OpBra {
		return nil, nil
	}
	if !isSingleBranch(code, 5) {
		return nil, nil
	}

	tbl := prog.Tables
	if tbl == nil {
		tbl = tables.Default()
	}
	var bm [257]byte
	var seen [256]bool
	var literal []byte
	pureLiteral := true
	prefixLen := 0
	ip := 5

scan:
	for prefixLen < maxPrefixScan && ip < len(code) {
		op := compile.Op(code[ip])
		switch op {
		case compile.OpChars:
			n := int(code[ip+1])
			for k := 0; k < n && prefixLen < maxPrefixScan; k++ {
				recordByte(&bm, &seen, code[ip+2+k], prefixLen)
				literal = append(literal, code[ip+2+k])
				prefixLen++
			}
			ip += compile.InstrWidth(code, ip)
		case compile.OpClass:
			recordClassBytes(&bm, &seen, code[ip+1:ip+33], prefixLen)
			pureLiteral = false
			prefixLen++
			ip += compile.InstrWidth(code, ip)
		case compile.OpCharType:
			recordTypeBytes(tbl, &bm, &seen, code[ip+1], prefixLen)
			pureLiteral = false
			prefixLen++
			ip += compile.InstrWidth(code, ip)
		default:
			kind, shape, _, ok := compile.DecodeQuantOp(op)
			if !ok || shape != compile.ShapeExact {
				break scan
			}
			width := compile.InstrWidth(code, ip)
			count := compile.ReadU16(code, ip+width-2)
			for k := 0; k < count && prefixLen < maxPrefixScan; k++ {
				switch kind {
				case compile.SKLiteral:
					recordByte(&bm, &seen, code[ip+1], prefixLen)
					literal = append(literal, code[ip+1])
				case compile.SKClass:
					recordClassBytes(&bm, &seen, code[ip+1:ip+33], prefixLen)
					pureLiteral = false
				case compile.SKType:
					recordTypeBytes(tbl, &bm, &seen, code[ip+1], prefixLen)
					pureLiteral = false
				default:
					break scan
				}
				prefixLen++
			}
			ip += width
		}
	}

	if prefixLen < 2 {
		return nil, nil
	}
	for b := 0; b < 256; b++ {
		if seen[b] {
			bm[b] = byte(prefixLen - int(bm[b]))
		} else {
			bm[b] = byte(prefixLen)
		}
	}
	bm[256] = byte(prefixLen)
	if !pureLiteral || len(literal) != prefixLen {
		literal = nil
	}
	return &bm, literal
}

func recordByte(bm *[257]byte, seen *[256]bool, b byte, dist int) {
	if !seen[b] {
		bm[b] = byte(dist)
		seen[b] = true
	}
}

func recordClassBytes(bm *[257]byte, seen *[256]bool, bitmap []byte, dist int) {
	for b := 0; b < 256; b++ {
		if bitmap[b>>3]&(1<<(uint(b)&7)) != 0 {
			recordByte(bm, seen, byte(b), dist)
		}
	}
}

// recordTypeBytes expands an OpCharType operand (a single tables.CType bit
// plus CTypeNegateBit) into every byte value it matches.
func recordTypeBytes(tbl *tables.Tables, bm *[257]byte, seen *[256]bool, typeOperand byte, dist int) {
	neg := typeOperand&compile.CTypeNegateBit != 0
	ctype := tables.CType(typeOperand &^ compile.CTypeNegateBit)
	for b := 0; b < 256; b++ {
		has := tbl.Type[b]&ctype != 0
		if has != neg {
			recordByte(bm, seen, byte(b), dist)
		}
	}
}

// isSingleBranch reports whether the bracketed construct opening at
// headerIP-5 (content starting at contentStart) has exactly one branch:
// walk forward tracking bracket depth, and classify the first depth-0
// terminal opcode (OpAlt means more than one branch, any Ket-family opcode
// means exactly one).
func isSingleBranch(code []byte, contentStart int) bool {
	depth := 0
	pendingSiblingAt := -1
	ip := contentStart
	for ip < len(code) {
		op := compile.Op(code[ip])
		switch {
		case compile.IsBracketHeader(op):
			if pendingSiblingAt == depth {
				pendingSiblingAt = -1
			} else {
				depth++
			}
		case op == compile.OpAlt:
			if depth == 0 {
				return false
			}
			pendingSiblingAt = depth
		case compile.IsKet(op):
			if depth == 0 {
				return true
			}
			depth--
		}
		width := compile.InstrWidth(code, ip)
		if width <= 0 {
			return false
		}
		ip += width
	}
	return false
}
