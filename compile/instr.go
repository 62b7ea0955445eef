package compile

// ReadU16 decodes a big-endian uint16 from code at offset at, the same
// layout buffer.u16 writes during emission.
func ReadU16(code []byte, at int) int {
	return int(code[at])<<8 | int(code[at+1])
}

// WriteOp overwrites the single opcode byte at ip — study's possessive
// pruning pass uses this to rewrite a MAX/MIN quantified opcode to its
// ONCE sibling in place, since QuantOp/DecodeQuantOp guarantee the two
// differ only in their Discipline component and so occupy the same
// instruction width.
func WriteOp(code []byte, ip int, op Op) {
	code[ip] = byte(op)
}

// IsBracketHeader reports whether op opens a bracketed construct (the
// 5-byte op+groupNum+next header shape).
func IsBracketHeader(op Op) bool {
	switch op {
	case OpBra, OpOnce, OpAssert, OpAssertNot, OpAssertBack, OpAssertBackNot, OpCond:
		return true
	}
	return false
}

// IsKet reports whether op closes a bracketed construct's current branch
// (the 3-byte op+braBack shape).
func IsKet(op Op) bool {
	switch op {
	case OpKet, OpKetMaxStar, OpKetMinStar, OpKetOnceStar:
		return true
	}
	return false
}

// BracketEnd returns the offset immediately after the entire bracketed
// construct opening at headerIP (past every branch, not just the first).
// Branches of the same construct are adjacent in the byte stream — a
// header seen right after an OpAlt at the same nesting depth is a sibling
// branch, not a child — so this walks depth-first, remembering the depth
// at which each OpAlt was seen to tell a sibling header from a nested one.
func BracketEnd(code []byte, headerIP int) int {
	depth := 1
	pendingSiblingAt := -1
	ip := headerIP + 5
	for ip < len(code) {
		op := Op(code[ip])
		switch {
		case IsBracketHeader(op):
			if pendingSiblingAt == depth {
				pendingSiblingAt = -1
			} else {
				depth++
			}
			ip += 5
		case op == OpAlt:
			pendingSiblingAt = depth
			ip += 3
		case IsKet(op):
			depth--
			if depth == 0 {
				return ip + 3
			}
			ip += 3
		default:
			ip += InstrWidth(code, ip)
		}
	}
	return len(code)
}

// InstrWidth returns the byte width of the instruction at ip, the same
// table disasmOne uses to advance through a program.
func InstrWidth(code []byte, ip int) int {
	op := Op(code[ip])

	if kind, shape, _, ok := DecodeQuantOp(op); ok {
		width := 1 + quantOperandWidth(kind)
		if shape == ShapeUpto || shape == ShapeExact {
			width += 2
		}
		return width
	}

	switch op {
	case OpEnd, OpAny, OpCirc, OpDoll, OpEOD, OpSOD, OpEOSNL, OpAnchorG, OpBraZero, OpBraMinZero:
		return 1
	case OpWordB, OpWordEdge, OpCharType:
		return 2
	case OpAlt, OpKet, OpKetMaxStar, OpKetMinStar, OpKetOnceStar, OpReverse, OpCRef, OpRecurse, OpBackRef:
		return 3
	case OpBra, OpOnce, OpAssert, OpAssertNot, OpAssertBack, OpAssertBackNot, OpCond:
		return 5
	case OpClass:
		return 33
	case OpChars:
		return 2 + int(code[ip+1])
	}
	return 0
}
