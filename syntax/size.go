package syntax

// Byte costs for the opcode encoding emitted by package compile. Kept here
// (not in package compile) so the first-pass sizer has no dependency on
// the emitter; compile's Emit is written to match these costs exactly, and
// compile/compile_test.go asserts the produced buffer length equals the
// Size() this package computed — the two-pass contract spec.md §4.2
// requires, even though both passes here walk the same AST rather than
// re-scanning pattern text twice (see SPEC_FULL.md §4.2).
const (
	SizeBracketHeader = 5 // op + u16 groupNum + u16 nextOffset (Bra/Assert*/Once/Cond)
	SizeAlt           = 3 // op + u16 nextOffset
	SizeKet           = 3 // op + u16 braBackOffset (Ket/KetMaxStar/KetMinStar/KetOnceStar)
	SizeReverse       = 3 // op + u16 length
	SizeCRef          = 3 // op + u16 groupNum
	SizeBraZero       = 1 // op only
	SizeRecurse       = 3 // op + u16 groupNum
	SizeEnd           = 1

	SizeAny     = 1
	SizeClass   = 33 // op + 32-byte bitmap
	SizeCharTy  = 2  // op + type-kind byte (negation folded into the kind)
	SizeAnchor  = 1  // Circ/Doll/SOD/EOD/EOSNL/AnchorG
	SizeWordB   = 2  // op + negate byte
	SizeWordEdg = 2  // op + start byte
	SizeBackRef = 3  // op + u16 groupNum

	SizeLitHeader = 2   // op + length byte
	maxLitRun     = 255 // chunk literal runs at this many bytes
)

// sizeKindOperand returns the operand size (not counting the opcode byte
// itself) for a quantified singleton of the given node.
func sizeKindOperand(n Node) int {
	switch n.Kind {
	case KLiteral:
		return 1
	case KCharType:
		return 1
	case KClass:
		return 32
	case KBackRef:
		return 2
	case KAny:
		return 0
	}
	return 1
}

// sizeSingletonRepeat computes the total bytes needed for a quantified atom,
// including the {n,m} decomposition into EXACT(n)+UPTO(m-n) described in
// spec.md §4.3, for repeatable singletons (literal/type/class/backref).
func sizeSingletonRepeat(n Node, min, max int) int {
	opBytes := 1
	operand := sizeKindOperand(n)
	switch {
	case max < 0 && min > 1: // {n,}, n>1: EXACT(n-1) + PLUS
		return (opBytes + operand + 2) + (opBytes + operand)
	case max < 0: // Star (min==0) or Plus (min==1): one opcode
		return opBytes + operand
	case min == max: // Exact(n): one opcode + u16 count
		return opBytes + operand + 2
	case min == 0 && max == 1: // Query: one opcode
		return opBytes + operand
	case min == 0: // Upto(m): one opcode + u16 count
		return opBytes + operand + 2
	default: // {n,m}, n>0, m finite: EXACT(n) + UPTO(m-n)
		return (opBytes + operand + 2) + (opBytes + operand + 2)
	}
}

func sizeBranches(branches [][]Node) int {
	total := 0
	for _, b := range branches {
		total += SizeBracketHeader
		total += sizeSeq(b)
		total += SizeAlt // one ALT/terminal KET slot per branch (upper-bound estimate)
	}
	return total + SizeEnd
}

func sizeSeq(seq []Node) int {
	total := 0
	i := 0
	for i < len(seq) {
		n := seq[i]
		// Coalesce runs of plain literal bytes the way compile.Emit does,
		// so size and emitted length agree: adjacent single-byte KLiteral
		// nodes that are not part of a KRepeat are folded into OP_CHARS.
		if n.Kind == KLiteral {
			run := 0
			j := i
			for j < len(seq) && seq[j].Kind == KLiteral {
				run += len(seq[j].Lit)
				j++
			}
			chunks := (run + maxLitRun - 1) / maxLitRun
			if chunks == 0 {
				chunks = 1
			}
			total += chunks*SizeLitHeader + run
			i = j
			continue
		}
		total += sizeNode(n)
		i++
	}
	return total
}

func sizeNode(n Node) int {
	switch n.Kind {
	case KLiteral:
		return SizeLitHeader + len(n.Lit)
	case KAny:
		return SizeAny
	case KClass:
		return SizeClass
	case KCharType:
		return SizeCharTy
	case KBackRef:
		return SizeBackRef
	case KCirc, KDoll, KSOD, KEOD, KEOSNL, KAnchorG:
		return SizeAnchor
	case KWordB:
		return SizeWordB
	case KWordEdge:
		return SizeWordEdg
	case KRecurse:
		return SizeRecurse
	case KGroup:
		return sizeGroup(n)
	case KRepeat:
		return sizeRepeat(n)
	}
	return 0
}

func sizeGroup(n Node) int {
	total := 0
	switch n.GroupKind {
	case GLookbehind, GLookbehindNeg:
		total += SizeReverse
	}
	for _, b := range n.Branches {
		total += SizeBracketHeader
		total += sizeSeq(b)
		total += SizeAlt
	}
	if n.GroupKind == GConditional {
		if n.CondAssert == nil {
			total += SizeCRef
		} else {
			total += sizeGroup(*n.CondAssert)
		}
	}
	return total
}

func sizeRepeat(n Node) int {
	sub := *n.Sub
	switch sub.Kind {
	case KLiteral, KCharType, KClass, KBackRef, KAny:
		return sizeSingletonRepeat(sub, n.Min, n.Max)
	case KGroup:
		return sizeGroupRepeat(sub, n.Min, n.Max)
	}
	return sizeNode(sub)
}

// sizeGroupRepeat follows spec.md §4.3's group-replication recipe:
// BRAZERO/BRAMINZERO wrapping for optional groups, flat replication for
// mandatory repeats, nested BRAZERO-prefixed replicas for the bounded tail.
func sizeGroupRepeat(g Node, min, max int) int {
	inner := sizeGroup(g)
	switch {
	case max < 0 && min == 0: // {0,}
		return SizeBraZero + inner
	case max < 0: // {n,}
		return (min-1)*inner + inner + SizeBraZero
	case min == 0 && max == 1: // {0,1}
		return SizeBraZero + inner
	case min == 0: // {0,m}
		return SizeBraZero + (max-1)*(inner+SizeBraZero) + inner
	default: // {n,m}
		return (min-1)*inner + inner + (max-min)*(inner+SizeBraZero)
	}
}
