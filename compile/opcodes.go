// Package compile implements the second compiler pass described in
// spec.md §4.3: it walks the AST package syntax already parsed and sized,
// and emits a flat opcode byte stream. Two front-ends share one emitter —
// Perl (full feature set) and POSIX (BRE mechanically rewritten to ERE,
// then the same ERE emitter Perl patterns without extensions also use) —
// selected by Flavor, generalizing the teacher's dispatch-by-node-kind
// shape (nfa/branch_dispatch.go) from function-pointer polymorphism to a
// sum type over front-end flavors, per spec.md §9.
package compile

// Op is a single opcode byte. Structural opcodes use a uniform header
// layout (op + u16 groupNum + u16 nextOffset for bracket-openers; op + u16
// for Alt/Ket/Reverse/CRef/Recurse) instead of PCRE's OP_BRA+n packing
// trick — spec.md §3's explicit redesign: "indexes, not pointers, are the
// portable currency".
type Op byte

const (
	OpEnd Op = iota

	// Structural / bracket opcodes.
	OpBra           // capturing/non-capturing group open: op groupNum(u16) next(u16)
	OpAlt           // op next(u16)
	OpKet           // op braBack(u16)
	OpKetMaxStar    // op braBack(u16) — closes a possessive-free '*' group, greedy
	OpKetMinStar    // op braBack(u16) — closes a '*' group, reluctant
	OpKetOnceStar   // op braBack(u16) — closes a possessive '*' group
	OpBraZero       // op — optional bracket, try-then-skip (greedy)
	OpBraMinZero    // op — optional bracket, skip-then-try (reluctant)
	OpOnce          // op groupNum(u16) next(u16) — atomic group
	OpAssert        // op groupNum(u16) next(u16) — (?=...)
	OpAssertNot     // op groupNum(u16) next(u16) — (?!...)
	OpAssertBack    // op groupNum(u16) next(u16) — (?<=...)
	OpAssertBackNot // op groupNum(u16) next(u16) — (?<!...)
	OpReverse       // op length(u16) — fixed lookbehind step-back
	OpCond          // op groupNum(u16) next(u16) — groupNum unused when CRef/assert follow
	OpCRef          // op groupNum(u16) — conditional reference, follows OpCond
	OpRecurse       // op groupNum(u16) — groupNum 0 means whole-pattern

	// Leaf / single-match opcodes.
	OpChars    // op len(byte) bytes...
	OpAny      // op — "." (DotAll decided by pattern option, not opcode)
	OpClass    // op bitmap(32)
	OpCharType // op kind(byte) — kind encodes type + negation
	OpCirc     // op
	OpDoll     // op
	OpEOD      // op — \z
	OpSOD      // op — \A
	OpEOSNL    // op — \Z
	OpAnchorG  // op — \G
	OpWordB    // op negate(byte)
	OpWordEdge // op start(byte)
	OpBackRef  // op groupNum(u16)

	opQuantBase // quantified singleton opcodes start here
)

// SingletonKind names the repeatable-atom families spec.md §3 lists
// (literal, not-literal, character-type, not-type, class, back-reference),
// plus SKAny: "." is carved out of the character-type family into its own
// zero-operand kind so a quantified "." costs exactly one opcode byte,
// matching the unquantified OpAny's own zero-operand cost — PCRE folds "."
// into its TYPE family using an ANYCHAR type byte, but that wastes the
// operand byte this encoding never needs.
type SingletonKind byte

const (
	SKLiteral SingletonKind = iota
	SKNotLiteral
	SKType
	SKNotType
	SKClass
	SKBackRef
	SKAny
	numSingletonKinds
)

// Shape is the quantifier repetition shape. RANGE(n,m) is not its own
// shape: per spec.md §4.3 it is realized as Exact(n) followed by Upto(m-n),
// so the emitter never constructs a Shape for it directly.
type Shape byte

const (
	ShapeStar Shape = iota
	ShapePlus
	ShapeQuery
	ShapeUpto
	ShapeExact
	numShapes
)

// Discipline is the backtracking mode: greedy (Max), reluctant (Min), or
// possessive (Once, produced only by study's pruning pass — the syntax
// never emits Once directly except where a user wrote a trailing '+'
// quantifier-modifier, per spec.md §4.3).
type Discipline byte

const (
	DiscMax Discipline = iota
	DiscMin
	DiscOnce
	numDisciplines
)

// QuantOp returns the opcode for a quantified singleton with the given
// kind/shape/discipline.
func QuantOp(kind SingletonKind, shape Shape, disc Discipline) Op {
	return opQuantBase + Op(kind)*Op(numShapes)*Op(numDisciplines) + Op(shape)*Op(numDisciplines) + Op(disc)
}

// DecodeQuantOp is the inverse of QuantOp; ok is false if op is not a
// quantified singleton opcode.
func DecodeQuantOp(op Op) (kind SingletonKind, shape Shape, disc Discipline, ok bool) {
	if op < opQuantBase {
		return 0, 0, 0, false
	}
	rel := int(op - opQuantBase)
	span := int(numShapes) * int(numDisciplines)
	k := rel / span
	if k >= int(numSingletonKinds) {
		return 0, 0, 0, false
	}
	rel -= k * span
	s := rel / int(numDisciplines)
	d := rel % int(numDisciplines)
	return SingletonKind(k), Shape(s), Discipline(d), true
}

// CTypeNegateBit is folded into OpCharType's operand byte alongside one of
// tables.CTDigit/CTSpace/CTWord (bits 1,2,3 — never colliding with 0x80).
const CTypeNegateBit = 0x80
