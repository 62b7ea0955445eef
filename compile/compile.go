package compile

import (
	"github.com/coregx/pcre/syntax"
	"github.com/coregx/pcre/tables"
)

// Compile parses pattern under the given flavor/options and emits a
// Program: syntax.Parse's first pass sizes the buffer, this function's
// walk over the same AST is the second pass that fills it in, matching
// spec.md §4.2's two-pass contract.
func Compile(pattern []byte, flavor Flavor, opts syntax.Options, tbl *tables.Tables, cfg Config) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tbl == nil {
		tbl = tables.Default()
	}
	opts.MaxNesting = cfg.MaxNesting
	opts.MaxPatternBytes = cfg.MaxPatternBytes

	pat, err := syntax.Parse(pattern, syntax.Flavor(flavor), opts, tbl)
	if err != nil {
		return nil, err
	}
	return FromPattern(pat, opts, tbl, cfg)
}

// FromPattern emits a Program from an already-parsed Pattern, skipping the
// parse step. Exposed separately from Compile so a caller holding a
// syntax.Pattern — for instance one built once and emitted under several
// Config/option combinations — never has to re-parse the same pattern text.
// tbl is recorded on the returned Program so vm.Exec matches against the
// same character tables the pattern was parsed and sized with; a nil tbl
// falls back to tables.Default().
func FromPattern(pat *syntax.Pattern, opts syntax.Options, tbl *tables.Tables, cfg Config) (*Program, error) {
	if pat.TopBracket > 0xffff {
		return nil, newErr(0, errGroupCountOverflow)
	}
	if tbl == nil {
		tbl = tables.Default()
	}

	buf := newBuffer(pat.Size)
	if err := emitGroupBranches(buf, pat.Branches, 0, OpBra, OpKet, nil, nil); err != nil {
		return nil, err
	}
	buf.op(OpEnd)

	return &Program{
		Code:        buf.b,
		NumGroups:   pat.TopBracket,
		NumBackrefs: pat.TopBackref,
		Anchored:    pat.Anchored,
		Caseless:    opts.Caseless,
		Multiline:   opts.Multiline,
		DotAll:      opts.DotAll,
		Config:      cfg,
		Tables:      tbl,
	}, nil
}

// emitGroupBranches writes one bracketed construct's branches (the top
// level pattern counts as an unnumbered outermost one). headerOp selects
// the opening opcode for branch 0 — OpBra for an ordinary group, or
// OpOnce/OpAssert*/OpCond for the constructs that reuse the same bracket
// layout with different match-time semantics; subsequent branches of the
// same alternation always reopen with plain OpBra, since the special
// semantics apply once, at entry. preFirst runs right after branch 0's
// header (before its content) — used by conditionals to splice in the
// CREF or lookaround condition ahead of the then-branch. postLast runs
// after the final branch's content (before its terminal opcode) — used by
// group-repetition to nest a bounded quantifier's optional tail copies.
func emitGroupBranches(buf *buffer, branches [][]syntax.Node, groupNum int, headerOp, ketOp Op, preFirst, postLast func(*buffer) error) error {
	n := len(branches)
	braStarts := make([]int, n)
	var altPatches []int
	for i, branch := range branches {
		braStarts[i] = buf.offset()
		if i == 0 {
			buf.op(headerOp)
		} else {
			buf.op(OpBra)
		}
		buf.u16(groupNum)
		nextPatch := buf.reserveU16()

		if i == 0 && preFirst != nil {
			if err := preFirst(buf); err != nil {
				return err
			}
		}
		if err := emitSeq(buf, branch); err != nil {
			return err
		}
		if i == n-1 && postLast != nil {
			if err := postLast(buf); err != nil {
				return err
			}
		}

		if i < n-1 {
			buf.op(OpAlt)
			altPatches = append(altPatches, buf.reserveU16())
		} else {
			buf.op(ketOp)
			buf.u16(braStarts[0])
		}
		buf.patchU16(nextPatch, buf.offset())
	}
	after := buf.offset()
	for _, p := range altPatches {
		buf.patchU16(p, after)
	}
	return nil
}

// maxLitRun caps the length of one OpChars run; it is the same 255-byte
// chunk size syntax.sizeSeq charges for.
const maxLitRun = 255

// emitSeq writes one branch's term sequence, coalescing adjacent literal
// bytes into OpChars runs exactly the way syntax.sizeSeq counted them.
func emitSeq(buf *buffer, seq []syntax.Node) error {
	i := 0
	for i < len(seq) {
		n := seq[i]
		if n.Kind == syntax.KLiteral {
			var run []byte
			j := i
			for j < len(seq) && seq[j].Kind == syntax.KLiteral {
				run = append(run, seq[j].Lit...)
				j++
			}
			if len(run) == 0 {
				buf.op(OpChars)
				buf.byte(0)
			}
			for len(run) > 0 {
				chunk := run
				if len(chunk) > maxLitRun {
					chunk = chunk[:maxLitRun]
				}
				buf.op(OpChars)
				buf.byte(byte(len(chunk)))
				buf.bytes(chunk)
				run = run[len(chunk):]
			}
			i = j
			continue
		}
		if err := emitNode(buf, n); err != nil {
			return err
		}
		i++
	}
	return nil
}

func emitNode(buf *buffer, n syntax.Node) error {
	switch n.Kind {
	case syntax.KLiteral:
		buf.op(OpChars)
		buf.byte(byte(len(n.Lit)))
		buf.bytes(n.Lit)
	case syntax.KAny:
		buf.op(OpAny)
	case syntax.KClass:
		buf.op(OpClass)
		buf.bytes(n.ClassBits[:])
	case syntax.KCharType:
		buf.op(OpCharType)
		buf.byte(charTypeOperand(n))
	case syntax.KBackRef:
		buf.op(OpBackRef)
		buf.u16(n.Ref)
	case syntax.KCirc:
		buf.op(OpCirc)
	case syntax.KDoll:
		buf.op(OpDoll)
	case syntax.KSOD:
		buf.op(OpSOD)
	case syntax.KEOD:
		buf.op(OpEOD)
	case syntax.KEOSNL:
		buf.op(OpEOSNL)
	case syntax.KAnchorG:
		buf.op(OpAnchorG)
	case syntax.KWordB:
		buf.op(OpWordB)
		buf.byte(boolByte(n.BoundaryNeg))
	case syntax.KWordEdge:
		buf.op(OpWordEdge)
		buf.byte(boolByte(n.EdgeStart))
	case syntax.KRecurse:
		buf.op(OpRecurse)
		buf.u16(n.RecurseGroup)
	case syntax.KGroup:
		return emitGroup(buf, n)
	case syntax.KRepeat:
		return emitRepeat(buf, n)
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func charTypeOperand(n syntax.Node) byte {
	b := n.CType
	if n.Negate {
		b |= CTypeNegateBit
	}
	return b
}

func emitGroup(buf *buffer, n syntax.Node) error {
	switch n.GroupKind {
	case syntax.GCapturing:
		return emitGroupBranches(buf, n.Branches, n.Index, OpBra, OpKet, nil, nil)
	case syntax.GNonCapturing:
		return emitGroupBranches(buf, n.Branches, 0, OpBra, OpKet, nil, nil)
	case syntax.GAtomic:
		return emitGroupBranches(buf, n.Branches, 0, OpOnce, OpKet, nil, nil)
	case syntax.GLookahead:
		return emitGroupBranches(buf, n.Branches, 0, OpAssert, OpKet, nil, nil)
	case syntax.GLookaheadNeg:
		return emitGroupBranches(buf, n.Branches, 0, OpAssertNot, OpKet, nil, nil)
	case syntax.GLookbehind:
		length, _ := syntax.FixedLength(n.Branches)
		buf.op(OpReverse)
		buf.u16(length)
		return emitGroupBranches(buf, n.Branches, 0, OpAssertBack, OpKet, nil, nil)
	case syntax.GLookbehindNeg:
		length, _ := syntax.FixedLength(n.Branches)
		buf.op(OpReverse)
		buf.u16(length)
		return emitGroupBranches(buf, n.Branches, 0, OpAssertBackNot, OpKet, nil, nil)
	case syntax.GConditional:
		return emitConditional(buf, n)
	}
	return nil
}

func emitConditional(buf *buffer, n syntax.Node) error {
	pre := func(b *buffer) error {
		if n.CondAssert != nil {
			return emitGroup(b, *n.CondAssert)
		}
		b.op(OpCRef)
		b.u16(n.CondRef)
		return nil
	}
	return emitGroupBranches(buf, n.Branches, 0, OpCond, OpKet, pre, nil)
}

func emitRepeat(buf *buffer, n syntax.Node) error {
	sub := *n.Sub
	switch sub.Kind {
	case syntax.KLiteral, syntax.KCharType, syntax.KClass, syntax.KBackRef, syntax.KAny:
		return emitSingletonRepeat(buf, sub, n.Min, n.Max, n.Discipline)
	case syntax.KGroup:
		return emitGroupRepeat(buf, sub, n.Min, n.Max, n.Discipline)
	}
	return emitNode(buf, sub)
}

func singletonKind(sub syntax.Node) SingletonKind {
	switch sub.Kind {
	case syntax.KCharType:
		if sub.Negate {
			return SKNotType
		}
		return SKType
	case syntax.KClass:
		return SKClass
	case syntax.KBackRef:
		return SKBackRef
	case syntax.KAny:
		return SKAny
	default:
		return SKLiteral
	}
}

func mapDiscipline(d syntax.Discipline) Discipline {
	switch d {
	case syntax.Reluctant:
		return DiscMin
	case syntax.Possessive:
		return DiscOnce
	default:
		return DiscMax
	}
}

func emitSingletonOp(buf *buffer, op Op, sub syntax.Node) {
	buf.op(op)
	switch sub.Kind {
	case syntax.KLiteral:
		buf.byte(sub.Lit[0])
	case syntax.KCharType:
		buf.byte(charTypeOperand(sub))
	case syntax.KClass:
		buf.bytes(sub.ClassBits[:])
	case syntax.KBackRef:
		buf.u16(sub.Ref)
	case syntax.KAny:
		// no operand
	}
}

// emitSingletonRepeat realizes a quantified repeatable atom, decomposing
// {n,} with n>1 into EXACT(n-1) followed by PLUS, and {n,m} into EXACT(n)
// followed by UPTO(m-n), matching syntax.sizeSingletonRepeat exactly.
func emitSingletonRepeat(buf *buffer, sub syntax.Node, min, max int, disc syntax.Discipline) error {
	kind := singletonKind(sub)
	d := mapDiscipline(disc)
	switch {
	case max < 0 && min <= 1:
		shape := ShapeStar
		if min == 1 {
			shape = ShapePlus
		}
		emitSingletonOp(buf, QuantOp(kind, shape, d), sub)
	case max < 0:
		emitSingletonOp(buf, QuantOp(kind, ShapeExact, d), sub)
		buf.u16(min - 1)
		emitSingletonOp(buf, QuantOp(kind, ShapePlus, d), sub)
	case min == max:
		emitSingletonOp(buf, QuantOp(kind, ShapeExact, d), sub)
		buf.u16(min)
	case min == 0 && max == 1:
		emitSingletonOp(buf, QuantOp(kind, ShapeQuery, d), sub)
	case min == 0:
		emitSingletonOp(buf, QuantOp(kind, ShapeUpto, d), sub)
		buf.u16(max)
	default:
		emitSingletonOp(buf, QuantOp(kind, ShapeExact, d), sub)
		buf.u16(min)
		emitSingletonOp(buf, QuantOp(kind, ShapeUpto, d), sub)
		buf.u16(max - min)
	}
	return nil
}

func loopKetFor(disc syntax.Discipline) Op {
	switch disc {
	case syntax.Reluctant:
		return OpKetMinStar
	case syntax.Possessive:
		return OpKetOnceStar
	default:
		return OpKetMaxStar
	}
}

// emitGroupRepeat realizes a quantified group, following spec.md §4.3's
// BRAZERO/BRAMINZERO replication recipe (mirrored exactly from
// syntax.sizeGroupRepeat): mandatory copies are flat and sequential,
// the unbounded tail (if any) is one BRAZERO-prefixed copy whose KET
// loops back to itself, and a bounded optional tail is a chain of
// BRAZERO-prefixed copies nested one inside the next, so skipping the
// outer one also skips everything after it.
func emitGroupRepeat(buf *buffer, g syntax.Node, min, max int, disc syntax.Discipline) error {
	switch g.GroupKind {
	case syntax.GLookahead, syntax.GLookaheadNeg, syntax.GLookbehind, syntax.GLookbehindNeg:
		// Zero-width: repeat count doesn't change what is asserted.
		return emitGroup(buf, g)
	}

	groupNum := g.Index
	headerOp := OpBra
	if g.GroupKind == syntax.GAtomic {
		headerOp = OpOnce
	}
	ketLoop := loopKetFor(disc)
	braZeroOp := OpBraZero
	if disc == syntax.Reluctant {
		braZeroOp = OpBraMinZero
	}

	flatCopy := func() error {
		return emitGroupBranches(buf, g.Branches, groupNum, headerOp, OpKet, nil, nil)
	}
	loopCopy := func() error {
		return emitGroupBranches(buf, g.Branches, groupNum, headerOp, ketLoop, nil, nil)
	}
	var nestedTail func(remaining int) func(*buffer) error
	nestedTail = func(remaining int) func(*buffer) error {
		if remaining <= 0 {
			return nil
		}
		return func(b *buffer) error {
			b.op(braZeroOp)
			return emitGroupBranches(b, g.Branches, groupNum, headerOp, OpKet, nil, nestedTail(remaining-1))
		}
	}

	switch {
	case max < 0 && min == 0:
		buf.op(braZeroOp)
		return loopCopy()
	case max < 0:
		for i := 0; i < min-1; i++ {
			if err := flatCopy(); err != nil {
				return err
			}
		}
		buf.op(braZeroOp)
		return loopCopy()
	case min == 0 && max == 1:
		buf.op(braZeroOp)
		return emitGroupBranches(buf, g.Branches, groupNum, headerOp, OpKet, nil, nil)
	case min == 0:
		buf.op(braZeroOp)
		return emitGroupBranches(buf, g.Branches, groupNum, headerOp, OpKet, nil, nestedTail(max-1))
	default:
		for i := 0; i < min; i++ {
			if err := flatCopy(); err != nil {
				return err
			}
		}
		if max > min {
			buf.op(braZeroOp)
			return emitGroupBranches(buf, g.Branches, groupNum, headerOp, OpKet, nil, nestedTail(max-min-1))
		}
		return nil
	}
}
