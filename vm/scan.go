package vm

import (
	"github.com/coregx/pcre/simd"
	"github.com/coregx/pcre/study"
)

// advance computes the next candidate start offset to try after a failed
// attempt at pos, using whichever study hint is available. Analyze never
// populates more than one of BMTable/MultiPrefix/StartBits at a time, so
// the priority order here just mirrors which one is present. A BMTable
// built over a pure literal prefix also carries Literal/RareBytes, in
// which case literalAdvance is used in place of the Horspool shift table:
// simd.Memmem's rare-byte-guided substring search is strictly more
// selective than BMTable's always-last-byte shift.
func advance(subject []byte, pos int, extra *study.ExtraInfo) int {
	switch {
	case extra.Literal != nil:
		return literalAdvance(subject, pos, extra.Literal, extra.RareBytes)
	case extra.BMTable != nil:
		return bmAdvance(subject, pos, extra.BMTable)
	case extra.MultiPrefix != nil:
		return multiPrefixAdvance(subject, pos, extra)
	case extra.StartBits != nil:
		return startBitsAdvance(subject, pos, extra)
	default:
		return pos + 1
	}
}

// bmAdvance applies one Horspool-style shift: pos is the position that
// just failed a full match attempt, bm[256] holds the prefix length the
// table was built for, and bm[c] gives the shift to apply based on the
// byte that would align with the prefix's last position.
func bmAdvance(subject []byte, pos int, bm *[257]byte) int {
	n := int(bm[256])
	if n == 0 || pos+n > len(subject) {
		return len(subject) + 1
	}
	c := subject[pos+n-1]
	skip := int(bm[c])
	if skip < 1 {
		skip = 1
	}
	return pos + skip
}

// literalAdvance finds the next exact occurrence of a pure literal prefix
// via simd.Memmem. Before paying for that scan, it first uses simd.Memchr
// to check whether rare.Byte1 — the prefix's rarest byte per
// simd.SelectRareBytes/ByteRank — occurs at all in the remaining subject;
// if it doesn't, the literal cannot occur either, so the whole scan is
// skipped outright. rare is nil only when the prefix is shorter than two
// bytes, too short for rare-byte selection to mean anything.
func literalAdvance(subject []byte, pos int, literal []byte, rare *simd.RareByteInfo) int {
	from := pos + 1
	if from > len(subject) {
		return len(subject) + 1
	}
	if rare != nil && simd.Memchr(subject[from:], rare.Byte1) < 0 {
		return len(subject) + 1
	}
	idx := simd.Memmem(subject[from:], literal)
	if idx < 0 {
		return len(subject) + 1
	}
	return from + idx
}

// multiPrefixAdvance uses the Aho-Corasick automaton built over every
// alternation branch's literal prefix to jump straight to the next byte
// any branch could plausibly start matching at.
func multiPrefixAdvance(subject []byte, pos int, extra *study.ExtraInfo) int {
	from := pos + 1
	if from > len(subject) {
		return len(subject) + 1
	}
	m := extra.MultiPrefix.Find(subject[from:], 0)
	if m == nil {
		return len(subject) + 1
	}
	return from + m.Start
}

// startBitsAdvance scans forward for the next byte the first-byte bitmap
// marks as possible. When the bitmap names a single byte (the common case
// of a literal-prefixed pattern the BM pass itself declined to handle,
// e.g. a one-character prefix), it delegates to simd.Memchr for the SIMD-
// accelerated single-byte scan rather than walking the bitmap by hand. When
// the bitmap turned out to match one of simd's hand-tuned class scanners
// exactly (classifyStartBits's job at Study time), that dedicated scanner
// is used instead of the generic StartTable walk; otherwise
// simd.MemchrInTable does the generic multi-byte scan.
func startBitsAdvance(subject []byte, pos int, extra *study.ExtraInfo) int {
	from := pos + 1
	if from > len(subject) {
		return len(subject) + 1
	}
	if b, ok := singleByte(extra.StartBits); ok {
		idx := simd.Memchr(subject[from:], b)
		if idx < 0 {
			return len(subject) + 1
		}
		return from + idx
	}

	var idx int
	switch extra.StartClass {
	case study.StartClassDigit:
		idx = simd.MemchrDigit(subject[from:])
	case study.StartClassWord:
		idx = simd.MemchrWord(subject[from:])
	case study.StartClassNotWord:
		idx = simd.MemchrNotWord(subject[from:])
	default:
		idx = simd.MemchrInTable(subject[from:], extra.StartTable)
	}
	if idx < 0 {
		return len(subject) + 1
	}
	return from + idx
}

// singleByte reports whether bits marks exactly one byte value, returning
// it if so.
func singleByte(bits *[32]byte) (byte, bool) {
	found := -1
	for i, word := range bits {
		if word == 0 {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			if word&(1<<bit) == 0 {
				continue
			}
			if found != -1 {
				return 0, false
			}
			found = i*8 + bit
		}
	}
	if found == -1 {
		return 0, false
	}
	return byte(found), true
}
