// Package study implements the optimizer pass described in spec.md §4.4: it
// walks a finished bytecode Program (never the source pattern text) and
// produces ExtraInfo — a Boyer-Moore skip table, a first-byte start bitmap,
// or (an additive enrichment beyond spec.md) a multi-prefix Aho-Corasick
// automaton — plus a separate in-place possessive-pruning rewrite of the
// program's own opcode bytes. Grounded on prefilter/prefilter.go's
// Builder/selectPrefilter selection shape: exactly one analysis "wins" and
// is attached to the program, mirroring prefilter's "prefer prefixes, then
// single-byte, then substring, then multi-literal, else nothing" cascade.
package study

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/simd"
)

// ExtraInfo is the optional hint spec.md §3's glossary calls out: "either a
// 256-byte Boyer-Moore skip table with a 257th slot holding the
// pattern-prefix length, or a 32-byte start-bits bitmap indexed by byte
// value." MultiPrefix is a third variant this module adds for alternations
// whose branches each have a fixed literal prefix but disagree on its first
// byte, so neither BM nor a single first-byte bitmap entry applies cleanly.
// Exactly one of BMTable, MultiPrefix and StartBits is non-nil on any
// ExtraInfo study.Analyze returns (Analyze returns nil if the program yields
// no usable hint at all). Literal and RareBytes only accompany BMTable;
// StartTable and StartClass only accompany StartBits.
type ExtraInfo struct {
	// BMTable holds 256 skip distances plus a 257th slot (index 256) with
	// the literal prefix length, exactly as spec.md §4.4 describes.
	BMTable *[257]byte

	// StartBits is a 32-byte bitmap indexed by byte value (bit b%8 of byte
	// b/8), set for every byte the pattern could start with.
	StartBits *[32]byte

	// StartTable is StartBits expanded to one bool per byte value, the
	// shape simd.MemchrInTable/MemchrNotInTable want; built once here so
	// vm's scan never has to re-expand the bitmap on every Exec call.
	StartTable *[256]bool

	// StartClass names a dedicated SIMD scanner vm's scan can use instead
	// of the generic StartTable walk, when StartBits turned out to exactly
	// match one of simd's hand-tuned class scanners (\d, \w, or \W).
	StartClass StartClassKind

	// MultiPrefix is populated when every top-level alternation branch has
	// a fixed literal prefix but the branches don't share one, so a single
	// BM table is inapplicable (spec.md §4.4: "abandons if the first byte
	// of the pattern has more than one branch") yet the pattern is still
	// fully literal-anchored. vm's outer scan prefers this over StartBits
	// the same way it prefers BMTable over StartBits.
	MultiPrefix *ahocorasick.Automaton

	// Literal holds the prefix bytes verbatim when BMTable's walk consumed
	// nothing but plain literal runs (no class or char-type mixed in).
	// RareBytes is simd.SelectRareBytes's pick of the two least common bytes
	// in that prefix, by simd.ByteFrequencies rank. vm's scan uses both to
	// probe with simd.Memchr on the rarer byte instead of BMTable's
	// always-last-byte Horspool shift, the same selectivity gain
	// byte_frequencies.go documents for Rust's memchr crate.
	Literal   []byte
	RareBytes *simd.RareByteInfo
}

// StartClassKind names one of simd's dedicated single-class scanners.
type StartClassKind int

const (
	StartClassNone StartClassKind = iota
	StartClassDigit
	StartClassWord
	StartClassNotWord
)

// Analyze runs the three study analyses against prog and returns whatever
// hint applies, in the same priority prefilter.selectPrefilter uses: a
// complete literal-prefix structure (BM table or multi-prefix automaton)
// beats the coarser first-byte bitmap, and a bitmap beats no hint at all.
func Analyze(prog *compile.Program) *ExtraInfo {
	if bm, literal := buildBoyerMoore(prog); bm != nil {
		info := &ExtraInfo{BMTable: bm, Literal: literal}
		if len(literal) >= 2 {
			rare := simd.SelectRareBytes(literal)
			info.RareBytes = &rare
		}
		return info
	}
	if auto := buildMultiPrefix(prog); auto != nil {
		return &ExtraInfo{MultiPrefix: auto}
	}
	if bits := buildStartBits(prog); bits != nil {
		return &ExtraInfo{StartBits: bits, StartTable: expandStartBits(bits), StartClass: classifyStartBits(prog, bits)}
	}
	return nil
}
