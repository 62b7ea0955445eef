// Package vm implements the backtracking interpreter described in
// spec.md §4.5: a synchronous, single-threaded matcher that executes
// compile.Program bytecode directly, the same way PCRE's own match()
// function walks its opcode stream — recursion provides backtracking for
// free (a failed alternative just returns false and the caller tries the
// next one), so there is no separate thread/state abstraction the way
// nfa/backtrack.go's BoundedBacktracker needs one for its visited-bitset
// NFA simulation.
package vm

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/study"
	"github.com/coregx/pcre/tables"
)

// Code is the C-style dual-return status spec.md §6 specifies: Exec
// returns a pair count, but errors are reported through the same negative
// space real pcre_exec uses rather than through Go's error interface, so
// a caller can match the wire contract exactly.
type Code int

const (
	// CodeOK is not itself returned by Exec — a genuine match reports a
	// non-negative pair count alongside it — but names the zero value so
	// call sites can write `if code != 0` without a magic number.
	CodeOK          Code = 0
	CodeNoMatch     Code = -1
	CodeNull        Code = -2
	CodeBadOption   Code = -3
	CodeBadMagic    Code = -4
	CodeUnknownNode Code = -5
	CodeNoMemory    Code = -6
	CodeNoSubstring Code = -7
)

// Error satisfies the error interface so a Code can be returned or wrapped
// the ordinary Go way at call sites that prefer it to the raw int.
func (c Code) Error() string {
	switch c {
	case CodeNoMatch:
		return "vm: no match"
	case CodeNull:
		return "vm: null argument"
	case CodeBadOption:
		return "vm: bad option"
	case CodeBadMagic:
		return "vm: bad magic number"
	case CodeUnknownNode:
		return "vm: unknown opcode"
	case CodeNoMemory:
		return "vm: recursion depth exceeded"
	case CodeNoSubstring:
		return "vm: no such substring"
	default:
		return "vm: ok"
	}
}

// Config bounds the interpreter's resource usage. Unlike
// nfa.BoundedBacktracker, which caps a visited-bitset to bound worst-case
// time, this interpreter does true backtracking with capture groups, so
// the cost to bound is host call-stack depth, not state-visit count.
type Config struct {
	// MaxRecursionDepth caps nested match() calls. Exceeding it turns
	// stack exhaustion into CodeNoMemory instead of a crash.
	MaxRecursionDepth int

	// MaxVisitedHint is carried over from the teacher's
	// BoundedBacktracker.maxVisitedSize for configuration-surface
	// parity, but this interpreter has no visited-bitset to size: true
	// backtracking with per-group capture state isn't representable as
	// PikeVM-style simultaneous-thread simulation, so the field is
	// accepted and otherwise unused.
	MaxVisitedHint int
}

// DefaultConfig matches compile.DefaultConfig's spirit: generous enough
// for ordinary patterns, small enough to fail fast on pathological ones.
func DefaultConfig() Config {
	return Config{MaxRecursionDepth: 1000, MaxVisitedHint: 256 * 1024}
}

// RuntimeOptions are the per-call match options spec.md §6 lists,
// independent of whatever was baked into the Program at compile time.
type RuntimeOptions struct {
	Anchored bool // force anchored matching even if the pattern isn't
	NotBOL   bool // subject start isn't really a line start for '^'
	NotEOL   bool // subject end isn't really a line end for '$'
	NotEmpty bool // reject a match that consumes zero bytes
}

// cont is the continuation a matching step invokes once it has consumed
// whatever it consumes: "given the subject is now at eptr, does the rest
// of the pattern succeed?" Every opcode handler is written in this
// continuation-passing style so that brackets, assertions, and possessive
// loops can each build the right continuation for their own content
// without the matcher needing an explicit parser stack — entering a
// bracket just captures the caller's own entry/cont in a closure and
// hands the nested content a new one.
type cont func(eptr int) (bool, Code)

// matcher holds per-Exec-call state threaded through every match step.
type matcher struct {
	code      []byte
	subject   []byte
	tbl       *tables.Tables
	caseless  bool
	multiline bool
	dotAll    bool
	numGroups int
	anchorPos int
	opts      RuntimeOptions

	capStart []int // capStart[0] is the whole match; -1 means unset
	capEnd   []int

	commitEptr int // scratch: last position recorded by a "commit" cont

	depth    int
	maxDepth int
}

// Exec runs prog against subject starting no earlier than startOffset,
// filling ovector with (start,end) pairs on success. Per spec.md §6:
// returns a positive pair count on a full match, 0 if the match succeeded
// but ovector has no room for every captured group (the whole-match pair
// is still written when there is room for it), or a negative Code.
func Exec(prog *compile.Program, extra *study.ExtraInfo, cfg Config, subject []byte, startOffset int, opts RuntimeOptions, ovector []int) (int, Code) {
	if prog == nil {
		return 0, CodeNull
	}
	if startOffset < 0 || startOffset > len(subject) {
		return 0, CodeBadOption
	}
	if cfg.MaxRecursionDepth <= 0 {
		cfg = DefaultConfig()
	}

	tbl := prog.Tables
	if tbl == nil {
		tbl = tables.Default()
	}

	m := &matcher{
		code:      prog.Code,
		subject:   subject,
		tbl:       tbl,
		caseless:  prog.Caseless,
		multiline: prog.Multiline,
		dotAll:    prog.DotAll,
		numGroups: prog.NumGroups,
		anchorPos: startOffset,
		opts:      opts,
		capStart:  make([]int, prog.NumGroups+1),
		capEnd:    make([]int, prog.NumGroups+1),
		maxDepth:  cfg.MaxRecursionDepth,
	}

	anchored := prog.Anchored || opts.Anchored
	pos := startOffset

	for {
		for i := range m.capStart {
			m.capStart[i] = -1
			m.capEnd[i] = -1
		}
		m.depth = 0
		m.capStart[0] = pos

		attemptStart := pos
		topCont := func(e int) (bool, Code) {
			if m.opts.NotEmpty && e == attemptStart {
				return false, CodeOK
			}
			m.capEnd[0] = e
			return true, CodeOK
		}

		ok, code := m.match(0, pos, pos, topCont)
		if code != CodeOK {
			return 0, code
		}
		if ok {
			return writeOvector(m, ovector), CodeOK
		}
		if anchored {
			return 0, CodeNoMatch
		}

		next := pos + 1
		if extra != nil {
			next = advance(subject, pos, extra)
		}
		if next > len(subject) {
			return 0, CodeNoMatch
		}
		pos = next
	}
}

func writeOvector(m *matcher, ovector []int) int {
	pairs := len(ovector) / 3
	if pairs <= 0 {
		return 0
	}
	total := m.numGroups + 1
	n := total
	if n > pairs {
		n = pairs
	}
	for g := 0; g < n; g++ {
		ovector[2*g] = m.capStart[g]
		ovector[2*g+1] = m.capEnd[g]
	}
	if total > pairs {
		return 0
	}
	return total
}
