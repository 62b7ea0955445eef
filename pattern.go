package pcre

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/study"
	"github.com/coregx/pcre/syntax"
	"github.com/coregx/pcre/tables"
	"github.com/coregx/pcre/vm"
)

// patternMagic rejects a junk/zero-value *Pattern at Exec time, per
// spec.md §6's "Magic 0x50435245 is present to reject junk pointers" —
// there is no raw-pointer aliasing risk in Go, but a zero-value Pattern{}
// (as opposed to one built by Compile) is exactly the kind of "looks like
// a handle but isn't one" mistake the magic number exists to catch.
const patternMagic = 0x50435245

// Code is the vm-level status Exec returns alongside a pair count,
// re-exported here so callers of the raw API don't need to import vm
// themselves just to compare against it.
type Code = vm.Code

const (
	CodeOK          = vm.CodeOK
	CodeNoMatch     = vm.CodeNoMatch
	CodeNull        = vm.CodeNull
	CodeBadOption   = vm.CodeBadOption
	CodeBadMagic    = vm.CodeBadMagic
	CodeUnknownNode = vm.CodeUnknownNode
	CodeNoMemory    = vm.CodeNoMemory
	CodeNoSubstring = vm.CodeNoSubstring
)

// RuntimeOptions are the per-Exec-call options spec.md §6 lists.
type RuntimeOptions = vm.RuntimeOptions

// Options are the compile-time option bits spec.md §6 lists for the Perl
// front end. Extended patterns are always parsed with FlavorPerl here;
// package posix is the POSIX BRE/ERE front door.
type Options struct {
	Caseless  bool // CASELESS
	Multiline bool // MULTILINE
	DotAll    bool // DOTALL
	Extended  bool // EXTENDED: whitespace and #-comments ignored outside classes
	Ungreedy  bool // UNGREEDY: swap greedy/reluctant defaults
	Extra     bool // EXTRA: reject ambiguous escapes instead of treating them as literal
	Anchored  bool // ANCHORED: force anchored matching regardless of the pattern text
	English   bool // ENGLISH_ERRORS: use the English message table (see posix.CompileFlags.English)

	// Tables overrides the character-tables block (ctype/fold/POSIX-class
	// data) used to parse, compile, and — via the Program it produces —
	// match this pattern. Per spec.md §4.1, callers may supply their own
	// instead of the process-wide default; nil means tables.Default().
	Tables *tables.Tables
}

// StudyOptions gate which of study's analyses run, per spec.md §6's
// "Study API: option bits {STUDY_NO_PRUNE, STUDY_NO_START}".
type StudyOptions struct {
	NoPrune bool // skip the possessive-quantifier rewrite pass
	NoStart bool // skip building a BM table / start-bits bitmap / multi-prefix automaton
}

// Pattern is the immutable compiled-pattern handle spec.md §3 describes:
// built by Compile, read-only thereafter, safe to share across goroutines
// for concurrent Exec calls (each Exec call owns its own ovector and
// match-time state).
type Pattern struct {
	magic  uint32
	id     int
	prog   *compile.Program
	extra  *study.ExtraInfo
	source string
}

// CompilePattern parses pattern under the Perl front end and compiles it
// to bytecode, returning a *Pattern or a *syntax.Error/*compile.Error/
// *compile.ConfigError (each carrying a byte offset where applicable).
// This is the raw spec.md §6 Compile API; Compile (below) returns the
// stdlib-flavored *Regex convenience wrapper most callers want instead.
func CompilePattern(pattern string, opts Options) (*Pattern, error) {
	return CompilePatternID(0, pattern, opts)
}

// CompilePatternID is CompilePattern plus a caller-supplied identifier
// that Info() echoes back unchanged. A grep-like consumer juggling many
// compiled patterns (one per ruleset line, say) can use this to recover
// which pattern a given match came from without keeping a side table
// keyed by pointer identity.
func CompilePatternID(id int, pattern string, opts Options) (*Pattern, error) {
	sopts := syntax.Options{
		Caseless:  opts.Caseless,
		Multiline: opts.Multiline,
		DotAll:    opts.DotAll,
		Extended:  opts.Extended,
		Ungreedy:  opts.Ungreedy,
		Extra:     opts.Extra,
	}

	prog, err := compile.Compile([]byte(pattern), compile.FlavorPerl, sopts, opts.Tables, compile.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if opts.Anchored {
		prog.Anchored = true
	}

	return &Pattern{magic: patternMagic, id: id, prog: prog, source: pattern}, nil
}

// MustCompilePattern is CompilePattern but panics on error, for patterns
// known valid at compile time.
func MustCompilePattern(pattern string, opts Options) *Pattern {
	p, err := CompilePattern(pattern, opts)
	if err != nil {
		panic("pcre: CompilePattern(" + pattern + "): " + err.Error())
	}
	return p
}

// Study runs the optimizer pass (spec.md §4.4) over the pattern's
// bytecode: a possessive-quantifier rewrite (unless NoPrune), then a
// Boyer-Moore/first-byte-bitmap/multi-prefix hint build (unless NoStart).
// The resulting hint, if any, is cached on the Pattern and used by every
// subsequent Exec call; study.Analyze's result is a pure optimization
// (spec.md §8 testable property 4), so calling Study or not never changes
// what Exec finds, only how fast it finds it.
func (p *Pattern) Study(opts StudyOptions) *study.ExtraInfo {
	if !opts.NoPrune {
		study.Prune(p.prog)
	}
	if opts.NoStart {
		p.extra = nil
		return nil
	}
	p.extra = study.Analyze(p.prog)
	return p.extra
}

// Exec runs the pattern against subject, the raw offset-vector contract of
// spec.md §4.5/§6: a positive pair count on a full match, 0 if ovector has
// no room for every captured group, or a negative Code.
func (p *Pattern) Exec(subject []byte, startOffset int, opts RuntimeOptions, ovector []int) (int, Code) {
	if p == nil || p.magic != patternMagic {
		return 0, CodeBadMagic
	}
	return vm.Exec(p.prog, p.extra, vm.DefaultConfig(), subject, startOffset, opts, ovector)
}

// Info reports the compiled-pattern metadata spec.md §6's Info API lists.
type Info struct {
	ID             int
	Source         string
	Caseless       bool
	Multiline      bool
	DotAll         bool
	Anchored       bool
	Size           int // bytecode length
	NumGroups      int // highest capture-group index
	NumBackrefs    int // highest back-reference index
	HasBMTable     bool
	HasStartBits   bool
	HasMultiPrefix bool
}

// Info returns the metadata block described above. Fields that depend on
// study (HasBMTable, HasStartBits, HasMultiPrefix) reflect whatever the
// most recent Study call found; they are all false if Study was never
// called.
func (p *Pattern) Info() Info {
	info := Info{
		ID:          p.id,
		Source:      p.source,
		Caseless:    p.prog.Caseless,
		Multiline:   p.prog.Multiline,
		DotAll:      p.prog.DotAll,
		Anchored:    p.prog.Anchored,
		Size:        len(p.prog.Code),
		NumGroups:   p.prog.NumGroups,
		NumBackrefs: p.prog.NumBackrefs,
	}
	if p.extra != nil {
		info.HasBMTable = p.extra.BMTable != nil
		info.HasStartBits = p.extra.StartBits != nil
		info.HasMultiPrefix = p.extra.MultiPrefix != nil
	}
	return info
}

// Disassemble renders the pattern's bytecode in human-readable form, for
// diagnostics and tests (spec.md §9's "regdebug.c-style opcode disassembly").
func (p *Pattern) Disassemble() string {
	return compile.Disassemble(p.prog)
}
