package posix

import (
	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/study"
	"github.com/coregx/pcre/syntax"
	"github.com/coregx/pcre/tables"
)

// CompileFlags mirrors the regcomp() cflags bitmask: which dialect to
// parse the pattern under and which compile-time behaviors to turn on.
// Basic (BRE) is the zero value, matching POSIX's own REG_EXTENDED-absent
// default.
type CompileFlags struct {
	Extended     bool // REG_EXTENDED: parse as ERE instead of BRE
	ICase        bool // REG_ICASE: caseless matching
	NoSub        bool // REG_NOSUB: caller doesn't want submatch offsets
	Newline      bool // REG_NEWLINE: ^/$ match around embedded '\n' (sets MULTILINE only; bracket expressions such as [^a] still match '\n')
	English      bool // ENGLISH_ERRORS: use the English message table for Error
	Extra        bool // EXTRA: reject ambiguous escapes instead of treating them as literal
	MaxRecursion int  // compile.Config.MaxRecursionDepth (0 keeps the default); Exec matches with vm.DefaultConfig() and does not read it

	// Tables overrides the character-tables block used to parse, compile,
	// and match this pattern. Per spec.md §4.1, callers may supply their
	// own instead of the process-wide default; nil means tables.Default().
	Tables *tables.Tables
}

// Regexp is a compiled POSIX pattern, the shim's analogue of regex_t.
// Safe for concurrent Exec calls; it carries no mutable match-time state
// of its own (per spec.md §5's "no thread-shared compiled-pattern
// mutation").
type Regexp struct {
	prog    *compile.Program
	extra   *study.ExtraInfo
	english bool
	noSub   bool
}

// Compile parses pattern under the dialect cflags selects and builds a
// Regexp, the equivalent of regcomp(). A Basic pattern is first
// mechanically rewritten to Extended text via compile.TranslateBRE (per
// spec.md §4.3: BRE is never parsed directly) and the result handed to
// the same ERE front end Extended patterns use directly.
func Compile(pattern string, cflags CompileFlags) (*Regexp, error) {
	src := []byte(pattern)
	flavor := compile.FlavorERE
	if !cflags.Extended {
		translated, err := compile.TranslateBRE(src)
		if err != nil {
			return nil, toPosixError(err, cflags.English)
		}
		src = translated
	}

	opts := syntax.Options{
		Caseless:  cflags.ICase,
		Multiline: cflags.Newline,
		Extra:     cflags.Extra,
	}

	cfg := compile.DefaultConfig()
	if cflags.MaxRecursion > 0 {
		cfg.MaxRecursionDepth = cflags.MaxRecursion
	}

	prog, err := compile.Compile(src, flavor, opts, cflags.Tables, cfg)
	if err != nil {
		return nil, toPosixError(err, cflags.English)
	}

	return &Regexp{
		prog:    prog,
		extra:   study.Analyze(prog),
		english: cflags.English,
		noSub:   cflags.NoSub,
	}, nil
}

// toPosixError maps a *syntax.Error or *compile.Error's message text to the
// closed POSIX ErrCode taxonomy, per regposix.c's error-table shape
// (translated, not transliterated — the wording is this module's own).
// An error kind this table doesn't recognize falls back to Invalid
// rather than panicking, since new syntax faults may be added to syntax/
// and compile/ over time without every one needing a bespoke POSIX code.
func toPosixError(err error, english bool) *Error {
	offset := 0
	msg := ""
	switch e := err.(type) {
	case *syntax.Error:
		offset, msg = e.Offset, e.Msg
	case *compile.Error:
		offset, msg = e.Offset, e.Msg
	case *compile.ConfigError:
		return &Error{Code: Invarg, english: english}
	default:
		return &Error{Code: Invalid, english: english}
	}

	code := Invalid
	switch msg {
	case "lone trailing backslash", "\\c at end of pattern":
		code = EEscape
	case "unrecognized escape sequence", "unrecognized character after (?":
		code = EEsCape
	case "malformed {n,m} quantifier", "invalid content of \\{\\}":
		code = BadBR
	case "repeat count exceeds 65535":
		code = BadBR
	case "missing terminating ]":
		code = EBrack
	case "range out of order in character class":
		code = ERange
	case "nothing to repeat":
		code = BadRPT
	case "unmatched { in pattern":
		code = EBrace
	case "reference to non-existent subpattern":
		code = ESubReg
	case "unmatched ( in pattern":
		code = EParen
	case "unmatched ) in pattern":
		code = EParen
	case "regular expression is too large", "internal error: emitted buffer exceeds sized capacity":
		code = ESize
	case "parentheses nested too deeply":
		code = ESize
	case "unknown POSIX class name":
		code = ECType
	case "collating elements are not supported":
		code = ECollate
	case "lookbehind assertion is not fixed length", "lookbehind assertion is not well formed",
		"conditional subpattern has more than two branches", "invalid condition for (?(...))":
		code = BadPattern
	case "invalid basic regular expression syntax":
		code = EBExpr
	case "too many capturing groups (max 65535)":
		code = ESize
	}

	return &Error{Code: code, Offset: offset, english: english}
}
