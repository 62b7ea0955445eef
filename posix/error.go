// Package posix implements the regcomp/regexec/regerror/regfree-shaped
// shim described in spec.md §6: a POSIX-flavored front door onto the same
// compile/study/vm pipeline the root package uses, translating this
// module's own byte-offset errors and vm.Code taxonomy into the closed set
// of error codes a POSIX caller expects, per
// original_source/pcre/regposix.c's error-table shape (translated, not
// transliterated — the messages are this module's own wording).
package posix

import "fmt"

// ErrCode is the closed POSIX regerror() taxonomy. Names follow the
// standard regex.h constants (REG_NOMATCH and friends) with the REG_
// prefix dropped, since Go callers reach them as posix.ErrCode values
// rather than C preprocessor macros.
type ErrCode int

const (
	// NoMatch means Exec found no match; not itself an error in the
	// POSIX sense, but shares the code space so Error can report it
	// through the same Error() formatting when a caller wants that.
	NoMatch ErrCode = iota
	BadPattern
	ECollate
	ECType
	EEscape
	ESubReg
	EBrack
	EParen
	EBrace
	BadBR
	ERange
	ESpace
	BadRPT
	EEnd
	Empty
	EBExpr
	EEsCape
	Invarg
	ESize
	Assert
	Invalid
)

var messages = [...]string{
	NoMatch:    "no match",
	BadPattern: "invalid regular expression",
	ECollate:   "invalid collating element",
	ECType:     "invalid character class",
	EEscape:    "trailing backslash",
	ESubReg:    "invalid back reference",
	EBrack:     "unmatched [, [^, [:, [., or [=",
	EParen:     "unmatched ( or \\(",
	EBrace:     "unmatched \\{",
	BadBR:      "invalid content of \\{\\}",
	ERange:     "invalid range end",
	ESpace:     "out of memory",
	BadRPT:     "repetition-operator operand invalid",
	EEnd:       "premature end of regular expression",
	Empty:      "empty regular expression",
	EBExpr:     "invalid extended regular expression",
	EEsCape:    "unknown escape sequence",
	Invarg:     "invalid argument",
	ESize:      "regular expression too large",
	Assert:     "cannot happen: internal assertion failed",
	Invalid:    "invalid regular expression",
}

// englishMessages backs the ENGLISH_ERRORS compile option (spec.md §6).
// This module carries no locale message catalog, so both paths resolve to
// the same wording today; the option is threaded through Compile anyway so
// a future locale catalog has somewhere to plug in rather than silently
// behaving as a no-op. See DESIGN.md.
var englishMessages = messages

func (c ErrCode) message(english bool) string {
	tbl := &messages
	if english {
		tbl = &englishMessages
	}
	if int(c) < 0 || int(c) >= len(tbl) || tbl[c] == "" {
		return "unknown error"
	}
	return tbl[c]
}

// Error is the fault Compile and Exec report. It always carries the byte
// offset the underlying syntax/compile error reported (0 for exec-time
// faults, which have no pattern-text offset to point at), matching
// spec.md §7's "errors carry position information where one exists" rule.
type Error struct {
	Code    ErrCode
	Offset  int
	english bool
}

// Error implements the error interface, formatting as "<reason> at offset
// <n>" per spec.md §6.
func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Code.message(e.english), e.Offset)
}
