package posix

import (
	"github.com/coregx/pcre/vm"
)

// MatchFlags mirrors the regexec() eflags bitmask.
type MatchFlags struct {
	NotBOL bool // REG_NOTBOL: subject start isn't a line start for '^'
	NotEOL bool // REG_NOTEOL: subject end isn't a line end for '$'
}

// Exec runs the compiled pattern against subject starting at startOffset,
// the shim's analogue of regexec(). nmatch bounds how many (start,end)
// pairs the caller wants back (0 if the Regexp was compiled NoSub, or the
// caller only cares whether it matched at all); Exec never writes beyond
// that many pairs even when the pattern captured more groups.
//
// Returns (nil, NoMatch-shaped *Error) when the pattern did not match
// anywhere in subject, ([]int, nil) with 2*n ovector entries on success
// (unmatched or truncated groups hold -1), or a non-nil *Error for a
// genuine runtime fault (stack-depth exceeded, bad start offset).
func (r *Regexp) Exec(subject string, startOffset int, nmatch int, mflags MatchFlags) ([]int, error) {
	if r.noSub {
		nmatch = 0
	}
	if nmatch < 1 {
		nmatch = 1 // always room for the whole-match pair
	}

	ovector := make([]int, 3*nmatch)
	opts := vm.RuntimeOptions{NotBOL: mflags.NotBOL, NotEOL: mflags.NotEOL}

	n, code := vm.Exec(r.prog, r.extra, vm.DefaultConfig(), []byte(subject), startOffset, opts, ovector)
	switch code {
	case vm.CodeOK:
		if n == 0 {
			// matched, but nmatch was too small to hold even the whole
			// match pair (can't happen given the nmatch<1 guard above,
			// but Exec's own contract allows it generically).
			return nil, &Error{Code: ESpace, english: r.english}
		}
		return ovector[:2*n], nil
	case vm.CodeNoMatch:
		return nil, &Error{Code: NoMatch, english: r.english}
	case vm.CodeBadOption:
		return nil, &Error{Code: Invarg, english: r.english}
	case vm.CodeNoMemory:
		return nil, &Error{Code: ESpace, english: r.english}
	case vm.CodeNull, vm.CodeBadMagic:
		return nil, &Error{Code: Invarg, english: r.english}
	case vm.CodeUnknownNode:
		return nil, &Error{Code: Assert, english: r.english}
	case vm.CodeNoSubstring:
		return nil, &Error{Code: Invarg, english: r.english}
	default:
		return nil, &Error{Code: Invalid, english: r.english}
	}
}

// MatchString reports whether subject contains a match anywhere, without
// asking for submatch offsets — the common REG_NOSUB-style call shape.
func (r *Regexp) MatchString(subject string) bool {
	_, err := r.Exec(subject, 0, 1, MatchFlags{})
	return err == nil
}

// NumSubexp returns the number of capturing groups the pattern has
// (group 0, the whole match, is not counted), the POSIX re_nsub field.
func (r *Regexp) NumSubexp() int {
	return r.prog.NumGroups
}
