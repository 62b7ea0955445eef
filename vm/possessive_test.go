package vm

import (
	"testing"

	"github.com/coregx/pcre/syntax"
)

func TestExecGreedyStarBacktracks(t *testing.T) {
	prog := mustCompile(t, "a*ab", syntax.Options{})
	n, code, ov := exec(t, prog, "aaab")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 4 {
		t.Errorf("match span = [%d,%d), want [0,4)", ov[0], ov[1])
	}
}

func TestExecLazyQuery(t *testing.T) {
	prog := mustCompile(t, "<.+?>", syntax.Options{})
	n, code, ov := exec(t, prog, "<a><b>")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 3 {
		t.Errorf("match span = [%d,%d), want [0,3) (lazy stops at first '>')", ov[0], ov[1])
	}
}

func TestExecPossessiveFailsWhereGreedyWouldBacktrack(t *testing.T) {
	prog := mustCompile(t, "a*+ab", syntax.Options{})
	n, code, _ := exec(t, prog, "aaab")
	// a*+ consumes all three a's with no possibility of giving one back,
	// so "ab" can never follow anywhere in the subject.
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected no match for a*+ab against aaab, got n=%d code=%v", n, code)
	}
}

func TestExecPossessiveGroupFailsWhereGreedyWouldBacktrack(t *testing.T) {
	prog := mustCompile(t, "(?:ab)*+ab", syntax.Options{})
	n, code, _ := exec(t, prog, "ababab")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected no match for (?:ab)*+ab against ababab, got n=%d code=%v", n, code)
	}
}

// Resolved open question: a possessive loop whose body can match zero
// bytes breaks out of the loop on the first zero-length iteration rather
// than looping forever, the same way an ordinary greedy MAXSTAR loop
// does. A possessive quantifier never backtracks into a completed
// iteration, so the only way to keep Exec always terminating is to stop
// as soon as an iteration makes no progress.
func TestExecPossessiveZeroLengthIterationBreaksOut(t *testing.T) {
	prog := mustCompile(t, "(?:a*)++b", syntax.Options{})
	n, code, ov := exec(t, prog, "aaab")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 4 {
		t.Errorf("match span = [%d,%d), want [0,4)", ov[0], ov[1])
	}
}

func TestExecPossessiveZeroLengthIterationAgainstEmptyBody(t *testing.T) {
	// (?:a*)++ against a subject with no leading 'a's: the possessive
	// loop's very first iteration is already zero-length, so it must
	// break out immediately rather than hang, leaving "b" to match at
	// the start.
	prog := mustCompile(t, "(?:a*)++b", syntax.Options{})
	n, code, ov := exec(t, prog, "b")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 1 {
		t.Errorf("match span = [%d,%d), want [0,1)", ov[0], ov[1])
	}
}

func TestExecOptionalPossessiveGroupCommitsToTaking(t *testing.T) {
	prog := mustCompile(t, "(?:a)?+ab", syntax.Options{})
	// An ordinary (non-possessive) (?:a)?ab would backtrack off taking the
	// optional 'a' and match "ab" directly at position 0; the possessive
	// form commits to taking it, leaving nothing for the following "ab"
	// to match against anywhere in the subject.
	n, code, _ := exec(t, prog, "ab")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected no match for (?:a)?+ab against ab, got n=%d code=%v", n, code)
	}
	n, code, ov := exec(t, prog, "aab")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec against aab: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 3 {
		t.Errorf("match span = [%d,%d), want [0,3)", ov[0], ov[1])
	}
}
