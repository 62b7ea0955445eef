package vm

import (
	"testing"

	"github.com/coregx/pcre/syntax"
)

func TestExecConcatenationDoesNotShortCircuit(t *testing.T) {
	// Regression test for a bug where a leaf opcode's success jumped
	// straight to "after the enclosing group" instead of the next
	// instruction in its own branch — "ab" would wrongly stop after
	// matching just "a".
	prog := mustCompile(t, "ab", syntax.Options{})
	n, code, ov := exec(t, prog, "xaby")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 1 || ov[1] != 3 {
		t.Errorf("match span = [%d,%d), want [1,3)", ov[0], ov[1])
	}
}

func TestExecGroupAlternation(t *testing.T) {
	prog := mustCompile(t, "(cat|dog)s", syntax.Options{})
	n, code, ov := exec(t, prog, "the dogs bark")
	if code != CodeOK || n != 2 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 4 || ov[1] != 8 {
		t.Errorf("whole match = [%d,%d), want [4,8)", ov[0], ov[1])
	}
	if ov[2] != 4 || ov[3] != 7 {
		t.Errorf("group 1 = [%d,%d), want [4,7)", ov[2], ov[3])
	}
}

func TestExecStarGroupCapturesLastIteration(t *testing.T) {
	// Regression test for a bug where every enclosing loop iteration's
	// Ket re-wrote the capture on the way back out, leaving group 1
	// spanning the *whole* repeated match instead of just its last
	// iteration (PCRE/Perl semantics: a capture group reflects only the
	// final time it was entered).
	prog := mustCompile(t, "(a)*", syntax.Options{})
	n, code, ov := exec(t, prog, "aaa")
	if code != CodeOK || n != 2 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 3 {
		t.Errorf("whole match = [%d,%d), want [0,3)", ov[0], ov[1])
	}
	if ov[2] != 2 || ov[3] != 3 {
		t.Errorf("group 1 = [%d,%d), want [2,3) (the last iteration only)", ov[2], ov[3])
	}
}

func TestExecBackreference(t *testing.T) {
	prog := mustCompile(t, `(\w+) \1`, syntax.Options{})
	n, code, ov := exec(t, prog, "echo echo")
	if code != CodeOK || n != 2 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[2] != 0 || ov[3] != 4 {
		t.Errorf("group 1 = [%d,%d), want [0,4)", ov[2], ov[3])
	}
}

func TestExecBackreferenceUnsetFails(t *testing.T) {
	prog := mustCompile(t, `(a)?\1b`, syntax.Options{})
	n, code, _ := exec(t, prog, "b")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected unset \\1 to fail to match, got n=%d code=%v", n, code)
	}
}

func TestExecLookaheadPositive(t *testing.T) {
	prog := mustCompile(t, `foo(?=bar)`, syntax.Options{})
	n, code, ov := exec(t, prog, "foobar")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 3 {
		t.Errorf("match span = [%d,%d), want [0,3) (lookahead consumes nothing)", ov[0], ov[1])
	}
}

func TestExecLookaheadNegativeRejects(t *testing.T) {
	prog := mustCompile(t, `foo(?!bar)`, syntax.Options{})
	n, code, _ := exec(t, prog, "foobar")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected (?!bar) to reject foobar, got n=%d code=%v", n, code)
	}
	n, code, ov := exec(t, prog, "foobaz")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec against foobaz: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 3 {
		t.Errorf("match span = [%d,%d), want [0,3)", ov[0], ov[1])
	}
}

func TestExecLookbehindPositive(t *testing.T) {
	prog := mustCompile(t, `(?<=foo)bar`, syntax.Options{})
	n, code, ov := exec(t, prog, "foobar")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 3 || ov[1] != 6 {
		t.Errorf("match span = [%d,%d), want [3,6)", ov[0], ov[1])
	}
}

func TestExecLookbehindNegative(t *testing.T) {
	prog := mustCompile(t, `(?<!foo)bar`, syntax.Options{})
	n, code, _ := exec(t, prog, "foobar")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected (?<!foo)bar to reject foobar, got n=%d code=%v", n, code)
	}
	n, code, ov := exec(t, prog, "xxxbar")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec against xxxbar: n=%d code=%v", n, code)
	}
	if ov[0] != 3 || ov[1] != 6 {
		t.Errorf("match span = [%d,%d), want [3,6)", ov[0], ov[1])
	}
}

func TestExecAtomicGroupNoBacktrack(t *testing.T) {
	prog := mustCompile(t, `(?>a*)a`, syntax.Options{})
	n, code, _ := exec(t, prog, "aaa")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("expected atomic (?>a*)a to reject aaa, got n=%d code=%v", n, code)
	}
}

func TestExecConditionalOnGroup(t *testing.T) {
	prog := mustCompile(t, `(a)?(?(1)b|c)`, syntax.Options{})
	n, code, _ := exec(t, prog, "ab")
	if code != CodeOK || n != 2 {
		t.Fatalf("Exec against ab: n=%d code=%v", n, code)
	}
	n, code, _ = exec(t, prog, "c")
	if code != CodeOK || n != 2 {
		t.Fatalf("Exec against c: n=%d code=%v", n, code)
	}
}

func TestExecConditionalOnLookahead(t *testing.T) {
	prog := mustCompile(t, `(?(?=a)ab|cd)`, syntax.Options{})
	n, code, ov := exec(t, prog, "ab")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec against ab: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 2 {
		t.Errorf("match span = [%d,%d), want [0,2)", ov[0], ov[1])
	}
	n, code, ov = exec(t, prog, "cd")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec against cd: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 2 {
		t.Errorf("match span = [%d,%d), want [0,2)", ov[0], ov[1])
	}
}

func TestExecWordBoundary(t *testing.T) {
	prog := mustCompile(t, `\bcat\b`, syntax.Options{})
	n, code, ov := exec(t, prog, "the cats cat here")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 9 || ov[1] != 12 {
		t.Errorf("match span = [%d,%d), want [9,12) (skips 'cats')", ov[0], ov[1])
	}
}

func TestExecRecursion(t *testing.T) {
	prog := mustCompile(t, `a(?R)?b`, syntax.Options{})
	n, code, ov := exec(t, prog, "aaabbb")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 6 {
		t.Errorf("match span = [%d,%d), want [0,6)", ov[0], ov[1])
	}
}

func TestExecRecursionCapturesDoNotLeakOut(t *testing.T) {
	// The recursive sub-match's own captures must not overwrite whatever
	// the enclosing call's captures end up being once the rest of the
	// pattern (after the recursion point) has had its turn to run.
	prog := mustCompile(t, `(a)(?R)?(b)`, syntax.Options{})
	n, code, ov := exec(t, prog, "aabb")
	if code != CodeOK || n != 3 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 0 || ov[1] != 4 {
		t.Errorf("whole match = [%d,%d), want [0,4)", ov[0], ov[1])
	}
	if ov[4] != 3 || ov[5] != 4 {
		t.Errorf("group 2 = [%d,%d), want [3,4) (the outermost ')'-side match)", ov[4], ov[5])
	}
}

func TestExecMultilineAnchors(t *testing.T) {
	// With MULTILINE, ^ and $ also match right after/before an embedded
	// '\n', not just at the very start/end of the subject.
	prog := mustCompile(t, "^foo$", syntax.Options{Multiline: true})
	n, code, ov := exec(t, prog, "x\nfoo\ny")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 2 || ov[1] != 5 {
		t.Errorf("match span = [%d,%d), want [2,5)", ov[0], ov[1])
	}
}

func TestExecWithoutMultilineAnchorsOnlyMatchWholeSubject(t *testing.T) {
	// Without MULTILINE, ^/$ only match the very start/end of the subject,
	// so an embedded "foo" line is not anchored on its own.
	prog := mustCompile(t, "^foo$", syntax.Options{})
	_, code, _ := exec(t, prog, "x\nfoo\ny")
	if code != CodeNoMatch {
		t.Errorf("Exec: code=%v, want CodeNoMatch", code)
	}
}
