package vm

import (
	"testing"

	"github.com/coregx/pcre/compile"
	"github.com/coregx/pcre/syntax"
)

func mustCompile(t *testing.T, pattern string, opts syntax.Options) *compile.Program {
	t.Helper()
	prog, err := compile.Compile([]byte(pattern), compile.FlavorPerl, opts, nil, compile.DefaultConfig())
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return prog
}

func exec(t *testing.T, prog *compile.Program, subject string) (int, Code, []int) {
	t.Helper()
	ovector := make([]int, 3*(prog.NumGroups+1))
	n, code := Exec(prog, nil, DefaultConfig(), []byte(subject), 0, RuntimeOptions{}, ovector)
	return n, code, ovector
}

func TestExecLiteral(t *testing.T) {
	prog := mustCompile(t, "hello", syntax.Options{})
	n, code, ov := exec(t, prog, "say hello there")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 4 || ov[1] != 9 {
		t.Errorf("match span = [%d,%d), want [4,9)", ov[0], ov[1])
	}
}

func TestExecNoMatch(t *testing.T) {
	prog := mustCompile(t, "xyz", syntax.Options{})
	n, code, _ := exec(t, prog, "abc")
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("Exec: n=%d code=%v, want CodeNoMatch", n, code)
	}
}

func TestExecCaselessOption(t *testing.T) {
	prog := mustCompile(t, "HELLO", syntax.Options{Caseless: true})
	n, code, ov := exec(t, prog, "say hello")
	if code != CodeOK || n != 1 {
		t.Fatalf("Exec: n=%d code=%v", n, code)
	}
	if ov[0] != 4 || ov[1] != 9 {
		t.Errorf("match span = [%d,%d), want [4,9)", ov[0], ov[1])
	}
}

func TestExecAnchoredOption(t *testing.T) {
	prog := mustCompile(t, "bar", syntax.Options{})
	ovector := make([]int, 3*(prog.NumGroups+1))
	_, code := Exec(prog, nil, DefaultConfig(), []byte("foobar"), 0, RuntimeOptions{Anchored: true}, ovector)
	if code != CodeNoMatch {
		t.Fatalf("anchored Exec against foobar: code=%v, want CodeNoMatch", code)
	}
}

func TestExecNotEmptyRejectsZeroLengthMatch(t *testing.T) {
	prog := mustCompile(t, "a*", syntax.Options{})
	ovector := make([]int, 3*(prog.NumGroups+1))
	n, code := Exec(prog, nil, DefaultConfig(), []byte("bbb"), 0, RuntimeOptions{NotEmpty: true}, ovector)
	if code != CodeNoMatch || n != 0 {
		t.Fatalf("NotEmpty Exec against bbb: n=%d code=%v, want CodeNoMatch", n, code)
	}
}

func TestExecOvectorTooSmallStillReportsWholeMatch(t *testing.T) {
	prog := mustCompile(t, "(a)(b)", syntax.Options{})
	ovector := make([]int, 3) // room for only the whole-match pair
	n, code := Exec(prog, nil, DefaultConfig(), []byte("ab"), 0, RuntimeOptions{}, ovector)
	if code != CodeOK || n != 0 {
		t.Fatalf("Exec: n=%d code=%v, want n=0 (not enough room for every group)", n, code)
	}
}

func TestExecNullProgram(t *testing.T) {
	_, code := Exec(nil, nil, DefaultConfig(), []byte("x"), 0, RuntimeOptions{}, nil)
	if code != CodeNull {
		t.Fatalf("Exec(nil): code=%v, want CodeNull", code)
	}
}
