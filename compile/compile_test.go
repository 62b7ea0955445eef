package compile

import (
	"testing"

	"github.com/coregx/pcre/syntax"
)

func mustCompile(t *testing.T, pattern string, flavor Flavor) *Program {
	t.Helper()
	prog, err := Compile([]byte(pattern), flavor, syntax.Options{}, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return prog
}

// sizedLength re-derives the sized length the same way Compile does, so
// tests can assert the two-pass contract without exporting buffer size.
func sizedLength(t *testing.T, pattern string, flavor Flavor) int {
	t.Helper()
	pat, err := syntax.Parse([]byte(pattern), syntax.Flavor(flavor), syntax.Options{}, nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return pat.Size
}

func TestEmittedLengthMatchesSize(t *testing.T) {
	patterns := []string{
		"abc",
		"a|b|c",
		"a*b+c?",
		"a{2,5}",
		"a{3,}",
		"(ab)+",
		"(ab){2,4}",
		"(ab){0,3}",
		"(?:ab)*",
		"(?>ab+)c",
		"(?=ab)c",
		"(?!ab)c",
		"(?<=ab)c",
		"(?<!ab)c",
		"[a-z0-9]+",
		"\\d+\\s*\\w*",
		"a\\1",
		"(a)(b)\\1\\2",
		"(?(1)a|b)",
		"^abc$",
		"a.*b",
		".{2,4}",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			want := sizedLength(t, p, FlavorPerl)
			prog := mustCompile(t, p, FlavorPerl)
			if len(prog.Code) != want {
				t.Errorf("emitted %d bytes, sized %d", len(prog.Code), want)
			}
		})
	}
}

func TestEmittedLengthMatchesSizeERE(t *testing.T) {
	patterns := []string{
		"abc",
		"a|b|c",
		"a*b+c?",
		"a{2,5}",
		"(ab)+",
		"[a-z]+",
		"^abc$",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			want := sizedLength(t, p, FlavorERE)
			prog := mustCompile(t, p, FlavorERE)
			if len(prog.Code) != want {
				t.Errorf("emitted %d bytes, sized %d", len(prog.Code), want)
			}
		})
	}
}

// TestPOSIXAnchorSizedExactly checks that ERE's '^' and '$', which compile
// to zero-operand anchor opcodes, are charged exactly their emitted size by
// the sizer (SizeAnchor=1 through sizeNode), so emitted and sized lengths
// are equal rather than the sized one being larger.
func TestPOSIXAnchorSizedExactly(t *testing.T) {
	want := sizedLength(t, "^a$", FlavorERE)
	prog := mustCompile(t, "^a$", FlavorERE)
	if len(prog.Code) != want {
		t.Errorf("emitted %d bytes, sized %d", len(prog.Code), want)
	}
}

func TestDisassembleRuns(t *testing.T) {
	prog := mustCompile(t, "a(b|c)+d", FlavorPerl)
	out := Disassemble(prog)
	if out == "" {
		t.Fatal("Disassemble returned empty output")
	}
}

func TestTranslateBRE(t *testing.T) {
	cases := []struct{ in, want string }{
		{`\(a\)`, `(a)`},
		{`a\{1,2\}`, `a{1,2}`},
		{`(a)`, `\(a\)`},
		{`a+`, `a\+`},
		{`a*`, `a*`},
		{`*a`, `\*a`},
		{`^a`, `^a`},
		{`a^b`, `a\^b`},
		{`a$`, `a$`},
		{`a$b`, `a\$b`},
		{`[a$b]`, `[a$b]`},
	}
	for _, c := range cases {
		got, err := TranslateBRE([]byte(c.in))
		if err != nil {
			t.Fatalf("TranslateBRE(%q): %v", c.in, err)
		}
		if string(got) != c.want {
			t.Errorf("TranslateBRE(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaxPatternBytesRejectsOversizedPattern(t *testing.T) {
	_, err := Compile([]byte("abc"), FlavorPerl, syntax.Options{}, nil, Config{MaxNesting: 200, MaxRecursionDepth: 10, MaxPatternBytes: 10})
	if err == nil {
		t.Fatal("expected error from overly small MaxPatternBytes via syntax sizing")
	}
}
