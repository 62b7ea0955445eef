package syntax

import "testing"

func parse(t *testing.T, pattern string, flavor Flavor) *Pattern {
	t.Helper()
	pat, err := Parse([]byte(pattern), flavor, Options{}, nil)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return pat
}

func TestParseLiteralAndGroups(t *testing.T) {
	pat := parse(t, "a(b(c)d)e", FlavorPerl)
	if pat.TopBracket != 2 {
		t.Errorf("TopBracket = %d, want 2", pat.TopBracket)
	}
}

func TestParseAlternation(t *testing.T) {
	pat := parse(t, "abc|def|ghi", FlavorPerl)
	if len(pat.Branches) != 3 {
		t.Fatalf("got %d branches, want 3", len(pat.Branches))
	}
}

func TestParseQuantifierDiscipline(t *testing.T) {
	pat := parse(t, "a*?b++c*", FlavorPerl)
	seq := pat.Branches[0]
	if len(seq) != 3 {
		t.Fatalf("got %d terms, want 3", len(seq))
	}
	if seq[0].Discipline != Reluctant {
		t.Errorf("a*? discipline = %v, want Reluctant", seq[0].Discipline)
	}
	if seq[1].Discipline != Possessive {
		t.Errorf("b++ discipline = %v, want Possessive", seq[1].Discipline)
	}
	if seq[2].Discipline != Greedy {
		t.Errorf("c* discipline = %v, want Greedy", seq[2].Discipline)
	}
}

func TestParseBackrefVsOctal(t *testing.T) {
	pat := parse(t, "(a)(b)\\1\\2", FlavorPerl)
	seq := pat.Branches[0]
	if seq[2].Kind != KBackRef || seq[2].Ref != 1 {
		t.Errorf("expected backref 1, got %+v", seq[2])
	}
	if seq[3].Kind != KBackRef || seq[3].Ref != 2 {
		t.Errorf("expected backref 2, got %+v", seq[3])
	}

	pat2 := parse(t, "\\1", FlavorPerl)
	seq2 := pat2.Branches[0]
	if seq2[0].Kind != KLiteral || seq2[0].Lit[0] != 1 {
		t.Errorf("expected octal byte 1 literal, got %+v", seq2[0])
	}
}

func TestParseCharClassShorthand(t *testing.T) {
	pat := parse(t, "[\\da-f]", FlavorPerl)
	seq := pat.Branches[0]
	if seq[0].Kind != KClass {
		t.Fatalf("expected KClass, got %v", seq[0].Kind)
	}
	if seq[0].ClassBits['5'>>3]&(1<<('5'&7)) == 0 {
		t.Error("expected '5' to be a member (via \\d)")
	}
	if seq[0].ClassBits['c'>>3]&(1<<('c'&7)) == 0 {
		t.Error("expected 'c' to be a member (via a-f)")
	}
}

func TestParseLookbehindRequiresFixedLength(t *testing.T) {
	if _, err := Parse([]byte("(?<=a*)b"), FlavorPerl, Options{}, nil); err == nil {
		t.Error("expected error for variable-length lookbehind")
	}
	if _, err := Parse([]byte("(?<=abc)d"), FlavorPerl, Options{}, nil); err != nil {
		t.Errorf("fixed-length lookbehind rejected: %v", err)
	}
}

func TestParseConditional(t *testing.T) {
	pat := parse(t, "(a)(?(1)b|c)", FlavorPerl)
	seq := pat.Branches[0]
	cond := seq[1]
	if cond.Kind != KGroup || cond.GroupKind != GConditional {
		t.Fatalf("expected conditional group, got %+v", cond)
	}
	if cond.CondRef != 1 {
		t.Errorf("CondRef = %d, want 1", cond.CondRef)
	}
	if len(cond.Branches) != 2 {
		t.Errorf("got %d branches, want 2", len(cond.Branches))
	}
}

func TestParseNamedGroupBackref(t *testing.T) {
	pat := parse(t, "(?P<word>\\w+) (?P=word)", FlavorPerl)
	seq := pat.Branches[0]
	last := seq[len(seq)-1]
	if last.Kind != KBackRef || last.Ref != 1 {
		t.Errorf("expected backref to group 1, got %+v", last)
	}
}

func TestParseBracesLiteralWhenInvalid(t *testing.T) {
	pat := parse(t, "a{", FlavorPerl)
	seq := pat.Branches[0]
	if len(seq) != 2 {
		t.Fatalf("got %d terms, want 2 (a, literal {)", len(seq))
	}
	if seq[1].Kind != KLiteral || seq[1].Lit[0] != '{' {
		t.Errorf("expected literal '{', got %+v", seq[1])
	}
}

func TestParseAnchoredDetection(t *testing.T) {
	pat := parse(t, "^abc", FlavorPerl)
	if !pat.Anchored {
		t.Error("expected Anchored = true for ^abc")
	}
	pat2 := parse(t, "a^bc", FlavorPerl)
	if pat2.Anchored {
		t.Error("expected Anchored = false for a^bc")
	}
}

func TestParseTooLargeRejected(t *testing.T) {
	big := make([]byte, 0, 70000)
	for i := 0; i < 70000; i++ {
		big = append(big, 'a')
	}
	if _, err := Parse(big, FlavorPerl, Options{}, nil); err == nil {
		t.Error("expected regex-too-large error")
	}
}

func TestParseNestingLimit(t *testing.T) {
	pattern := make([]byte, 0)
	for i := 0; i < 300; i++ {
		pattern = append(pattern, '(')
	}
	for i := 0; i < 300; i++ {
		pattern = append(pattern, ')')
	}
	if _, err := Parse(pattern, FlavorPerl, Options{}, nil); err == nil {
		t.Error("expected nesting-too-deep error")
	}
}
