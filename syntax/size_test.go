package syntax

import "testing"

// TestSizeMatchesHandComputed spot-checks sizeBranches against a few
// hand-computed expectations, independent of the emitter (package compile
// has the stronger cross-check: emitted length == Size()).
func TestSizeMatchesHandComputed(t *testing.T) {
	cases := []struct {
		pattern string
		want    int
	}{
		// one branch: header(5) + CHARS(2+3) + terminal(3) + END(1)
		{"abc", 5 + (2 + 3) + 3 + 1},
		// two branches, single-byte literal each: 2*(5+ (2+1) +3) + END
		{"a|b", 2*(5+(2+1)+3) + 1},
	}
	for _, c := range cases {
		pat, err := Parse([]byte(c.pattern), FlavorPerl, Options{}, nil)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.pattern, err)
		}
		if pat.Size != c.want {
			t.Errorf("Size(%q) = %d, want %d", c.pattern, pat.Size, c.want)
		}
	}
}

func TestSizeLiteralRunChunking(t *testing.T) {
	lit := make([]byte, 300)
	for i := range lit {
		lit[i] = 'a'
	}
	pat, err := Parse(lit, FlavorPerl, Options{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// 300 bytes chunked at 255: two CHARS ops, headers (2+2) + 300 bytes,
	// plus one bracket header, one terminal, one END.
	want := 5 + (2+255)+(2+45) + 3 + 1
	if pat.Size != want {
		t.Errorf("Size = %d, want %d", pat.Size, want)
	}
}

func TestSizeGroupRepeatBounded(t *testing.T) {
	pat, err := Parse([]byte("(ab){2,4}"), FlavorPerl, Options{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pat.Size <= 0 {
		t.Fatal("expected positive size")
	}
}

func TestFixedLength(t *testing.T) {
	branches := [][]Node{{{Kind: KLiteral, Lit: []byte("abc")}}}
	n, ok := FixedLength(branches)
	if !ok || n != 3 {
		t.Errorf("FixedLength = (%d,%v), want (3,true)", n, ok)
	}

	variable := [][]Node{
		{{Kind: KRepeat, Sub: &Node{Kind: KLiteral, Lit: []byte("a")}, Min: 0, Max: -1}},
	}
	if _, ok := FixedLength(variable); ok {
		t.Error("expected FixedLength to reject unbounded repeat")
	}
}
