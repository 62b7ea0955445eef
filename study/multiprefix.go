package study

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/pcre/compile"
)

// buildMultiPrefix is SPEC_FULL.md §4.4's enrichment beyond the BM/bitmap
// pair spec.md §4.4 describes: when a top-level alternation has more than
// one branch (so buildBoyerMoore abandons per "more than one branch") but
// every branch still opens with a fixed literal run, build an
// github.com/coregx/ahocorasick automaton over those leading literals —
// still a complete, exact-match-position search, just one that handles
// more than one possible first byte. Returns nil the moment any branch
// lacks a leading literal, same abandon-early spirit as buildBoyerMoore.
func buildMultiPrefix(prog *compile.Program) *ahocorasick.Automaton {
	code := prog.Code
	if len(code) == 0 || compile.Op(code[0]) != compile.OpBra {
		return nil
	}
	if isSingleBranch(code, 5) {
		return nil
	}

	var prefixes [][]byte
	ip := 0
	for {
		contentStart := ip + 5
		lit, ok := leadingLiteral(code, contentStart)
		if !ok {
			return nil
		}
		prefixes = append(prefixes, lit)

		term := skipToTerminator(code, contentStart+2+len(lit))
		if term >= len(code) {
			break
		}
		if compile.Op(code[term]) == compile.OpAlt {
			ip = term + 3
			continue
		}
		break
	}
	if len(prefixes) < 2 {
		return nil
	}

	builder := ahocorasick.NewBuilder()
	for _, p := range prefixes {
		builder.AddPattern(p)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return auto
}

func leadingLiteral(code []byte, ip int) ([]byte, bool) {
	if ip >= len(code) || compile.Op(code[ip]) != compile.OpChars {
		return nil, false
	}
	n := int(code[ip+1])
	if n == 0 {
		return nil, false
	}
	return code[ip+2 : ip+2+n], true
}

// skipToTerminator walks forward from ip, skipping whole nested groups via
// compile.BracketEnd, until it reaches this branch's own OpAlt or
// Ket-family terminator.
func skipToTerminator(code []byte, ip int) int {
	for ip < len(code) {
		op := compile.Op(code[ip])
		if op == compile.OpAlt || compile.IsKet(op) {
			return ip
		}
		if compile.IsBracketHeader(op) {
			ip = compile.BracketEnd(code, ip)
			continue
		}
		width := compile.InstrWidth(code, ip)
		if width <= 0 {
			return len(code)
		}
		ip += width
	}
	return len(code)
}
