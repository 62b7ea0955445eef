package compile

import "fmt"

// Disassemble renders a Program's opcode stream as one line per opcode,
// grounded on original_source/pcre/pcre_printint.c's debug dump (invoked
// from pcretest -d there; here it's a first-class exported function since
// this module has no separate CLI test harness to hide it behind).
func Disassemble(p *Program) string {
	var out []byte
	code := p.Code
	ip := 0
	for ip < len(code) {
		start := ip
		line, width := disasmOne(code, ip)
		out = append(out, fmt.Sprintf("%5d  %s\n", start, line)...)
		if width <= 0 {
			break
		}
		ip += width
	}
	return string(out)
}

func disasmOne(code []byte, ip int) (string, int) {
	op := Op(code[ip])

	if kind, shape, disc, ok := DecodeQuantOp(op); ok {
		return disasmQuant(code, ip, kind, shape, disc)
	}

	switch op {
	case OpEnd:
		return "END", 1
	case OpBra:
		g, next := u16At(code, ip+1), u16At(code, ip+3)
		return fmt.Sprintf("BRA group=%d next=%d", g, next), 5
	case OpOnce:
		g, next := u16At(code, ip+1), u16At(code, ip+3)
		return fmt.Sprintf("ONCE group=%d next=%d", g, next), 5
	case OpAssert:
		return fmt.Sprintf("ASSERT next=%d", u16At(code, ip+3)), 5
	case OpAssertNot:
		return fmt.Sprintf("ASSERT_NOT next=%d", u16At(code, ip+3)), 5
	case OpAssertBack:
		return fmt.Sprintf("ASSERTBACK next=%d", u16At(code, ip+3)), 5
	case OpAssertBackNot:
		return fmt.Sprintf("ASSERTBACK_NOT next=%d", u16At(code, ip+3)), 5
	case OpCond:
		return fmt.Sprintf("COND next=%d", u16At(code, ip+3)), 5
	case OpAlt:
		return fmt.Sprintf("ALT next=%d", u16At(code, ip+1)), 3
	case OpKet:
		return fmt.Sprintf("KET back=%d", u16At(code, ip+1)), 3
	case OpKetMaxStar:
		return fmt.Sprintf("KETRMAX back=%d", u16At(code, ip+1)), 3
	case OpKetMinStar:
		return fmt.Sprintf("KETRMIN back=%d", u16At(code, ip+1)), 3
	case OpKetOnceStar:
		return fmt.Sprintf("KETRPOS back=%d", u16At(code, ip+1)), 3
	case OpBraZero:
		return "BRAZERO", 1
	case OpBraMinZero:
		return "BRAMINZERO", 1
	case OpReverse:
		return fmt.Sprintf("REVERSE len=%d", u16At(code, ip+1)), 3
	case OpCRef:
		return fmt.Sprintf("CREF group=%d", u16At(code, ip+1)), 3
	case OpRecurse:
		return fmt.Sprintf("RECURSE group=%d", u16At(code, ip+1)), 3
	case OpChars:
		n := int(code[ip+1])
		return fmt.Sprintf("CHARS %q", code[ip+2:ip+2+n]), 2 + n
	case OpAny:
		return "ANY", 1
	case OpClass:
		return "CLASS", 33
	case OpCharType:
		return fmt.Sprintf("TYPE %s", ctypeName(code[ip+1])), 2
	case OpCirc:
		return "CIRC", 1
	case OpDoll:
		return "DOLL", 1
	case OpEOD:
		return "EOD", 1
	case OpSOD:
		return "SOD", 1
	case OpEOSNL:
		return "EOSNL", 1
	case OpAnchorG:
		return "ANCHORG", 1
	case OpWordB:
		return fmt.Sprintf("WORDB neg=%d", code[ip+1]), 2
	case OpWordEdge:
		return fmt.Sprintf("WORDEDGE start=%d", code[ip+1]), 2
	case OpBackRef:
		return fmt.Sprintf("BACKREF group=%d", u16At(code, ip+1)), 3
	}
	return fmt.Sprintf("??? op=%d", byte(op)), 0
}

func disasmQuant(code []byte, ip int, kind SingletonKind, shape Shape, disc Discipline) (string, int) {
	name := map[SingletonKind]string{
		SKLiteral: "LIT", SKNotLiteral: "NOTLIT", SKType: "TYPE", SKNotType: "NOTTYPE",
		SKClass: "CLASS", SKBackRef: "BACKREF", SKAny: "ANY",
	}[kind]
	shapeName := map[Shape]string{
		ShapeStar: "STAR", ShapePlus: "PLUS", ShapeQuery: "QUERY", ShapeUpto: "UPTO", ShapeExact: "EXACT",
	}[shape]
	discName := map[Discipline]string{DiscMax: "", DiscMin: "?", DiscOnce: "+"}[disc]

	operandWidth := quantOperandWidth(kind)
	width := 1 + operandWidth
	extra := ""
	pos := ip + 1 + operandWidth
	if shape == ShapeUpto || shape == ShapeExact {
		width += 2
		extra = fmt.Sprintf(" n=%d", u16At(code, pos))
	}
	return fmt.Sprintf("%s%s%s%s", name, shapeName, discName, extra), width
}

func quantOperandWidth(kind SingletonKind) int {
	switch kind {
	case SKLiteral, SKNotLiteral:
		return 1
	case SKType, SKNotType:
		return 1
	case SKClass:
		return 32
	case SKBackRef:
		return 2
	case SKAny:
		return 0
	}
	return 0
}

func ctypeName(b byte) string {
	neg := ""
	if b&CTypeNegateBit != 0 {
		neg = "!"
		b &^= CTypeNegateBit
	}
	return fmt.Sprintf("%s%d", neg, b)
}

func u16At(code []byte, at int) int {
	return int(code[at])<<8 | int(code[at+1])
}
