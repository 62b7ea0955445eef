package compile

import (
	"github.com/coregx/pcre/syntax"
	"github.com/coregx/pcre/tables"
)

// Config controls code generation, grounded on the teacher's meta.Config
// shape (its knobs renamed to the concerns this compiler actually has:
// nesting/backtracking limits rather than DFA/prefilter sizing, since those
// live in package study here instead).
type Config struct {
	// MaxNesting bounds parenthesis nesting depth. Default: 200.
	MaxNesting int

	// MaxRecursionDepth is validated (1..100,000) and kept on the Program's
	// Config; vm.Exec does not read it. The nesting limit at exec time is
	// the MaxRecursionDepth of the vm.Config passed to vm.Exec.
	// Default: 100.
	MaxRecursionDepth int

	// MaxPatternBytes bounds the sized bytecode length. Default: 65539,
	// matching PCRE's historical regex-too-large threshold.
	MaxPatternBytes int
}

// DefaultConfig returns the default Config, matching syntax's own
// defaults so a zero-value-derived Options and a DefaultConfig agree.
func DefaultConfig() Config {
	return Config{
		MaxNesting:        200,
		MaxRecursionDepth: 100,
		MaxPatternBytes:   65539,
	}
}

// Validate reports a *ConfigError if any field is out of range.
func (c Config) Validate() error {
	if c.MaxNesting < 1 || c.MaxNesting > 10_000 {
		return &ConfigError{Field: "MaxNesting", Message: "must be between 1 and 10,000"}
	}
	if c.MaxRecursionDepth < 1 || c.MaxRecursionDepth > 100_000 {
		return &ConfigError{Field: "MaxRecursionDepth", Message: "must be between 1 and 100,000"}
	}
	if c.MaxPatternBytes < 1 {
		return &ConfigError{Field: "MaxPatternBytes", Message: "must be positive"}
	}
	return nil
}

// Program is the flat opcode byte stream plus the metadata Exec and Study
// need: group/backref counts, the anchoring and option bits, and the
// character tables resolved at compile time (so match time never
// re-resolves them).
type Program struct {
	Code        []byte
	NumGroups   int // highest capture-group index, 0 means only the whole match
	NumBackrefs int
	Anchored    bool
	Caseless    bool
	Multiline   bool
	DotAll      bool
	Names       map[string]int
	Config      Config

	// Tables is the character-tables block this program was compiled
	// against (ctype/fold/POSIX-class lookups). vm.Exec reads it from here
	// rather than re-resolving a table at match time, so a pattern compiled
	// against a caller-supplied table keeps using that table on every Exec.
	Tables *tables.Tables
}

// buffer is the growable byte sink the emitter writes into. It is built to
// the exact capacity syntax.Pattern.Size reported, so a late append beyond
// that capacity is a bug in either pass, not a normal growth path — kept
// as a hard check (errBufferOverflow) rather than letting append silently
// reallocate and mask the size/emit mismatch the two-pass contract forbids.
type buffer struct {
	b []byte
}

func newBuffer(capacity int) *buffer {
	return &buffer{b: make([]byte, 0, capacity)}
}

func (b *buffer) offset() int { return len(b.b) }

func (b *buffer) byte(v byte) {
	b.mustHaveRoom(1)
	b.b = append(b.b, v)
}

func (b *buffer) op(op Op) { b.byte(byte(op)) }

func (b *buffer) u16(v int) {
	b.mustHaveRoom(2)
	b.b = append(b.b, byte(v>>8), byte(v))
}

func (b *buffer) bytes(p []byte) {
	b.mustHaveRoom(len(p))
	b.b = append(b.b, p...)
}

func (b *buffer) mustHaveRoom(n int) {
	if len(b.b)+n > cap(b.b) {
		panic(errBufferOverflow)
	}
}

// patchU16 back-patches a previously reserved u16 slot (written as a
// placeholder 0) once the real forward offset is known, the way the
// emitter resolves OP_BRA/OP_ALT next-offsets once a branch or group's
// end position is reached.
func (b *buffer) patchU16(at, v int) {
	b.b[at] = byte(v >> 8)
	b.b[at+1] = byte(v)
}

func (b *buffer) reserveU16() int {
	at := b.offset()
	b.u16(0)
	return at
}

// Flavor re-exports syntax.Flavor as the compiler's own notion of flavor so
// callers of compile.Compile don't need to import syntax just to pick one.
type Flavor = syntax.Flavor

const (
	FlavorPerl = syntax.FlavorPerl
	FlavorERE  = syntax.FlavorERE
)
