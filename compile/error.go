package compile

import "fmt"

// Error reports a compile-time failure at a byte offset in the original
// pattern text, mirroring syntax.Error's shape so callers can format both
// uniformly.
type Error struct {
	Pattern string
	Offset  int
	Msg     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("compile error at offset %d: %s", e.Offset, e.Msg)
}

func newErr(offset int, msg string) *Error {
	return &Error{Offset: offset, Msg: msg}
}

const (
	errBufferOverflow    = "internal error: emitted buffer exceeds sized capacity"
	errGroupCountOverflow = "too many capturing groups (max 65535)"
	errBRETranslate      = "invalid basic regular expression syntax"
)

// ConfigError reports an out-of-range Config field, matching the shape the
// root package's embedding config validator uses.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "pcre: invalid config: " + e.Field + ": " + e.Message
}
