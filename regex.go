package pcre

// Regex is a stdlib-regexp-flavored convenience wrapper over a compiled
// *Pattern, grounded on the teacher's own Regex type (regex.go):
// byte-slice/string pairs for every Find/Match variant, a String() method
// returning the source text, and a NumSubexp() capture count. Internally
// every method goes through the raw Exec contract a *Pattern exposes.
//
// A Regex is safe for concurrent use: Exec allocates its own ovector and
// match-time state per call.
type Regex struct {
	pattern *Pattern
}

// Compile compiles pattern with the Perl front end and default options,
// wrapping the result for the stdlib-flavored Find*/Match* API below. Use
// CompilePattern/CompilePatternID directly for custom Options or for
// Study/Info access on the raw handle.
func Compile(pattern string) (*Regex, error) {
	return CompileOptions(pattern, Options{})
}

// CompileOptions is Compile with explicit compile-time Options (caseless,
// multiline, and so on).
func CompileOptions(pattern string, opts Options) (*Regex, error) {
	p, err := CompilePattern(pattern, opts)
	if err != nil {
		return nil, err
	}
	return &Regex{pattern: p}, nil
}

// MustCompile compiles pattern and panics if it fails.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("pcre: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern.source
}

// NumSubexp returns the number of capturing groups in the pattern (not
// counting the whole match).
func (r *Regex) NumSubexp() int {
	return r.pattern.prog.NumGroups
}

// execOnce runs one Exec call starting at pos and returns the raw ovector
// truncated to the pairs actually written, or nil on no-match/error.
func (r *Regex) execOnce(b []byte, pos int) []int {
	ovector := make([]int, 3*(r.pattern.prog.NumGroups+1))
	n, code := r.pattern.Exec(b, pos, RuntimeOptions{}, ovector)
	if code != CodeOK || n == 0 {
		return nil
	}
	return ovector[:2*n]
}

// Match reports whether b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.execOnce(b, 0) != nil
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns a slice holding the text of the leftmost match in b, or nil
// if there is none.
func (r *Regex) Find(b []byte) []byte {
	loc := r.execOnce(b, 0)
	if loc == nil {
		return nil
	}
	return b[loc[0]:loc[1]]
}

// FindString returns the text of the leftmost match in s, or "" if none.
func (r *Regex) FindString(s string) string {
	m := r.Find([]byte(s))
	if m == nil {
		return ""
	}
	return string(m)
}

// FindIndex returns a two-element slice [start, end) for the leftmost
// match in b, or nil if there is none.
func (r *Regex) FindIndex(b []byte) []int {
	loc := r.execOnce(b, 0)
	if loc == nil {
		return nil
	}
	return []int{loc[0], loc[1]}
}

// FindStringIndex is FindIndex for a string subject.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindSubmatch returns the leftmost match and its capture groups. Result[0]
// is the whole match; result[i] is group i. An unmatched group is nil.
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	loc := r.execOnce(b, 0)
	if loc == nil {
		return nil
	}
	groups := make([][]byte, len(loc)/2)
	for i := range groups {
		s, e := loc[2*i], loc[2*i+1]
		if s < 0 || e < 0 {
			continue
		}
		groups[i] = b[s:e]
	}
	return groups
}

// FindStringSubmatch is FindSubmatch for a string subject.
func (r *Regex) FindStringSubmatch(s string) []string {
	groups := r.FindSubmatch([]byte(s))
	if groups == nil {
		return nil
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		if g != nil {
			out[i] = string(g)
		}
	}
	return out
}

// FindSubmatchIndex returns the index pairs for the leftmost match and its
// capture groups. Result[2*i:2*i+2] are the indices for group i; an
// unmatched group holds [-1, -1].
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	return r.execOnce(b, 0)
}

// FindStringSubmatchIndex is FindSubmatchIndex for a string subject.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindAll returns all successive non-overlapping matches of the pattern in
// b. If n >= 0, at most n matches are returned; n < 0 means all of them.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	var matches [][]byte
	pos := 0
	for pos <= len(b) {
		loc := r.execOnce(b, pos)
		if loc == nil {
			break
		}
		matches = append(matches, b[loc[0]:loc[1]])
		if loc[1] > pos {
			pos = loc[1]
		} else {
			pos++ // empty match: step forward to avoid looping forever
		}
		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// FindAllString is FindAll for a string subject.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}
