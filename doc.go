// Package pcre implements a PCRE-style regular expression engine: a
// two-pass bytecode compiler, a Boyer-Moore/first-byte-bitmap/possessive-
// pruning study optimizer, and a backtracking bytecode interpreter, in the
// classic architecture real PCRE uses (as opposed to a Thompson-NFA/lazy-DFA
// engine).
//
// The package exposes two layers. The raw layer — CompilePattern,
// CompilePatternID, (*Pattern).Study, (*Pattern).Exec, (*Pattern).Info —
// mirrors the C regcomp/pcre_study/pcre_exec/pcre_fullinfo contract
// directly: an explicit offset vector, a C-style status code instead of a
// Go error from Exec, and caller-controlled study options. The convenience
// layer — Regex, Compile, CompileOptions, MustCompile, Find*, Match* — is a
// stdlib-regexp-flavored wrapper over the raw layer for callers who just
// want matches back as byte slices.
//
// Basic usage:
//
//	re, err := pcre.Compile(`(\w+)@(\w+)\.(\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	match := re.FindStringSubmatch("user@example.com")
//	fmt.Println(match[1], match[2], match[3]) // user example com
//
// A POSIX regcomp/regexec-shaped entry point lives in the sibling package
// posix; BRE and ERE patterns compiled there share this package's
// compile/study/vm pipeline.
package pcre
