// Package pattern compiles skip-pattern lists into anchored regex matchers.
//
// Every pattern must match the whole name: "deco_.*" is compiled to
// ^(?:deco_.*)$ so it never matches a name that merely contains "deco_".
// File matchers add a suffix that the pattern author leaves out, which is how
// "DFalls_DemonPortal" skips exactly DFalls_DemonPortal.xml.
package pattern

import (
	"fmt"
	"regexp"
)

// FileSuffix is appended to skip_files patterns; the .xml suffix is implied
const FileSuffix = `\.xml`

// PatternError reports a skip pattern that is not a valid regular expression
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface for PatternError.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid skip pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying regexp error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

type compiled struct {
	source string
	re     *regexp.Regexp
}

// Matcher tests names against an ordered list of anchored patterns.
// A nil or empty Matcher matches nothing.
type Matcher struct {
	patterns []compiled
}

// Compile builds a Matcher from patterns. suffix is a regex fragment placed
// after each pattern inside the anchors (FileSuffix for filenames, "" for
// directory names). The first invalid pattern aborts compilation.
func Compile(patterns []string, suffix string) (*Matcher, error) {
	m := &Matcher{patterns: make([]compiled, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")" + suffix + "$")
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		m.patterns = append(m.patterns, compiled{source: p, re: re})
	}
	return m, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
// Intended for tests and package-level defaults.
func MustCompile(patterns []string, suffix string) *Matcher {
	m, err := Compile(patterns, suffix)
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns the first pattern that fully matches name
func (m *Matcher) Match(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, p := range m.patterns {
		if p.re.MatchString(name) {
			return p.source, true
		}
	}
	return "", false
}

// Len returns the number of compiled patterns
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Matches reports whether name fully matches any of patterns.
// It uses directory-name semantics (no suffix); file patterns need
// Compile with FileSuffix.
func Matches(name string, patterns []string) (bool, error) {
	m, err := Compile(patterns, "")
	if err != nil {
		return false, err
	}
	_, ok := m.Match(name)
	return ok, nil
}

// Validate compiles patterns and discards the result. The suffix does not
// affect validity, so it serves directory and file lists alike.
func Validate(patterns []string) error {
	_, err := Compile(patterns, "")
	return err
}
