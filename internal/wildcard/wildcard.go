// Package wildcard converts shell-style wildcard patterns (* and ?)
// into anchored, case-insensitive regular expressions for name matching.
package wildcard

import (
	"regexp"
	"strings"
)

// Compile converts a wildcard pattern to an anchored, case-insensitive
// regular expression. * matches any run of characters, ? matches one.
func Compile(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")

	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Matches reports whether name matches the wildcard pattern. If the
// pattern fails to compile, it falls back to case-insensitive literal
// equality.
func Matches(pattern, name string) bool {
	re, err := Compile(pattern)
	if err != nil {
		return strings.EqualFold(pattern, name)
	}
	return re.MatchString(name)
}

// MatchesAny reports whether name matches any of the given patterns
func MatchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if Matches(p, name) {
			return true
		}
	}
	return false
}
