package search

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnsafePattern marks a pattern rejected by the complexity gate.
var ErrUnsafePattern = errors.New("unsafe regex pattern")

const (
	// maxPatternLength bounds user-supplied patterns.
	maxPatternLength = 500

	// maxComplexityScore bounds the static complexity heuristic.
	maxComplexityScore = 50

	// maxSubjectLength truncates subject text before matching.
	maxSubjectLength = 1000000
)

// ValidatePattern applies the static complexity gate: patterns longer
// than 500 characters, or whose count of '(' + '*' + '+' + '|' exceeds
// 50, are rejected. This is a coarse heuristic carried over for
// compatibility with pattern sets written against it, not a
// catastrophic-backtracking detector; the compiled engine is RE2 and does
// not backtrack, so the gate's job is to bound pathological inputs
// cheaply and uniformly.
func ValidatePattern(pattern string) error {
	if len(pattern) > maxPatternLength {
		return ErrUnsafePattern
	}
	score := strings.Count(pattern, "(") +
		strings.Count(pattern, "*") +
		strings.Count(pattern, "+") +
		strings.Count(pattern, "|")
	if score > maxComplexityScore {
		return ErrUnsafePattern
	}
	return nil
}

// SafeCompile validates and compiles a user-supplied pattern. A nil
// result means the pattern was rejected or failed to compile; predicates
// built from a nil pattern fail closed.
func SafeCompile(pattern string, caseInsensitive bool) *regexp.Regexp {
	if ValidatePattern(pattern) != nil {
		return nil
	}
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	return re
}

// safeMatch matches re against text truncated to the subject bound.
func safeMatch(re *regexp.Regexp, text string) bool {
	if len(text) > maxSubjectLength {
		text = text[:maxSubjectLength]
	}
	return re.MatchString(text)
}
