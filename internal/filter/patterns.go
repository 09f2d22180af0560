package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// ParsePatternInput splits a comma-separated string into individual
// pattern strings. Whitespace around each pattern is stripped and empty
// segments are dropped.
func ParsePatternInput(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// ValidatePatterns returns a human-readable error message per invalid
// pattern. An empty result means all patterns compile. This is purely
// informational; execution goes through CompilePatterns, which uses the
// same compiler so the two agree.
func ValidatePatterns(patterns []string) []string {
	var errs []string
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Sprintf("`%s` — %v", p, err))
		}
	}
	return errs
}

// CompilePatterns compiles pattern strings, silently dropping any that do
// not compile. It never fails.
func CompilePatterns(patterns []string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// MatchesAnyPattern reports whether the path matches any of the compiled
// patterns, anywhere in the path (search semantics, not full match). An
// empty pattern list matches every path.
func MatchesAnyPattern(path string, compiled []*regexp.Regexp) bool {
	if len(compiled) == 0 {
		return true
	}
	for _, re := range compiled {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
