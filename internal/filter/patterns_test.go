package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatternInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", `\.go$`, []string{`\.go$`}},
		{"multiple", `\.go$,\.md$`, []string{`\.go$`, `\.md$`}},
		{"trims whitespace", ` \.go$ , \.md$ `, []string{`\.go$`, `\.md$`}},
		{"drops empty segments", `\.go$,,\.md$,`, []string{`\.go$`, `\.md$`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePatternInput(tt.raw))
		})
	}
}

func TestValidatePatterns(t *testing.T) {
	assert.Empty(t, ValidatePatterns([]string{`\.go$`, `src/`}))

	errs := ValidatePatterns([]string{`\.go$`, `[invalid`})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "[invalid")
}

func TestCompilePatterns_SilentlyDropsInvalid(t *testing.T) {
	compiled := CompilePatterns([]string{`\.go$`, `[invalid`, `src/`})
	assert.Len(t, compiled, 2)
}

func TestCompilePatterns_RoundTripNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"[unclosed, (also bad, \\.go$",
		"***,+++",
	}

	for _, raw := range inputs {
		assert.NotPanics(t, func() {
			CompilePatterns(ParsePatternInput(raw))
		})
	}
}

func TestMatchesAnyPattern(t *testing.T) {
	assert.True(t, MatchesAnyPattern("anything", nil), "empty pattern list matches everything")

	compiled := CompilePatterns([]string{`src/`})
	assert.True(t, MatchesAnyPattern("src/main.py", compiled), "search semantics, not full match")
	assert.False(t, MatchesAnyPattern("lib/main.py", compiled))

	compiled = CompilePatterns([]string{`\.go$`, `\.md$`})
	assert.True(t, MatchesAnyPattern("README.md", compiled))
	assert.True(t, MatchesAnyPattern("cmd/main.go", compiled))
	assert.False(t, MatchesAnyPattern("setup.py", compiled))
}
