package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateIdentityBelowThreshold(t *testing.T) {
	for _, text := range []string{
		"",
		"short report",
		strings.Repeat("a", DefaultMaxTokens*4),
	} {
		require.Equal(t, text, Truncate(text, DefaultMaxTokens))
	}
}

func TestTruncateDropsTheMiddle(t *testing.T) {
	maxChars := DefaultMaxTokens * 4
	half := maxChars / 2

	text := strings.Repeat("a", half) + strings.Repeat("x", 1000) + strings.Repeat("z", half)

	out := Truncate(text, DefaultMaxTokens)

	require.Len(t, out, half+half+len(truncationMarker))
	require.True(t, strings.HasPrefix(out, text[:half]))
	require.True(t, strings.HasSuffix(out, text[len(text)-half:]))
	require.Contains(t, out, truncationMarker)
	require.NotContains(t, out, "x")
}

func TestTruncateBoundary(t *testing.T) {
	maxChars := DefaultMaxTokens * 4

	over := strings.Repeat("b", maxChars+1)
	out := Truncate(over, DefaultMaxTokens)
	require.Len(t, out, maxChars+len(truncationMarker))
}
