package report

const (
	// DefaultMaxTokens is the per-model prompt budget the truncation policy
	// is derived from.
	DefaultMaxTokens = 4000

	truncationMarker = "\n\n[...Content truncated for length...]\n\n"
)

// Truncate bounds free-form report text before it is embedded into a prompt.
// The budget is maxTokens*4 characters (roughly one token per four
// characters). Text over the budget keeps its first and last halves and
// drops the middle behind a fixed marker; the hole is always the middle of
// the document, never the ends.
func Truncate(text string, maxTokens int) string {
	maxChars := maxTokens * 4
	if len(text) <= maxChars {
		return text
	}

	half := maxChars / 2

	return text[:half] + truncationMarker + text[len(text)-half:]
}
