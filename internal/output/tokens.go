package output

import (
	"fmt"
	"unicode/utf8"
)

// charsPerToken is the approximate character-to-token ratio for
// code-heavy text.
const charsPerToken = 4.0

// EstimateTokens returns an approximate token count for the given text,
// using a character-based heuristic. Useful for sizing tool responses
// consumed by language models.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(utf8.RuneCountInString(text))/charsPerToken + 0.5)
}

// FormatTokenCount formats a token count for display. Counts >= 1000 are
// formatted as "X.Xk".
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	return fmt.Sprintf("%.1fk", float64(tokens)/1000)
}
