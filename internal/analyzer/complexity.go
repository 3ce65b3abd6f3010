package analyzer

import (
	"regexp"
	"strings"
)

// complexityPatterns are the decision-point tokens counted by the
// approximate cyclomatic score. Two quirks are kept on purpose because
// downstream thresholds were tuned against them:
//
//   - the lone "?" pattern also fires inside every "??", so null-coalescing
//     operators inflate the score by 3, not 1;
//   - "&&" and "||" only count when they directly adjoin word characters,
//     since the word-boundary anchors never match between two symbols.
var complexityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bif\b`),
	regexp.MustCompile(`\belse\s+if\b`),
	regexp.MustCompile(`\bfor\b`),
	regexp.MustCompile(`\bforeach\b`),
	regexp.MustCompile(`\bwhile\b`),
	regexp.MustCompile(`\bdo\b`),
	regexp.MustCompile(`\bcase\b`),
	regexp.MustCompile(`\bcatch\b`),
	regexp.MustCompile(`\b&&\b`),
	regexp.MustCompile(`\b\|\|\b`),
	regexp.MustCompile(`\?`),   // ternary operator
	regexp.MustCompile(`\?\?`), // null coalescing
}

// Complexity computes the approximate cyclomatic complexity of a method
// body: 1 plus the number of decision-point tokens. Always >= 1, including
// for an empty body.
func Complexity(body string) int {
	score := 1
	for _, pattern := range complexityPatterns {
		score += len(pattern.FindAllStringIndex(body, -1))
	}
	return score
}

// MethodLines counts the line breaks within an extracted body.
func MethodLines(body string) int {
	return strings.Count(body, "\n")
}

// ScoredMethod pairs a candidate with its complexity metrics.
type ScoredMethod struct {
	MethodCandidate
	Complexity int
	Lines      int
}

// ScoreMethods computes complexity and line count for each candidate.
func ScoreMethods(candidates []MethodCandidate) []ScoredMethod {
	if len(candidates) == 0 {
		return nil
	}
	scored := make([]ScoredMethod, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoredMethod{
			MethodCandidate: c,
			Complexity:      Complexity(c.Body),
			Lines:           MethodLines(c.Body),
		})
	}
	return scored
}
