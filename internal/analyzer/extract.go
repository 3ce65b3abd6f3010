package analyzer

import (
	"regexp"
	"strings"
)

// methodSignature matches tokens that look like a C# method declaration:
// modifier keywords, a return type, an identifier, a parameter list, and an
// opening brace. It is a heuristic, not a grammar; property accessors are
// filtered afterwards by name.
var methodSignature = regexp.MustCompile(
	`(?:public|private|protected|internal|static|\s)+[\w<>\[\],\s]+\s+(\w+)\s*\(([^)]*)\)\s*\{`)

// accessorNames are signature matches that are property accessors rather
// than methods.
var accessorNames = map[string]bool{
	"get":   true,
	"set":   true,
	"value": true,
}

// MethodCandidate is a method located by signature matching. Body is empty
// when the braces never balanced before end of input; such candidates are
// dropped by ExtractMethods.
type MethodCandidate struct {
	Name   string
	Start  int // byte offset of the signature match
	Params string
	Body   string
}

// ExtractMethods locates method candidates in source text. Candidates whose
// body cannot be extracted (unbalanced braces, truncated input) are skipped
// entirely; malformed input is never fatal.
func ExtractMethods(text string) []MethodCandidate {
	matches := methodSignature.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	candidates := make([]MethodCandidate, 0, len(matches))
	for _, m := range matches {
		name := text[m[2]:m[3]]
		if accessorNames[name] {
			continue
		}

		body := ExtractBody(text, m[0])
		if body == "" {
			continue
		}

		candidates = append(candidates, MethodCandidate{
			Name:   name,
			Start:  m[0],
			Params: text[m[4]:m[5]],
			Body:   body,
		})
	}
	return candidates
}

// ExtractBody carves a brace-delimited body out of text, starting the scan
// at the given offset. The scan counts every "{" and "}" from the first
// opening brace onward and returns the substring up to and including the
// brace that balances it. Braces inside string literals and comments are
// counted like any other; that imprecision is an accepted property of the
// scan, not an error. Returns empty when the input ends before the depth
// returns to zero.
func ExtractBody(text string, start int) string {
	depth := 0
	bodyStart := -1

	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			if bodyStart < 0 {
				bodyStart = i
			}
			depth++
		case '}':
			if bodyStart < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[bodyStart : i+1]
			}
		}
	}

	return ""
}

// SplitParams splits a parameter list on top-level commas. Commas nested
// inside angle brackets belong to generic type arguments and are not split
// points, so "Dictionary<string, int> map" stays a single parameter. Empty
// entries are dropped.
func SplitParams(params string) []string {
	var (
		parts []string
		depth int
		begin int
	)

	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, params[begin:i])
				begin = i + 1
			}
		}
	}
	parts = append(parts, params[begin:])

	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitLines splits text into lines for 1-indexed per-line detectors. A
// trailing newline does not produce a phantom final line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
