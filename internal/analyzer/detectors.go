package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mwhitford/patina/pkg/config"
	"github.com/mwhitford/patina/pkg/models"
)

// FileContext carries everything a detector may consume: the file's path
// (relative to the scan root), its full text, its lines, and the scored
// method candidates. Detectors are stateless per file, run independently,
// and never depend on another detector's output.
type FileContext struct {
	Path    string
	Text    string
	Lines   []string
	Methods []ScoredMethod
}

// Detector is one independent smell check.
type Detector interface {
	Name() models.Category
	Detect(fc *FileContext) []models.Issue
}

// DefaultDetectors builds the full pipeline from configured thresholds.
// Order does not affect the final report; the aggregator imposes its own.
func DefaultDetectors(cfg *config.Config) []Detector {
	t := cfg.Thresholds
	allow := make(map[int]bool, len(t.MagicAllowlist))
	for _, n := range t.MagicAllowlist {
		allow[n] = true
	}

	return []Detector{
		&largeFileDetector{limit: t.FileLines, high: t.FileLinesHigh},
		&complexMethodDetector{
			complexity: t.Complexity, complexityHigh: t.ComplexityHigh,
			lines: t.MethodLines, linesHigh: t.MethodLinesHigh,
		},
		&debtMarkerDetector{},
		&debugStatementDetector{},
		&weakTypingDetector{},
		&longParameterDetector{limit: t.Parameters, high: t.ParametersHigh},
		&deepNestingDetector{limit: t.Nesting, high: t.NestingHigh},
		&magicNumberDetector{allow: allow},
		&emptyCatchDetector{},
		&genericExceptionDetector{},
	}
}

// large_files

type largeFileDetector struct {
	limit int
	high  int
}

func (d *largeFileDetector) Name() models.Category { return models.CategoryLargeFiles }

func (d *largeFileDetector) Detect(fc *FileContext) []models.Issue {
	n := len(fc.Lines)
	if n <= d.limit {
		return nil
	}

	severity := models.SeverityMedium
	if n > d.high {
		severity = models.SeverityHigh
	}
	return []models.Issue{{
		Category: models.CategoryLargeFiles,
		Severity: severity,
		File:     fc.Path,
		Value:    n,
		Message:  fmt.Sprintf("File has %d lines (should be < %d)", n, d.limit),
	}}
}

// complex_methods

type complexMethodDetector struct {
	complexity     int
	complexityHigh int
	lines          int
	linesHigh      int
}

func (d *complexMethodDetector) Name() models.Category { return models.CategoryComplexMethods }

func (d *complexMethodDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for _, m := range fc.Methods {
		if m.Complexity <= d.complexity && m.Lines <= d.lines {
			continue
		}

		severity := models.SeverityMedium
		if m.Complexity > d.complexityHigh || m.Lines > d.linesHigh {
			severity = models.SeverityHigh
		}
		issues = append(issues, models.Issue{
			Category: models.CategoryComplexMethods,
			Severity: severity,
			File:     fc.Path,
			Method:   m.Name,
			Value:    m.Complexity,
			Lines:    m.Lines,
			Message: fmt.Sprintf("Method %q has complexity %d and %d lines",
				m.Name, m.Complexity, m.Lines),
		})
	}
	return issues
}

// debt_markers

var debtMarkers = []string{"TODO", "FIXME", "HACK", "XXX", "BUG", "DEPRECATED", "UNDONE"}

var highMarkers = map[string]bool{"FIXME": true, "BUG": true, "HACK": true}

type debtMarkerDetector struct{}

func (d *debtMarkerDetector) Name() models.Category { return models.CategoryDebtMarkers }

func (d *debtMarkerDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for i, line := range fc.Lines {
		if !strings.Contains(line, "//") && !strings.Contains(line, "/*") {
			continue
		}
		upper := strings.ToUpper(line)
		for _, marker := range debtMarkers {
			if !strings.Contains(upper, marker) {
				continue
			}
			severity := models.SeverityLow
			if highMarkers[marker] {
				severity = models.SeverityHigh
			}
			issues = append(issues, models.Issue{
				Category: models.CategoryDebtMarkers,
				Severity: severity,
				File:     fc.Path,
				Line:     i + 1,
				Marker:   marker,
				Code:     strings.TrimSpace(line),
				Message:  fmt.Sprintf("%s comment found", marker),
			})
		}
	}
	return issues
}

// debug_statements

var debugCallPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bConsole\.WriteLine\(`),
	regexp.MustCompile(`\bConsole\.Write\(`),
	regexp.MustCompile(`\bDebug\.WriteLine\(`),
	regexp.MustCompile(`\bDebug\.Write\(`),
	regexp.MustCompile(`\bTrace\.WriteLine\(`),
}

type debugStatementDetector struct{}

func (d *debugStatementDetector) Name() models.Category { return models.CategoryDebugStatements }

func (d *debugStatementDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for i, line := range fc.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		for _, pattern := range debugCallPatterns {
			if pattern.MatchString(line) {
				issues = append(issues, models.Issue{
					Category: models.CategoryDebugStatements,
					Severity: models.SeverityLow,
					File:     fc.Path,
					Line:     i + 1,
					Code:     strings.TrimSpace(line),
					Message:  "Debug statement left in code",
				})
				break // one per line
			}
		}
	}
	return issues
}

// weak_typing

var (
	dynamicKeyword = regexp.MustCompile(`\bdynamic\b`)
	objectCast     = regexp.MustCompile(`\(object\)\s*\w+`)
)

type weakTypingDetector struct{}

func (d *weakTypingDetector) Name() models.Category { return models.CategoryWeakTyping }

func (d *weakTypingDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for i, line := range fc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
			continue
		}

		if dynamicKeyword.MatchString(line) {
			issues = append(issues, models.Issue{
				Category: models.CategoryWeakTyping,
				Severity: models.SeverityMedium,
				File:     fc.Path,
				Line:     i + 1,
				Code:     trimmed,
				Message:  `Using "dynamic" type reduces type safety`,
			})
		}

		if objectCast.MatchString(line) {
			issues = append(issues, models.Issue{
				Category: models.CategoryWeakTyping,
				Severity: models.SeverityLow,
				File:     fc.Path,
				Line:     i + 1,
				Code:     trimmed,
				Message:  "Explicit cast to object may indicate design issue",
			})
		}
	}
	return issues
}

// long_parameters
//
// Signatures are re-matched here rather than taken from the extracted
// candidates: a signature whose body never balances still has a parameter
// list worth checking.

var parameterSignature = regexp.MustCompile(
	`(?:public|private|protected|internal|static|\s)+[\w<>\[\],\s]+\s+\w+\s*\(([^)]+)\)`)

type longParameterDetector struct {
	limit int
	high  int
}

func (d *longParameterDetector) Name() models.Category { return models.CategoryLongParameters }

func (d *longParameterDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for _, m := range parameterSignature.FindAllStringSubmatchIndex(fc.Text, -1) {
		params := strings.TrimSpace(fc.Text[m[2]:m[3]])
		if params == "" {
			continue
		}

		count := len(SplitParams(params))
		if count <= d.limit {
			continue
		}

		severity := models.SeverityMedium
		if count > d.high {
			severity = models.SeverityHigh
		}
		line := strings.Count(fc.Text[:m[0]], "\n") + 1
		issues = append(issues, models.Issue{
			Category: models.CategoryLongParameters,
			Severity: severity,
			File:     fc.Path,
			Line:     line,
			Value:    count,
			Message:  fmt.Sprintf("Method has %d parameters (should be < %d)", count, d.limit),
		})
	}
	return issues
}

// deep_nesting

type deepNestingDetector struct {
	limit int
	high  int
}

func (d *deepNestingDetector) Name() models.Category { return models.CategoryDeepNesting }

func (d *deepNestingDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	depth := 0
	maxDepth := 0

	for i, line := range fc.Lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
			continue
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")

		// Re-flag only when a new maximum is reached, so one deeply
		// nested block yields one issue per depth record, not one per
		// line spent inside it.
		if depth > maxDepth {
			maxDepth = depth
			if depth > d.limit {
				severity := models.SeverityMedium
				if depth > d.high {
					severity = models.SeverityHigh
				}
				issues = append(issues, models.Issue{
					Category: models.CategoryDeepNesting,
					Severity: severity,
					File:     fc.Path,
					Line:     i + 1,
					Value:    depth,
					Message:  fmt.Sprintf("Nesting depth of %d (should be < %d)", depth, d.limit),
				})
			}
		}
	}
	return issues
}

// magic_numbers

var (
	bareInteger = regexp.MustCompile(`\b(\d{2,})\b`)
	constDecl   = regexp.MustCompile(`\bconst\b`)
)

type magicNumberDetector struct {
	allow map[int]bool
}

func (d *magicNumberDetector) Name() models.Category { return models.CategoryMagicNumbers }

func (d *magicNumberDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for i, line := range fc.Lines {
		// Lines with comments, strings, or attributes are too noisy for
		// this heuristic; constants are the fix, not the smell.
		if strings.Contains(line, "//") || strings.Contains(line, "/*") ||
			strings.Contains(line, `"`) || strings.Contains(line, "'") ||
			strings.Contains(line, "[") {
			continue
		}
		if constDecl.MatchString(line) {
			continue
		}

		for _, num := range bareInteger.FindAllString(line, -1) {
			value, err := strconv.Atoi(num)
			if err != nil || d.allow[value] {
				continue
			}
			issues = append(issues, models.Issue{
				Category: models.CategoryMagicNumbers,
				Severity: models.SeverityLow,
				File:     fc.Path,
				Line:     i + 1,
				Value:    value,
				Code:     strings.TrimSpace(line),
				Message:  fmt.Sprintf("Magic number %s should be a named constant", num),
			})
			break // at most one flagged per line
		}
	}
	return issues
}

// empty_catch

var emptyCatchBlock = regexp.MustCompile(`catch\s*\([^)]+\)\s*\{\s*(?://[^\n]*)?\s*\}`)

type emptyCatchDetector struct{}

func (d *emptyCatchDetector) Name() models.Category { return models.CategoryEmptyCatch }

func (d *emptyCatchDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for _, m := range emptyCatchBlock.FindAllStringIndex(fc.Text, -1) {
		line := strings.Count(fc.Text[:m[0]], "\n") + 1
		issues = append(issues, models.Issue{
			Category: models.CategoryEmptyCatch,
			Severity: models.SeverityHigh,
			File:     fc.Path,
			Line:     line,
			Code:     strings.TrimSpace(fc.Text[m[0]:m[1]]),
			Message:  "Empty catch block swallows exceptions",
		})
	}
	return issues
}

// generic_exception

var genericCatch = regexp.MustCompile(`catch\s*\(\s*Exception\s+\w+\s*\)`)

type genericExceptionDetector struct{}

func (d *genericExceptionDetector) Name() models.Category { return models.CategoryGenericException }

func (d *genericExceptionDetector) Detect(fc *FileContext) []models.Issue {
	var issues []models.Issue
	for i, line := range fc.Lines {
		if genericCatch.MatchString(line) {
			issues = append(issues, models.Issue{
				Category: models.CategoryGenericException,
				Severity: models.SeverityMedium,
				File:     fc.Path,
				Line:     i + 1,
				Code:     strings.TrimSpace(line),
				Message:  "Catching generic Exception; use specific exception types",
			})
		}
	}
	return issues
}
