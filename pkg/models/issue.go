package models

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Category identifies the detector that produced an issue.
type Category string

const (
	CategoryLargeFiles       Category = "large_files"
	CategoryComplexMethods   Category = "complex_methods"
	CategoryDebtMarkers      Category = "debt_markers"
	CategoryDebugStatements  Category = "debug_statements"
	CategoryWeakTyping       Category = "weak_typing"
	CategoryLongParameters   Category = "long_parameters"
	CategoryDeepNesting      Category = "deep_nesting"
	CategoryMagicNumbers     Category = "magic_numbers"
	CategoryEmptyCatch       Category = "empty_catch"
	CategoryGenericException Category = "generic_exception"

	// CategoryErrors records per-file analysis failures.
	CategoryErrors Category = "errors"
)

// Categories returns all categories in fixed rendering order.
func Categories() []Category {
	return []Category{
		CategoryLargeFiles,
		CategoryComplexMethods,
		CategoryDebtMarkers,
		CategoryDebugStatements,
		CategoryWeakTyping,
		CategoryLongParameters,
		CategoryDeepNesting,
		CategoryMagicNumbers,
		CategoryEmptyCatch,
		CategoryGenericException,
		CategoryErrors,
	}
}

// Title returns a human-readable name for the category.
func (c Category) Title() string {
	switch c {
	case CategoryLargeFiles:
		return "Large Files"
	case CategoryComplexMethods:
		return "Complex Methods"
	case CategoryDebtMarkers:
		return "Technical Debt Markers"
	case CategoryDebugStatements:
		return "Debug Statements"
	case CategoryWeakTyping:
		return "Weak Typing"
	case CategoryLongParameters:
		return "Long Parameter Lists"
	case CategoryDeepNesting:
		return "Deep Nesting"
	case CategoryMagicNumbers:
		return "Magic Numbers"
	case CategoryEmptyCatch:
		return "Empty Catch Blocks"
	case CategoryGenericException:
		return "Generic Exception Handling"
	case CategoryErrors:
		return "Analysis Errors"
	default:
		return string(c)
	}
}

// Severity represents the urgency of addressing an issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight returns a numeric weight for sorting.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Issue is a single maintainability finding. Immutable once created.
type Issue struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	// Line is 1-indexed; 0 means the issue applies to the whole file.
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`

	// Optional structured metadata, populated per category.
	Method string `json:"method,omitempty"`
	Marker string `json:"marker,omitempty"`
	Code   string `json:"code,omitempty"`
	Value  int    `json:"value,omitempty"`
	Lines  int    `json:"lines,omitempty"`

	ContextHash string `json:"context_hash,omitempty"`
}

// ContextHash creates a stable identity hash for an issue location.
func ContextHash(file string, line int, message string) string {
	h := xxhash.New()
	h.WriteString(file)
	h.WriteString(fmt.Sprintf(":%d:", line))
	h.WriteString(message)
	return fmt.Sprintf("%016x", h.Sum64())
}

// FileResult is the outcome of analyzing one file: either a list of issues
// or a failure cause. Failures never cross the per-file boundary as errors.
type FileResult struct {
	Path   string  `json:"path"`
	Lines  int     `json:"lines"`
	Issues []Issue `json:"issues,omitempty"`
	// MethodComplexity holds the score of every extracted method, flagged
	// or not, for distribution statistics.
	MethodComplexity []int `json:"method_complexity,omitempty"`
	// Failure is non-empty when the file could not be read or decoded.
	Failure string `json:"failure,omitempty"`
}

// Failed reports whether the file could not be analyzed.
func (r FileResult) Failed() bool {
	return r.Failure != ""
}
