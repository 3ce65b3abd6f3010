package models

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"
)

// ComplexityStats summarizes the method complexity distribution of a run.
type ComplexityStats struct {
	Methods int     `json:"methods"`
	Mean    float64 `json:"mean"`
	P95     float64 `json:"p95"`
	Max     int     `json:"max"`
}

// Stats holds aggregate counters for a report.
type Stats struct {
	TotalFiles      int              `json:"total_files"`
	TotalLines      int              `json:"total_lines"`
	TotalIssues     int              `json:"total_issues"`
	FilesWithIssues int              `json:"files_with_issues"`
	LinesFlagged    int              `json:"lines_flagged"`
	BySeverity      map[Severity]int `json:"by_severity"`
	ByCategory      map[Category]int `json:"by_category"`
	Complexity      ComplexityStats  `json:"complexity"`
}

// Report maps each category to its issues, in deterministic order.
// Immutable after construction; renderers consume it without mutating it.
type Report struct {
	Issues map[Category][]Issue `json:"issues"`
	Stats  Stats                `json:"stats"`
}

// Category returns the issues for a category, nil if none were found.
func (r *Report) Category(c Category) []Issue {
	return r.Issues[c]
}

// Filter returns a new report restricted to the given categories. Issue
// counters are recomputed for the subset so the category/severity sums
// stay consistent with the listed issues; run-wide counters (files
// analyzed, total lines, complexity) describe the run and are carried
// over unchanged. The receiver is not modified.
func (r *Report) Filter(categories []Category) *Report {
	keep := make(map[Category]bool, len(categories))
	for _, c := range categories {
		keep[c] = true
	}

	stats := Stats{
		TotalFiles: r.Stats.TotalFiles,
		TotalLines: r.Stats.TotalLines,
		Complexity: r.Stats.Complexity,
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[Category]int),
	}

	issues := make(map[Category][]Issue, len(categories))
	flagged := make(map[string]*roaring.Bitmap)
	for cat, list := range r.Issues {
		if !keep[cat] {
			continue
		}
		issues[cat] = list

		stats.ByCategory[cat] = len(list)
		stats.TotalIssues += len(list)
		for _, issue := range list {
			stats.BySeverity[issue.Severity]++
			bm := flagged[issue.File]
			if bm == nil {
				bm = roaring.New()
				flagged[issue.File] = bm
			}
			if issue.Line > 0 {
				bm.Add(uint32(issue.Line))
			}
		}
	}

	stats.FilesWithIssues = len(flagged)
	for _, bm := range flagged {
		stats.LinesFlagged += int(bm.GetCardinality())
	}

	return &Report{Issues: issues, Stats: stats}
}

// ReportBuilder folds per-file results into a Report. Results may arrive in
// any order; Build imposes a total order so parallel runs are reproducible.
type ReportBuilder struct {
	issues       map[Category][]Issue
	totalFiles   int
	totalLines   int
	flagged      map[string]*roaring.Bitmap
	complexities []float64
	maxCx        int
}

// NewReportBuilder creates an empty builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{
		issues:  make(map[Category][]Issue),
		flagged: make(map[string]*roaring.Bitmap),
	}
}

// AddFile folds one file's result into the builder. A failed file becomes a
// single errors-category issue and still counts toward the file total.
func (b *ReportBuilder) AddFile(res FileResult) {
	b.totalFiles++

	if res.Failed() {
		b.add(Issue{
			Category: CategoryErrors,
			Severity: SeverityHigh,
			File:     res.Path,
			Message:  fmt.Sprintf("Error analyzing file: %s", res.Failure),
		})
		return
	}

	b.totalLines += res.Lines
	for _, issue := range res.Issues {
		b.add(issue)
	}
	for _, cx := range res.MethodComplexity {
		b.complexities = append(b.complexities, float64(cx))
		if cx > b.maxCx {
			b.maxCx = cx
		}
	}
}

func (b *ReportBuilder) add(issue Issue) {
	b.issues[issue.Category] = append(b.issues[issue.Category], issue)

	if issue.Line > 0 {
		bm := b.flagged[issue.File]
		if bm == nil {
			bm = roaring.New()
			b.flagged[issue.File] = bm
		}
		bm.Add(uint32(issue.Line))
	} else if _, ok := b.flagged[issue.File]; !ok {
		b.flagged[issue.File] = roaring.New()
	}
}

// Build finalizes the report. Issues within a category are ordered by file
// path, then line, then message, so output is stable regardless of worker
// completion order.
func (b *ReportBuilder) Build() *Report {
	stats := Stats{
		TotalFiles: b.totalFiles,
		TotalLines: b.totalLines,
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[Category]int),
	}

	issues := make(map[Category][]Issue, len(b.issues))
	for cat, list := range b.issues {
		sorted := make([]Issue, len(list))
		copy(sorted, list)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].File != sorted[j].File {
				return sorted[i].File < sorted[j].File
			}
			if sorted[i].Line != sorted[j].Line {
				return sorted[i].Line < sorted[j].Line
			}
			return sorted[i].Message < sorted[j].Message
		})
		issues[cat] = sorted

		stats.ByCategory[cat] = len(sorted)
		stats.TotalIssues += len(sorted)
		for _, issue := range sorted {
			stats.BySeverity[issue.Severity]++
		}
	}

	stats.FilesWithIssues = len(b.flagged)
	for _, bm := range b.flagged {
		stats.LinesFlagged += int(bm.GetCardinality())
	}

	stats.Complexity = complexityStats(b.complexities, b.maxCx)

	return &Report{Issues: issues, Stats: stats}
}

func complexityStats(values []float64, max int) ComplexityStats {
	cs := ComplexityStats{Methods: len(values), Max: max}
	if len(values) == 0 {
		return cs
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	cs.Mean = stat.Mean(sorted, nil)
	cs.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return cs
}
