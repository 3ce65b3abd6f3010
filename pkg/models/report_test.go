package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportBuilder_Ordering(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{
		Path:  "b.cs",
		Lines: 10,
		Issues: []Issue{
			{Category: CategoryMagicNumbers, Severity: SeverityLow, File: "b.cs", Line: 7, Message: "Magic number 42 should be a named constant"},
			{Category: CategoryMagicNumbers, Severity: SeverityLow, File: "b.cs", Line: 3, Message: "Magic number 99 should be a named constant"},
		},
	})
	b.AddFile(FileResult{
		Path:  "a.cs",
		Lines: 10,
		Issues: []Issue{
			{Category: CategoryMagicNumbers, Severity: SeverityLow, File: "a.cs", Line: 5, Message: "Magic number 17 should be a named constant"},
		},
	})

	report := b.Build()

	issues := report.Category(CategoryMagicNumbers)
	require.Len(t, issues, 3)
	assert.Equal(t, "a.cs", issues[0].File)
	assert.Equal(t, "b.cs", issues[1].File)
	assert.Equal(t, 3, issues[1].Line)
	assert.Equal(t, "b.cs", issues[2].File)
	assert.Equal(t, 7, issues[2].Line)
}

func TestReportBuilder_OrderIndependent(t *testing.T) {
	files := []FileResult{
		{Path: "a.cs", Lines: 5, Issues: []Issue{
			{Category: CategoryDebtMarkers, Severity: SeverityLow, File: "a.cs", Line: 1, Message: "TODO comment found"},
		}},
		{Path: "b.cs", Lines: 5, Issues: []Issue{
			{Category: CategoryDebtMarkers, Severity: SeverityHigh, File: "b.cs", Line: 2, Message: "FIXME comment found"},
		}},
		{Path: "c.cs", Lines: 5},
	}

	forward := NewReportBuilder()
	for _, f := range files {
		forward.AddFile(f)
	}
	reverse := NewReportBuilder()
	for i := len(files) - 1; i >= 0; i-- {
		reverse.AddFile(files[i])
	}

	assert.Equal(t, forward.Build(), reverse.Build())
}

func TestReportBuilder_FailedFile(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{Path: "ok.cs", Lines: 20})
	b.AddFile(FileResult{Path: "broken.cs", Failure: "file cannot be decoded as UTF-8"})

	report := b.Build()

	assert.Equal(t, 2, report.Stats.TotalFiles)
	// Failed files contribute no line count.
	assert.Equal(t, 20, report.Stats.TotalLines)

	errs := report.Category(CategoryErrors)
	require.Len(t, errs, 1)
	assert.Equal(t, SeverityHigh, errs[0].Severity)
	assert.Equal(t, "broken.cs", errs[0].File)
	assert.Equal(t, "Error analyzing file: file cannot be decoded as UTF-8", errs[0].Message)
}

func TestReportBuilder_Stats(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{
		Path:  "a.cs",
		Lines: 100,
		Issues: []Issue{
			{Category: CategoryDebtMarkers, Severity: SeverityLow, File: "a.cs", Line: 4, Message: "TODO comment found"},
			{Category: CategoryDebugStatements, Severity: SeverityMedium, File: "a.cs", Line: 4, Message: "Debug statement left in code"},
			{Category: CategoryEmptyCatch, Severity: SeverityHigh, File: "a.cs", Line: 9, Message: "Empty catch block swallows exceptions"},
		},
	})
	b.AddFile(FileResult{Path: "b.cs", Lines: 50})

	report := b.Build()
	stats := report.Stats

	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 150, stats.TotalLines)
	assert.Equal(t, 3, stats.TotalIssues)
	assert.Equal(t, 1, stats.FilesWithIssues)
	// Two issues share line 4, so only two distinct lines are flagged.
	assert.Equal(t, 2, stats.LinesFlagged)
	assert.Equal(t, 1, stats.BySeverity[SeverityLow])
	assert.Equal(t, 1, stats.BySeverity[SeverityMedium])
	assert.Equal(t, 1, stats.BySeverity[SeverityHigh])
}

func TestReportBuilder_WholeFileIssueCountsAsFlagged(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{
		Path:  "big.cs",
		Lines: 1200,
		Issues: []Issue{
			{Category: CategoryLargeFiles, Severity: SeverityHigh, File: "big.cs", Line: 0, Message: "File has 1200 lines (should be < 500)"},
		},
	})

	report := b.Build()
	assert.Equal(t, 1, report.Stats.FilesWithIssues)
	// A whole-file issue has no line, so no individual line is flagged.
	assert.Equal(t, 0, report.Stats.LinesFlagged)
}

func TestReportBuilder_ComplexityStats(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{Path: "a.cs", Lines: 10, MethodComplexity: []int{1, 3, 5}})
	b.AddFile(FileResult{Path: "b.cs", Lines: 10, MethodComplexity: []int{11}})

	cs := b.Build().Stats.Complexity
	assert.Equal(t, 4, cs.Methods)
	assert.Equal(t, 11, cs.Max)
	assert.InDelta(t, 5.0, cs.Mean, 0.001)
}

func TestReportFilter(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{
		Path:  "a.cs",
		Lines: 100,
		Issues: []Issue{
			{Category: CategoryMagicNumbers, Severity: SeverityLow, File: "a.cs", Line: 3, Message: "Magic number 42 should be a named constant"},
			{Category: CategoryDebtMarkers, Severity: SeverityHigh, File: "a.cs", Line: 8, Message: "FIXME comment found"},
		},
		MethodComplexity: []int{2, 6},
	})
	report := b.Build()

	filtered := report.Filter([]Category{CategoryMagicNumbers})

	// Counters describe exactly the issues the filtered report lists.
	issues := filtered.Category(CategoryMagicNumbers)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, filtered.Stats.TotalIssues)
	assert.Equal(t, 1, filtered.Stats.ByCategory[CategoryMagicNumbers])
	assert.Equal(t, 1, filtered.Stats.BySeverity[SeverityLow])
	assert.Equal(t, 0, filtered.Stats.BySeverity[SeverityHigh])
	assert.Empty(t, filtered.Category(CategoryDebtMarkers))
	assert.Equal(t, 1, filtered.Stats.LinesFlagged)

	bySeverity := 0
	for _, n := range filtered.Stats.BySeverity {
		bySeverity += n
	}
	byCategory := 0
	for _, n := range filtered.Stats.ByCategory {
		byCategory += n
	}
	assert.Equal(t, filtered.Stats.TotalIssues, bySeverity)
	assert.Equal(t, filtered.Stats.TotalIssues, byCategory)

	// Run-wide counters carry over.
	assert.Equal(t, 1, filtered.Stats.TotalFiles)
	assert.Equal(t, 100, filtered.Stats.TotalLines)
	assert.Equal(t, 2, filtered.Stats.Complexity.Methods)

	// The source report is untouched.
	assert.Equal(t, 2, report.Stats.TotalIssues)
	require.Len(t, report.Category(CategoryDebtMarkers), 1)
}

func TestReportFilter_UnknownCategory(t *testing.T) {
	b := NewReportBuilder()
	b.AddFile(FileResult{Path: "a.cs", Lines: 10, Issues: []Issue{
		{Category: CategoryDebtMarkers, Severity: SeverityLow, File: "a.cs", Line: 1, Message: "TODO comment found"},
	}})

	filtered := b.Build().Filter([]Category{Category("no_such_category")})

	assert.Equal(t, 0, filtered.Stats.TotalIssues)
	assert.Equal(t, 0, filtered.Stats.FilesWithIssues)
	assert.Empty(t, filtered.Issues)
	assert.Equal(t, 1, filtered.Stats.TotalFiles)
}

func TestReportBuilder_Empty(t *testing.T) {
	report := NewReportBuilder().Build()
	assert.Equal(t, 0, report.Stats.TotalFiles)
	assert.Equal(t, 0, report.Stats.TotalIssues)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 0, report.Stats.Complexity.Methods)
}

func TestContextHash(t *testing.T) {
	a := ContextHash("a.cs", 10, "TODO comment found")
	b := ContextHash("a.cs", 10, "TODO comment found")
	c := ContextHash("a.cs", 11, "TODO comment found")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestSeverityWeight(t *testing.T) {
	assert.Greater(t, SeverityHigh.Weight(), SeverityMedium.Weight())
	assert.Greater(t, SeverityMedium.Weight(), SeverityLow.Weight())
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Empty Catch Blocks", CategoryEmptyCatch.Title())
	assert.Equal(t, "custom", Category("custom").Title())
}
