package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwhitford/patina/pkg/models"
)

// DefaultIssueLimit caps the issues rendered per severity group within a
// category. Serialized formats always carry the full issue set.
const DefaultIssueLimit = 10

// SmellReport wraps a smell analysis report for rendering. JSON and TOON
// output serialize the underlying report untruncated.
func SmellReport(r *models.Report, limit int) *Report {
	if limit <= 0 {
		limit = DefaultIssueLimit
	}

	sections := []Renderable{smellSummary(r)}
	for _, cat := range models.Categories() {
		issues := r.Issues[cat]
		if len(issues) == 0 {
			continue
		}
		sections = append(sections, categorySection(cat, issues, limit))
	}

	return &Report{
		Title:    "Technical Debt Analysis Report (.NET/C#)",
		Sections: sections,
		Data:     r,
	}
}

func smellSummary(r *models.Report) *Section {
	var b strings.Builder
	fmt.Fprintf(&b, "- **Files Analyzed:** %d\n", r.Stats.TotalFiles)
	fmt.Fprintf(&b, "- **Total Lines:** %d\n", r.Stats.TotalLines)
	fmt.Fprintf(&b, "- **Total Issues:** %d", r.Stats.TotalIssues)

	var sev strings.Builder
	for _, s := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		fmt.Fprintf(&sev, "- **%s:** %d\n", strings.ToUpper(string(s)), r.Stats.BySeverity[s])
	}

	sections := []Section{{
		Title:   "Issues by Severity",
		Content: strings.TrimRight(sev.String(), "\n"),
	}}

	if r.Stats.Complexity.Methods > 0 {
		c := r.Stats.Complexity
		sections = append(sections, Section{
			Title: "Method Complexity",
			Content: fmt.Sprintf("- **Methods:** %d\n- **Mean:** %.1f\n- **P95:** %.1f\n- **Max:** %d",
				c.Methods, c.Mean, c.P95, c.Max),
		})
	}

	return &Section{
		Title:    "Summary",
		Content:  b.String(),
		Sections: sections,
	}
}

// DisplayOrder returns a copy of issues ordered most severe first, keeping
// the report's file/line/message order within each severity. Display
// limits then cut low-severity entries before high ones.
func DisplayOrder(issues []models.Issue) []models.Issue {
	ordered := make([]models.Issue, len(issues))
	copy(ordered, issues)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Weight() > ordered[j].Severity.Weight()
	})
	return ordered
}

func categorySection(cat models.Category, issues []models.Issue, limit int) *Section {
	section := &Section{
		Title: fmt.Sprintf("%s (%d issues)", cat.Title(), len(issues)),
	}

	for _, sev := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		var group []models.Issue
		for _, issue := range issues {
			if issue.Severity == sev {
				group = append(group, issue)
			}
		}
		if len(group) == 0 {
			continue
		}

		var b strings.Builder
		shown := group
		if len(shown) > limit {
			shown = shown[:limit]
		}
		for _, issue := range shown {
			fmt.Fprintf(&b, "- **%s**", issue.File)
			if issue.Line > 0 {
				fmt.Fprintf(&b, " (line %d)", issue.Line)
			}
			fmt.Fprintf(&b, ": %s", issue.Message)
			if issue.Code != "" {
				fmt.Fprintf(&b, "\n  ```csharp\n  %s\n  ```", issue.Code)
			}
			b.WriteString("\n")
		}
		if len(group) > limit {
			fmt.Fprintf(&b, "\n_... and %d more_\n", len(group)-limit)
		}

		section.Sections = append(section.Sections, Section{
			Title:   fmt.Sprintf("%s Priority", titleCase(string(sev))),
			Content: strings.TrimRight(b.String(), "\n"),
		})
	}

	return section
}

// ManifestReportRenderable wraps a dependency analysis for rendering.
func ManifestReportRenderable(r *models.ManifestReport) *Report {
	sections := []Renderable{manifestSummary(r)}
	for _, cat := range models.ManifestCategories() {
		issues := r.Issues[cat]
		if len(issues) == 0 {
			continue
		}
		sections = append(sections, manifestSection(cat, issues))
	}

	return &Report{
		Title:    ".NET Dependency Analysis Report",
		Sections: sections,
		Data:     r,
	}
}

func manifestSummary(r *models.ManifestReport) *Section {
	sdk := "Yes"
	if !r.SDKStyle {
		sdk = "No (Legacy format)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "- **Project:** %s\n", r.Project)
	fmt.Fprintf(&b, "- **Target Framework:** %s\n", r.TargetFramework)
	fmt.Fprintf(&b, "- **SDK-Style Project:** %s\n", sdk)
	fmt.Fprintf(&b, "- **Package References:** %d\n", r.PackageCount)
	fmt.Fprintf(&b, "- **Total Issues:** %d", r.Summary.TotalIssues)

	var sev strings.Builder
	for _, s := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		if n := r.Summary.BySeverity[s]; n > 0 {
			fmt.Fprintf(&sev, "- **%s:** %d\n", strings.ToUpper(string(s)), n)
		}
	}

	section := &Section{Title: "Summary", Content: b.String()}
	if sev.Len() > 0 {
		section.Sections = []Section{{
			Title:   "Issues by Severity",
			Content: strings.TrimRight(sev.String(), "\n"),
		}}
	}
	return section
}

func manifestSection(cat models.ManifestCategory, issues []models.ManifestIssue) *Section {
	var b strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&b, "- **%s** [%s]: %s\n",
			manifestSubject(issue), strings.ToUpper(string(issue.Severity)), issue.Message)
		if issue.Package != "" && issue.Version != "" {
			fmt.Fprintf(&b, "  - Current version: `%s`\n", issue.Version)
		}
		if len(issue.Packages) > 0 {
			fmt.Fprintf(&b, "  - Affected packages: %s\n", strings.Join(issue.Packages, ", "))
		}
		if issue.Value != "" {
			fmt.Fprintf(&b, "  - Current value: `%s`\n", issue.Value)
		}
	}

	return &Section{
		Title:   fmt.Sprintf("%s (%d)", cat.Title(), len(issues)),
		Content: strings.TrimRight(b.String(), "\n"),
	}
}

func manifestSubject(issue models.ManifestIssue) string {
	switch {
	case issue.Package != "":
		return issue.Package
	case issue.Framework != "":
		return issue.Framework
	case issue.Setting != "":
		return issue.Setting
	default:
		return "Issue"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
