package models

// ManifestCategory identifies the kind of dependency issue found in a
// project manifest (.csproj).
type ManifestCategory string

const (
	ManifestOutdated      ManifestCategory = "outdated"
	ManifestFramework     ManifestCategory = "framework_issues"
	ManifestDuplicates    ManifestCategory = "duplicate_functionality"
	ManifestWarnings      ManifestCategory = "warnings"
	ManifestConfiguration ManifestCategory = "configuration"
)

// ManifestCategories returns all manifest categories in rendering order.
func ManifestCategories() []ManifestCategory {
	return []ManifestCategory{
		ManifestFramework,
		ManifestOutdated,
		ManifestDuplicates,
		ManifestConfiguration,
		ManifestWarnings,
	}
}

// Title returns a human-readable name for the manifest category.
func (c ManifestCategory) Title() string {
	switch c {
	case ManifestFramework:
		return "Framework Targeting Issues"
	case ManifestOutdated:
		return "Deprecated/Outdated Packages"
	case ManifestDuplicates:
		return "Duplicate Functionality"
	case ManifestConfiguration:
		return "Configuration Issues"
	case ManifestWarnings:
		return "Version Constraint Warnings"
	default:
		return string(c)
	}
}

// PackageReference is a NuGet dependency declared in a manifest.
type PackageReference struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ManifestIssue is a single dependency finding.
type ManifestIssue struct {
	Category  ManifestCategory `json:"category"`
	Severity  Severity         `json:"severity"`
	Package   string           `json:"package,omitempty"`
	Version   string           `json:"version,omitempty"`
	Framework string           `json:"framework,omitempty"`
	Setting   string           `json:"setting,omitempty"`
	Value     string           `json:"value,omitempty"`
	Packages  []string         `json:"packages,omitempty"`
	Message   string           `json:"message"`
}

// ManifestSummary holds aggregate counters for a manifest report.
type ManifestSummary struct {
	TotalIssues int                      `json:"total_issues"`
	BySeverity  map[Severity]int         `json:"by_severity"`
	ByCategory  map[ManifestCategory]int `json:"by_category"`
}

// ManifestReport is the dependency analysis of a single project manifest.
// It is a separate artifact from the smell Report and is never merged
// with it.
type ManifestReport struct {
	Project         string                              `json:"project"`
	Path            string                              `json:"path"`
	TargetFramework string                              `json:"target_framework"`
	SDKStyle        bool                                `json:"sdk_style"`
	PackageCount    int                                 `json:"total_package_references"`
	Issues          map[ManifestCategory][]ManifestIssue `json:"issues"`
	Summary         ManifestSummary                     `json:"summary"`
}

// Summarize recomputes the summary from the issue map.
func (r *ManifestReport) Summarize() {
	s := ManifestSummary{
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[ManifestCategory]int),
	}
	for cat, issues := range r.Issues {
		s.TotalIssues += len(issues)
		s.ByCategory[cat] = len(issues)
		for _, issue := range issues {
			s.BySeverity[issue.Severity]++
		}
	}
	r.Summary = s
}
