package analyzer

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwhitford/patina/pkg/models"
)

// outdatedFrameworks maps lowercase target framework monikers to upgrade
// guidance. Severity is derived from the message: hard end-of-support is
// high, everything else medium.
var outdatedFrameworks = map[string]string{
	"net45":          ".NET Framework 4.5 is out of support - upgrade to .NET 6/7/8",
	"net451":         ".NET Framework 4.5.1 is out of support - upgrade to .NET 6/7/8",
	"net452":         ".NET Framework 4.5.2 is out of support - upgrade to .NET 6/7/8",
	"net46":          ".NET Framework 4.6 is out of support - upgrade to .NET 6/7/8",
	"net461":         ".NET Framework 4.6.1 is out of support - upgrade to .NET 6/7/8",
	"net462":         ".NET Framework 4.6.2 is approaching end of support - plan upgrade to .NET 6/7/8",
	"net47":          ".NET Framework 4.7 is older - consider upgrading to .NET 6/7/8",
	"net471":         ".NET Framework 4.7.1 is older - consider upgrading to .NET 6/7/8",
	"net472":         ".NET Framework 4.7.2 - consider upgrading to .NET 6/7/8",
	"net48":          ".NET Framework 4.8 - consider migrating to .NET 6/7/8 for long-term support",
	"netcoreapp2.0":  ".NET Core 2.0 is out of support - upgrade to .NET 6/7/8",
	"netcoreapp2.1":  ".NET Core 2.1 is out of support - upgrade to .NET 6/7/8",
	"netcoreapp2.2":  ".NET Core 2.2 is out of support - upgrade to .NET 6/7/8",
	"netcoreapp3.0":  ".NET Core 3.0 is out of support - upgrade to .NET 6/7/8",
	"netcoreapp3.1":  ".NET Core 3.1 is out of support (Dec 2022) - upgrade to .NET 6/7/8",
	"net5.0":         ".NET 5 is out of support (May 2022) - upgrade to .NET 6/7/8",
	"net6.0":         ".NET 6 will be out of support in Nov 2024 - plan upgrade to .NET 8 LTS",
	"net7.0":         ".NET 7 is out of support (May 2024) - upgrade to .NET 8",
}

var deprecatedPackages = map[string]string{
	"Microsoft.AspNet.Mvc":                      "Use Microsoft.AspNetCore.Mvc for ASP.NET Core",
	"Microsoft.AspNet.WebApi":                   "Use Microsoft.AspNetCore.Mvc for ASP.NET Core",
	"System.Data.SqlClient":                     "Deprecated - use Microsoft.Data.SqlClient instead",
	"Microsoft.EntityFrameworkCore.Tools.DotNet": "Use dotnet ef global tool instead",
	"Newtonsoft.Json":                           "Consider migrating to System.Text.Json (built-in, better performance)",
	"NLog":                                      "Consider Microsoft.Extensions.Logging with NLog.Extensions.Logging",
	"log4net":                                   "Consider Microsoft.Extensions.Logging abstractions",
	"AutoMapper":                                "Consider Mapperly (source generator, better performance)",
	"Moq":                                       "Consider NSubstitute or FakeItEasy for cleaner syntax",
	"xunit.runner.visualstudio":                 "Often unnecessary in modern .NET projects",
}

type duplicationGroup struct {
	packages      []string
	functionality string
}

var duplicationGroups = []duplicationGroup{
	{[]string{"Newtonsoft.Json", "System.Text.Json"}, "JSON Serialization"},
	{[]string{"NLog", "Serilog", "log4net", "Microsoft.Extensions.Logging"}, "Logging"},
	{[]string{"AutoMapper", "Mapperly", "AgileMapper"}, "Object Mapping"},
	{[]string{"Moq", "NSubstitute", "FakeItEasy"}, "Mocking Framework"},
	{[]string{"xUnit", "NUnit", "MSTest"}, "Test Framework"},
	{[]string{"FluentValidation", "DataAnnotations"}, "Validation"},
	{[]string{"Dapper", "Entity Framework Core", "NHibernate"}, "Data Access"},
}

// csproj mirrors the subset of the MSBuild project format the analyzer
// inspects. Version may be an attribute or a child element.
type csproj struct {
	XMLName        xml.Name        `xml:"Project"`
	SDK            string          `xml:"Sdk,attr"`
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
	ItemGroups     []itemGroup     `xml:"ItemGroup"`
}

type propertyGroup struct {
	TargetFramework       string `xml:"TargetFramework"`
	TargetFrameworks      string `xml:"TargetFrameworks"`
	Nullable              string `xml:"Nullable"`
	EnableNETAnalyzers    string `xml:"EnableNETAnalyzers"`
	TreatWarningsAsErrors string `xml:"TreatWarningsAsErrors"`
}

type itemGroup struct {
	PackageReferences []packageReference `xml:"PackageReference"`
}

type packageReference struct {
	Include     string `xml:"Include,attr"`
	VersionAttr string `xml:"Version,attr"`
	VersionElem string `xml:"Version"`
}

// ManifestAnalyzer inspects .csproj files for dependency debt: outdated
// frameworks, deprecated packages, duplicated functionality, version
// constraint problems, and missing analysis settings.
type ManifestAnalyzer struct{}

func NewManifestAnalyzer() *ManifestAnalyzer {
	return &ManifestAnalyzer{}
}

// AnalyzeFile parses and analyzes one manifest. Parse errors are returned;
// an unreadable manifest is an error, not a finding.
func (a *ManifestAnalyzer) AnalyzeFile(path string) (*models.ManifestReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var proj csproj
	if err := xml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	report := &models.ManifestReport{
		Project:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:            path,
		TargetFramework: targetFramework(&proj),
		SDKStyle:        proj.SDK != "",
		Issues:          make(map[models.ManifestCategory][]models.ManifestIssue),
	}

	packages := packageReferences(&proj)
	report.PackageCount = len(packages)

	checkFrameworks(&proj, report)
	checkNullable(&proj, report)
	checkCodeAnalysis(&proj, report)
	checkDeprecated(packages, report)
	checkDuplicates(packages, report)
	checkVersionConstraints(packages, report)

	report.Summarize()
	return report, nil
}

func targetFramework(proj *csproj) string {
	for _, pg := range proj.PropertyGroups {
		if pg.TargetFramework != "" {
			return pg.TargetFramework
		}
		if pg.TargetFrameworks != "" {
			return strings.Split(pg.TargetFrameworks, ";")[0]
		}
	}
	return "unknown"
}

func packageReferences(proj *csproj) []models.PackageReference {
	var packages []models.PackageReference
	for _, ig := range proj.ItemGroups {
		for _, ref := range ig.PackageReferences {
			if ref.Include == "" {
				continue
			}
			version := ref.VersionAttr
			if version == "" {
				version = strings.TrimSpace(ref.VersionElem)
			}
			if version == "" {
				version = "unspecified"
			}
			packages = append(packages, models.PackageReference{
				Name:    ref.Include,
				Version: version,
			})
		}
	}
	return packages
}

func addIssue(r *models.ManifestReport, issue models.ManifestIssue) {
	r.Issues[issue.Category] = append(r.Issues[issue.Category], issue)
}

func checkFrameworks(proj *csproj, r *models.ManifestReport) {
	for _, pg := range proj.PropertyGroups {
		if pg.TargetFramework != "" {
			fw := strings.ToLower(pg.TargetFramework)
			if msg, ok := outdatedFrameworks[fw]; ok {
				severity := models.SeverityMedium
				if strings.Contains(msg, "out of support") {
					severity = models.SeverityHigh
				}
				addIssue(r, models.ManifestIssue{
					Category:  models.ManifestFramework,
					Severity:  severity,
					Framework: pg.TargetFramework,
					Message:   msg,
				})
			}
		}

		if pg.TargetFrameworks != "" {
			for _, fw := range strings.Split(pg.TargetFrameworks, ";") {
				fw = strings.ToLower(strings.TrimSpace(fw))
				if msg, ok := outdatedFrameworks[fw]; ok {
					// Multi-targeting legacy frameworks is usually
					// deliberate, so cap the severity.
					addIssue(r, models.ManifestIssue{
						Category:  models.ManifestFramework,
						Severity:  models.SeverityMedium,
						Framework: fw,
						Message:   fmt.Sprintf("Multi-targeting includes %s: %s", fw, msg),
					})
				}
			}
		}
	}
}

func checkNullable(proj *csproj, r *models.ManifestReport) {
	found := false
	for _, pg := range proj.PropertyGroups {
		if pg.Nullable == "" {
			continue
		}
		found = true
		switch strings.ToLower(pg.Nullable) {
		case "enable", "annotations", "warnings":
		default:
			addIssue(r, models.ManifestIssue{
				Category: models.ManifestConfiguration,
				Severity: models.SeverityLow,
				Setting:  "Nullable",
				Value:    pg.Nullable,
				Message:  fmt.Sprintf("Nullable is set to %q - consider \"enable\" for better null safety", pg.Nullable),
			})
		}
	}

	if !found {
		addIssue(r, models.ManifestIssue{
			Category: models.ManifestConfiguration,
			Severity: models.SeverityMedium,
			Setting:  "Nullable",
			Value:    "not set",
			Message:  "Nullable reference types not enabled - add <Nullable>enable</Nullable> for better null safety",
		})
	}
}

func checkCodeAnalysis(proj *csproj, r *models.ManifestReport) {
	analyzersEnabled := false
	warningsAsErrors := false
	for _, pg := range proj.PropertyGroups {
		if strings.EqualFold(pg.EnableNETAnalyzers, "true") {
			analyzersEnabled = true
		}
		if strings.EqualFold(pg.TreatWarningsAsErrors, "true") {
			warningsAsErrors = true
		}
	}

	if !analyzersEnabled {
		addIssue(r, models.ManifestIssue{
			Category: models.ManifestConfiguration,
			Severity: models.SeverityMedium,
			Setting:  "EnableNETAnalyzers",
			Value:    "false or not set",
			Message:  "Code analysis not enabled - add <EnableNETAnalyzers>true</EnableNETAnalyzers>",
		})
	}

	if !warningsAsErrors {
		addIssue(r, models.ManifestIssue{
			Category: models.ManifestConfiguration,
			Severity: models.SeverityLow,
			Setting:  "TreatWarningsAsErrors",
			Value:    "false or not set",
			Message:  "Warnings not treated as errors - consider enabling for stricter code quality",
		})
	}
}

func checkDeprecated(packages []models.PackageReference, r *models.ManifestReport) {
	for _, pkg := range packages {
		msg, ok := deprecatedPackages[pkg.Name]
		if !ok {
			continue
		}
		addIssue(r, models.ManifestIssue{
			Category: models.ManifestOutdated,
			Severity: models.SeverityMedium,
			Package:  pkg.Name,
			Version:  pkg.Version,
			Message:  msg,
		})
	}
}

func checkDuplicates(packages []models.PackageReference, r *models.ManifestReport) {
	names := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		names[pkg.Name] = true
	}

	for _, group := range duplicationGroups {
		var found []string
		for _, name := range group.packages {
			if names[name] {
				found = append(found, name)
			}
		}
		if len(found) > 1 {
			addIssue(r, models.ManifestIssue{
				Category: models.ManifestDuplicates,
				Severity: models.SeverityMedium,
				Packages: found,
				Message: fmt.Sprintf("Multiple packages for %s: %s",
					group.functionality, strings.Join(found, ", ")),
			})
		}
	}
}

func checkVersionConstraints(packages []models.PackageReference, r *models.ManifestReport) {
	for _, pkg := range packages {
		if strings.Contains(pkg.Version, "*") {
			addIssue(r, models.ManifestIssue{
				Category: models.ManifestWarnings,
				Severity: models.SeverityHigh,
				Package:  pkg.Name,
				Version:  pkg.Version,
				Message:  "Wildcard version constraint can cause unexpected breaking changes",
			})
		}
		if pkg.Version == "unspecified" {
			addIssue(r, models.ManifestIssue{
				Category: models.ManifestWarnings,
				Severity: models.SeverityMedium,
				Package:  pkg.Name,
				Version:  "not specified",
				Message:  "Version not specified - use explicit versioning",
			})
		}
	}
}
