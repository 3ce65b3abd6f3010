package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mwhitford/patina/internal/analyzer"
	"github.com/mwhitford/patina/internal/output"
	"github.com/mwhitford/patina/internal/scanner"
	"github.com/mwhitford/patina/pkg/models"
	"github.com/urfave/cli/v2"
)

func depsCmd() *cli.Command {
	return &cli.Command{
		Name:      "deps",
		Aliases:   []string{"manifest"},
		Usage:     "Analyze .csproj manifests for dependency debt",
		ArgsUsage: "[path...]",
		Action:    runDepsCmd,
	}
}

func runDepsCmd(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	scan := scanner.NewScanner(cfg)
	var manifests []string
	for _, path := range paths {
		found, err := scan.FindManifests(path)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		manifests = append(manifests, found...)
	}
	if len(manifests) == 0 {
		color.Yellow("No .csproj files found")
		return nil
	}

	manifestAnalyzer := analyzer.NewManifestAnalyzer()
	reports := make([]*models.ManifestReport, 0, len(manifests))
	for _, manifest := range manifests {
		report, err := manifestAnalyzer.AnalyzeFile(manifest)
		if err != nil {
			return fmt.Errorf("manifest analysis failed: %w", err)
		}
		reports = append(reports, report)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	switch formatter.Format() {
	case output.FormatJSON, output.FormatTOON:
		if len(reports) == 1 {
			return formatter.Output(reports[0])
		}
		return formatter.Output(reports)
	case output.FormatMarkdown:
		for _, report := range reports {
			if err := formatter.Output(output.ManifestReportRenderable(report)); err != nil {
				return err
			}
		}
		return nil
	}

	for _, report := range reports {
		if err := renderManifestTable(formatter, report); err != nil {
			return err
		}
	}
	return nil
}

func renderManifestTable(formatter *output.Formatter, report *models.ManifestReport) error {
	var rows [][]string
	for _, cat := range models.ManifestCategories() {
		for _, issue := range report.Issues[cat] {
			subject := issue.Package
			if subject == "" {
				subject = issue.Framework
			}
			if subject == "" {
				subject = issue.Setting
			}
			rows = append(rows, []string{
				cat.Title(),
				subject,
				severityString(issue.Severity),
				truncate(issue.Message, 60),
			})
		}
	}

	if len(rows) == 0 {
		color.Green("%s: no dependency issues detected", report.Project)
		return nil
	}

	framework := report.TargetFramework
	if !report.SDKStyle {
		framework += " (legacy project format)"
	}

	table := output.NewTable(
		fmt.Sprintf("Dependency Analysis: %s", report.Project),
		[]string{"Category", "Subject", "Severity", "Message"},
		rows,
		[]string{
			fmt.Sprintf("Framework: %s", framework),
			fmt.Sprintf("Packages: %d", report.PackageCount),
			"",
			fmt.Sprintf("Issues: %d", report.Summary.TotalIssues),
		},
		report,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	var sev []string
	for _, s := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		if n := report.Summary.BySeverity[s]; n > 0 {
			sev = append(sev, fmt.Sprintf("%s: %d", s, n))
		}
	}
	if len(sev) > 0 {
		fmt.Fprintf(formatter.Writer(), "Severity: %s\n\n", strings.Join(sev, ", "))
	}
	return nil
}
