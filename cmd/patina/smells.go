package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mwhitford/patina/internal/analyzer"
	"github.com/mwhitford/patina/internal/output"
	"github.com/mwhitford/patina/internal/progress"
	"github.com/mwhitford/patina/pkg/models"
	"github.com/urfave/cli/v2"
)

func smellsCmd() *cli.Command {
	return &cli.Command{
		Name:      "smells",
		Aliases:   []string{"sm"},
		Usage:     "Detect code smells in C# source files",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "category",
				Usage: "Restrict output to these categories (e.g. large_files, empty_catch)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Issues shown per severity group in rendered output (default from config)",
			},
		},
		Action: runSmellsCmd,
	}
}

func runSmellsCmd(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	root, files, err := scanFiles(cfg, paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	opts := []analyzer.Option{analyzer.WithWorkers(cfg.Analysis.Workers)}
	if store := openCache(cfg, root, c.Bool("verbose")); store != nil {
		opts = append(opts, analyzer.WithCache(store))
	}
	smellAnalyzer := analyzer.NewSmellAnalyzer(cfg, opts...)

	tracker := newTracker(c, "Analyzing files...", len(files))
	report, err := smellAnalyzer.AnalyzeProject(c.Context, root, files, tracker.Tick)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	if cats := c.StringSlice("category"); len(cats) > 0 {
		report = report.Filter(toCategories(cats))
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	limit := cfg.Output.Limit
	if c.Int("limit") > 0 {
		limit = c.Int("limit")
	}

	switch formatter.Format() {
	case output.FormatJSON, output.FormatTOON:
		return formatter.Output(report)
	case output.FormatMarkdown:
		return formatter.Output(output.SmellReport(report, limit))
	}

	return renderSmellTable(formatter, report, limit)
}

// newTracker returns a live tracker only when progress will not corrupt
// the output stream.
func newTracker(c *cli.Context, label string, total int) *progress.Tracker {
	format := output.ParseFormat(c.String("format"))
	if format != output.FormatText || c.String("output") != "" {
		return progress.NewNoop()
	}
	return progress.NewTracker(label, total)
}

func toCategories(names []string) []models.Category {
	cats := make([]models.Category, len(names))
	for i, name := range names {
		cats[i] = models.Category(name)
	}
	return cats
}

func renderSmellTable(formatter *output.Formatter, report *models.Report, limit int) error {
	for _, cat := range models.Categories() {
		issues := report.Issues[cat]
		if len(issues) == 0 {
			continue
		}

		shown := output.DisplayOrder(issues)
		if len(shown) > limit {
			shown = shown[:limit]
		}

		var rows [][]string
		for _, issue := range shown {
			location := issue.File
			if issue.Line > 0 {
				location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
			}
			rows = append(rows, []string{
				location,
				severityString(issue.Severity),
				truncate(issue.Message, 70),
			})
		}

		var footer []string
		if len(issues) > limit {
			footer = []string{fmt.Sprintf("... and %d more", len(issues)-limit), "", ""}
		}

		table := output.NewTable(
			fmt.Sprintf("%s (%d)", cat.Title(), len(issues)),
			[]string{"Location", "Severity", "Message"},
			rows,
			footer,
			nil,
		)
		if err := formatter.Output(table); err != nil {
			return err
		}
	}

	stats := report.Stats
	fmt.Fprintf(formatter.Writer(),
		"Summary: %d issues across %d of %d files (high: %d, medium: %d, low: %d)\n",
		stats.TotalIssues, stats.FilesWithIssues, stats.TotalFiles,
		stats.BySeverity[models.SeverityHigh],
		stats.BySeverity[models.SeverityMedium],
		stats.BySeverity[models.SeverityLow])

	if stats.Complexity.Methods > 0 {
		fmt.Fprintf(formatter.Writer(),
			"Complexity: %d methods, mean %.1f, p95 %.1f, max %d\n",
			stats.Complexity.Methods, stats.Complexity.Mean,
			stats.Complexity.P95, stats.Complexity.Max)
	}
	return nil
}
