package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/mwhitford/patina/internal/analyzer"
	"github.com/mwhitford/patina/internal/output"
	"github.com/mwhitford/patina/internal/scanner"
	"github.com/mwhitford/patina/pkg/models"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run smell and dependency analysis together",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-smells",
				Usage: "Skip source file analysis",
			},
			&cli.BoolFlag{
				Name:  "skip-deps",
				Usage: "Skip manifest analysis",
			},
		},
		Action: runAnalyzeCmd,
	}
}

// FullAnalysis bundles both artifacts for serialized output. The two
// reports stay separate; nothing merges manifest issues into the smell
// report.
type FullAnalysis struct {
	Smells    *models.Report           `json:"smells,omitempty" toon:"smells,omitempty"`
	Manifests []*models.ManifestReport `json:"manifests,omitempty" toon:"manifests,omitempty"`
}

func runAnalyzeCmd(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	runSmells := cfg.Analysis.Smells && !c.Bool("skip-smells")
	runDeps := cfg.Analysis.Manifest && !c.Bool("skip-deps")

	results := FullAnalysis{}
	start := time.Now()
	var root string

	if runSmells {
		var files []string
		root, files, err = scanFiles(cfg, paths)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			color.Yellow("No source files found")
		} else {
			opts := []analyzer.Option{analyzer.WithWorkers(cfg.Analysis.Workers)}
			if store := openCache(cfg, root, c.Bool("verbose")); store != nil {
				opts = append(opts, analyzer.WithCache(store))
			}
			smellAnalyzer := analyzer.NewSmellAnalyzer(cfg, opts...)

			tracker := newTracker(c, "Analyzing files...", len(files))
			results.Smells, err = smellAnalyzer.AnalyzeProject(c.Context, root, files, tracker.Tick)
			if err != nil {
				tracker.FinishError(err)
				return fmt.Errorf("smell analysis failed: %w", err)
			}
			tracker.FinishSuccess()
		}
	}

	if runDeps {
		scan := scanner.NewScanner(cfg)
		manifestAnalyzer := analyzer.NewManifestAnalyzer()
		for _, path := range paths {
			manifests, err := scan.FindManifests(path)
			if err != nil {
				return fmt.Errorf("failed to scan %s: %w", path, err)
			}
			for _, manifest := range manifests {
				report, err := manifestAnalyzer.AnalyzeFile(manifest)
				if err != nil {
					return fmt.Errorf("manifest analysis failed: %w", err)
				}
				results.Manifests = append(results.Manifests, report)
			}
		}
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatText && c.Bool("verbose") {
		fmt.Fprintf(formatter.Writer(), "Analysis completed in %s\n\n",
			time.Since(start).Round(time.Millisecond))
	}

	switch formatter.Format() {
	case output.FormatJSON, output.FormatTOON:
		return formatter.Output(results)
	case output.FormatMarkdown:
		if results.Smells != nil {
			if err := formatter.Output(output.SmellReport(results.Smells, cfg.Output.Limit)); err != nil {
				return err
			}
		}
		for _, report := range results.Manifests {
			if err := formatter.Output(output.ManifestReportRenderable(report)); err != nil {
				return err
			}
		}
		return nil
	}

	if results.Smells != nil {
		if err := renderSmellTable(formatter, results.Smells, cfg.Output.Limit); err != nil {
			return err
		}
		fmt.Fprintln(formatter.Writer())
	}
	for _, report := range results.Manifests {
		if err := renderManifestTable(formatter, report); err != nil {
			return err
		}
	}
	return nil
}
