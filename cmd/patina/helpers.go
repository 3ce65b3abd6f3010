package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mwhitford/patina/internal/cache"
	"github.com/mwhitford/patina/internal/scanner"
	"github.com/mwhitford/patina/pkg/config"
	"github.com/mwhitford/patina/pkg/models"
	"github.com/urfave/cli/v2"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig resolves the effective configuration, then applies global
// flag overrides on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if w := c.Int("workers"); w > 0 {
		cfg.Analysis.Workers = w
	}
	return cfg, nil
}

// scanFiles scans each path and returns the union of candidate files.
func scanFiles(cfg *config.Config, paths []string) (string, []string, error) {
	scan := scanner.NewScanner(cfg)

	root, err := filepath.Abs(paths[0])
	if err != nil {
		return "", nil, fmt.Errorf("invalid path %s: %w", paths[0], err)
	}

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return "", nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return root, files, nil
}

// openCache builds the analysis cache rooted at the scan root. A cache
// that cannot be created degrades to no caching rather than failing the
// run.
func openCache(cfg *config.Config, root string, verbose bool) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	dir := cfg.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	store, err := cache.New(dir, cfg.Cache.TTL, true)
	if err != nil {
		if verbose {
			color.Yellow("Cache disabled: %v", err)
		}
		return nil
	}
	return store
}

func severityString(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return color.RedString(string(s))
	case models.SeverityMedium:
		return color.YellowString(string(s))
	case models.SeverityLow:
		return color.GreenString(string(s))
	default:
		return string(s)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
