package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mwhitford/patina/pkg/config"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a configuration file with default settings",
		Description: `Creates a patina configuration file in the current directory with
the default thresholds and exclusions. The file format follows the
extension: .toml (default), .yaml, .yml, or .json.

Examples:
  patina init                       # Creates patina.toml
  patina init -o .patina/patina.yaml
  patina init --force               # Overwrite an existing file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "patina.toml",
				Usage:   "Output file path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInit,
	}
}

func runInit(c *cli.Context) error {
	outputPath := c.String("output")

	if _, err := os.Stat(outputPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := renderDefaultConfig(filepath.Ext(outputPath))
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	color.Green("Created %s", outputPath)
	fmt.Println("Edit this file to customize analysis settings.")
	return nil
}

func renderDefaultConfig(ext string) (string, error) {
	cfg := config.DefaultConfig()

	var content []byte
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		content, err = yaml.Marshal(cfg)
	case ".json":
		content, err = json.MarshalIndent(cfg, "", "  ")
	default:
		content, err = toml.Marshal(cfg)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	// JSON has no comment syntax, so the header only goes on the others.
	if strings.EqualFold(ext, ".json") {
		return string(content) + "\n", nil
	}

	var buf strings.Builder
	buf.WriteString("# Patina configuration\n")
	buf.WriteString("# Documentation: https://github.com/mwhitford/patina\n\n")
	buf.Write(content)
	return buf.String(), nil
}
