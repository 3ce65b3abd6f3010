package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for patina.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" json:"analysis" toml:"analysis" yaml:"analysis"`

	// Thresholds for the smell detectors
	Thresholds ThresholdConfig `koanf:"thresholds" json:"thresholds" toml:"thresholds" yaml:"thresholds"`

	// File exclusion settings
	Exclude ExcludeConfig `koanf:"exclude" json:"exclude" toml:"exclude" yaml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" json:"cache" toml:"cache" yaml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" json:"output" toml:"output" yaml:"output"`
}

// AnalysisConfig controls which analyzers run and how.
type AnalysisConfig struct {
	Smells   bool `koanf:"smells" json:"smells" toml:"smells" yaml:"smells"`
	Manifest bool `koanf:"manifest" json:"manifest" toml:"manifest" yaml:"manifest"`
	Workers  int  `koanf:"workers" json:"workers" toml:"workers" yaml:"workers"` // 0 = 2x NumCPU
}

// ThresholdConfig defines smell detector thresholds. The zero value of any
// field falls back to the documented default.
type ThresholdConfig struct {
	FileLines       int `koanf:"file_lines" json:"file_lines" toml:"file_lines" yaml:"file_lines"`
	FileLinesHigh   int `koanf:"file_lines_high" json:"file_lines_high" toml:"file_lines_high" yaml:"file_lines_high"`
	Complexity      int `koanf:"complexity" json:"complexity" toml:"complexity" yaml:"complexity"`
	ComplexityHigh  int `koanf:"complexity_high" json:"complexity_high" toml:"complexity_high" yaml:"complexity_high"`
	MethodLines     int `koanf:"method_lines" json:"method_lines" toml:"method_lines" yaml:"method_lines"`
	MethodLinesHigh int `koanf:"method_lines_high" json:"method_lines_high" toml:"method_lines_high" yaml:"method_lines_high"`
	Parameters      int `koanf:"parameters" json:"parameters" toml:"parameters" yaml:"parameters"`
	ParametersHigh  int `koanf:"parameters_high" json:"parameters_high" toml:"parameters_high" yaml:"parameters_high"`
	Nesting         int `koanf:"nesting" json:"nesting" toml:"nesting" yaml:"nesting"`
	NestingHigh     int `koanf:"nesting_high" json:"nesting_high" toml:"nesting_high" yaml:"nesting_high"`

	// MagicAllowlist lists integer literals that are never flagged.
	MagicAllowlist []int `koanf:"magic_allowlist" json:"magic_allowlist" toml:"magic_allowlist" yaml:"magic_allowlist"`
}

// ExcludeConfig defines which paths are skipped by the file selector.
type ExcludeConfig struct {
	// Substrings matched anywhere in a candidate path.
	Patterns []string `koanf:"patterns" json:"patterns" toml:"patterns" yaml:"patterns"`
	// Extensions of files that are analyzed.
	Extensions []string `koanf:"extensions" json:"extensions" toml:"extensions" yaml:"extensions"`
	// Gitignore enables exclusion via .gitignore patterns as well.
	Gitignore bool `koanf:"gitignore" json:"gitignore" toml:"gitignore" yaml:"gitignore"`
}

// CacheConfig controls per-file result caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" toml:"enabled" yaml:"enabled"`
	Dir     string `koanf:"dir" json:"dir" toml:"dir" yaml:"dir"`
	TTL     int    `koanf:"ttl" json:"ttl" toml:"ttl" yaml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" json:"format" toml:"format" yaml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" json:"color" toml:"color" yaml:"color"`
	// Limit is the maximum number of entries rendered per severity group.
	Limit   int  `koanf:"limit" json:"limit" toml:"limit" yaml:"limit"`
	Verbose bool `koanf:"verbose" json:"verbose" toml:"verbose" yaml:"verbose"`
}

// DefaultConfig returns a config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Smells:   true,
			Manifest: true,
		},
		Thresholds: ThresholdConfig{
			FileLines:       500,
			FileLinesHigh:   1000,
			Complexity:      10,
			ComplexityHigh:  20,
			MethodLines:     50,
			MethodLinesHigh: 100,
			Parameters:      5,
			ParametersHigh:  7,
			Nesting:         4,
			NestingHigh:     6,
			MagicAllowlist:  []int{0, 1, 10, 100, 1000, 60, 24, 365},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"bin", "obj", "packages", "TestResults",
				".Designer.cs", ".g.cs", ".i.cs",
				"AssemblyInfo.cs", "AssemblyAttributes.cs",
				"Migrations",
				"Test.cs", "Tests.cs", "Spec.cs",
			},
			Extensions: []string{".cs"},
			Gitignore:  true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".patina/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
			Limit:  10,
		},
	}
}

// Load loads configuration from a file, merged over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations, falling back to defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"patina.toml",
		"patina.yaml",
		"patina.yml",
		"patina.json",
		".patina.toml",
		".patina.yaml",
		".patina.yml",
		".patina.json",
	}

	searchDirs := []string{".", ".patina"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}
