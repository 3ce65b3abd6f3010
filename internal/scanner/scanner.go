// Package scanner selects candidate source files for analysis.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/mwhitford/patina/pkg/config"
)

// Scanner finds C# source files in a directory tree. It produces no issues
// itself; selection is pure traversal.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot walks upward looking for a .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignorePatterns reads .gitignore files below the enclosing git root
// and installs them as matchers.
func (s *Scanner) loadGitignorePatterns(root string) {
	if !s.config.Exclude.Gitignore {
		return
	}

	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}

	fsys := osfs.New(gitRoot)
	patterns, err := gitignore.ReadPatterns(fsys, nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
}

// excludedBySubstring checks the configured exclusion substrings against
// the path. Matching is a plain substring test anywhere in the path, so
// "Migrations" excludes both directories and files that carry the name.
func (s *Scanner) excludedBySubstring(path string) bool {
	for _, pattern := range s.config.Exclude.Patterns {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// excludedByGitignore checks gitignore matchers against a relative path.
func (s *Scanner) excludedByGitignore(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// hasCandidateExtension checks the configured source extensions.
func (s *Scanner) hasCandidateExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, candidate := range s.config.Exclude.Extensions {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for candidate files. The returned
// paths are absolute and sorted, so downstream processing order is stable.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	s.loadGitignorePatterns(absRoot)

	files := make([]string, 0, 256)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)

		if d.IsDir() {
			if relPath != "." && (s.excludedBySubstring(relPath) || s.excludedByGitignore(relPath, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.hasCandidateExtension(path) {
			return nil
		}
		if s.excludedBySubstring(relPath) || s.excludedByGitignore(relPath, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

// FindManifests returns the project manifest (.csproj) files under root,
// sorted. Exclusion substrings apply here too so build output copies of a
// manifest are not picked up.
func (s *Scanner) FindManifests(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	manifests := make([]string, 0, 8)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		relPath, _ := filepath.Rel(absRoot, path)
		if d.IsDir() {
			if relPath != "." && s.excludedBySubstring(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".csproj") {
			manifests = append(manifests, path)
		}
		return nil
	})

	sort.Strings(manifests)
	return manifests, walkErr
}
