package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unicode/utf8"

	"github.com/mwhitford/patina/internal/cache"
	"github.com/mwhitford/patina/internal/fileproc"
	"github.com/mwhitford/patina/pkg/config"
	"github.com/mwhitford/patina/pkg/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SmellAnalyzer runs the detector pipeline over source files and folds
// per-file results into a report.
type SmellAnalyzer struct {
	cfg       *config.Config
	detectors []Detector
	cache     *cache.Cache
	workers   int
}

// Option configures a SmellAnalyzer.
type Option func(*SmellAnalyzer)

// WithCache enables result caching keyed by content hash.
func WithCache(c *cache.Cache) Option {
	return func(a *SmellAnalyzer) {
		a.cache = c
	}
}

// WithWorkers overrides the worker count for project analysis.
func WithWorkers(n int) Option {
	return func(a *SmellAnalyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// NewSmellAnalyzer creates an analyzer with the full detector pipeline.
func NewSmellAnalyzer(cfg *config.Config, opts ...Option) *SmellAnalyzer {
	a := &SmellAnalyzer{
		cfg:       cfg,
		detectors: DefaultDetectors(cfg),
		workers:   cfg.Analysis.Workers,
	}
	if a.workers <= 0 {
		a.workers = runtime.NumCPU() * fileproc.DefaultWorkerMultiplier
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile analyzes a single file. The returned result always carries
// the display path; read or decode failures are recorded on the result
// rather than returned, so one bad file never aborts a project run.
func (a *SmellAnalyzer) AnalyzeFile(path, displayPath string) models.FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.FileResult{Path: displayPath, Failure: err.Error()}
	}

	if a.cache != nil && a.cache.Enabled() {
		hash := cache.HashBytes(data)
		if cached, ok := a.cache.Get(displayPath, hash); ok {
			var res models.FileResult
			if json.Unmarshal(cached, &res) == nil {
				return res
			}
		}
		res := a.analyzeBytes(displayPath, data)
		if encoded, err := json.Marshal(res); err == nil {
			_ = a.cache.Set(displayPath, hash, encoded)
		}
		return res
	}

	return a.analyzeBytes(displayPath, data)
}

func (a *SmellAnalyzer) analyzeBytes(displayPath string, data []byte) (res models.FileResult) {
	res.Path = displayPath

	// A detector panic is a bug, but it should cost one file, not the run.
	defer func() {
		if r := recover(); r != nil {
			res = models.FileResult{
				Path:    displayPath,
				Failure: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		res.Failure = "file cannot be decoded as UTF-8"
		return res
	}

	text := string(data)
	fc := &FileContext{
		Path:    displayPath,
		Text:    text,
		Lines:   SplitLines(text),
		Methods: ScoreMethods(ExtractMethods(text)),
	}

	res.Lines = len(fc.Lines)
	for _, m := range fc.Methods {
		res.MethodComplexity = append(res.MethodComplexity, m.Complexity)
	}

	for _, d := range a.detectors {
		for _, issue := range d.Detect(fc) {
			issue.ContextHash = models.ContextHash(issue.File, issue.Line, issue.Message)
			res.Issues = append(res.Issues, issue)
		}
	}
	return res
}

// AnalyzeProject analyzes files concurrently and aggregates a report.
// Paths are reported relative to root when possible. onProgress may be
// nil; it is called once per completed file.
func (a *SmellAnalyzer) AnalyzeProject(ctx context.Context, root string, files []string, onProgress fileproc.ProgressFunc) (*models.Report, error) {
	results, procErrs := fileproc.ForEachFileWithContextAndProgress(ctx, files, a.workers,
		func(path string) (models.FileResult, error) {
			return a.AnalyzeFile(path, displayPath(root, path)), nil
		}, onProgress)

	builder := models.NewReportBuilder()
	for _, res := range results {
		builder.AddFile(res)
	}
	report := builder.Build()

	if procErrs.HasErrors() {
		// Only cancellation surfaces here; per-file failures are folded
		// into the report as error issues. Files that completed before
		// the cancellation are kept as a partial report.
		return report, procErrs
	}
	return report, nil
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
