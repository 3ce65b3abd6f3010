package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwhitford/patina/internal/cache"
	"github.com/mwhitford/patina/pkg/config"
	"github.com/mwhitford/patina/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleSource = `public class OrderService
{
    // TODO: add retries
    public void Submit(Order order)
    {
        try
        {
            Console.WriteLine("submitting");
        }
        catch (Exception ex) { }
    }
}
`

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "OrderService.cs", sampleSource)

	a := NewSmellAnalyzer(config.DefaultConfig())
	res := a.AnalyzeFile(path, "OrderService.cs")

	require.False(t, res.Failed())
	assert.Equal(t, "OrderService.cs", res.Path)
	assert.Equal(t, 12, res.Lines)

	byCategory := make(map[models.Category]int)
	for _, issue := range res.Issues {
		byCategory[issue.Category]++
		assert.NotEmpty(t, issue.ContextHash)
		assert.Equal(t, "OrderService.cs", issue.File)
	}
	assert.Equal(t, 1, byCategory[models.CategoryDebtMarkers])
	assert.Equal(t, 1, byCategory[models.CategoryDebugStatements])
	assert.Equal(t, 1, byCategory[models.CategoryEmptyCatch])
	assert.Equal(t, 1, byCategory[models.CategoryGenericException])
}

func TestAnalyzeFile_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Invalid.cs")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x41}, 0o644))

	a := NewSmellAnalyzer(config.DefaultConfig())
	res := a.AnalyzeFile(path, "Invalid.cs")

	assert.True(t, res.Failed())
	assert.Contains(t, res.Failure, "cannot be decoded")
}

func TestAnalyzeFile_StripsBOM(t *testing.T) {
	dir := t.TempDir()
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("// TODO: later\n")...)
	path := filepath.Join(dir, "Bom.cs")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	a := NewSmellAnalyzer(config.DefaultConfig())
	res := a.AnalyzeFile(path, "Bom.cs")

	require.False(t, res.Failed())
	assert.Equal(t, 1, res.Lines)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, models.CategoryDebtMarkers, res.Issues[0].Category)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	a := NewSmellAnalyzer(config.DefaultConfig())
	res := a.AnalyzeFile(filepath.Join(t.TempDir(), "absent.cs"), "absent.cs")
	assert.True(t, res.Failed())
}

func TestAnalyzeProject(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeSource(t, dir, "A.cs", sampleSource),
		writeSource(t, dir, "B.cs", "public class B\n{\n}\n"),
	}

	a := NewSmellAnalyzer(config.DefaultConfig())
	report, err := a.AnalyzeProject(context.Background(), dir, files, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.TotalFiles)
	assert.Equal(t, 15, report.Stats.TotalLines)
	assert.Equal(t, 1, report.Stats.FilesWithIssues)

	// Issue paths are relative to the project root.
	for _, issues := range report.Issues {
		for _, issue := range issues {
			assert.Equal(t, "A.cs", issue.File)
		}
	}
}

func TestAnalyzeProject_StatsConsistency(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeSource(t, dir, "A.cs", sampleSource),
		writeSource(t, dir, "B.cs", "dynamic x = 1;\nint magic = 42;\n"),
	}

	a := NewSmellAnalyzer(config.DefaultConfig())
	report, err := a.AnalyzeProject(context.Background(), dir, files, nil)
	require.NoError(t, err)

	bySeverity := 0
	for _, n := range report.Stats.BySeverity {
		bySeverity += n
	}
	byCategory := 0
	for _, n := range report.Stats.ByCategory {
		byCategory += n
	}
	listed := 0
	for _, issues := range report.Issues {
		listed += len(issues)
	}

	assert.Equal(t, report.Stats.TotalIssues, bySeverity)
	assert.Equal(t, report.Stats.TotalIssues, byCategory)
	assert.Equal(t, report.Stats.TotalIssues, listed)
}

func TestAnalyzeProject_Deterministic(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"C.cs", "A.cs", "B.cs"} {
		files = append(files, writeSource(t, dir, name, sampleSource))
	}

	a := NewSmellAnalyzer(config.DefaultConfig(), WithWorkers(4))

	first, err := a.AnalyzeProject(context.Background(), dir, files, nil)
	require.NoError(t, err)
	second, err := a.AnalyzeProject(context.Background(), dir, files, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	for _, issues := range first.Issues {
		for i := 1; i < len(issues); i++ {
			assert.LessOrEqual(t, issues[i-1].File, issues[i].File)
		}
	}
}

func TestAnalyzeProject_FailedFileBecomesErrorIssue(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "Bad.cs")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe}, 0o644))
	good := writeSource(t, dir, "Good.cs", "public class Good\n{\n}\n")

	a := NewSmellAnalyzer(config.DefaultConfig())
	report, err := a.AnalyzeProject(context.Background(), dir, []string{bad, good}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Stats.TotalFiles)
	errs := report.Category(models.CategoryErrors)
	require.Len(t, errs, 1)
	assert.Equal(t, models.SeverityHigh, errs[0].Severity)
	assert.Contains(t, errs[0].Message, "Error analyzing file:")
}

func TestAnalyzeProject_Canceled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeSource(t, dir, "A.cs", sampleSource)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewSmellAnalyzer(config.DefaultConfig())
	report, err := a.AnalyzeProject(ctx, dir, files, nil)
	assert.Error(t, err)

	// Cancellation abandons unprocessed files but keeps the partial
	// report for whatever completed.
	require.NotNil(t, report)
	assert.LessOrEqual(t, report.Stats.TotalFiles, len(files))
}

func TestAnalyzeFile_CacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "Cached.cs", sampleSource)

	store, err := cache.New(filepath.Join(dir, "cache"), 1, true)
	require.NoError(t, err)

	a := NewSmellAnalyzer(config.DefaultConfig(), WithCache(store))

	first := a.AnalyzeFile(path, "Cached.cs")
	second := a.AnalyzeFile(path, "Cached.cs")
	assert.Equal(t, first, second)

	// A content change must invalidate the cached result.
	require.NoError(t, os.WriteFile(path, []byte("// FIXME: changed\n"), 0o644))
	third := a.AnalyzeFile(path, "Cached.cs")
	assert.Equal(t, 1, third.Lines)
	require.Len(t, third.Issues, 1)
	assert.Equal(t, models.CategoryDebtMarkers, third.Issues[0].Category)
}
