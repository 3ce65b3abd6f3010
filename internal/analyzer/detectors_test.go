package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mwhitford/patina/pkg/config"
	"github.com/mwhitford/patina/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(text string) *FileContext {
	return &FileContext{
		Path:    "Sample.cs",
		Text:    text,
		Lines:   SplitLines(text),
		Methods: ScoreMethods(ExtractMethods(text)),
	}
}

func detectorFor(t *testing.T, cat models.Category) Detector {
	t.Helper()
	for _, d := range DefaultDetectors(config.DefaultConfig()) {
		if d.Name() == cat {
			return d
		}
	}
	t.Fatalf("no detector for category %s", cat)
	return nil
}

func TestLargeFileDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryLargeFiles)

	tests := []struct {
		name     string
		lines    int
		issues   int
		severity models.Severity
	}{
		{"at threshold", 500, 0, ""},
		{"just over", 501, 1, models.SeverityMedium},
		{"over high threshold", 1001, 1, models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newContext(strings.Repeat("var x = 1;\n", tt.lines))
			issues := d.Detect(fc)
			require.Len(t, issues, tt.issues)
			if tt.issues > 0 {
				assert.Equal(t, tt.severity, issues[0].Severity)
				assert.Equal(t, tt.lines, issues[0].Value)
				assert.Zero(t, issues[0].Line, "large file issues apply to the whole file")
				assert.Equal(t, fmt.Sprintf("File has %d lines (should be < 500)", tt.lines), issues[0].Message)
			}
		})
	}
}

func TestComplexMethodDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryComplexMethods)

	tests := []struct {
		name       string
		complexity int
		lines      int
		issues     int
		severity   models.Severity
	}{
		{"under thresholds", 10, 50, 0, ""},
		{"complexity just over", 11, 10, 1, models.SeverityMedium},
		{"complexity over high", 21, 10, 1, models.SeverityHigh},
		{"lines just over", 5, 51, 1, models.SeverityMedium},
		{"lines over high", 5, 101, 1, models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &FileContext{
				Path: "Sample.cs",
				Methods: []ScoredMethod{{
					MethodCandidate: MethodCandidate{Name: "Process"},
					Complexity:      tt.complexity,
					Lines:           tt.lines,
				}},
			}
			issues := d.Detect(fc)
			require.Len(t, issues, tt.issues)
			if tt.issues > 0 {
				assert.Equal(t, tt.severity, issues[0].Severity)
				assert.Equal(t, "Process", issues[0].Method)
			}
		})
	}
}

func TestDebtMarkerDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryDebtMarkers)

	fc := newContext(strings.Join([]string{
		"// TODO: clean this up",
		"// FIXME: crashes on empty input",
		"var queue = BuildQueue(); // plain comment",
		"string s = \"TODO inside code\";",
	}, "\n"))

	issues := d.Detect(fc)
	require.Len(t, issues, 2)

	assert.Equal(t, "TODO", issues[0].Marker)
	assert.Equal(t, models.SeverityLow, issues[0].Severity)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "TODO comment found", issues[0].Message)

	assert.Equal(t, "FIXME", issues[1].Marker)
	assert.Equal(t, models.SeverityHigh, issues[1].Severity)
	assert.Equal(t, 2, issues[1].Line)
}

func TestDebugStatementDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryDebugStatements)

	fc := newContext(strings.Join([]string{
		`Console.WriteLine("debugging");`,
		`// Console.WriteLine("commented out");`,
		`Debug.WriteLine(state);`,
		`log.Info("structured logging is fine");`,
	}, "\n"))

	issues := d.Detect(fc)
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 3, issues[1].Line)
	for _, issue := range issues {
		assert.Equal(t, models.SeverityLow, issue.Severity)
	}
}

func TestWeakTypingDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryWeakTyping)

	fc := newContext(strings.Join([]string{
		"dynamic result = Invoke();",
		"var boxed = (object)value;",
		"// dynamic mentioned in a comment",
		"DynamicProxy proxy = Create();",
	}, "\n"))

	issues := d.Detect(fc)
	require.Len(t, issues, 2)

	assert.Equal(t, models.SeverityMedium, issues[0].Severity)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, models.SeverityLow, issues[1].Severity)
	assert.Equal(t, 2, issues[1].Line)
}

func TestLongParameterDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryLongParameters)

	tests := []struct {
		name     string
		params   string
		issues   int
		count    int
		severity models.Severity
	}{
		{"at threshold", "int a, int b, int c, int d, int e", 0, 0, ""},
		{"just over", "int a, int b, int c, int d, int e, int f", 1, 6, models.SeverityMedium},
		{"over high", "int a, int b, int c, int d, int e, int f, int g, int h", 1, 8, models.SeverityHigh},
		{"generic comma is one parameter", "Dictionary<string, int> a, int b, int c, int d, int e", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := fmt.Sprintf("public void Configure(%s)\n{\n}\n", tt.params)
			issues := d.Detect(newContext(src))
			require.Len(t, issues, tt.issues)
			if tt.issues > 0 {
				assert.Equal(t, tt.count, issues[0].Value)
				assert.Equal(t, tt.severity, issues[0].Severity)
				assert.Equal(t, 1, issues[0].Line)
			}
		})
	}
}

func TestDeepNestingDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryDeepNesting)

	nested := func(depth int) string {
		var b strings.Builder
		for i := 0; i < depth; i++ {
			fmt.Fprintf(&b, "if (c%d) {\n", i)
		}
		b.WriteString("work();\n")
		for i := 0; i < depth; i++ {
			b.WriteString("}\n")
		}
		return b.String()
	}

	t.Run("at threshold", func(t *testing.T) {
		assert.Empty(t, d.Detect(newContext(nested(4))))
	})

	t.Run("over threshold", func(t *testing.T) {
		issues := d.Detect(newContext(nested(5)))
		require.Len(t, issues, 1)
		assert.Equal(t, 5, issues[0].Value)
		assert.Equal(t, models.SeverityMedium, issues[0].Severity)
	})

	t.Run("over high threshold", func(t *testing.T) {
		issues := d.Detect(newContext(nested(7)))
		// One issue per new depth record past the threshold: 5, 6, 7.
		require.Len(t, issues, 3)
		assert.Equal(t, models.SeverityMedium, issues[0].Severity)
		assert.Equal(t, models.SeverityHigh, issues[2].Severity)
		assert.Equal(t, 7, issues[2].Value)
	})

	t.Run("repeat of same depth not re-flagged", func(t *testing.T) {
		src := nested(5) + nested(5)
		issues := d.Detect(newContext(src))
		assert.Len(t, issues, 1)
	})
}

func TestMagicNumberDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryMagicNumbers)

	fc := newContext(strings.Join([]string{
		"int timeout = 42;",
		"int allowed = 100;",
		"const int Limit = 86;",
		`var label = "42 is quoted";`,
		"int annotated = 37; // has a comment",
		"[Timeout(5000)]",
		"int small = 5;",
	}, "\n"))

	issues := d.Detect(fc)
	require.Len(t, issues, 1)
	assert.Equal(t, 42, issues[0].Value)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, models.SeverityLow, issues[0].Severity)
	assert.Equal(t, "Magic number 42 should be a named constant", issues[0].Message)
}

func TestEmptyCatchDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryEmptyCatch)

	t.Run("empty block", func(t *testing.T) {
		src := "try {\n    Work();\n} catch (IOException e) {\n}\n"
		issues := d.Detect(newContext(src))
		require.Len(t, issues, 1)
		assert.Equal(t, models.SeverityHigh, issues[0].Severity)
		assert.Equal(t, 3, issues[0].Line)
	})

	t.Run("comment only still empty", func(t *testing.T) {
		src := "try { Work(); } catch (IOException e) { // ignored\n}\n"
		assert.Len(t, d.Detect(newContext(src)), 1)
	})

	t.Run("handled catch not flagged", func(t *testing.T) {
		src := "try { Work(); } catch (IOException e) { Log(e); }\n"
		assert.Empty(t, d.Detect(newContext(src)))
	})
}

func TestGenericExceptionDetector(t *testing.T) {
	d := detectorFor(t, models.CategoryGenericException)

	fc := newContext(strings.Join([]string{
		"try { Work(); }",
		"catch (Exception ex) { Log(ex); }",
		"catch (IOException ex) { Log(ex); }",
	}, "\n"))

	issues := d.Detect(fc)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, models.SeverityMedium, issues[0].Severity)
}

// An empty catch of the generic Exception type is two findings, one per
// detector, because detectors never coordinate.
func TestEmptyGenericCatch_TwoIndependentIssues(t *testing.T) {
	src := "try { Work(); } catch (Exception ex) { }\n"
	fc := newContext(src)

	empty := detectorFor(t, models.CategoryEmptyCatch).Detect(fc)
	generic := detectorFor(t, models.CategoryGenericException).Detect(fc)

	assert.Len(t, empty, 1)
	assert.Len(t, generic, 1)
}
