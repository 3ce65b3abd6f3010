package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeSmells() string {
	return `Scans C# source files for heuristic code smells: oversized files, complex methods, debt markers, debug statements, weak typing, long parameter lists, deep nesting, magic numbers, empty catch blocks, and generic exception handling.

USE WHEN:
- Auditing a .NET codebase for technical debt
- Prioritizing refactoring work before a release
- Tracking smell counts over time

INTERPRETING RESULTS:
- Issues are keyed by category; each carries file, line (1-indexed, 0 = whole file), severity, and a context hash stable across runs
- Severity: high (empty catch, FIXME/BUG/HACK markers, complexity > 20) > medium > low
- The errors category lists files that could not be analyzed (unreadable or not valid UTF-8)
- Complexity is a token-count approximation, not a parse; treat scores as relative rankings

METRICS RETURNED:
- Per-issue: category, severity, file, line, message, optional method/code/value
- Stats: total files/lines/issues, files with issues, distinct flagged lines, counts by severity and category
- Method complexity distribution: mean, p95, max`
}

func describeManifest() string {
	return `Analyzes .NET project manifests (.csproj) for dependency debt: outdated target frameworks, deprecated NuGet packages, duplicated functionality, version constraint problems, and missing analyzer settings.

USE WHEN:
- Planning a framework upgrade
- Reviewing a project's dependency hygiene
- Consolidating overlapping packages

INTERPRETING RESULTS:
- framework_issues: end-of-support frameworks are high severity; multi-target legacy entries are capped at medium
- outdated: packages with recommended modern replacements
- duplicate_functionality: multiple packages covering the same concern (JSON, logging, mapping, mocking, testing, validation, data access)
- warnings: wildcard versions (high) and unspecified versions (medium)
- configuration: Nullable, EnableNETAnalyzers, TreatWarningsAsErrors recommendations

METRICS RETURNED:
- Per-manifest: project name, target framework, SDK-style flag, package count
- Issues keyed by category, plus totals by severity and category`
}
