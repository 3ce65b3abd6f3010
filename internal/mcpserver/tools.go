package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/mwhitford/patina/internal/analyzer"
	"github.com/mwhitford/patina/internal/output"
	"github.com/mwhitford/patina/internal/scanner"
	"github.com/mwhitford/patina/pkg/models"
	toon "github.com/toon-format/toon-go"
)

// largeResponseTokens is the estimated size past which a tool response
// carries a note suggesting the caller narrow the request.
const largeResponseTokens = 5000

// SmellsInput configures the code smell tool.
type SmellsInput struct {
	Path       string   `json:"path,omitempty" jsonschema:"Directory to analyze. Defaults to current directory."`
	Categories []string `json:"categories,omitempty" jsonschema:"Restrict output to these smell categories (e.g. large_files, empty_catch)."`
	Workers    int      `json:"workers,omitempty" jsonschema:"Worker count for parallel analysis. Default 2x CPU count."`
}

// ManifestInput configures the dependency tool.
type ManifestInput struct {
	Path string `json:"path,omitempty" jsonschema:"A .csproj file or a directory to search for manifests. Defaults to current directory."`
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	text, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	payload := string(text)
	if tokens := output.EstimateTokens(payload); tokens > largeResponseTokens {
		payload += fmt.Sprintf("\n\nResponse is ~%s tokens. Narrow the path or restrict categories for a smaller result.",
			output.FormatTokenCount(tokens))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: payload},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleAnalyzeSmells(ctx context.Context, req *mcp.CallToolRequest, input SmellsInput) (*mcp.CallToolResult, any, error) {
	root := input.Path
	if root == "" {
		root = "."
	}

	files, err := scanner.NewScanner(s.cfg).ScanDir(root)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no source files found")
	}

	a := analyzer.NewSmellAnalyzer(s.cfg, analyzer.WithWorkers(input.Workers))
	report, err := a.AnalyzeProject(ctx, root, files, nil)
	if err != nil {
		return toolError(err.Error())
	}

	if len(input.Categories) > 0 {
		cats := make([]models.Category, len(input.Categories))
		for i, name := range input.Categories {
			cats[i] = models.Category(name)
		}
		report = report.Filter(cats)
	}

	return toolResult(report)
}

func (s *Server) handleAnalyzeManifest(ctx context.Context, req *mcp.CallToolRequest, input ManifestInput) (*mcp.CallToolResult, any, error) {
	path := input.Path
	if path == "" {
		path = "."
	}

	manifests, err := scanner.NewScanner(s.cfg).FindManifests(path)
	if err != nil {
		return toolError(err.Error())
	}
	if len(manifests) == 0 {
		return toolError("no .csproj files found")
	}

	a := analyzer.NewManifestAnalyzer()
	reports := make([]*models.ManifestReport, 0, len(manifests))
	for _, manifest := range manifests {
		report, err := a.AnalyzeFile(manifest)
		if err != nil {
			return toolError(err.Error())
		}
		reports = append(reports, report)
	}

	if len(reports) == 1 {
		return toolResult(reports[0])
	}
	return toolResult(reports)
}
