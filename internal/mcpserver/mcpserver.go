package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/mwhitford/patina/pkg/config"
)

// Server wraps the MCP server and registers the patina analysis tools.
type Server struct {
	server *mcp.Server
	cfg    *config.Config
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(version string, cfg *config.Config) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "patina",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, cfg: cfg}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_smells",
		Description: describeSmells(),
	}, s.handleAnalyzeSmells)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_manifest",
		Description: describeManifest(),
	}, s.handleAnalyzeManifest)
}
