package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/mwhitford/patina/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes patina's
analyzers as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "patina": {
        "command": "patina",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_smells     Heuristic code smells in C# sources
  - analyze_manifest   .csproj dependency and configuration issues`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcpserver.NewServer(version, cfg)
	return server.Run(ctx)
}
