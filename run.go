package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gqlatlas/gqlatlas/config"
	"github.com/gqlatlas/gqlatlas/mcpserver"
	"github.com/gqlatlas/gqlatlas/registry"
	"github.com/gqlatlas/gqlatlas/schemaloader"
)

func run(ctx context.Context) error {
	// Logs must not go to stdout, the MCP stdio transport owns it.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfgFile, err := config.FindConfigFile(".", config.DefaultFilenames)
	if err != nil {
		return fmt.Errorf("failed to find config file: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	loader := schemaloader.NewLoader(schemaloader.WithLogger(logger))
	reg := registry.New(cfg, loader)
	server := mcpserver.New(reg, logger)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}

	return nil
}
