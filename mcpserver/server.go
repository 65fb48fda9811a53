// Package mcpserver exposes schema search and operation validation as MCP
// tools over a Model Context Protocol transport.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gqlatlas/gqlatlas/registry"
	"github.com/gqlatlas/gqlatlas/search"
	"github.com/gqlatlas/gqlatlas/validate"
)

const Version = "0.1.0"

type Server struct {
	reg      *registry.Registry
	pipeline *validate.Pipeline
	mcp      *mcp.Server
	logger   *slog.Logger
}

func New(reg *registry.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		reg:      reg,
		pipeline: validate.New(reg),
		logger:   logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "gqlatlas",
			Version: Version,
		}, nil),
	}
	s.registerTools()

	return s
}

// Run serves MCP requests on the transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_schema",
		Description: "Search a GraphQL schema's types, queries and mutations by free-text term. Returns a bounded, ranked summary of the matches.",
	}, s.searchSchema)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "validate_operation",
		Description: "Validate a single GraphQL operation (raw or in a markdown codeblock) against a schema.",
	}, s.validateOperation)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "validate_codeblocks",
		Description: "Validate every GraphQL codeblock in a markdown document against a schema. Returns a per-codeblock verdict.",
	}, s.validateCodeblocks)
}

type searchInput struct {
	Query    string   `json:"query" jsonschema:"free-text term to search for"`
	Schema   string   `json:"schema,omitempty" jsonschema:"configured schema name; defaults to the first configured schema"`
	Sections []string `json:"sections,omitempty" jsonschema:"sections to include: all, types, queries, mutations"`
}

func (s *Server) searchSchema(ctx context.Context, req *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, any, error) {
	s.logger.Debug("tool call", "tool", "search_schema", "query", in.Query, "schema", in.Schema)

	schemaName := in.Schema
	if schemaName == "" {
		if supported := s.reg.Supported(); len(supported) > 0 {
			schemaName = supported[0]
		}
	}

	raw, err := s.reg.RawDocument(ctx, schemaName)
	if err != nil {
		return errorResult(err), nil, nil
	}

	sections := make([]search.Section, 0, len(in.Sections))
	for _, sec := range in.Sections {
		sections = append(sections, search.Section(strings.ToLower(sec)))
	}

	text, err := search.Search(raw, in.Query, sections)
	if err != nil {
		return errorResult(err), nil, nil
	}

	return textResult(text), nil, nil
}

type validateInput struct {
	Text   string `json:"text" jsonschema:"markdown or raw text containing the GraphQL operation"`
	Schema string `json:"schema" jsonschema:"configured schema name to validate against"`
}

func (s *Server) validateOperation(ctx context.Context, req *mcp.CallToolRequest, in validateInput) (*mcp.CallToolResult, validate.Check, error) {
	s.logger.Debug("tool call", "tool", "validate_operation", "schema", in.Schema)

	check, err := s.pipeline.Operation(ctx, in.Text, in.Schema)
	if err != nil {
		return errorResult(err), validate.Check{}, nil
	}

	return textResult(fmt.Sprintf("%s: %s", check.Outcome, check.Detail)), check, nil
}

func (s *Server) validateCodeblocks(ctx context.Context, req *mcp.CallToolRequest, in validateInput) (*mcp.CallToolResult, validate.BatchResult, error) {
	s.logger.Debug("tool call", "tool", "validate_codeblocks", "schema", in.Schema)

	result, err := s.pipeline.Codeblocks(ctx, in.Text, in.Schema)
	if err != nil {
		return errorResult(err), validate.BatchResult{}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "valid: %t\n", result.Valid)
	for i, check := range result.Checks {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, check.Outcome, check.Detail)
	}

	return textResult(b.String()), result, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
