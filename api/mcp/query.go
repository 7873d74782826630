package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	apiquery "github.com/driftwoodlabs/apiscout/api/query"
)

var (
	queryToolName    = "query_api_docs"
	queryDescription = "Search ingested OpenAPI documentation using natural language. Returns the most relevant API endpoints with their methods, paths, parameters and responses."
)

// QueryInput represents the input arguments for the query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the natural language question about the API"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 3)"`
}

// handleQuery processes a documentation search request.
func (s *Server) handleQuery(ctx context.Context, req *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, apiquery.Output, error) {
	logger := s.config.Logger

	logger.Debug("MCP query request",
		zap.String("query", input.Query),
		zap.Int("topK", input.TopK),
	)

	output, err := apiquery.Search(
		ctx,
		input.Query,
		input.TopK,
		s.config.Embedder,
		s.config.VectorDriver,
		logger,
	)
	if err != nil {
		logger.Error("documentation search failed", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to search documentation: %v", err)},
			},
		}, apiquery.Output{}, nil
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal query output", zap.Error(err))
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, apiquery.Output{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}
