// Package query provides shared search types and logic for semantic search
// over ingested API documentation. It is used by the REST endpoint, the MCP
// server tool, and the CLI.
package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/driftwoodlabs/apiscout/pkg/embeddings"
	"github.com/driftwoodlabs/apiscout/pkg/utils"
	"github.com/driftwoodlabs/apiscout/pkg/vector"
)

// DefaultTopK is the result count used when a caller does not ask for one.
const DefaultTopK = 3

// Result represents a single matching endpoint record.
type Result struct {
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata"`
	RelevanceScore float32        `json:"relevance_score"`
}

// Output represents the output of a search operation.
type Output struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// Search embeds the query text and retrieves the topK most relevant endpoint
// records from the vector store.
func Search(
	ctx context.Context,
	query string,
	topK int,
	embedder embeddings.Embedder,
	vectorDriver vector.Driver,
	logger *zap.Logger,
) (*Output, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Debug("search request",
		zap.String("query", utils.Truncate(query, 120)),
		zap.Int("topK", topK),
	)

	queryEmbedding, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := vectorDriver.Query(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	searchResults := make([]Result, 0, len(results))
	for _, result := range results {
		searchResults = append(searchResults, Result{
			Content:        result.Content,
			Metadata:       result.Metadata,
			RelevanceScore: result.Score,
		})
	}

	return &Output{
		Query:   query,
		Results: searchResults,
		Count:   len(searchResults),
	}, nil
}
