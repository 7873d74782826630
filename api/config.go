// Package api provides the HTTP API server for querying ingested API
// documentation.
package api

import (
	"go.uber.org/zap"

	"github.com/driftwoodlabs/apiscout/pkg/embeddings"
	"github.com/driftwoodlabs/apiscout/pkg/vector"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., "127.0.0.1:8000")
	ListenAddr string

	// VectorStorePath is the on-disk location of the vector store, reported
	// by the health endpoint.
	VectorStorePath string

	// VectorDriver serves similarity queries. A nil driver makes /query
	// respond 503.
	VectorDriver vector.Driver

	// Embedder turns query text into vectors.
	Embedder embeddings.Embedder

	// Logger is the configured zap logger.
	Logger *zap.Logger
}
