// Package vector provides interfaces and implementations for vector storage
// of API documentation records.
package vector

import "context"

// Document represents a stored record with its text content, metadata,
// and embedding.
type Document struct {
	// ID is a unique identifier for the document. Ingestion derives it
	// deterministically from the record metadata so re-ingesting the same
	// operation updates the stored document instead of duplicating it.
	ID string

	// Content is the rendered endpoint documentation text. It is the sole
	// semantic-search input.
	Content string

	// Metadata carries the record's structured fields (path, method,
	// operation_id, api_title, api_version, tags, source). It is the sole
	// filtering and faceting mechanism.
	Metadata map[string]any

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// Add stores documents with their embeddings. If a document with the
	// same ID already exists, implementers should update the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Get retrieves documents by their IDs.
	Get(ctx context.Context, ids []string) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}
