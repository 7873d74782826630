// Package config provides the apiscout configuration surface: defaults,
// an optional apiscout.toml file, and APISCOUT_-prefixed environment
// variables, with flag > env > file > default precedence.
package config

import "fmt"

// Config is the fully resolved apiscout configuration.
type Config struct {
	VectorStore VectorStoreConfig
	Embedding   EmbeddingConfig
	Server      ServerConfig
	Specs       SpecsConfig
}

// VectorStoreConfig selects and locates the vector store backend.
type VectorStoreConfig struct {
	// Provider is the driver name: "sqlitevec" or "chroma".
	Provider string

	// Path is the on-disk store directory (sqlitevec). Its internal layout
	// is owned by the driver.
	Path string

	// Target is the remote store URL (chroma).
	Target string
}

// EmbeddingConfig selects the embedding provider and model.
type EmbeddingConfig struct {
	// Provider is the embedder name: "ollama" or "openai".
	Provider string

	// Target is the provider API URL.
	Target string

	// Model is the embedding model identifier. Must match between
	// ingestion and query time.
	Model string

	// Dimensions is the embedding vector size (sqlitevec needs it to
	// shape its index).
	Dimensions uint

	// APIKey authenticates against hosted providers (openai).
	APIKey string
}

// ServerConfig holds the HTTP bind address.
type ServerConfig struct {
	Host string
	Port int
}

// ListenAddr renders the host:port bind address.
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SpecsConfig locates the OpenAPI spec files to ingest.
type SpecsConfig struct {
	Dir string
}
