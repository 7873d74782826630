package config

const (
	defaultVectorProvider = "sqlitevec"
	defaultVectorPath     = "./vector_store"
	defaultVectorTarget   = "http://localhost:8000"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultServerHost = "127.0.0.1"
	defaultServerPort = 8000

	defaultSpecsDir = "./api_specs"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Path:     defaultVectorPath,
			Target:   defaultVectorTarget,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Server: ServerConfig{
			Host: defaultServerHost,
			Port: defaultServerPort,
		},
		Specs: SpecsConfig{
			Dir: defaultSpecsDir,
		},
	}
}
