// Package ingestcmder provides the ingest command for loading OpenAPI specs
// into the vector store.
package ingestcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/driftwoodlabs/apiscout/pkg/config"
	embeddingutils "github.com/driftwoodlabs/apiscout/pkg/embeddings/utils"
	"github.com/driftwoodlabs/apiscout/pkg/ingest"
	"github.com/driftwoodlabs/apiscout/pkg/logger"
	vectorutils "github.com/driftwoodlabs/apiscout/pkg/vector/utils"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type ingestCommander struct {
	specsDir          string
	storePath         string
	vectorProvider    string
	chromaTarget      string
	embeddingProvider string
	embeddingTarget   string
	embeddingModel    string
	embeddingAPIKey   string
	dimensions        uint

	debug  bool
	logger *zap.Logger
}

const ingestLongDesc string = `Ingest OpenAPI specification files into the vector store.

Reads every *.json file in the specs directory, builds one searchable
document per endpoint operation, embeds the documents and stores them.
Re-running ingestion updates existing documents instead of duplicating them.

Example:
  apiscout ingest
  apiscout ingest --specs-dir ./my_specs --store-path ./my_store
  apiscout ingest --embedding-provider openai --api-key $OPENAI_API_KEY`

const ingestShortDesc string = "Ingest OpenAPI specs into the vector store"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			applyConfig(cmd, cmder, cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.specsDir, "specs-dir", "s", defaults.Specs.Dir, "Directory containing OpenAPI *.json files")
	cmd.Flags().StringVar(&cmder.storePath, "store-path", defaults.VectorStore.Path, "Vector store directory")
	cmd.Flags().StringVar(&cmder.vectorProvider, "vector-provider", defaults.VectorStore.Provider, "Vector store provider (sqlitevec, chroma)")
	cmd.Flags().StringVar(&cmder.chromaTarget, "chroma-target", defaults.VectorStore.Target, "Chroma server URL (chroma provider)")
	cmd.Flags().StringVar(&cmder.embeddingProvider, "embedding-provider", defaults.Embedding.Provider, "Embedding provider (ollama, openai)")
	cmd.Flags().StringVar(&cmder.embeddingTarget, "embedding-target", defaults.Embedding.Target, "Embedding provider URL")
	cmd.Flags().StringVarP(&cmder.embeddingModel, "model", "m", defaults.Embedding.Model, "Embedding model (must match at query time)")
	cmd.Flags().StringVar(&cmder.embeddingAPIKey, "api-key", "", "Embedding provider API key (openai)")
	cmd.Flags().UintVar(&cmder.dimensions, "dimensions", defaults.Embedding.Dimensions, "Embedding vector dimensions (sqlitevec)")

	return cmd
}

// applyConfig fills in resolved config values for flags the user did not set,
// so environment and file configuration still beat flag defaults.
func applyConfig(cmd *cobra.Command, cmder *ingestCommander, cfg *config.Config) {
	if !cmd.Flags().Changed("specs-dir") {
		cmder.specsDir = cfg.Specs.Dir
	}
	if !cmd.Flags().Changed("store-path") {
		cmder.storePath = cfg.VectorStore.Path
	}
	if !cmd.Flags().Changed("vector-provider") {
		cmder.vectorProvider = cfg.VectorStore.Provider
	}
	if !cmd.Flags().Changed("chroma-target") {
		cmder.chromaTarget = cfg.VectorStore.Target
	}
	if !cmd.Flags().Changed("embedding-provider") {
		cmder.embeddingProvider = cfg.Embedding.Provider
	}
	if !cmd.Flags().Changed("embedding-target") {
		cmder.embeddingTarget = cfg.Embedding.Target
	}
	if !cmd.Flags().Changed("model") {
		cmder.embeddingModel = cfg.Embedding.Model
	}
	if !cmd.Flags().Changed("api-key") {
		cmder.embeddingAPIKey = cfg.Embedding.APIKey
	}
	if !cmd.Flags().Changed("dimensions") {
		cmder.dimensions = cfg.Embedding.Dimensions
	}
}

func (c *ingestCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	// Create the specs directory so a fresh checkout gets a place to drop
	// spec files, matching the error message's instruction.
	if err := os.MkdirAll(c.specsDir, 0o755); err != nil {
		return fmt.Errorf("creating specs directory: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: c.embeddingProvider,
		TargetURL:    c.embeddingTarget,
		Model:        c.embeddingModel,
		APIKey:       c.embeddingAPIKey,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	driver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: c.vectorProvider,
		Path:         c.storePath,
		TargetURL:    c.chromaTarget,
		Dimensions:   c.dimensions,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer driver.Close()

	pipeline := ingest.NewPipeline(embedder, driver, c.logger)

	result, err := pipeline.Run(context.Background(), c.specsDir)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s files, %s endpoint documents\n%s\n",
		successStyle.Render("Ingestion complete:"),
		countStyle.Render(fmt.Sprintf("%d", result.Files)),
		countStyle.Render(fmt.Sprintf("%d", result.Records)),
		dimStyle.Render("store: "+c.storePath),
	)

	return nil
}
