// Package servecmder provides the serve command for running the HTTP and MCP
// query server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/driftwoodlabs/apiscout/api"
	"github.com/driftwoodlabs/apiscout/pkg/config"
	embeddingutils "github.com/driftwoodlabs/apiscout/pkg/embeddings/utils"
	"github.com/driftwoodlabs/apiscout/pkg/logger"
	vectorutils "github.com/driftwoodlabs/apiscout/pkg/vector/utils"
)

type serveCommander struct {
	host string
	port int

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

const serveLongDesc string = `Run the apiscout HTTP server.

Serves natural language queries over the ingested API documentation:
  GET  /health   Health check and store status
  POST /query    Semantic search over endpoint documentation
  /mcp           Model Context Protocol endpoint for IDE assistants

The vector store must exist before the server starts; run ingestion first.

Example:
  apiscout serve
  apiscout serve --host 0.0.0.0 --port 9000`

const serveShortDesc string = "Run the apiscout HTTP server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
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
	cmd.Flags().StringVar(&cmder.host, "host", defaults.Server.Host, "Address to bind")
	cmd.Flags().IntVarP(&cmder.port, "port", "p", defaults.Server.Port, "Port to listen on")
	cmd.Flags().StringVar(&cmder.storePath, "store-path", defaults.VectorStore.Path, "Vector store directory")
	cmd.Flags().StringVar(&cmder.vectorProvider, "vector-provider", defaults.VectorStore.Provider, "Vector store provider (sqlitevec, chroma)")
	cmd.Flags().StringVar(&cmder.chromaTarget, "chroma-target", defaults.VectorStore.Target, "Chroma server URL (chroma provider)")
	cmd.Flags().StringVar(&cmder.embeddingProvider, "embedding-provider", defaults.Embedding.Provider, "Embedding provider (ollama, openai)")
	cmd.Flags().StringVar(&cmder.embeddingTarget, "embedding-target", defaults.Embedding.Target, "Embedding provider URL")
	cmd.Flags().StringVarP(&cmder.embeddingModel, "model", "m", defaults.Embedding.Model, "Embedding model (must match ingestion)")
	cmd.Flags().StringVar(&cmder.embeddingAPIKey, "api-key", "", "Embedding provider API key (openai)")
	cmd.Flags().UintVar(&cmder.dimensions, "dimensions", defaults.Embedding.Dimensions, "Embedding vector dimensions (sqlitevec)")

	return cmd
}

func applyConfig(cmd *cobra.Command, cmder *serveCommander, cfg *config.Config) {
	if !cmd.Flags().Changed("host") {
		cmder.host = cfg.Server.Host
	}
	if !cmd.Flags().Changed("port") {
		cmder.port = cfg.Server.Port
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

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	// The store must already exist; starting a query server over nothing
	// would only hide a missing ingestion run.
	driver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType:    c.vectorProvider,
		Path:            c.storePath,
		TargetURL:       c.chromaTarget,
		Dimensions:      c.dimensions,
		RequireExisting: true,
		Logger:          c.logger,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

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

	listenAddr := fmt.Sprintf("%s:%d", c.host, c.port)

	server, err := api.NewServer(api.Config{
		ListenAddr:      listenAddr,
		VectorStorePath: c.storePath,
		VectorDriver:    driver,
		Embedder:        embedder,
		Logger:          c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}
