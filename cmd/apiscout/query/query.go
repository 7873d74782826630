// Package querycmder provides the query command for searching ingested API
// documentation from the terminal.
package querycmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiquery "github.com/driftwoodlabs/apiscout/api/query"
	"github.com/driftwoodlabs/apiscout/pkg/config"
	embeddingutils "github.com/driftwoodlabs/apiscout/pkg/embeddings/utils"
	"github.com/driftwoodlabs/apiscout/pkg/logger"
	vectorutils "github.com/driftwoodlabs/apiscout/pkg/vector/utils"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	sepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type queryCommander struct {
	query string
	topK  int

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

const queryLongDesc string = `Query ingested API documentation with a natural language question.

Embeds the question, searches the vector store and prints the most relevant
endpoint documents. The embedding model must match the one used during
ingestion.

Example:
  apiscout query "How do I create a new device?"
  apiscout query "What endpoints are available for user management?"
  apiscout query "Show me authentication endpoints" --top 10`

const queryShortDesc string = "Query API documentation"

func NewQueryCmd() *cobra.Command {
	cmder := &queryCommander{}

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			applyConfig(cmd, cmder, cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = strings.Join(args, " ")

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 5, "Number of results to return")
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

func applyConfig(cmd *cobra.Command, cmder *queryCommander, cfg *config.Config) {
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

func (c *queryCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	fmt.Println(dimStyle.Render(fmt.Sprintf("Loading vector store from %s...", c.storePath)))

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

	fmt.Println(dimStyle.Render(fmt.Sprintf("Searching for: %q", c.query)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("Retrieving top %d results...", c.topK)))
	fmt.Println()

	output, err := apiquery.Search(context.Background(), c.query, c.topK, embedder, driver, c.logger)
	if err != nil {
		return err
	}

	// An empty result set is a normal outcome, not a failure.
	if output.Count == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("%s\n", headerStyle.Render(fmt.Sprintf("Found %d relevant API endpoints:", output.Count)))

	for i, result := range output.Results {
		c.printResult(i+1, result)
	}

	fmt.Printf("\n%s\n", dimStyle.Render(fmt.Sprintf("Context retrieval complete. %d endpoint(s) returned.", output.Count)))

	return nil
}

func (c *queryCommander) printResult(rank int, result apiquery.Result) {
	sep := sepStyle.Render(strings.Repeat("=", 80))
	thin := sepStyle.Render(strings.Repeat("-", 80))

	fmt.Printf("\n%s\n", sep)
	fmt.Printf("%s  %s\n",
		rankStyle.Render(fmt.Sprintf("Result %d", rank)),
		scoreStyle.Render(fmt.Sprintf("relevance: %.4f", result.RelevanceScore)),
	)
	fmt.Printf("%s\n", sep)

	fmt.Printf("%s %v\n", fieldStyle.Render("Method:"), metaString(result.Metadata, "method"))
	fmt.Printf("%s %v\n", fieldStyle.Render("Path:"), metaString(result.Metadata, "path"))
	fmt.Printf("%s %v\n", fieldStyle.Render("Operation ID:"), metaString(result.Metadata, "operation_id"))
	fmt.Printf("%s %s v%s\n", fieldStyle.Render("API:"), metaString(result.Metadata, "api_title"), metaString(result.Metadata, "api_version"))
	fmt.Printf("%s %s\n", fieldStyle.Render("Tags:"), metaTags(result.Metadata))

	fmt.Printf("\n%s\n%s\n%s\n", thin, fieldStyle.Render("Content:"), thin)
	fmt.Println(result.Content)
	fmt.Printf("%s\n", sep)
}

func metaString(metadata map[string]any, key string) string {
	if v, ok := metadata[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return "N/A"
}

// metaTags renders the tags metadata, which arrives as []string from the
// store drivers or []any after a JSON round trip.
func metaTags(metadata map[string]any) string {
	switch tags := metadata["tags"].(type) {
	case []string:
		return strings.Join(tags, ", ")
	case []any:
		parts := make([]string, 0, len(tags))
		for _, t := range tags {
			parts = append(parts, fmt.Sprintf("%v", t))
		}
		return strings.Join(parts, ", ")
	case string:
		return tags
	default:
		return ""
	}
}
