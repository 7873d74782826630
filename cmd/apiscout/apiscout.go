// Package apiscoutcmder
package apiscoutcmder

import (
	"github.com/spf13/cobra"

	ingestcmder "github.com/driftwoodlabs/apiscout/cmd/apiscout/ingest"
	querycmder "github.com/driftwoodlabs/apiscout/cmd/apiscout/query"
	servecmder "github.com/driftwoodlabs/apiscout/cmd/apiscout/serve"
	versioncmder "github.com/driftwoodlabs/apiscout/cmd/version"
)

const apiscoutLongDesc string = `Apiscout answers natural language questions about your APIs.

It ingests OpenAPI specifications into a local vector store and retrieves
the most relevant endpoint documentation for a query.

  apiscout ingest      Ingest OpenAPI spec files into the vector store
  apiscout query       Query the vector store from the command line
  apiscout serve       Run the HTTP and MCP query server`

const apiscoutShortDesc string = "Apiscout - API documentation retrieval"

func NewApiscoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apiscout",
		Short: apiscoutShortDesc,
		Long:  apiscoutLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(querycmder.NewQueryCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
