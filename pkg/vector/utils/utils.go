// Package vectorutils constructs vector drivers from provider configuration.
package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/driftwoodlabs/apiscout/pkg/vector"
	"github.com/driftwoodlabs/apiscout/pkg/vector/chroma"
	"github.com/driftwoodlabs/apiscout/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	// Path is the on-disk store directory (sqlitevec).
	Path string
	// TargetURL is the remote store URL (chroma).
	TargetURL string
	// Dimensions is the embedding vector size (sqlitevec).
	Dimensions uint
	// RequireExisting refuses to create a new store and fails with
	// vector.ErrStoreMissing when none exists yet. The read path (query
	// CLI and HTTP server) sets this; ingestion does not.
	RequireExisting bool
	Logger          *zap.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "sqlitevec":
		cfg := sqlitevec.Config{
			Path:       o.Path,
			Dimensions: o.Dimensions,
		}
		if o.RequireExisting {
			return sqlitevec.OpenExisting(cfg, o.Logger)
		}
		return sqlitevec.NewDriver(cfg, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL: o.TargetURL,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
