// Package ingest turns a directory of OpenAPI spec files into embedded
// documents in the vector store.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driftwoodlabs/apiscout/pkg/embeddings"
	"github.com/driftwoodlabs/apiscout/pkg/openapi"
	"github.com/driftwoodlabs/apiscout/pkg/vector"
)

// Pipeline reads spec files, builds records, embeds them and writes the
// whole batch to the vector store.
type Pipeline struct {
	embedder embeddings.Embedder
	store    vector.Driver
	logger   *zap.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(embedder embeddings.Embedder, store vector.Driver, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Result summarizes a completed ingestion run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Files is the number of spec files processed.
	Files int

	// Records is the total number of endpoint records embedded and stored.
	Records int
}

// Run ingests every *.json file under specsDir. Any parse failure aborts the
// whole run before a single document is persisted; a directory without spec
// files is an error instructing the operator to add some.
func (p *Pipeline) Run(ctx context.Context, specsDir string) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	files, err := filepath.Glob(filepath.Join(specsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scanning spec directory: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no spec files found in %s: add OpenAPI specification files to the directory and re-run", specsDir)
	}

	logger.Info("starting OpenAPI ingestion",
		zap.String("specs_dir", specsDir),
		zap.Int("files", len(files)),
	)

	// Parse everything before embedding anything, so a malformed file can
	// never leave a half-processed batch in the store.
	var records []openapi.Record
	for _, file := range files {
		spec, err := openapi.ParseFile(file)
		if err != nil {
			return nil, err
		}

		fileRecords := openapi.BuildRecords(spec)
		records = append(records, fileRecords...)

		logger.Info("processed spec file",
			zap.String("file", filepath.Base(file)),
			zap.String("api_title", spec.Info.Title),
			zap.String("api_version", spec.Info.Version),
			zap.Int("records", len(fileRecords)),
		)
	}

	logger.Info("building embeddings", zap.Int("total_records", len(records)))

	docs := make([]vector.Document, 0, len(records))
	for _, record := range records {
		embedding, err := p.embedder.Embed(ctx, record.Content)
		if err != nil {
			return nil, fmt.Errorf("embedding record %s: %w", record.DocumentID(), err)
		}

		docs = append(docs, vector.Document{
			ID:        record.DocumentID(),
			Content:   record.Content,
			Metadata:  record.Metadata,
			Embedding: embedding,
		})
	}

	// One batch write; the store's upsert semantics make re-runs replace
	// earlier documents with the same ID.
	if err := p.store.Add(ctx, docs); err != nil {
		return nil, fmt.Errorf("storing documents: %w", err)
	}

	logger.Info("ingestion complete",
		zap.Int("files", len(files)),
		zap.Int("records", len(docs)),
	)

	return &Result{
		RunID:   runID,
		Files:   len(files),
		Records: len(docs),
	}, nil
}
