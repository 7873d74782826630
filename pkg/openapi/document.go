package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SourceTag marks every record's metadata so stored documents can be faceted
// by origin.
const SourceTag = "openapi_spec"

// Record is the text + metadata pair derived from one operation. It is the
// unit of storage and retrieval.
type Record struct {
	// Content is the flat human-readable rendering of the operation.
	Content string

	// Metadata carries the record's structured fields for filtering.
	Metadata map[string]any
}

// DocumentID derives a deterministic store ID for the record, so re-ingesting
// the same operation updates the stored document instead of duplicating it.
func (r Record) DocumentID() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s %s",
		r.Metadata["api_title"],
		r.Metadata["api_version"],
		r.Metadata["method"],
		r.Metadata["path"],
	))
	return hex.EncodeToString(sum[:])
}

// BuildRecords produces one record per (path, method) pair in the spec,
// preserving the fixed method order and the spec's own path order. A spec
// with no paths produces zero records.
func BuildRecords(spec *Spec) []Record {
	var records []Record
	for _, item := range spec.Paths {
		for _, op := range item.Operations {
			records = append(records, buildRecord(item.Path, op, spec.Info))
		}
	}
	return records
}

// buildRecord renders a single operation into its record. The exact line
// layout is load-bearing: stored documents from earlier ingestion runs must
// stay byte-identical to re-rendered ones.
func buildRecord(path string, op Operation, info Info) Record {
	method := strings.ToUpper(op.Method)

	parts := []string{
		fmt.Sprintf("API Endpoint: %s %s", method, path),
		fmt.Sprintf("Operation ID: %s", op.OperationID),
		"",
	}

	if op.Summary != "" {
		parts = append(parts, "Summary: "+op.Summary)
	}

	if op.Description != "" {
		parts = append(parts, "Description: "+op.Description)
	}

	if len(op.Parameters) > 0 {
		parts = append(parts, "\nParameters:")
		for _, p := range op.Parameters {
			required := "optional"
			if p.Required {
				required = "required"
			}
			parts = append(parts, fmt.Sprintf("  - %s (%s, %s): %s", p.Name, p.In, required, p.Description))
		}
	}

	if op.RequestBody != nil {
		parts = append(parts, "\nRequest Body:", "  "+op.RequestBody.Description)
		if len(op.RequestBody.ContentTypes) > 0 {
			parts = append(parts, "  Content types: "+strings.Join(op.RequestBody.ContentTypes, ", "))
		}
	}

	if len(op.Responses) > 0 {
		parts = append(parts, "\nResponses:")
		for _, r := range op.Responses {
			parts = append(parts, fmt.Sprintf("  %s: %s", r.Code, r.Description))
		}
	}

	return Record{
		Content: strings.Join(parts, "\n"),
		Metadata: map[string]any{
			"path":         path,
			"method":       method,
			"operation_id": op.OperationID,
			"api_title":    info.Title,
			"api_version":  info.Version,
			"tags":         op.Tags,
			"source":       SourceTag,
		},
	}
}
