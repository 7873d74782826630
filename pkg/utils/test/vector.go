package testutils

import (
	"context"
	"fmt"

	"github.com/driftwoodlabs/apiscout/pkg/vector"
)

// MockVectorDriver is a test vector driver that records writes and returns
// configurable query results.
type MockVectorDriver struct {
	// Documents accumulates everything passed to Add.
	Documents []vector.Document

	// Results is returned by Query, truncated to topK.
	Results []vector.QueryResult

	// FailAdd causes Add to return an error.
	FailAdd bool

	// FailQuery causes Query to return an error.
	FailQuery bool
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Documents: make([]vector.Document, 0),
		Results:   make([]vector.QueryResult, 0),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	if m.FailAdd {
		return fmt.Errorf("mock add failure")
	}
	m.Documents = append(m.Documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	if m.FailQuery {
		return nil, fmt.Errorf("mock query failure")
	}
	if len(m.Results) < topK {
		return m.Results, nil
	}
	return m.Results[:topK], nil
}

func (m *MockVectorDriver) Get(_ context.Context, ids []string) ([]vector.Document, error) {
	var docs []vector.Document
	for _, doc := range m.Documents {
		for _, id := range ids {
			if doc.ID == id {
				docs = append(docs, doc)
			}
		}
	}
	return docs, nil
}

func (m *MockVectorDriver) Delete(_ context.Context, ids []string) error {
	kept := m.Documents[:0]
	for _, doc := range m.Documents {
		remove := false
		for _, id := range ids {
			if doc.ID == id {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, doc)
		}
	}
	m.Documents = kept
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
