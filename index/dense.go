package index

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hwany-ai/patentguard/core"
)

// DenseIndex provides cosine-similarity search over embedding vectors.
// Safe for concurrent use.
type DenseIndex struct {
	mu      sync.RWMutex
	entries []denseEntry
}

type denseEntry struct {
	doc    core.Document
	vector []float32
}

// NewDense creates an empty dense index.
func NewDense() *DenseIndex {
	return &DenseIndex{}
}

// Add stores a document with its embedding vector.
// Vectors of any dimension are accepted but only same-dimension pairs
// produce nonzero similarity at query time.
func (d *DenseIndex) Add(doc core.Document, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("document %s has an empty vector", doc.ID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, denseEntry{doc: doc, vector: vector})
	return nil
}

// Search returns the topK most similar documents to the query vector,
// best first, optionally pre-filtered by code prefix.
func (d *DenseIndex) Search(ctx context.Context, vector []float32, topK int, codeFilters []string) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	hits := make([]Hit, 0, len(d.entries))
	for _, entry := range d.entries {
		if !matchesCodeFilters(entry.doc.Codes, codeFilters) {
			continue
		}
		hits = append(hits, Hit{
			Document: entry.doc,
			Score:    core.CosineSimilarity(vector, entry.vector),
		})
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Len returns the number of stored documents.
func (d *DenseIndex) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
