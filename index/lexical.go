package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/hwany-ai/patentguard/core"
)

// LexicalIndex provides BM25 keyword search over the patent corpus.
// Safe for concurrent use once built; bleve serializes access internally.
type LexicalIndex struct {
	index  bleve.Index
	logger *slog.Logger
}

// NewLexical creates an empty in-memory lexical index.
func NewLexical() (*LexicalIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &LexicalIndex{
		index:  index,
		logger: slog.Default().With("component", "lexical-index"),
	}, nil
}

// buildIndexMapping creates the bleve index mapping for patent documents.
func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	docMapping.AddFieldMappingsAt("title", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("abstract", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("claims", bleve.NewTextFieldMapping())

	// Codes are opaque labels like "G06F 16"; keyword analysis keeps each
	// one a single term so prefix filters work.
	codesMapping := bleve.NewTextFieldMapping()
	codesMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("codes", codesMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Add indexes documents in one batch.
func (l *LexicalIndex) Add(docs ...core.Document) error {
	batch := l.index.NewBatch()

	for _, doc := range docs {
		fields := map[string]interface{}{
			"title":    doc.Title,
			"abstract": doc.Abstract,
			"claims":   doc.Claims,
			"codes":    doc.Codes,
		}
		if err := batch.Index(doc.ID, fields); err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}

	if err := l.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to batch index documents: %w", err)
	}

	l.logger.Debug("indexed documents", "count", len(docs))
	return nil
}

// Search runs a BM25 match query, optionally pre-filtered by code prefix.
// Results come back best first, at most topK of them.
func (l *LexicalIndex) Search(ctx context.Context, text string, topK int, codeFilters []string) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchQuery := buildSearchQuery(text, codeFilters)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, topK, 0, false)
	searchRequest.Fields = []string{"title", "abstract", "claims", "codes"}

	results, err := l.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, Hit{
			Document: documentFromFields(hit.ID, hit.Fields),
			Score:    hit.Score,
		})
	}

	return hits, nil
}

// buildSearchQuery combines the match query with an optional code filter.
// The filter is a hard constraint: excluded documents never appear, whatever
// their text score.
func buildSearchQuery(text string, codeFilters []string) query.Query {
	matchQuery := bleve.NewMatchQuery(text)
	if len(codeFilters) == 0 {
		return matchQuery
	}

	prefixQueries := make([]query.Query, 0, len(codeFilters))
	for _, filter := range codeFilters {
		prefixQuery := bleve.NewPrefixQuery(filter)
		prefixQuery.SetField("codes")
		prefixQueries = append(prefixQueries, prefixQuery)
	}

	return bleve.NewConjunctionQuery(matchQuery, bleve.NewDisjunctionQuery(prefixQueries...))
}

// documentFromFields rebuilds a core.Document from stored bleve fields.
func documentFromFields(id string, fields map[string]interface{}) core.Document {
	doc := core.Document{ID: id}
	doc.Title, _ = fields["title"].(string)
	doc.Abstract, _ = fields["abstract"].(string)
	doc.Claims, _ = fields["claims"].(string)

	// A single-element slice comes back as a bare string.
	switch codes := fields["codes"].(type) {
	case string:
		doc.Codes = []string{codes}
	case []interface{}:
		for _, c := range codes {
			if s, ok := c.(string); ok {
				doc.Codes = append(doc.Codes, s)
			}
		}
	}
	return doc
}

// Count returns the number of indexed documents.
func (l *LexicalIndex) Count() (uint64, error) {
	return l.index.DocCount()
}

// Close closes the index and releases resources.
func (l *LexicalIndex) Close() error {
	return l.index.Close()
}
