package index

import (
	"context"
	"testing"

	"github.com/hwany-ai/patentguard/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusDocs() []core.Document {
	return []core.Document{
		{
			ID:       "US-1111-A1",
			Title:    "Solar-powered bicycle drivetrain",
			Abstract: "A bicycle drivetrain charged by photovoltaic panels mounted on the frame.",
			Claims:   "A bicycle comprising a photovoltaic panel coupled to a battery driving an electric motor.",
			Codes:    []string{"B62M 6", "H02S 10"},
		},
		{
			ID:       "US-2222-B2",
			Title:    "Neural network inference accelerator",
			Abstract: "Hardware acceleration of neural network inference using systolic arrays.",
			Claims:   "An accelerator comprising a systolic array executing neural network layers.",
			Codes:    []string{"G06N 3"},
		},
		{
			ID:       "US-3333-A1",
			Title:    "Database query optimizer",
			Abstract: "Cost-based optimization of database queries over distributed storage.",
			Claims:   "A method of optimizing a database query using cost estimates.",
			Codes:    []string{"G06F 16"},
		},
	}
}

func newTestLexical(t *testing.T) *LexicalIndex {
	t.Helper()
	idx, err := NewLexical()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	require.NoError(t, idx.Add(corpusDocs()...))
	return idx
}

func TestLexicalSearch(t *testing.T) {
	idx := newTestLexical(t)

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	hits, err := idx.Search(context.Background(), "neural network accelerator", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "US-2222-B2", hits[0].Document.ID)
	assert.Greater(t, hits[0].Score, 0.0)

	// Stored fields round-trip through the hit
	assert.Equal(t, "Neural network inference accelerator", hits[0].Document.Title)
	assert.Equal(t, []string{"G06N 3"}, hits[0].Document.Codes)
}

func TestLexicalSearchTopK(t *testing.T) {
	idx := newTestLexical(t)

	hits, err := idx.Search(context.Background(), "a comprising", 2, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hits), 2)
}

func TestLexicalSearchCodeFilter(t *testing.T) {
	idx := newTestLexical(t)

	// "G06" admits both the neural network and database documents
	hits, err := idx.Search(context.Background(), "a method comprising", 5, []string{"G06"})
	require.NoError(t, err)
	for _, hit := range hits {
		assert.NotEqual(t, "US-1111-A1", hit.Document.ID)
	}

	// A full code with prefix semantics: "G06N" matches "G06N 3" only
	hits, err = idx.Search(context.Background(), "neural network systolic", 5, []string{"G06N"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "US-2222-B2", hits[0].Document.ID)

	// A filter matching nothing excludes everything, regardless of text score
	hits, err = idx.Search(context.Background(), "neural network systolic", 5, []string{"H04"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLexicalSearchNoMatches(t *testing.T) {
	idx := newTestLexical(t)

	hits, err := idx.Search(context.Background(), "zebra xylophone", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLexicalSearchCancelledContext(t *testing.T) {
	idx := newTestLexical(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Search(ctx, "anything", 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
