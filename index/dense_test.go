package index

import (
	"context"
	"testing"

	"github.com/hwany-ai/patentguard/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDense(t *testing.T) *DenseIndex {
	t.Helper()
	idx := NewDense()
	require.NoError(t, idx.Add(core.Document{ID: "A", Codes: []string{"G06N 3"}}, []float32{1, 0}))
	require.NoError(t, idx.Add(core.Document{ID: "B", Codes: []string{"G06F 16"}}, []float32{0, 1}))
	require.NoError(t, idx.Add(core.Document{ID: "C", Codes: []string{"B62M 6"}}, []float32{1, 1}))
	return idx
}

func TestDenseSearchRanksBySimilarity(t *testing.T) {
	idx := newTestDense(t)
	assert.Equal(t, 3, idx.Len())

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "A", hits[0].Document.ID)
	assert.Equal(t, 1.0, hits[0].Score)
	assert.Equal(t, "C", hits[1].Document.ID)
	assert.Equal(t, "B", hits[2].Document.ID)
	assert.Equal(t, 0.0, hits[2].Score)
}

func TestDenseSearchTopK(t *testing.T) {
	idx := newTestDense(t)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "A", hits[0].Document.ID)
}

func TestDenseSearchCodeFilter(t *testing.T) {
	idx := newTestDense(t)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 3, []string{"G06"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, hit := range hits {
		assert.NotEqual(t, "C", hit.Document.ID)
	}
}

func TestDenseAddRejectsEmptyVector(t *testing.T) {
	idx := NewDense()
	err := idx.Add(core.Document{ID: "X"}, nil)
	assert.Error(t, err)
}

func TestDenseSearchCancelledContext(t *testing.T) {
	idx := newTestDense(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Search(ctx, []float32{1, 0}, 3, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
