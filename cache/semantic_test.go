package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/storage"
	badgerstore "github.com/hwany-ai/patentguard/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.HistoryRepository {
	t.Helper()
	repo, backend, err := badgerstore.NewMemoryHistoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func storedEntry(t *testing.T, repo storage.HistoryRepository, requester, idea string, embedding []float32) *storage.HistoryEntry {
	t.Helper()
	entry, err := repo.Append(context.Background(), &storage.HistoryEntry{
		Requester: requester,
		Idea:      idea,
		Result: core.AnalysisResult{
			Requester: requester,
			Idea:      idea,
			Verdict:   core.Verdict{Conclusion: "stored verdict for " + idea},
		},
		Embedding: embedding,
	})
	require.NoError(t, err)
	return entry
}

func TestLookupExactHit(t *testing.T) {
	repo := newTestRepo(t)
	stored := storedEntry(t, repo, "alice", "a solar-powered bicycle", []float32{1, 0})

	c, err := New(repo)
	require.NoError(t, err)

	// Dissimilar vector must not matter: exact text wins outright.
	hit, best, err := c.Lookup(context.Background(), "alice", "a solar-powered bicycle", []float32{0, 1})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.True(t, hit.Exact)
	assert.Equal(t, 1.0, hit.Confidence)
	assert.Equal(t, 1.0, best)
	assert.Equal(t, stored.ID, hit.Entry.ID)
}

func TestLookupSemanticHit(t *testing.T) {
	repo := newTestRepo(t)
	stored := storedEntry(t, repo, "alice", "a pedal cycle with solar panels", []float32{1, 0})

	c, err := New(repo)
	require.NoError(t, err)

	// Identical direction, different text: similarity 1.0 clears the threshold.
	hit, best, err := c.Lookup(context.Background(), "alice", "a sun-charged bike", []float32{2, 0})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.False(t, hit.Exact)
	assert.Equal(t, 1.0, best)
	assert.Equal(t, stored.ID, hit.Entry.ID)
}

func TestLookupThresholdInclusive(t *testing.T) {
	repo := newTestRepo(t)
	// cos([1,0], [3,4]) is exactly 3/5 = 0.6
	storedEntry(t, repo, "alice", "stored idea", []float32{3, 4})

	t.Run("at threshold hits", func(t *testing.T) {
		c, err := New(repo, WithThreshold(0.6))
		require.NoError(t, err)

		hit, best, err := c.Lookup(context.Background(), "alice", "query idea", []float32{1, 0})
		require.NoError(t, err)
		require.NotNil(t, hit)
		assert.Equal(t, 0.6, hit.Confidence)
		assert.Equal(t, 0.6, best)
	})

	t.Run("just above threshold misses", func(t *testing.T) {
		c, err := New(repo, WithThreshold(0.61))
		require.NoError(t, err)

		hit, best, err := c.Lookup(context.Background(), "alice", "query idea", []float32{1, 0})
		require.NoError(t, err)
		assert.Nil(t, hit)
		// The miss still reports the best similarity observed.
		assert.Equal(t, 0.6, best)
	})
}

func TestLookupBestOfMany(t *testing.T) {
	repo := newTestRepo(t)
	storedEntry(t, repo, "alice", "weak match", []float32{0, 1})
	strong := storedEntry(t, repo, "alice", "strong match", []float32{1, 0})

	c, err := New(repo, WithThreshold(0.5))
	require.NoError(t, err)

	hit, _, err := c.Lookup(context.Background(), "alice", "query idea", []float32{1, 0})
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, strong.ID, hit.Entry.ID)
}

func TestLookupScopedToRequester(t *testing.T) {
	repo := newTestRepo(t)
	storedEntry(t, repo, "bob", "a solar-powered bicycle", []float32{1, 0})

	c, err := New(repo)
	require.NoError(t, err)

	hit, best, err := c.Lookup(context.Background(), "alice", "a solar-powered bicycle", []float32{1, 0})
	require.NoError(t, err)
	assert.Nil(t, hit)
	assert.Equal(t, 0.0, best)
}

func TestLookupWithoutVectorIsExactOnly(t *testing.T) {
	repo := newTestRepo(t)
	storedEntry(t, repo, "alice", "a solar-powered bicycle", []float32{1, 0})

	c, err := New(repo)
	require.NoError(t, err)

	// Different text, no query embedding: nothing to scan with.
	hit, best, err := c.Lookup(context.Background(), "alice", "a sun-charged bike", nil)
	require.NoError(t, err)
	assert.Nil(t, hit)
	assert.Equal(t, 0.0, best)

	// Exact text still hits without an embedding.
	hit, _, err = c.Lookup(context.Background(), "alice", "a solar-powered bicycle", nil)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.True(t, hit.Exact)
}

// failingRepo returns an error from every operation.
type failingRepo struct{}

var errRepoDown = errors.New("repo down")

func (f *failingRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return errRepoDown
}
func (f *failingRepo) Close() error { return errRepoDown }
func (f *failingRepo) Append(ctx context.Context, entry *storage.HistoryEntry) (*storage.HistoryEntry, error) {
	return nil, errRepoDown
}
func (f *failingRepo) Get(ctx context.Context, id core.ID) (*storage.HistoryEntry, error) {
	return nil, errRepoDown
}
func (f *failingRepo) Recent(ctx context.Context, requester string, limit int) ([]*storage.HistoryEntry, error) {
	return nil, errRepoDown
}
func (f *failingRepo) RecentWithEmbedding(ctx context.Context, requester string, limit int) ([]*storage.HistoryEntry, error) {
	return nil, errRepoDown
}
func (f *failingRepo) FindExact(ctx context.Context, requester, idea string) (*storage.HistoryEntry, error) {
	return nil, errRepoDown
}
func (f *failingRepo) Clear(ctx context.Context, requester string) (int, error) {
	return 0, errRepoDown
}

func TestLookupRepositoryFailureIsMiss(t *testing.T) {
	c, err := New(&failingRepo{})
	require.NoError(t, err)

	hit, best, err := c.Lookup(context.Background(), "alice", "any idea", []float32{1, 0})
	require.NoError(t, err)
	assert.Nil(t, hit)
	assert.Equal(t, 0.0, best)
}

func TestLookupCancelledContext(t *testing.T) {
	repo := newTestRepo(t)
	c, err := New(repo)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = c.Lookup(ctx, "alice", "any idea", []float32{1, 0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionValidation(t *testing.T) {
	repo := newTestRepo(t)

	_, err := New(repo, WithThreshold(0))
	assert.Error(t, err)

	_, err = New(repo, WithThreshold(1.5))
	assert.Error(t, err)

	_, err = New(repo, WithScanLimit(0))
	assert.Error(t, err)

	c, err := New(repo, WithThreshold(0.9), WithScanLimit(10))
	require.NoError(t, err)
	assert.Equal(t, 0.9, c.Threshold())
}
