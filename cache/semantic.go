// Copyright 2025 Patent Guard Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache provides semantic result caching over the analysis history.
//
// The history store doubles as the cache: every stored analysis is a
// candidate for replay. A lookup tries an exact text match first, then a
// cosine-similarity scan over the requester's recent embedded entries. Cache
// failures never fail a request; they degrade to a miss and the pipeline runs.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/storage"
)

const (
	// DefaultThreshold is the minimum cosine similarity for a semantic hit.
	DefaultThreshold = 0.85

	// DefaultScanLimit bounds how many recent embedded entries a similarity
	// scan considers.
	DefaultScanLimit = 50
)

// Hit is a cache hit: a stored result to replay instead of running the
// pipeline.
type Hit struct {
	// Entry is the stored history entry being replayed.
	Entry *storage.HistoryEntry

	// Confidence is 1.0 for exact matches, otherwise the cosine similarity
	// between the query and the stored idea.
	Confidence float64

	// Exact reports whether the idea text matched byte for byte.
	Exact bool
}

// SemanticCache answers repeat analysis requests from the history store.
// Safe for concurrent use.
type SemanticCache struct {
	repo      storage.HistoryRepository
	threshold float64
	scanLimit int
	logger    *slog.Logger
}

// Option is a functional option for configuring a SemanticCache.
type Option func(*SemanticCache) error

// WithThreshold sets the minimum cosine similarity for a semantic hit.
// Must be in (0, 1].
func WithThreshold(threshold float64) Option {
	return func(c *SemanticCache) error {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("cache threshold must be in (0, 1], got %v", threshold)
		}
		c.threshold = threshold
		return nil
	}
}

// WithScanLimit sets how many recent embedded entries a similarity scan
// considers. Must be positive.
func WithScanLimit(limit int) Option {
	return func(c *SemanticCache) error {
		if limit < 1 {
			return fmt.Errorf("cache scan limit must be positive, got %d", limit)
		}
		c.scanLimit = limit
		return nil
	}
}

// New creates a SemanticCache over the given history repository.
func New(repo storage.HistoryRepository, opts ...Option) (*SemanticCache, error) {
	c := &SemanticCache{
		repo:      repo,
		threshold: DefaultThreshold,
		scanLimit: DefaultScanLimit,
		logger:    slog.Default().With("component", "semantic-cache"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Threshold returns the configured similarity threshold.
func (c *SemanticCache) Threshold() float64 {
	return c.threshold
}

// Lookup checks whether a stored analysis can answer the request.
//
// Exact text matches win with confidence 1.0. Otherwise the requester's
// recent embedded entries are scanned for cosine similarity at or above the
// threshold; the best entry at or above it is returned. A nil hit is a miss,
// and best then reports the highest similarity observed, which callers may
// surface as near-miss diagnostics.
//
// Repository failures are logged and degrade to a miss. The returned error
// is non-nil only when ctx is done.
func (c *SemanticCache) Lookup(ctx context.Context, requester, idea string, vector []float32) (hit *Hit, best float64, err error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	entry, err := c.repo.FindExact(ctx, requester, idea)
	switch {
	case err == nil:
		c.logger.Debug("exact cache hit", "requester", requester, "entry", entry.ID)
		return &Hit{Entry: entry, Confidence: 1.0, Exact: true}, 1.0, nil
	case errors.Is(err, storage.ErrNotFound):
		// fall through to similarity scan
	default:
		c.logger.Warn("exact lookup failed, treating as miss", "err", fmt.Errorf("%w: %w", core.ErrCache, err))
	}

	if len(vector) == 0 {
		// No embedding for the query; only exact matching was possible.
		return nil, 0, nil
	}

	entries, err := c.repo.RecentWithEmbedding(ctx, requester, c.scanLimit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		c.logger.Warn("similarity scan failed, treating as miss", "err", fmt.Errorf("%w: %w", core.ErrCache, err))
		return nil, 0, nil
	}

	var bestEntry *storage.HistoryEntry
	for _, e := range entries {
		sim := core.CosineSimilarity(vector, e.Embedding)
		if sim > best {
			best = sim
			bestEntry = e
		}
	}

	if bestEntry != nil && best >= c.threshold {
		c.logger.Debug("semantic cache hit",
			"requester", requester,
			"entry", bestEntry.ID,
			"confidence", best)
		return &Hit{Entry: bestEntry, Confidence: best}, best, nil
	}

	c.logger.Debug("cache miss", "requester", requester, "best", best)
	return nil, best, nil
}

// Store persists a finished analysis, making it available to later lookups.
// The entry is appended to the history; failures propagate to the caller.
func (c *SemanticCache) Store(ctx context.Context, entry *storage.HistoryEntry) (*storage.HistoryEntry, error) {
	return c.repo.Append(ctx, entry)
}
