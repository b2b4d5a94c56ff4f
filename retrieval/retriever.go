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

// Package retrieval finds prior-art candidates for a query.
//
// The retriever fans out to a lexical index and, in hybrid mode, a dense
// index, then fuses the ranked lists with reciprocal rank fusion. Candidate
// ordering is deterministic for a fixed corpus and query.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/index"
)

// DefaultTopK is the default candidate count per list and after fusion.
const DefaultTopK = 5

// Lexical is the keyword search surface the retriever consumes.
// *index.LexicalIndex implements it.
type Lexical interface {
	Search(ctx context.Context, text string, topK int, codeFilters []string) ([]index.Hit, error)
}

// Dense is the vector search surface the retriever consumes.
// *index.DenseIndex implements it.
type Dense interface {
	Search(ctx context.Context, vector []float32, topK int, codeFilters []string) ([]index.Hit, error)
}

// Retriever runs candidate retrieval over the corpus indexes.
// Safe for concurrent use.
type Retriever struct {
	lexical Lexical
	dense   Dense
	topK    int
	rrfK    int
	logger  *slog.Logger
}

// Option is a functional option for configuring a Retriever.
type Option func(*Retriever) error

// WithTopK sets how many candidates each list contributes and how many
// survive fusion. Must be positive.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK < 1 {
			return fmt.Errorf("topK must be positive, got %d", topK)
		}
		r.topK = topK
		return nil
	}
}

// WithRRFK sets the reciprocal rank fusion constant. Must be positive.
func WithRRFK(k int) Option {
	return func(r *Retriever) error {
		if k < 1 {
			return fmt.Errorf("rrf k must be positive, got %d", k)
		}
		r.rrfK = k
		return nil
	}
}

// New creates a Retriever over the given indexes.
// dense may be nil; hybrid requests then degrade to lexical-only.
func New(lexical Lexical, dense Dense, opts ...Option) (*Retriever, error) {
	if lexical == nil {
		return nil, fmt.Errorf("lexical index is required")
	}

	r := &Retriever{
		lexical: lexical,
		dense:   dense,
		topK:    DefaultTopK,
		rrfK:    DefaultRRFK,
		logger:  slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Retrieve finds candidates for the query text. In hybrid mode with a
// non-empty vector, dense results are fused in; otherwise retrieval is
// lexical-only. Backend failures are fatal and wrapped in core.ErrRetrieval.
// An empty result is not an error here; callers decide what no candidates
// means.
func (r *Retriever) Retrieve(ctx context.Context, query string, vector []float32, codeFilters []string, hybrid bool) ([]core.Candidate, error) {
	useDense := hybrid && r.dense != nil && len(vector) > 0

	var (
		wg          sync.WaitGroup
		lexicalHits []index.Hit
		denseHits   []index.Hit
		lexicalErr  error
		denseErr    error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		lexicalHits, lexicalErr = r.lexical.Search(ctx, query, r.topK, codeFilters)
	}()

	if useDense {
		wg.Add(1)
		go func() {
			defer wg.Done()
			denseHits, denseErr = r.dense.Search(ctx, vector, r.topK, codeFilters)
		}()
	}
	wg.Wait()

	if lexicalErr != nil {
		return nil, fmt.Errorf("%w: lexical: %w", core.ErrRetrieval, lexicalErr)
	}
	if denseErr != nil {
		return nil, fmt.Errorf("%w: dense: %w", core.ErrRetrieval, denseErr)
	}

	var candidates []core.Candidate
	if useDense {
		candidates = fuseRRF(r.rrfK, lexicalHits, denseHits)
	} else {
		candidates = fuseRRF(r.rrfK, lexicalHits)
	}

	if len(candidates) > r.topK {
		candidates = candidates[:r.topK]
	}

	r.logger.Debug("retrieved candidates",
		"lexical", len(lexicalHits),
		"dense", len(denseHits),
		"fused", len(candidates),
		"hybrid", useDense)
	return candidates, nil
}
