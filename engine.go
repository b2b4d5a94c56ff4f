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

// Package patentguard analyzes invention ideas against a prior-art corpus.
//
// The Engine ties the pieces together: a badger-backed analysis history that
// doubles as a semantic result cache, an AI provider for claim drafting,
// grading and critical analysis, and a hybrid retriever over the corpus
// indexes. Repeat ideas are answered from the cache without any model calls.
package patentguard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hwany-ai/patentguard/ai"
	"github.com/hwany-ai/patentguard/cache"
	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/pipeline"
	"github.com/hwany-ai/patentguard/retrieval"
	"github.com/hwany-ai/patentguard/storage"
	badgerstore "github.com/hwany-ai/patentguard/storage/badger"
)

// Engine is the top-level analysis service.
type Engine struct {
	backend  *badgerstore.Backend
	repo     storage.HistoryRepository
	cache    *cache.SemanticCache
	provider ai.Provider
	pipeline *pipeline.Pipeline
	monitor  pipeline.Monitor
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cacheOpts     []cache.Option
	retrieverOpts []retrieval.Option
	pipelineOpts  []pipeline.Option
	monitor       pipeline.Monitor
	logger        *slog.Logger
}

// WithCacheOptions forwards options to the semantic cache.
func WithCacheOptions(opts ...cache.Option) EngineOption {
	return func(o *engineOptions) {
		o.cacheOpts = append(o.cacheOpts, opts...)
	}
}

// WithRetrieverOptions forwards options to the retriever.
func WithRetrieverOptions(opts ...retrieval.Option) EngineOption {
	return func(o *engineOptions) {
		o.retrieverOpts = append(o.retrieverOpts, opts...)
	}
}

// WithPipelineOptions forwards options to the analysis pipeline.
func WithPipelineOptions(opts ...pipeline.Option) EngineOption {
	return func(o *engineOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithEngineMonitor observes runs, including cache-hit replays the pipeline
// never sees. The same monitor is installed on the pipeline.
func WithEngineMonitor(monitor pipeline.Monitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = monitor
	}
}

// WithEngineLogger sets a custom logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine opens (or creates) the history store at dbPath and wires the
// analysis service over it. lexical is required; dense may be nil, in which
// case hybrid requests degrade to lexical-only retrieval.
func NewEngine(dbPath string, provider ai.Provider, lexical retrieval.Lexical, dense retrieval.Dense, opts ...EngineOption) (*Engine, error) {
	backend, err := badgerstore.OpenBackend(dbPath, false)
	if err != nil {
		return nil, err
	}

	repo, err := badgerstore.NewHistoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	eng, err := NewEngineWithRepository(repo, provider, lexical, dense, opts...)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}
	eng.backend = backend
	return eng, nil
}

// NewEngineWithRepository wires the analysis service over an already open
// history repository. The caller keeps ownership of the repository's backing
// store; Close will close the repository but not the store.
func NewEngineWithRepository(repo storage.HistoryRepository, provider ai.Provider, lexical retrieval.Lexical, dense retrieval.Dense, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		monitor: nil,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	semCache, err := cache.New(repo, options.cacheOpts...)
	if err != nil {
		return nil, err
	}

	retriever, err := retrieval.New(lexical, dense, options.retrieverOpts...)
	if err != nil {
		return nil, err
	}

	pipelineOpts := options.pipelineOpts
	if options.monitor != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithMonitor(options.monitor))
	}
	pipe, err := pipeline.New(retriever, provider, pipelineOpts...)
	if err != nil {
		return nil, err
	}

	monitor := options.monitor
	if monitor == nil {
		monitor = pipeline.NoopMonitor()
	}

	return &Engine{
		repo:     repo,
		cache:    semCache,
		provider: provider,
		pipeline: pipe,
		monitor:  monitor,
		logger:   options.logger.With("component", "engine"),
	}, nil
}

// Close releases the engine's resources. The AI provider is closed first,
// then the pipeline's worker pool, then the history store.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	e.pipeline.Release()

	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing history repository", "err", err)
		return err
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

// Analyze answers the request, from the cache when a stored analysis is
// close enough and by running the full pipeline otherwise. Pipeline results
// are persisted to the history; if persisting fails the result is still
// returned together with a core.ErrPersistence-tagged error.
func (e *Engine) Analyze(ctx context.Context, req core.AnalysisRequest) (*core.AnalysisResult, error) {
	if err := core.ValidateRequest(&req); err != nil {
		return nil, core.NewStageError(core.StageInit, core.ErrInvalidRequest, err)
	}

	vector := e.embedIdea(ctx, req.Idea)

	hit, best, err := e.cache.Lookup(ctx, req.Requester, req.Idea, vector)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		runID := uuid.NewString()
		e.monitor.StageChanged(runID, core.StageCacheHit)
		result := hit.Entry.Result
		e.monitor.Finish(runID, &result, nil)
		e.logger.Info("cache hit, replaying stored analysis",
			"requester", req.Requester,
			"entry", hit.Entry.ID,
			"confidence", hit.Confidence,
			"exact", hit.Exact)
		return &result, nil
	}
	if best > 0 {
		e.logger.Debug("cache miss", "requester", req.Requester, "best", best)
	}

	result, err := e.pipeline.Run(ctx, req, vector)
	if err != nil {
		return nil, err
	}

	entry := &storage.HistoryEntry{
		Requester: req.Requester,
		Idea:      req.Idea,
		Result:    *result,
		Embedding: vector,
		CreatedAt: result.CreatedAt,
	}
	if _, storeErr := e.cache.Store(ctx, entry); storeErr != nil {
		e.logger.Error("failed to persist analysis result", "err", storeErr)
		return result, fmt.Errorf("%w: %w", core.ErrPersistence, storeErr)
	}

	return result, nil
}

// History returns the requester's stored analyses, newest first.
func (e *Engine) History(ctx context.Context, requester string, limit int) ([]*storage.HistoryEntry, error) {
	return e.repo.Recent(ctx, requester, limit)
}

// ClearHistory deletes the requester's stored analyses and returns how many
// were removed. Clearing the history also empties the requester's cache.
func (e *Engine) ClearHistory(ctx context.Context, requester string) (int, error) {
	return e.repo.Clear(ctx, requester)
}

// HistoryRepository exposes the underlying history store.
func (e *Engine) HistoryRepository() storage.HistoryRepository {
	return e.repo
}

// Cache exposes the semantic cache, mainly for threshold inspection.
func (e *Engine) Cache() *cache.SemanticCache {
	return e.cache
}

// embedIdea embeds the idea text for dense retrieval and cache similarity.
// Embedding failures are tolerated; the cache then falls back to exact
// matching and retrieval to lexical-only.
func (e *Engine) embedIdea(ctx context.Context, idea string) []float32 {
	vector, err := e.provider.Embedder().EmbedText(ctx, idea)
	if err != nil {
		e.logger.Warn("idea embedding failed, continuing without vector", "err", err)
		return nil
	}
	return vector
}
