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

// Package pipeline orchestrates one prior-art analysis run.
//
// A run moves through fixed stages: claim expansion, candidate retrieval,
// relevance grading, and critical analysis. Expansion failures fall back to
// the raw idea text; retrieval and analysis failures abort the run with a
// StageError naming the failed stage. Grading runs concurrently over a
// worker pool, and a candidate whose grading fails is kept with a zero
// score rather than dropped.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hwany-ai/patentguard/ai"
	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/retrieval"
	"github.com/panjf2000/ants/v2"
)

const (
	// DefaultPoolSize is the default grading worker pool size.
	DefaultPoolSize = 4

	// DefaultCallTimeout bounds each individual AI call.
	DefaultCallTimeout = 60 * time.Second
)

// Pipeline runs analysis requests end to end, from claim expansion through
// the critical-analysis verdict. Safe for concurrent use.
type Pipeline struct {
	retriever   *retrieval.Retriever
	provider    ai.Provider
	gradingPool *ants.Pool
	callTimeout time.Duration
	monitor     Monitor
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the grading worker pool size.
// Default is DefaultPoolSize, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.gradingPool != nil {
			p.gradingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.gradingPool = pool
		return nil
	}
}

// WithCallTimeout bounds each individual AI call.
// Default is DefaultCallTimeout.
func WithCallTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout <= 0 {
			return fmt.Errorf("call timeout must be positive, got %v", timeout)
		}
		p.callTimeout = timeout
		return nil
	}
}

// WithMonitor sets a run monitor. Default is a no-op.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates an analysis pipeline.
func New(retriever *retrieval.Retriever, provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		retriever:   retriever,
		provider:    provider,
		gradingPool: pool,
		callTimeout: DefaultCallTimeout,
		monitor:     &noopMonitor{},
		logger:      slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the grading worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.gradingPool != nil {
		p.gradingPool.Release()
	}
}

// Run executes one analysis. The vector is the idea's embedding and may be
// nil; hybrid retrieval then degrades to lexical-only. On failure the
// returned error is a *core.StageError naming the stage that failed, and no
// result is produced.
func (p *Pipeline) Run(ctx context.Context, req core.AnalysisRequest, vector []float32) (*core.AnalysisResult, error) {
	if err := core.ValidateRequest(&req); err != nil {
		return nil, core.NewStageError(core.StageInit, core.ErrInvalidRequest, err)
	}

	runID := uuid.NewString()
	logger := p.logger.With("run", runID)
	logger.Info("starting analysis", "requester", req.Requester, "hybrid", req.Hybrid)

	result, err := p.run(ctx, runID, logger, req, vector)
	if err != nil {
		p.monitor.StageChanged(runID, core.StageFailed)
		p.monitor.Finish(runID, nil, err)
		logger.Error("analysis failed", "err", err)
		return nil, err
	}

	p.monitor.StageChanged(runID, core.StageDone)
	p.monitor.Finish(runID, result, nil)
	logger.Info("analysis complete",
		"candidates", len(result.Candidates),
		"risk", result.Verdict.Infringement.RiskLevel)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, logger *slog.Logger, req core.AnalysisRequest, vector []float32) (*core.AnalysisResult, error) {
	query := p.expand(ctx, runID, logger, req.Idea)

	candidates, err := p.retrieve(ctx, runID, req, query, vector)
	if err != nil {
		return nil, err
	}

	candidates, err = p.grade(ctx, runID, logger, req.Idea, candidates)
	if err != nil {
		return nil, err
	}

	verdict, err := p.analyze(ctx, runID, logger, req.Idea, candidates)
	if err != nil {
		return nil, err
	}

	return &core.AnalysisResult{
		Requester:    req.Requester,
		Idea:         req.Idea,
		Candidates:   candidates,
		AverageScore: core.AverageGradingScore(candidates),
		Verdict:      *verdict,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// expand drafts a hypothetical claim to use as the retrieval query.
// Any failure falls back to the raw idea text.
func (p *Pipeline) expand(ctx context.Context, runID string, logger *slog.Logger, idea string) string {
	p.monitor.StageChanged(runID, core.StageExpanding)

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	claim, err := p.provider.ClaimDrafter().DraftClaim(callCtx, idea)
	if err != nil || strings.TrimSpace(claim) == "" {
		logger.Warn("claim expansion failed, using raw idea",
			"err", fmt.Errorf("%w: %v", core.ErrExpansion, err))
		p.monitor.AfterExpansion(runID, idea, true)
		return idea
	}

	p.monitor.AfterExpansion(runID, claim, false)
	return claim
}

func (p *Pipeline) retrieve(ctx context.Context, runID string, req core.AnalysisRequest, query string, vector []float32) ([]core.Candidate, error) {
	p.monitor.StageChanged(runID, core.StageRetrieving)

	candidates, err := p.retriever.Retrieve(ctx, query, vector, req.CodeFilters, req.Hybrid)
	if err != nil {
		return nil, &core.StageError{Stage: core.StageRetrieving, Err: err}
	}
	if len(candidates) == 0 {
		return nil, core.NewStageError(core.StageRetrieving, core.ErrRetrieval,
			errors.New("no candidates matched the query"))
	}

	p.monitor.AfterRetrieval(runID, candidates)
	return candidates, nil
}

// grade scores every candidate concurrently. A candidate whose grading
// fails stays in the set ungraded with a zero score; the run only fails
// when no candidate could be graded at all.
func (p *Pipeline) grade(ctx context.Context, runID string, logger *slog.Logger, idea string, candidates []core.Candidate) ([]core.Candidate, error) {
	p.monitor.StageChanged(runID, core.StageGrading)

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		cand := &candidates[i]
		submitErr := p.gradingPool.Submit(func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
			defer cancel()

			grading, err := p.provider.Grader().Grade(callCtx, idea, cand.Document)
			if err != nil {
				logger.Warn("candidate grading failed", "doc", cand.ID, "err", err)
				cand.GradingRationale = fmt.Sprintf("grading failed: %v", err)
				return
			}
			cand.Graded = true
			cand.GradingScore = grading.Score
			cand.GradingRationale = grading.Rationale
		})
		if submitErr != nil {
			wg.Done()
			logger.Warn("grading submission failed", "doc", cand.ID, "err", submitErr)
			cand.GradingRationale = fmt.Sprintf("grading failed: %v", submitErr)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, core.NewStageError(core.StageGrading, core.ErrGrading, err)
	}

	failed := 0
	for _, cand := range candidates {
		if !cand.Graded {
			failed++
		}
	}
	if failed == len(candidates) {
		return nil, core.NewStageError(core.StageGrading, core.ErrGrading,
			fmt.Errorf("all %d candidates failed grading", failed))
	}

	// Final ranking: grading score, then retrieval score, then ID.
	slices.SortStableFunc(candidates, func(a, b core.Candidate) int {
		if a.GradingScore != b.GradingScore {
			if a.GradingScore > b.GradingScore {
				return -1
			}
			return 1
		}
		if a.FusedScore != b.FusedScore {
			if a.FusedScore > b.FusedScore {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})

	p.monitor.AfterGrading(runID, candidates, failed)
	return candidates, nil
}

// analyze requests the verdict and validates it against the candidate set.
// An invalid or failed verdict is retried once before the run fails.
func (p *Pipeline) analyze(ctx context.Context, runID string, logger *slog.Logger, idea string, candidates []core.Candidate) (*core.Verdict, error) {
	p.monitor.StageChanged(runID, core.StageAnalyzing)

	candidateIDs := make([]string, len(candidates))
	for i, cand := range candidates {
		candidateIDs[i] = cand.ID
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, core.NewStageError(core.StageAnalyzing, core.ErrAnalysis, err)
		}

		callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
		verdict, err := p.provider.Analyst().Analyze(callCtx, idea, candidates)
		cancel()
		if err != nil {
			lastErr = err
			logger.Warn("analysis call failed", "attempt", attempt+1, "err", err)
			continue
		}

		if err := core.ValidateVerdict(verdict, candidateIDs); err != nil {
			lastErr = err
			logger.Warn("analysis produced invalid verdict", "attempt", attempt+1, "err", err)
			continue
		}

		return verdict, nil
	}

	return nil, core.NewStageError(core.StageAnalyzing, core.ErrAnalysis, lastErr)
}
