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

package core

import (
	"errors"
	"fmt"
)

// Stage names a pipeline stage for error attribution and progress reporting.
type Stage string

const (
	StageInit       Stage = "INIT"
	StageCacheHit   Stage = "CACHE_HIT"
	StageExpanding  Stage = "EXPANDING"
	StageRetrieving Stage = "RETRIEVING"
	StageGrading    Stage = "GRADING"
	StageAnalyzing  Stage = "ANALYZING"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// Error kinds for the analysis pipeline. Each stage failure is wrapped in a
// StageError carrying one of these sentinels so callers can branch with
// errors.Is without parsing messages.
var (
	// ErrExpansion indicates the hypothetical-claim generation failed.
	// Recoverable: retrieval proceeds with the raw idea text.
	ErrExpansion = errors.New("claim expansion failed")

	// ErrRetrieval indicates the search backend produced no candidates.
	// Fatal for the run: there is no meaningful result without candidates.
	ErrRetrieval = errors.New("candidate retrieval failed")

	// ErrGrading indicates every candidate failed relevance grading.
	ErrGrading = errors.New("relevance grading failed")

	// ErrAnalysis indicates the critical analysis produced no valid verdict
	// after the bounded retry.
	ErrAnalysis = errors.New("critical analysis failed")

	// ErrCache indicates a cache lookup or store failure. Never fatal:
	// lookups degrade to a miss, stores are reported and ignored.
	ErrCache = errors.New("semantic cache failure")

	// ErrPersistence indicates the computed result could not be stored.
	// The result itself is still returned to the caller.
	ErrPersistence = errors.New("result persistence failed")
)

// Domain validation errors.
var (
	// ErrInvalidRequest indicates an AnalysisRequest failed validation.
	ErrInvalidRequest = errors.New("invalid analysis request")

	// ErrInvalidVerdict indicates a Verdict failed schema validation.
	ErrInvalidVerdict = errors.New("invalid verdict")

	// ErrEmptyIdea indicates the idea text is empty.
	ErrEmptyIdea = errors.New("idea text cannot be empty")

	// ErrEmptyRequester indicates the requester identifier is empty.
	ErrEmptyRequester = errors.New("requester cannot be empty")
)

// StageError attributes a pipeline failure to the stage that produced it.
// It wraps one of the error-kind sentinels above plus the underlying cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps kind and cause into a StageError for the given stage.
// A nil cause tags the kind alone.
func NewStageError(stage Stage, kind, cause error) *StageError {
	if cause == nil {
		return &StageError{Stage: stage, Err: kind}
	}
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %w", kind, cause)}
}
