package mock

import (
	"context"

	"github.com/hwany-ai/patentguard/core"
)

// MockAnalyst is a test double for ai.Analyst.
// It allows custom behavior injection via function fields.
type MockAnalyst struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, uses default deterministic behavior.
	AnalyzeFunc func(ctx context.Context, idea string, candidates []core.Candidate) (*core.Verdict, error)

	callCount int
}

// NewMockAnalyst creates a mock analyst with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnalyst() *MockAnalyst {
	return &MockAnalyst{}
}

// Analyze returns a deterministic verdict citing the first candidate.
func (m *MockAnalyst) Analyze(ctx context.Context, idea string, candidates []core.Candidate) (*core.Verdict, error) {
	m.callCount++

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, idea, candidates)
	}

	var evidence []string
	if len(candidates) > 0 {
		evidence = []string{candidates[0].ID}
	}

	return &core.Verdict{
		Similarity: core.SimilarityVerdict{
			Score:          50,
			Summary:        "mock similarity summary",
			CommonElements: []string{"mock element"},
			Evidence:       evidence,
		},
		Infringement: core.InfringementVerdict{
			RiskLevel:   core.RiskMedium,
			Summary:     "mock infringement summary",
			RiskFactors: []string{"mock risk factor"},
			Evidence:    evidence,
		},
		Avoidance: core.AvoidanceVerdict{
			Summary:      "mock avoidance summary",
			Strategies:   []string{"mock strategy"},
			Alternatives: []string{"mock alternative"},
			Evidence:     evidence,
		},
		Conclusion: "mock conclusion",
	}, nil
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyst) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnalyst) Reset() {
	m.callCount = 0
	m.AnalyzeFunc = nil
}
