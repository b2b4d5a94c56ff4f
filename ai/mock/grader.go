package mock

import (
	"context"

	"github.com/hwany-ai/patentguard/ai"
	"github.com/hwany-ai/patentguard/core"
)

// MockGrader is a test double for ai.Grader.
// It allows custom behavior injection via function fields.
type MockGrader struct {
	// GradeFunc is called by Grade if set.
	// If nil, uses default deterministic behavior.
	GradeFunc func(ctx context.Context, idea string, doc core.Document) (ai.Grading, error)

	callCount int
}

// NewMockGrader creates a mock grader with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGrader() *MockGrader {
	return &MockGrader{}
}

// Grade returns a deterministic mid-range grading.
func (m *MockGrader) Grade(ctx context.Context, idea string, doc core.Document) (ai.Grading, error) {
	m.callCount++

	if m.GradeFunc != nil {
		return m.GradeFunc(ctx, idea, doc)
	}

	// Default: deterministic score from the document ID length
	score := float64(40 + len(doc.ID)%30)
	return ai.Grading{Score: score, Rationale: "mock grading"}, nil
}

// CallCount returns the number of times Grade was called.
func (m *MockGrader) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGrader) Reset() {
	m.callCount = 0
	m.GradeFunc = nil
}
