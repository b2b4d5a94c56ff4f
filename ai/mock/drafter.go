package mock

import (
	"context"
	"fmt"
)

// MockClaimDrafter is a test double for ai.ClaimDrafter.
// It allows custom behavior injection via function fields.
type MockClaimDrafter struct {
	// DraftClaimFunc is called by DraftClaim if set.
	// If nil, uses default deterministic behavior.
	DraftClaimFunc func(ctx context.Context, idea string) (string, error)

	callCount int
}

// NewMockClaimDrafter creates a mock drafter with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockClaimDrafter() *MockClaimDrafter {
	return &MockClaimDrafter{}
}

// DraftClaim returns a deterministic claim-shaped rendering of the idea.
func (m *MockClaimDrafter) DraftClaim(ctx context.Context, idea string) (string, error) {
	m.callCount++

	if m.DraftClaimFunc != nil {
		return m.DraftClaimFunc(ctx, idea)
	}

	return fmt.Sprintf("A system comprising means for %s.", idea), nil
}

// CallCount returns the number of times DraftClaim was called.
func (m *MockClaimDrafter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockClaimDrafter) Reset() {
	m.callCount = 0
	m.DraftClaimFunc = nil
}
