// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.ClaimDrafter,
// ai.Grader, ai.Analyst, and ai.Provider for use in unit tests. The mocks allow
// tests to run without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockGrader := mock.NewMockGrader()
//	mockGrader.GradeFunc = func(ctx context.Context, idea string, doc core.Document) (ai.Grading, error) {
//	    return ai.Grading{Score: 90, Rationale: "near-identical claims"}, nil
//	}
//
//	// Check call counts
//	count := mockGrader.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockClaimDrafter: Wraps the idea in claim-shaped boilerplate
//   - MockGrader: Returns a deterministic mid-range score
//   - MockAnalyst: Returns a schema-valid verdict citing the first candidate
//   - MockProvider: Aggregates the above
package mock
