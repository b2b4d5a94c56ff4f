package ai

import (
	"context"

	"github.com/hwany-ai/patentguard/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ClaimDrafter generates a hypothetical independent patent claim from an
// invention idea. The drafted claim is used as the retrieval query instead of
// the raw idea text, which closes the vocabulary gap between colloquial idea
// descriptions and claim language.
// Implementations must be thread-safe for concurrent use.
type ClaimDrafter interface {
	// DraftClaim writes a single independent claim covering the idea.
	// Returns an error if claim generation fails; callers decide whether to
	// fall back to the raw idea text.
	DraftClaim(ctx context.Context, idea string) (string, error)
}

// Grading is the relevance judgment a Grader produces for one candidate.
type Grading struct {
	// Score is the candidate's relevance to the idea on a 0-100 scale.
	Score float64

	// Rationale is a short natural-language justification for the score.
	Rationale string
}

// Grader judges how relevant a single retrieved patent is to an invention idea.
// Implementations must be thread-safe for concurrent use.
type Grader interface {
	// Grade scores one candidate document against the idea.
	// Returns an error if the judgment fails or cannot be parsed.
	Grade(ctx context.Context, idea string, doc core.Document) (Grading, error)
}

// Analyst produces the structured critical-analysis verdict for an idea
// against its graded prior-art candidates.
// Implementations must be thread-safe for concurrent use.
type Analyst interface {
	// Analyze compares the idea against the candidates and returns a verdict
	// covering similarity, infringement risk, and avoidance strategies.
	// The returned verdict is parsed but not schema-validated; callers
	// validate it against the candidate set.
	Analyze(ctx context.Context, idea string, candidates []core.Candidate) (*core.Verdict, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages the embedder, drafter, grader,
// and analyst instances, ensuring they share configuration appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ClaimDrafter returns the hypothetical-claim drafting service.
	// The returned ClaimDrafter is safe for concurrent use.
	ClaimDrafter() ClaimDrafter

	// Grader returns the per-candidate relevance grading service.
	// The returned Grader is safe for concurrent use.
	Grader() Grader

	// Analyst returns the critical-analysis service.
	// The returned Analyst is safe for concurrent use.
	Analyst() Analyst

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
