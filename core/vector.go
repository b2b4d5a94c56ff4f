package core

import "math"

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors, mapped into [0, 1]. Nil inputs and zero-norm vectors yield 0.0;
// that is a defined degenerate case, not an error. The function is
// symmetric, and any nonzero vector has self-similarity 1.0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dot / math.Sqrt(normA*normB)

	// Clamp rounding drift so self-similarity is exactly 1.0.
	if sim > 1.0 {
		sim = 1.0
	}
	if sim < 0.0 {
		sim = 0.0
	}
	return sim
}
