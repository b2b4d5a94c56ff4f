package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_SelfSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"unit axis", []float32{1, 0, 0}},
		{"mixed signs", []float32{0.3, -0.7, 0.2, 0.5}},
		{"large values", []float32{1000, 2000, 3000}},
		{"small values", []float32{1e-4, 2e-4, 3e-4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1.0, CosineSimilarity(tt.vector, tt.vector))
		})
	}
}

func TestCosineSimilarity_DegenerateInputs(t *testing.T) {
	v := []float32{1, 2, 3}

	tests := []struct {
		name string
		a, b []float32
	}{
		{"nil first", nil, v},
		{"nil second", v, nil},
		{"both nil", nil, nil},
		{"zero vector", v, []float32{0, 0, 0}},
		{"both zero", []float32{0, 0}, []float32{0, 0}},
		{"length mismatch", v, []float32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, CosineSimilarity(tt.a, tt.b))
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{0.1, 0.9, 0.4}
	b := []float32{0.8, 0.2, 0.5}

	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	assert.Equal(t, 0.0, CosineSimilarity(a, b))
}

func TestCosineSimilarity_OppositeVectorsClampToZero(t *testing.T) {
	a := []float32{1, 1}
	b := []float32{-1, -1}

	// Raw cosine is -1; the similarity contract is [0, 1].
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
}

func TestCosineSimilarity_KnownAngle(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 1}

	assert.InDelta(t, 0.7071, CosineSimilarity(a, b), 1e-4)
}
