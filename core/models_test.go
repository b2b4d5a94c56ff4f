package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("a deep learning summarizer")
	id2 := IDFromContent("a deep learning summarizer")
	id3 := IDFromContent("a different idea")

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
	assert.NotZero(t, id1)
}

func TestStageError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := NewStageError(StageAnalyzing, ErrAnalysis, cause)

	assert.ErrorIs(t, err, ErrAnalysis)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StageAnalyzing, err.Stage)
	assert.Contains(t, err.Error(), "ANALYZING")
}

func TestStageError_NilCause(t *testing.T) {
	err := NewStageError(StageRetrieving, ErrRetrieval, nil)

	assert.ErrorIs(t, err, ErrRetrieval)
	assert.Equal(t, StageRetrieving, err.Stage)
}

func TestAverageGradingScore(t *testing.T) {
	assert.Zero(t, AverageGradingScore(nil))
	assert.Zero(t, AverageGradingScore([]Candidate{}))

	candidates := []Candidate{
		{Graded: true, GradingScore: 80},
		{Graded: true, GradingScore: 40},
		{Graded: false}, // failed grading counts as zero
	}
	assert.Equal(t, 40.0, AverageGradingScore(candidates))
}

func TestRiskBucket(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{39, RiskLow},
		{40, RiskMedium},
		{69, RiskMedium},
		{70, RiskHigh},
		{100, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskBucket(tt.score), "score %d", tt.score)
	}
}

func TestVerdict_EvidenceIDs(t *testing.T) {
	v := Verdict{
		Similarity:   SimilarityVerdict{Evidence: []string{"A"}},
		Infringement: InfringementVerdict{Evidence: []string{"B", "C"}},
		Avoidance:    AvoidanceVerdict{Evidence: []string{"A"}},
	}

	assert.Equal(t, []string{"A", "B", "C", "A"}, v.EvidenceIDs())
}
