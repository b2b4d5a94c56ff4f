package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content fingerprint used to key index entries.
// It is generated by hashing text, so identical text produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RiskLevel classifies the infringement risk of an idea against prior art.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskBucket maps a 0-100 similarity score to a risk level for display.
// The 40/70 cutoffs are presentation guidance, not a legal judgment.
func RiskBucket(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AnalysisRequest describes a single prior-art analysis run.
// It is immutable once created.
type AnalysisRequest struct {
	Requester   string   // session/user identifier scoping history and cache
	Idea        string   // free-text description of the invention
	CodeFilters []string // classification code prefixes restricting the corpus; empty = no filter
	Hybrid      bool     // enable dense retrieval alongside lexical search
}

// Document is a corpus document as returned by the search backend.
type Document struct {
	ID       string   `json:"id"` // publication number, unique within the corpus
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Claims   string   `json:"claims"`
	Codes    []string `json:"codes,omitempty"` // classification codes, e.g. "G06F 16"
}

// Candidate is a retrieved document together with its retrieval and
// grading state. It is created by the retriever and graded exactly once;
// after grading it is never mutated.
type Candidate struct {
	Document

	FusedScore  float64 `json:"fused_score"`  // fused (or lexical-only) retrieval score
	LexicalRank int     `json:"lexical_rank"` // 1-based rank in the lexical list, 0 if absent

	Graded           bool    `json:"graded"`
	GradingScore     float64 `json:"grading_score"` // 0-100 topical relevance, valid once Graded
	GradingRationale string  `json:"grading_rationale"`
}

// AverageGradingScore returns the arithmetic mean of the candidates'
// grading scores. A candidate whose grading failed counts with its assigned
// zero score. An empty list averages to 0.
func AverageGradingScore(candidates []Candidate) float64 {
	if len(candidates) == 0 {
		return 0
	}

	var sum float64
	for _, c := range candidates {
		sum += c.GradingScore
	}
	return sum / float64(len(candidates))
}

// SimilarityVerdict summarizes technical overlap with the cited prior art.
type SimilarityVerdict struct {
	Score          int      `json:"score"` // 0-100
	Summary        string   `json:"summary"`
	CommonElements []string `json:"common_elements"`
	Evidence       []string `json:"evidence"` // document IDs backing the claim
}

// InfringementVerdict summarizes the potential infringement exposure.
type InfringementVerdict struct {
	RiskLevel   RiskLevel `json:"risk_level"`
	Summary     string    `json:"summary"`
	RiskFactors []string  `json:"risk_factors"`
	Evidence    []string  `json:"evidence"`
}

// AvoidanceVerdict summarizes design-around options.
type AvoidanceVerdict struct {
	Summary      string   `json:"summary"`
	Strategies   []string `json:"strategies"`
	Alternatives []string `json:"alternatives"`
	Evidence     []string `json:"evidence"`
}

// Verdict is the structured outcome of the critical analysis stage.
// Every evidence ID it references must name a retrieved candidate.
type Verdict struct {
	Similarity   SimilarityVerdict   `json:"similarity"`
	Infringement InfringementVerdict `json:"infringement"`
	Avoidance    AvoidanceVerdict    `json:"avoidance"`
	Conclusion   string              `json:"conclusion"`
}

// EvidenceIDs returns every document ID referenced by the verdict.
func (v *Verdict) EvidenceIDs() []string {
	ids := make([]string, 0,
		len(v.Similarity.Evidence)+len(v.Infringement.Evidence)+len(v.Avoidance.Evidence))
	ids = append(ids, v.Similarity.Evidence...)
	ids = append(ids, v.Infringement.Evidence...)
	ids = append(ids, v.Avoidance.Evidence...)
	return ids
}

// AnalysisResult is the immutable outcome of one pipeline run (or the
// stored result replayed on a cache hit).
type AnalysisResult struct {
	Requester    string      `json:"requester"`
	Idea         string      `json:"idea"`
	Candidates   []Candidate `json:"candidates"`    // final ranking
	AverageScore float64     `json:"average_score"` // mean grading score over the candidates
	Verdict      Verdict     `json:"verdict"`
	CreatedAt    time.Time   `json:"created_at"`
}
