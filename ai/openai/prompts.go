package openai

import (
	"fmt"
	"strings"

	"github.com/hwany-ai/patentguard/core"
)

const draftPromptTemplate = `You are a patent attorney drafting a hypothetical independent claim.

Given an invention idea, write ONE independent patent claim that would cover it.
Use standard claim language: a single sentence beginning with a preamble
("A system for...", "A method of...") followed by numbered structural or
procedural elements joined by "wherein" and "comprising" clauses.

Rules:
- Output ONLY the claim text. No preamble, explanation, claim number, or quotes.
- Cover every essential element of the idea; do not invent features the idea does not imply.
- Prefer the technical vocabulary a patent examiner would use over colloquial wording.
- Keep it to one claim. Never write dependent claims.`

const gradingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "score": {
      "type": "number",
      "minimum": 0,
      "maximum": 100
    },
    "rationale": {
      "type": "string"
    }
  },
  "required": ["score", "rationale"],
  "additionalProperties": false
}`

const gradingPromptTemplate = `You are a patent examiner judging whether a retrieved patent is relevant prior art for an invention idea.

Score the patent's relevance to the idea on a 0-100 scale and explain why in one
or two sentences. Output ONLY valid JSON which complies with the schema given
below. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Scoring guidance:
- 80-100: the patent covers the same core mechanism and purpose as the idea.
- 50-79: substantial technical overlap, but the idea differs in a key element.
- 20-49: same field, different mechanism.
- 0-19: superficial keyword overlap only.

Rules:
- Judge the claims first, then the abstract. Ignore the title alone.
- Base the score only on the provided text. Do not assume unstated features.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const analysisResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "similarity": {
      "type": "object",
      "properties": {
        "score": {"type": "integer", "minimum": 0, "maximum": 100},
        "summary": {"type": "string"},
        "common_elements": {"type": "array", "items": {"type": "string"}},
        "evidence": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["score", "summary", "common_elements", "evidence"]
    },
    "infringement": {
      "type": "object",
      "properties": {
        "risk_level": {"type": "string", "enum": ["low", "medium", "high"]},
        "summary": {"type": "string"},
        "risk_factors": {"type": "array", "items": {"type": "string"}},
        "evidence": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["risk_level", "summary", "risk_factors", "evidence"]
    },
    "avoidance": {
      "type": "object",
      "properties": {
        "summary": {"type": "string"},
        "strategies": {"type": "array", "items": {"type": "string"}},
        "alternatives": {"type": "array", "items": {"type": "string"}},
        "evidence": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["summary", "strategies", "alternatives", "evidence"]
    },
    "conclusion": {"type": "string"}
  },
  "required": ["similarity", "infringement", "avoidance", "conclusion"],
  "additionalProperties": false
}`

const analysisPromptTemplate = `You are a patent attorney performing a critical prior-art analysis of an invention idea against a set of retrieved patents.

Output ONLY valid JSON which complies with the schema given below. Do not include
any preamble, explanation, greeting, or acknowledgment. Start your response
directly with the opening brace { and end with the closing brace }. Your output
must exactly follow this schema:

%s

Analysis rules:
- similarity.score reflects how much of the idea is already disclosed by the
  cited patents taken together. Use the all-elements rule: claim-level overlap
  counts only when every element of a cited claim reads on the idea.
- infringement.risk_level is your overall judgment: "high" when a cited claim
  likely reads on the idea element for element, "medium" for substantial but
  incomplete overlap, "low" otherwise.
- Every entry in an "evidence" array must be the exact document id of one of
  the candidate patents you were given. Never cite a patent that is not in the
  candidate list.
- avoidance.strategies are concrete design-around changes; alternatives are
  substitute mechanisms that sidestep the cited claims entirely.
- conclusion is a two or three sentence plain-language summary for a
  non-lawyer.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildGradingPrompt creates the grading system prompt with the schema embedded.
func buildGradingPrompt() string {
	return fmt.Sprintf(gradingPromptTemplate, gradingResponseSchema)
}

// buildAnalysisPrompt creates the analysis system prompt with the schema embedded.
func buildAnalysisPrompt() string {
	return fmt.Sprintf(analysisPromptTemplate, analysisResponseSchema)
}

// formatDocument renders one patent for inclusion in a chat prompt.
func formatDocument(doc core.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id: %s\n", doc.ID)
	fmt.Fprintf(&b, "title: %s\n", doc.Title)
	if len(doc.Codes) > 0 {
		fmt.Fprintf(&b, "codes: %s\n", strings.Join(doc.Codes, ", "))
	}
	fmt.Fprintf(&b, "abstract: %s\n", doc.Abstract)
	fmt.Fprintf(&b, "claims: %s\n", doc.Claims)
	return b.String()
}

// formatCandidates renders the graded candidate set for the analysis prompt.
func formatCandidates(candidates []core.Candidate) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "--- candidate %d ---\n", i+1)
		b.WriteString(formatDocument(c.Document))
		if c.Graded {
			fmt.Fprintf(&b, "relevance: %.0f/100 (%s)\n", c.GradingScore, c.GradingRationale)
		}
		b.WriteString("\n")
	}
	return b.String()
}
