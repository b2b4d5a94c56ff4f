package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hwany-ai/patentguard/ai"
	"github.com/hwany-ai/patentguard/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Grader implements ai.Grader using OpenAI-compatible chat APIs.
type Grader struct {
	client llms.Model
	logger *slog.Logger
}

// grading is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type grading struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// newGrader is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGrader(config *ai.Config) (*Grader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(tokenOrNone(config)),
		openai.WithModel(config.GradeModel),
	)
	if err != nil {
		return nil, err
	}

	return &Grader{
		client: client,
		logger: slog.Default().With("component", "openai-grader"),
	}, nil
}

// NewGrader creates a new relevance grader using the provided configuration.
//
// Returns ai.Grader interface to enforce abstraction.
func NewGrader(config *ai.Config) (ai.Grader, error) {
	return newGrader(config)
}

// Grade scores one candidate document against the idea.
func (g *Grader) Grade(ctx context.Context, idea string, doc core.Document) (ai.Grading, error) {
	userPrompt := fmt.Sprintf("Invention idea:\n%s\n\nRetrieved patent:\n%s", idea, formatDocument(doc))
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildGradingPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result grading
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate grading", "doc", doc.ID, "attempt", attempt+1, "err", err)
			return ai.Grading{}, err
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model", "doc", doc.ID)
			return ai.Grading{}, fmt.Errorf("empty grading response for %s", doc.ID)
		}

		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			g.logger.Warn("error parsing grading response",
				"doc", doc.ID,
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		g.logger.Error("failed to parse grading response after retries", "doc", doc.ID, "err", lastErr)
		return ai.Grading{}, lastErr
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	g.logger.Debug("graded candidate", "doc", doc.ID, "score", result.Score)
	return ai.Grading{Score: result.Score, Rationale: result.Rationale}, nil
}
