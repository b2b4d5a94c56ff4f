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

// Analyst implements ai.Analyst using OpenAI-compatible chat APIs.
type Analyst struct {
	client llms.Model
	logger *slog.Logger
}

// newAnalyst is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyst(config *ai.Config) (*Analyst, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(tokenOrNone(config)),
		openai.WithModel(config.AnalysisModel),
	)
	if err != nil {
		return nil, err
	}

	return &Analyst{
		client: client,
		logger: slog.Default().With("component", "openai-analyst"),
	}, nil
}

// NewAnalyst creates a new critical analyst using the provided configuration.
//
// Returns ai.Analyst interface to enforce abstraction.
func NewAnalyst(config *ai.Config) (ai.Analyst, error) {
	return newAnalyst(config)
}

// Analyze compares the idea against the candidates and returns a verdict.
// The verdict is parsed but not validated against the candidate set.
func (a *Analyst) Analyze(ctx context.Context, idea string, candidates []core.Candidate) (*core.Verdict, error) {
	userPrompt := fmt.Sprintf("Invention idea:\n%s\n\nCandidate patents:\n%s", idea, formatCandidates(candidates))
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnalysisPrompt()),
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
	var verdict core.Verdict
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate analysis", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return nil, fmt.Errorf("empty analysis response")
		}

		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &verdict); err != nil {
			lastErr = err
			a.logger.Warn("error parsing analysis response",
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
		a.logger.Error("failed to parse analysis response after retries", "err", lastErr)
		return nil, lastErr
	}

	a.logger.Debug("analysis complete",
		"similarity", verdict.Similarity.Score,
		"risk", verdict.Infringement.RiskLevel)
	return &verdict, nil
}
