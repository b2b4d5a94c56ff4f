package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/hwany-ai/patentguard/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ClaimDrafter implements ai.ClaimDrafter using OpenAI-compatible chat APIs.
type ClaimDrafter struct {
	client llms.Model
	logger *slog.Logger
}

// newClaimDrafter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newClaimDrafter(config *ai.Config) (*ClaimDrafter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(tokenOrNone(config)),
		openai.WithModel(config.DraftModel),
	)
	if err != nil {
		return nil, err
	}

	return &ClaimDrafter{
		client: client,
		logger: slog.Default().With("component", "openai-drafter"),
	}, nil
}

// NewClaimDrafter creates a new claim drafter using the provided configuration.
//
// Returns ai.ClaimDrafter interface to enforce abstraction.
func NewClaimDrafter(config *ai.Config) (ai.ClaimDrafter, error) {
	return newClaimDrafter(config)
}

// DraftClaim writes a single independent claim covering the idea.
func (d *ClaimDrafter) DraftClaim(ctx context.Context, idea string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(draftPromptTemplate),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(idea),
			},
		},
	}

	response, err := d.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		d.logger.Error("failed to generate claim", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		d.logger.Warn("no choices returned from model")
		return "", errors.New("empty draft response")
	}

	claim := stripFences(response.Choices[0].Content)
	claim = strings.Trim(claim, "\"")
	if strings.TrimSpace(claim) == "" {
		return "", errors.New("empty draft response")
	}

	d.logger.Debug("drafted claim", "length", len(claim))
	return claim, nil
}
