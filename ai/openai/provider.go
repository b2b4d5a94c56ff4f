// Copyright 2025 Patent Guard Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"log/slog"

	"github.com/hwany-ai/patentguard/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages embedder, drafter, grader, and analyst instances.
type Provider struct {
	config   *ai.Config
	embedder *Embedder
	drafter  *ClaimDrafter
	grader   *Grader
	analyst  *Analyst
	logger   *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	drafter, err := newClaimDrafter(config)
	if err != nil {
		return nil, err
	}

	grader, err := newGrader(config)
	if err != nil {
		return nil, err
	}

	analyst, err := newAnalyst(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		embedder: embedder,
		drafter:  drafter,
		grader:   grader,
		analyst:  analyst,
		logger:   slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ClaimDrafter returns the hypothetical-claim drafting service.
func (p *Provider) ClaimDrafter() ai.ClaimDrafter {
	return p.drafter
}

// Grader returns the relevance grading service.
func (p *Provider) Grader() ai.Grader {
	return p.grader
}

// Analyst returns the critical-analysis service.
func (p *Provider) Analyst() ai.Analyst {
	return p.analyst
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}

// tokenOrNone returns the configured API token, or "none" for local
// OpenAI-compatible services that don't require authentication.
func tokenOrNone(config *ai.Config) string {
	if config.Token == "" {
		return "none"
	}
	return config.Token
}
