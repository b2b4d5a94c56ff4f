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

package mock

import "github.com/hwany-ai/patentguard/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates mock service instances.
type MockProvider struct {
	embedder *MockEmbedder
	drafter  *MockClaimDrafter
	grader   *MockGrader
	analyst  *MockAnalyst
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use the GetMock* accessors to reach concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
		drafter:  NewMockClaimDrafter(),
		grader:   NewMockGrader(),
		analyst:  NewMockAnalyst(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, drafter *MockClaimDrafter, grader *MockGrader, analyst *MockAnalyst) ai.Provider {
	return &MockProvider{
		embedder: embedder,
		drafter:  drafter,
		grader:   grader,
		analyst:  analyst,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// ClaimDrafter returns the mock drafter.
func (p *MockProvider) ClaimDrafter() ai.ClaimDrafter {
	return p.drafter
}

// Grader returns the mock grader.
func (p *MockProvider) Grader() ai.Grader {
	return p.grader
}

// Analyst returns the mock analyst.
func (p *MockProvider) Analyst() ai.Analyst {
	return p.analyst
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockClaimDrafter returns the underlying mock drafter for test assertions.
func (p *MockProvider) GetMockClaimDrafter() *MockClaimDrafter {
	return p.drafter
}

// GetMockGrader returns the underlying mock grader for test assertions.
func (p *MockProvider) GetMockGrader() *MockGrader {
	return p.grader
}

// GetMockAnalyst returns the underlying mock analyst for test assertions.
func (p *MockProvider) GetMockAnalyst() *MockAnalyst {
	return p.analyst
}
