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

// Package ai provides abstractions for the AI services used in Patent Guard.
//
// This package defines interfaces for AI operations including text embeddings,
// hypothetical-claim drafting, relevance grading, and critical analysis. It
// follows the dependency inversion principle, allowing the pipeline and engine
// to depend on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around five key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - ClaimDrafter: Writes a hypothetical independent claim for an idea
//   - Grader: Scores one retrieved patent's relevance to an idea
//   - Analyst: Produces the structured similarity/infringement/avoidance verdict
//   - Provider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// This package follows a mixed constructor pattern based on use case:
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations. This is essential for dependency injection and
// supporting multiple implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockAnalyst, etc.)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public fields and methods (CallCount, the Func fields, Reset).
//
//	mockAnalyst := mock.NewMockAnalyst()  // returns *mock.MockAnalyst
//	mockAnalyst.AnalyzeFunc = ...         // needs concrete type
//	count := mockAnalyst.CallCount()      // test assertion
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithToken(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	claim, err := provider.ClaimDrafter().DraftClaim(ctx, "a drone that waters crops")
//	vector, err := provider.Embedder().EmbedText(ctx, claim)
package ai
