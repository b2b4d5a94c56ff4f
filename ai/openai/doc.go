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

// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such as
// Ollama, LocalAI, or vLLM). Claim drafting and grading use the lighter chat
// model, the critical analysis uses the stronger one, and all structured
// responses go through JSON mode with fence stripping and repair before
// parsing.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithToken(os.Getenv("OPENAI_API_KEY")),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	claim, err := provider.ClaimDrafter().DraftClaim(ctx, idea)
//	verdict, err := provider.Analyst().Analyze(ctx, idea, candidates)
package openai
