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

package core

import (
	"fmt"
	"strings"
)

// ValidateRequest validates an AnalysisRequest according to domain rules.
//
// Validation rules:
//   - Requester must not be empty
//   - Idea must not be blank
//
// NOT validated:
//   - CodeFilters (an empty set means "no filter")
func ValidateRequest(req *AnalysisRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if req.Requester == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyRequester)
	}

	if strings.TrimSpace(req.Idea) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyIdea)
	}

	return nil
}

// ValidateRiskLevel validates that a RiskLevel has one of the three
// permitted values.
func ValidateRiskLevel(level RiskLevel) error {
	switch level {
	case RiskLow, RiskMedium, RiskHigh:
		return nil
	}
	return fmt.Errorf("%w: risk level %q not in {low, medium, high}", ErrInvalidVerdict, level)
}

// ValidateVerdict validates a Verdict against the fixed result schema.
// candidateIDs is the set of retrieved document IDs; every evidence ID the
// verdict references must be a member, so that each claimed similarity or
// risk point is traceable to a supplied document.
func ValidateVerdict(v *Verdict, candidateIDs []string) error {
	if v == nil {
		return fmt.Errorf("%w: verdict is nil", ErrInvalidVerdict)
	}

	if v.Similarity.Score < 0 || v.Similarity.Score > 100 {
		return fmt.Errorf("%w: similarity score %d out of range [0, 100]",
			ErrInvalidVerdict, v.Similarity.Score)
	}
	if v.Similarity.Summary == "" {
		return fmt.Errorf("%w: similarity summary is empty", ErrInvalidVerdict)
	}

	if err := ValidateRiskLevel(v.Infringement.RiskLevel); err != nil {
		return err
	}
	if v.Infringement.Summary == "" {
		return fmt.Errorf("%w: infringement summary is empty", ErrInvalidVerdict)
	}

	if v.Avoidance.Summary == "" {
		return fmt.Errorf("%w: avoidance summary is empty", ErrInvalidVerdict)
	}

	if strings.TrimSpace(v.Conclusion) == "" {
		return fmt.Errorf("%w: conclusion is empty", ErrInvalidVerdict)
	}

	known := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		known[id] = true
	}
	for _, id := range v.EvidenceIDs() {
		if !known[id] {
			return fmt.Errorf("%w: evidence %q does not name a retrieved candidate",
				ErrInvalidVerdict, id)
		}
	}

	return nil
}
