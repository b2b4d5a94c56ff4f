package retrieval

import (
	"slices"
	"strings"

	"github.com/hwany-ai/patentguard/core"
	"github.com/hwany-ai/patentguard/index"
)

// DefaultRRFK is the standard reciprocal rank fusion constant.
const DefaultRRFK = 60

// fuseRRF combines ranked hit lists with reciprocal rank fusion. Each list
// contributes 1/(k+rank+1) per document using 0-based ranks; a document's
// fused score is the sum over the lists it appears in. The first list is
// treated as the lexical list and supplies LexicalRank.
//
// Ordering is fully deterministic: fused score descending, then lexical rank
// ascending with absent documents last, then document ID.
func fuseRRF(k int, lists ...[]index.Hit) []core.Candidate {
	byID := make(map[string]*core.Candidate)
	var order []string

	for listIdx, list := range lists {
		for rank, hit := range list {
			cand, ok := byID[hit.Document.ID]
			if !ok {
				cand = &core.Candidate{Document: hit.Document}
				byID[hit.Document.ID] = cand
				order = append(order, hit.Document.ID)
			}
			cand.FusedScore += 1.0 / float64(k+rank+1)
			if listIdx == 0 && cand.LexicalRank == 0 {
				cand.LexicalRank = rank + 1
			}
		}
	}

	fused := make([]core.Candidate, 0, len(order))
	for _, id := range order {
		fused = append(fused, *byID[id])
	}

	slices.SortStableFunc(fused, func(a, b core.Candidate) int {
		if a.FusedScore != b.FusedScore {
			if a.FusedScore > b.FusedScore {
				return -1
			}
			return 1
		}
		ra, rb := a.LexicalRank, b.LexicalRank
		if ra == 0 {
			ra = int(^uint(0) >> 1)
		}
		if rb == 0 {
			rb = int(^uint(0) >> 1)
		}
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a.ID, b.ID)
	})

	return fused
}
