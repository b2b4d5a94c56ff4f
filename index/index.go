package index

import (
	"strings"

	"github.com/hwany-ai/patentguard/core"
)

// Hit is one scored document returned by an index search.
type Hit struct {
	Document core.Document
	Score    float64
}

// matchesCodeFilters reports whether a document's codes pass the filter set.
// An empty filter set admits everything; otherwise any code matching any
// filter prefix admits the document.
func matchesCodeFilters(codes, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, code := range codes {
		for _, filter := range filters {
			if strings.HasPrefix(code, filter) {
				return true
			}
		}
	}
	return false
}
