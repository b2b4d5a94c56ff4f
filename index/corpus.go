package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hwany-ai/patentguard/core"
)

// LoadCorpus reads a patent corpus from a JSON file holding an array of
// documents. Documents without an ID are rejected.
func LoadCorpus(path string) ([]core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var docs []core.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}

	for i, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("corpus document %d has no id", i)
		}
	}
	return docs, nil
}
