package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", `{"score": 10}`, `{"score": 10}`},
		{"json fence", "```json\n{\"score\": 10}\n```", `{"score": 10}`},
		{"bare fence", "```\n{\"score\": 10}\n```", `{"score": 10}`},
		{"surrounding whitespace", "  {\"score\": 10}\n", `{"score": 10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripFences(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	t.Run("valid JSON untouched", func(t *testing.T) {
		in := `{"score": 42, "rationale": "same mechanism"}`
		assert.Equal(t, in, repairJSON(in))
	})

	t.Run("missing opening quote on key", func(t *testing.T) {
		in := `{"score": 42, rationale": "same mechanism"}`
		out := repairJSON(in)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &parsed))
		assert.Equal(t, "same mechanism", parsed["rationale"])
	})
}
