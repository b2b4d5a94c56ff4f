package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "gpt-4o-mini", cfg.DraftModel)
	assert.Equal(t, "gpt-4o-mini", cfg.GradeModel)
	assert.Equal(t, "gpt-4o", cfg.AnalysisModel)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "https://api.openai.com/v1", cfg.ChatHost)
		assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithChatHost("http://chat:8080/v1"),
			WithEmbeddingHost("http://embed:9090/v1"),
		)

		assert.Equal(t, "http://chat:8080/v1", cfg.ChatHost)
		assert.Equal(t, "http://embed:9090/v1", cfg.EmbeddingHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithDraftModel("qwen2.5:3b"),
			WithGradeModel("qwen2.5:7b"),
			WithAnalysisModel("qwen2.5:14b"),
			WithEmbeddingModel("embeddinggemma"),
		)

		assert.Equal(t, "qwen2.5:3b", cfg.DraftModel)
		assert.Equal(t, "qwen2.5:7b", cfg.GradeModel)
		assert.Equal(t, "qwen2.5:14b", cfg.AnalysisModel)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	})

	t.Run("with token", func(t *testing.T) {
		cfg := NewConfig(WithToken("sk-test"))

		assert.Equal(t, "sk-test", cfg.Token)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name              string
		chatHost          string
		embeddingHost     string
		expectedChat      string
		expectedEmbedding string
	}{
		{
			name:              "already has /v1",
			chatHost:          "http://localhost:11434/v1",
			embeddingHost:     "http://localhost:11434/v1",
			expectedChat:      "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
		},
		{
			name:              "missing /v1",
			chatHost:          "http://localhost:11434",
			embeddingHost:     "http://localhost:11434",
			expectedChat:      "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
		},
		{
			name:              "has trailing slash",
			chatHost:          "http://localhost:11434/",
			embeddingHost:     "http://localhost:11434/",
			expectedChat:      "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
		},
		{
			name:              "empty hosts",
			chatHost:          "",
			embeddingHost:     "",
			expectedChat:      "",
			expectedEmbedding: "",
		},
		{
			name:              "different formats",
			chatHost:          "http://chat:8080",
			embeddingHost:     "http://embed:9090/v1",
			expectedChat:      "http://chat:8080/v1",
			expectedEmbedding: "http://embed:9090/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ChatHost:      tt.chatHost,
				EmbeddingHost: tt.embeddingHost,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expectedChat, cfg.ChatHost)
			assert.Equal(t, tt.expectedEmbedding, cfg.EmbeddingHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ChatHost:       "http://localhost:11434",
			EmbeddingHost:  "http://localhost:11434",
			DraftModel:     "gpt-4o-mini",
			GradeModel:     "gpt-4o-mini",
			AnalysisModel:  "gpt-4o",
			EmbeddingModel: "text-embedding-3-small",
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()

		err := cfg.Validate()
		assert.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("missing chat host", func(t *testing.T) {
		cfg := valid()
		cfg.ChatHost = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ChatHost")
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingHost = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing draft model", func(t *testing.T) {
		cfg := valid()
		cfg.DraftModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DraftModel")
	})

	t.Run("missing grade model", func(t *testing.T) {
		cfg := valid()
		cfg.GradeModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GradeModel")
	})

	t.Run("missing analysis model", func(t *testing.T) {
		cfg := valid()
		cfg.AnalysisModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "AnalysisModel")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := valid()
		cfg.EmbeddingModel = ""

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("empty token is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.Token = ""

		err := cfg.Validate()
		assert.NoError(t, err)
	})
}

func TestConfigValidate_Integration(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Validate()
	require.NoError(t, err)

	cfg = DefaultConfig()
	err = cfg.Validate()
	require.NoError(t, err)
}
