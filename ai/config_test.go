package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://embeddings.internal:9100"),
		WithModel("text-embedding-3-small"),
		WithAPIKey("secret"),
	)
	assert.Equal(t, "http://embeddings.internal:9100", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "secret", cfg.APIKey)
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds /v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("strips trailing slash before adding /v1", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("leaves existing /v1 alone", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("empty api key becomes none", func(t *testing.T) {
		cfg := NewConfig(WithAPIKey(""))
		cfg.Normalize()
		assert.Equal(t, "none", cfg.APIKey)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithModel(""))
		assert.Error(t, cfg.Validate())
	})
}
