package openai

import (
	"testing"

	"github.com/gtfk/chatbot-nextjs-vercel/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder_InvalidConfig(t *testing.T) {
	cfg := ai.NewConfig(ai.WithProvider(ai.ProviderOpenAI))

	embedder, err := NewEmbedder(cfg)
	require.Error(t, err)
	assert.Nil(t, embedder)
	assert.Contains(t, err.Error(), "Host is required")
}

func TestNewEmbedder_NormalizesHost(t *testing.T) {
	cfg := ai.NewConfig(
		ai.WithProvider(ai.ProviderOpenAI),
		ai.WithHost("http://localhost:11434"),
		ai.WithModel("all-minilm"),
	)

	embedder, err := newEmbedder(cfg)
	require.NoError(t, err)
	require.NotNil(t, embedder)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
}
