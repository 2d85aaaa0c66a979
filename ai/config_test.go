package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderEdge, cfg.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Model)
	assert.Equal(t, "embed", cfg.Function)
	assert.Empty(t, cfg.Host)
	assert.Empty(t, cfg.Token)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, ProviderEdge, cfg.Provider)
		assert.Equal(t, DefaultFunction, cfg.Function)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderOpenAI),
			WithHost("http://localhost:11434/v1"),
			WithModel("all-minilm"),
			WithFunction("other"),
			WithToken("secret"),
		)

		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
		assert.Equal(t, "all-minilm", cfg.Model)
		assert.Equal(t, "other", cfg.Function)
		assert.Equal(t, "secret", cfg.Token)
	})
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    Provider
		wantErr bool
	}{
		{"edge", ProviderEdge, false},
		{"HuggingFace", ProviderHuggingFace, false},
		{" openai ", ProviderOpenAI, false},
		{"cohere", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownProvider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("openai host gains /v1", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("openai host with /v1 unchanged", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("edge host only loses trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithHost("https://abc.supabase.co/"))
		cfg.Normalize()
		assert.Equal(t, "https://abc.supabase.co", cfg.Host)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr string
	}{
		{
			name: "valid edge",
			opts: []ConfigOption{WithHost("https://abc.supabase.co"), WithToken("key")},
		},
		{
			name:    "edge without host",
			opts:    []ConfigOption{WithToken("key")},
			wantErr: "Host is required",
		},
		{
			name:    "edge without token",
			opts:    []ConfigOption{WithHost("https://abc.supabase.co")},
			wantErr: "Token is required",
		},
		{
			name:    "edge without function",
			opts:    []ConfigOption{WithHost("https://abc.supabase.co"), WithToken("key"), WithFunction("")},
			wantErr: "Function is required",
		},
		{
			name: "valid huggingface",
			opts: []ConfigOption{WithProvider(ProviderHuggingFace), WithToken("hf_x")},
		},
		{
			name:    "huggingface without token",
			opts:    []ConfigOption{WithProvider(ProviderHuggingFace)},
			wantErr: "Token is required",
		},
		{
			name:    "huggingface without model",
			opts:    []ConfigOption{WithProvider(ProviderHuggingFace), WithToken("hf_x"), WithModel("")},
			wantErr: "Model is required",
		},
		{
			name: "valid openai without token",
			opts: []ConfigOption{WithProvider(ProviderOpenAI), WithHost("http://localhost:11434")},
		},
		{
			name:    "openai without host",
			opts:    []ConfigOption{WithProvider(ProviderOpenAI)},
			wantErr: "Host is required",
		},
		{
			name:    "unknown provider",
			opts:    []ConfigOption{WithProvider("bogus")},
			wantErr: "unknown embedding provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmbedderFunc(t *testing.T) {
	var e Embedder = EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		return []float32{float32(len(text))}, nil
	})

	v, err := e.EmbedText(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, v)
}
