// Package huggingface provides an ai.Embedder backed by the HuggingFace
// inference API.
package huggingface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gtfk/chatbot-nextjs-vercel/ai"
	hfembed "github.com/tmc/langchaingo/embeddings/huggingface"
	hfllm "github.com/tmc/langchaingo/llms/huggingface"
)

// Embedder implements ai.Embedder by calling a hosted sentence-transformers
// model through langchaingo.
type Embedder struct {
	embedder *hfembed.Huggingface
	model    string
	logger   *slog.Logger
}

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []hfllm.Option{hfllm.WithToken(config.Token)}
	if config.Host != "" {
		opts = append(opts, hfllm.WithURL(config.Host))
	}

	client, err := hfllm.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("huggingface client: %w", err)
	}

	embedder, err := hfembed.NewHuggingface(
		hfembed.WithClient(*client),
		hfembed.WithModel(config.Model),
		hfembed.WithBatchSize(1),
	)
	if err != nil {
		return nil, fmt.Errorf("huggingface embedder: %w", err)
	}

	return &Embedder{
		embedder: embedder,
		model:    config.Model,
		logger:   slog.Default().With("component", "huggingface-embedder"),
	}, nil
}

// NewEmbedder creates a HuggingFace embedder from config.
// Config.Token is required; Config.Host overrides the public inference API.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText requests the embedding of a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "model", e.model, "length", len(text))

	// EmbedQuery indexes the response without checking it, so go through
	// EmbedDocuments and check the length here.
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if isEmptyResponse(err) {
		e.logger.Warn("embedder returned empty result")
		return nil, fmt.Errorf("%w: %w", ai.ErrEmptyEmbedding, err)
	}
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, ai.ErrEmptyEmbedding
	}

	return vectors[0], nil
}

// isEmptyResponse reports whether err is the client's "empty response"
// error. The inner client returns its own unexported sentinel with the
// same text, so the message is matched as well.
func isEmptyResponse(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, hfllm.ErrEmptyResponse) || strings.Contains(err.Error(), hfllm.ErrEmptyResponse.Error())
}
