package ai

import (
	"context"
	"errors"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Each call embeds exactly one text; callers never batch requests.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text and
	// is never empty when err is nil.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts an ordinary function to the Embedder interface.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// EmbedText calls f(ctx, text).
func (f EmbedderFunc) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// ErrEmptyEmbedding is returned when a service answers without a vector.
var ErrEmptyEmbedding = errors.New("embedding service returned an empty vector")
