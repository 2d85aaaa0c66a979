// Package edge provides an ai.Embedder that invokes a Supabase Edge Function.
//
// The function receives {"text": "..."} and answers {"embedding": [...]}.
// Requests go to {Host}/functions/v1/{Function} with the project key sent as
// both the bearer token and the apikey header, the same way supabase-js does.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gtfk/chatbot-nextjs-vercel/ai"
)

// DefaultTimeout bounds a single function invocation.
const DefaultTimeout = 60 * time.Second

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Embedder implements ai.Embedder over an Edge Function.
type Embedder struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Embedder) {
		e.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		e.logger = logger
	}
}

func newEmbedder(config *ai.Config, opts ...Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Embedder{
		endpoint: config.Host + "/functions/v1/" + config.Function,
		token:    config.Token,
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   slog.Default().With("component", "edge-embedder"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEmbedder creates an Edge Function embedder.
// Config.Host is the project URL and Config.Token the project key.
func NewEmbedder(config *ai.Config, opts ...Option) (ai.Embedder, error) {
	return newEmbedder(config, opts...)
}

// EmbedText invokes the function once for text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("apikey", e.token)

	e.logger.Debug("invoking edge function", "endpoint", e.endpoint, "length", len(text))

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edge function request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("edge function returned status %d: %s", resp.StatusCode, preview(body))
	}

	var out embedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response (body: %s): %w", preview(body), err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("edge function error: %s", out.Error)
	}
	if len(out.Embedding) == 0 {
		return nil, ai.ErrEmptyEmbedding
	}

	return out.Embedding, nil
}

func preview(body []byte) string {
	if len(body) > 200 {
		return string(body[:200])
	}
	return string(body)
}
