// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names an embedding backend.
type Provider string

const (
	// ProviderHuggingFace calls a hosted model through the HuggingFace inference API.
	ProviderHuggingFace Provider = "huggingface"

	// ProviderEdge invokes a Supabase Edge Function that wraps the model.
	ProviderEdge Provider = "edge"

	// ProviderOpenAI calls any OpenAI-compatible embeddings endpoint.
	ProviderOpenAI Provider = "openai"
)

// Providers lists every supported provider, in the order shown in help text.
var Providers = []Provider{ProviderEdge, ProviderHuggingFace, ProviderOpenAI}

// ParseProvider converts a user-supplied name into a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// ErrUnknownProvider is returned for provider names that are not supported.
var ErrUnknownProvider = errors.New("unknown embedding provider")

const (
	// DefaultModel is the sentence-transformers model the seeding table was built with.
	DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

	// DefaultFunction is the name of the Edge Function that produces embeddings.
	DefaultFunction = "embed"
)

// Config holds configuration for an embedding provider.
type Config struct {
	// Provider selects the embedding backend.
	Provider Provider

	// Host is the base URL of the service.
	// For ProviderEdge this is the Supabase project URL.
	// For ProviderOpenAI it is the OpenAI-compatible API root, e.g. "http://localhost:11434/v1".
	// For ProviderHuggingFace it is optional and overrides the public inference API.
	Host string

	// Model is the model identifier used for embeddings.
	// Ignored by ProviderEdge, which embeds with whatever model the function wraps.
	Model string

	// Function is the Edge Function name invoked by ProviderEdge.
	Function string

	// Token is the credential sent with every request.
	Token string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the embedding backend.
func WithProvider(provider Provider) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the service base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithFunction sets the Edge Function name.
func WithFunction(name string) ConfigOption {
	return func(c *Config) {
		c.Function = name
	}
}

// WithToken sets the credential.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// DefaultConfig returns a Config that invokes the "embed" Edge Function.
// Host and Token must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderEdge,
		Model:    DefaultModel,
		Function: DefaultFunction,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithProvider(ProviderHuggingFace),
//       WithToken(os.Getenv("HUGGINGFACEHUB_API_TOKEN")),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are removed from the host, and OpenAI-compatible hosts get
// the /v1 suffix required by Ollama, LocalAI, vLLM and friends.
func (c *Config) Normalize() {
	c.Host = strings.TrimSuffix(strings.TrimSpace(c.Host), "/")
	if c.Provider == ProviderOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete for its provider.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderEdge:
		if c.Host == "" {
			return errors.New("ai config: Host is required for the edge provider")
		}
		if c.Function == "" {
			return errors.New("ai config: Function is required for the edge provider")
		}
		if c.Token == "" {
			return errors.New("ai config: Token is required for the edge provider")
		}
	case ProviderHuggingFace:
		if c.Model == "" {
			return errors.New("ai config: Model is required for the huggingface provider")
		}
		if c.Token == "" {
			return errors.New("ai config: Token is required for the huggingface provider")
		}
	case ProviderOpenAI:
		if c.Host == "" {
			return errors.New("ai config: Host is required for the openai provider")
		}
		if c.Model == "" {
			return errors.New("ai config: Model is required for the openai provider")
		}
	default:
		return fmt.Errorf("ai config: %w: %q", ErrUnknownProvider, c.Provider)
	}
	return nil
}
