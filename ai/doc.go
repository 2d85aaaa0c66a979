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


// Package ai provides the embedding abstraction used by the seeder.
//
// The pipeline depends only on the Embedder interface, so the service that
// turns chunk text into vectors can be swapped without touching the seeding
// logic.
//
// # Implementation Packages
//
//   - ai/edge: invokes a Supabase Edge Function (POST {"text"} -> {"embedding"})
//   - ai/huggingface: calls a hosted sentence-transformers model
//   - ai/openai: calls any OpenAI-compatible embeddings endpoint
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (edge.NewEmbedder, huggingface.NewEmbedder, ...) return
// the ai.Embedder INTERFACE to prevent accidental coupling to a concrete
// backend. Test utility constructors (mock.NewMockEmbedder) return CONCRETE
// types so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderEdge),
//	    ai.WithHost(os.Getenv("SUPABASE_URL")),
//	    ai.WithToken(os.Getenv("SUPABASE_KEY")),
//	)
//	embedder, err := edge.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "Artículo 1")
package ai
