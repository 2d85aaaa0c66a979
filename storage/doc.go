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

// Package storage defines the destination of a seeding run.
//
// A DocumentStore is a table of (content, embedding) rows that is cleared and
// refilled on every run. Backends live in subpackages:
//
//   - supabase: the remote "documents" table, reached through PostgREST
//   - postgres: the same table over a direct pgx connection
//   - badger: an embedded key/value store for local runs and tests
//   - sqlite: an embedded SQL file with embeddings stored as blobs
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.DocumentStore interface:
//
//	store, err := supabase.NewStore(url, key, "documents")
//
// Internal constructors (newStore, openBackend) may return concrete types
// since they're only used within the implementation package.
//
// # Encoding
//
// Local backends encode values with mus-go serializers. SQLite keeps the
// embedding in a blob written by EncodeEmbedding (varint length, then
// little-endian float32 values). Badger rows use MarshalRow, built on RowMUS.
//
// # Context Support
//
// All store methods accept context.Context. The supabase backend checks it
// before each request since its HTTP client cannot be cancelled mid-flight.
package storage
