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


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must contain at least one non-whitespace character
//   - Position must not be negative
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if strings.TrimSpace(chunk.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Position < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidPosition)
	}

	return nil
}

// ValidateRow validates a Row before it is written to a store.
//
// Validation rules:
//   - Content must not be empty
//   - Embedding must not be empty
//
// NOT validated:
//   - ID (assigned by the store)
func ValidateRow(row *Row) error {
	if row == nil {
		return fmt.Errorf("%w: row is nil", ErrInvalidRow)
	}

	if row.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRow, ErrEmptyContent)
	}

	if len(row.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRow, ErrEmptyEmbedding)
	}

	return nil
}
