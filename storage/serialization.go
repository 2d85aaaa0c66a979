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

package storage

import (
	"errors"
	"fmt"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// EmbeddingMUS encodes a vector as a varint length followed by
// little-endian IEEE 754 float32 values.
var EmbeddingMUS = ord.NewSliceSer[float32](raw.Float32)

// RowMUS is the MUS serializer for core.Row.
var RowMUS = rowMUS{}

type rowMUS struct{}

func (s rowMUS) Marshal(row core.Row, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(row.ID), bs)
	n += varint.Uint64.Marshal(uint64(row.ChunkID), bs[n:])
	n += varint.PositiveInt.Marshal(row.Position, bs[n:])
	n += ord.String.Marshal(row.Content, bs[n:])
	return n + EmbeddingMUS.Marshal(row.Embedding, bs[n:])
}

func (s rowMUS) Unmarshal(bs []byte) (row core.Row, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	row.ID = core.ID(id)

	chunkID, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	row.ChunkID = core.ID(chunkID)

	row.Position, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	row.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	row.Embedding, n1, err = EmbeddingMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s rowMUS) Size(row core.Row) (size int) {
	size = varint.Uint64.Size(uint64(row.ID))
	size += varint.Uint64.Size(uint64(row.ChunkID))
	size += varint.PositiveInt.Size(row.Position)
	size += ord.String.Size(row.Content)
	return size + EmbeddingMUS.Size(row.Embedding)
}

func (s rowMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return
	}
	n1, err := varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.PositiveInt.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = EmbeddingMUS.Skip(bs[n:])
	n += n1
	return
}

// wrapDecodeError maps MUS decoding errors onto the storage sentinels.
func wrapDecodeError(what string, err error) error {
	if errors.Is(err, mus.ErrTooSmallByteSlice) {
		return fmt.Errorf("%w: %s", ErrTruncatedData, what)
	}
	return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, what, err)
}

// EncodeEmbedding serializes a vector for the local blob columns.
func EncodeEmbedding(vec []float32) []byte {
	buf := make([]byte, EmbeddingMUS.Size(vec))
	EmbeddingMUS.Marshal(vec, buf)
	return buf
}

// DecodeEmbedding decodes a blob produced by EncodeEmbedding.
// An empty vector decodes as nil.
func DecodeEmbedding(data []byte) ([]float32, error) {
	vec, n, err := EmbeddingMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeError("embedding", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after embedding", ErrSerializationFailed, len(data)-n)
	}
	if len(vec) == 0 {
		return nil, nil
	}
	return vec, nil
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, wrapDecodeError("id", err)
	}
	return core.ID(id), nil
}

// MarshalRow serializes a Row to bytes.
func MarshalRow(row *core.Row) []byte {
	buf := make([]byte, RowMUS.Size(*row))
	RowMUS.Marshal(*row, buf)
	return buf
}

// UnmarshalRow deserializes a Row from bytes.
func UnmarshalRow(data []byte) (*core.Row, error) {
	row, _, err := RowMUS.Unmarshal(data)
	if err != nil {
		return nil, wrapDecodeError("row", err)
	}
	if len(row.Embedding) == 0 {
		row.Embedding = nil
	}
	return &row, nil
}
