package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or store sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the stable identifier of a chunk from its position and content.
// The same text at a different position yields a different ID.
func ChunkID(position int, content string) ID {
	return IDFromContent(strconv.Itoa(position) + "|" + content)
}

// SourceDocument is the raw text extracted from an input file.
type SourceDocument struct {
	Path  string
	Text  string
	Pages int
}

// Chunk is a bounded, overlapping substring of a SourceDocument.
// Chunks are immutable once produced by the splitter.
type Chunk struct {
	ID       ID
	Position int // Zero-based order within the document
	Content  string
}

// Row is a chunk paired with its embedding, ready to be persisted.
type Row struct {
	ID        ID // Assigned by local stores; remote tables assign their own keys
	ChunkID   ID
	Position  int
	Content   string
	Embedding []float32
}

// NewRow pairs a chunk with its embedding.
func NewRow(chunk Chunk, embedding []float32) *Row {
	return &Row{
		ChunkID:   chunk.ID,
		Position:  chunk.Position,
		Content:   chunk.Content,
		Embedding: embedding,
	}
}

// Report summarizes a seeding run.
type Report struct {
	Pages    int
	Chunks   int
	Embedded int
	Inserted int
	Failed   int // Rows whose insert failed and were skipped
	Elapsed  time.Duration
}

// Complete reports whether every chunk ended up stored.
func (r *Report) Complete() bool {
	return r.Failed == 0 && r.Inserted == r.Chunks
}
