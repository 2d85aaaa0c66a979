// Package splitter cuts document text into the overlapping chunks that get
// embedded and stored.
//
// Chunking is fixed: at most ChunkSize runes per chunk with ChunkOverlap runes
// shared between neighbors, splitting recursively on paragraph breaks, line
// breaks, spaces and finally single characters. The same text always yields
// the same chunks.
package splitter

import (
	"strings"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize = 500

	// ChunkOverlap is the number of runes shared by consecutive chunks.
	ChunkOverlap = 50
)

var recursive = textsplitter.NewRecursiveCharacter(
	textsplitter.WithChunkSize(ChunkSize),
	textsplitter.WithChunkOverlap(ChunkOverlap),
	textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
)

// Split returns the ordered chunks of text. Positions run from 0 and IDs are
// derived from position and content. Empty or whitespace-only text yields no
// chunks.
func Split(text string) ([]core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := recursive.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		position := len(chunks)
		chunks = append(chunks, core.Chunk{
			ID:       core.ChunkID(position, part),
			Position: position,
			Content:  part,
		})
	}
	return chunks, nil
}
