package splitter

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reglamento builds a long text of numbered articles separated by blank lines.
func reglamento(articles int) string {
	var b strings.Builder
	for i := 1; i <= articles; i++ {
		if i > 1 {
			b.WriteString("\n\n")
		}
		b.WriteString("Artículo ")
		b.WriteString(strings.Repeat("I", i%5+1))
		b.WriteString(". El estudiante tiene derecho a conocer el programa de cada asignatura, ")
		b.WriteString("los criterios de evaluación y las fechas de las pruebas con la debida anticipación.")
	}
	return b.String()
}

// numbered joins n distinct tokens with sep, so every chunk occurs once in
// the result.
func numbered(prefix string, n int, sep string) string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("%s%04d", prefix, i)
	}
	return strings.Join(tokens, sep)
}

// locate finds each chunk in text in order and returns its rune offset.
// Chunks must tile the text: gaps between them may only hold whitespace.
func locate(t *testing.T, text string, chunks []core.Chunk) []int {
	t.Helper()
	starts := make([]int, len(chunks))
	offset, prevEnd := 0, 0
	for i, c := range chunks {
		idx := strings.Index(text[offset:], c.Content)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found after chunk %d", i, i-1)
		start := offset + idx
		if start > prevEnd {
			assert.Empty(t, strings.TrimSpace(text[prevEnd:start]), "text lost between chunk %d and %d", i-1, i)
		}
		starts[i] = start
		prevEnd = start + len(c.Content)
		offset = start + 1
	}
	assert.Empty(t, strings.TrimSpace(text[prevEnd:]), "text lost after the last chunk")
	return starts
}

// overlaps returns the number of runes each chunk shares with the previous one.
func overlaps(text string, chunks []core.Chunk, starts []int) []int {
	out := make([]int, 0, len(chunks))
	for i := 1; i < len(chunks); i++ {
		prevEnd := starts[i-1] + len(chunks[i-1].Content)
		if prevEnd <= starts[i] {
			out = append(out, 0)
			continue
		}
		out = append(out, utf8.RuneCountInString(text[starts[i]:prevEnd]))
	}
	return out
}

func TestSplit_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		chunks, err := Split(text)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestSplit_ShortText(t *testing.T) {
	chunks, err := Split("Reglamento académico.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "Reglamento académico.", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, core.ChunkID(0, "Reglamento académico."), chunks[0].ID)
}

func TestSplit_LongText(t *testing.T) {
	text := reglamento(40)
	chunks, err := Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i, c.Position)
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), ChunkSize, "chunk %d too long", i)
		assert.NotEmpty(t, strings.TrimSpace(c.Content))
		assert.Equal(t, core.ChunkID(i, c.Content), c.ID)
		assert.NoError(t, core.ValidateChunk(&c))
	}

	// chunks appear in document order
	offset := 0
	for i, c := range chunks {
		idx := strings.Index(text[offset:], c.Content)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found after previous chunk", i)
		offset += idx + 1
	}
}

func TestSplit_NoSeparators(t *testing.T) {
	text := strings.Repeat("x", 1200)
	chunks, err := Split(text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 3)

	total := 0
	for _, c := range chunks {
		n := utf8.RuneCountInString(c.Content)
		assert.LessOrEqual(t, n, ChunkSize)
		total += n
	}
	// overlap means the chunks cover at least the whole text
	assert.GreaterOrEqual(t, total, 1200)
}

func TestSplit_Overlap(t *testing.T) {
	words := make([]string, 300)
	for i := range words {
		words[i] = "palabra" + strings.Repeat("a", i%3)
	}
	chunks, err := Split(strings.Join(words, " "))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Content)
		first := strings.Fields(chunks[i].Content)[0]
		assert.Contains(t, prev[len(prev)-10:], first, "chunk %d should start inside the tail of chunk %d", i, i-1)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := reglamento(25)
	a, err := Split(text)
	require.NoError(t, err)
	b, err := Split(text)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSplit_FourThousandTwoHundredCharacters(t *testing.T) {
	for name, sep := range map[string]string{"words": " ", "lines": "\n", "paragraphs": "\n\n"} {
		t.Run(name, func(t *testing.T) {
			text := numbered("w", 701, sep)[:4200]
			require.Equal(t, 4200, utf8.RuneCountInString(text))

			chunks, err := Split(text)
			require.NoError(t, err)
			require.Len(t, chunks, 10)

			for i, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), ChunkSize, "chunk %d too long", i)
			}
		})
	}
}

func TestSplit_OverlapBound(t *testing.T) {
	for name, sep := range map[string]string{"words": " ", "lines": "\n", "paragraphs": "\n\n"} {
		t.Run(name, func(t *testing.T) {
			text := numbered("artículo", 400, sep)
			chunks, err := Split(text)
			require.NoError(t, err)
			require.Greater(t, len(chunks), 1)

			starts := locate(t, text, chunks)
			for i, n := range overlaps(text, chunks, starts) {
				assert.LessOrEqual(t, n, ChunkOverlap, "chunks %d and %d overlap by %d runes", i, i+1, n)
				assert.Positive(t, n, "chunks %d and %d share no text", i, i+1)
			}
		})
	}
}

func TestSplit_ReconstructsInOrder(t *testing.T) {
	text := numbered("w", 701, " ")[:4200]
	chunks, err := Split(text)
	require.NoError(t, err)

	starts := locate(t, text, chunks)
	assert.Zero(t, starts[0])
	assert.IsIncreasing(t, starts)

	var b strings.Builder
	for i, c := range chunks {
		end := starts[i] + len(c.Content)
		if i == 0 {
			b.WriteString(c.Content)
			continue
		}
		prevEnd := starts[i-1] + len(chunks[i-1].Content)
		if prevEnd < end {
			b.WriteString(text[prevEnd:end])
		}
	}
	assert.Equal(t, strings.TrimSpace(text), b.String())
}
