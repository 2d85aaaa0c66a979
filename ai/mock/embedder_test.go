package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "hola")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "hola")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "adiós")
	require.NoError(t, err)

	assert.Len(t, a, Dimensions)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, Vector("hola"), a)
	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, []string{"hola", "hola", "adiós"}, m.Texts())
}

func TestMockEmbedder_CustomFunc(t *testing.T) {
	m := NewMockEmbedder()
	m.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 2, 3}, nil
	}

	v, err := m.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, v)

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	assert.Empty(t, m.Texts())

	v, err = m.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, v, Dimensions)
}

func TestNewFailingEmbedder(t *testing.T) {
	boom := errors.New("boom")
	m := NewFailingEmbedder(2, boom)
	ctx := context.Background()

	_, err := m.EmbedText(ctx, "a")
	assert.ErrorIs(t, err, boom)
	_, err = m.EmbedText(ctx, "a")
	assert.ErrorIs(t, err, boom)

	v, err := m.EmbedText(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, Vector("a"), v)
	assert.Equal(t, 3, m.CallCount())
}
