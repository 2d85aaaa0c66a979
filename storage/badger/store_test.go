package badger

import (
	"context"
	"testing"

	"github.com/gtfk/chatbot-nextjs-vercel/core"
	"github.com/gtfk/chatbot-nextjs-vercel/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, _, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func makeRows(contents ...string) []*core.Row {
	rows := make([]*core.Row, len(contents))
	for i, c := range contents {
		rows[i] = core.NewRow(core.Chunk{ID: core.ChunkID(i, c), Position: i, Content: c}, []float32{float32(i), 0.5})
	}
	return rows
}

func TestStore_InsertAndRows(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rows := makeRows("uno", "dos", "tres")
	require.NoError(t, store.Insert(ctx, rows[0]))
	require.NoError(t, store.Insert(ctx, rows[1:]...))

	for _, r := range rows {
		assert.NotZero(t, r.ID, "insert assigns IDs")
	}
	assert.Less(t, rows[0].ID, rows[1].ID)
	assert.Less(t, rows[1].ID, rows[2].ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	stored, err := store.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, r := range stored {
		assert.Equal(t, rows[i].Content, r.Content)
		assert.Equal(t, rows[i].Position, r.Position)
		assert.Equal(t, rows[i].ChunkID, r.ChunkID)
		assert.Equal(t, rows[i].Embedding, r.Embedding)
	}
}

func TestStore_InsertEmpty(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Insert(context.Background()))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_InsertInvalidRowIsAtomic(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rows := makeRows("uno", "dos")
	rows[1].Embedding = nil

	err := store.Insert(ctx, rows...)
	assert.ErrorIs(t, err, storage.ErrInsertFailed)
	assert.ErrorIs(t, err, core.ErrInvalidRow)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, rows[0].ID)
}

func TestStore_DeleteAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeRows("a", "b", "c", "d")...))
	require.NoError(t, store.DeleteAll(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// deleting an empty table is fine
	require.NoError(t, store.DeleteAll(ctx))

	// new rows keep increasing IDs
	rows := makeRows("e")
	require.NoError(t, store.Insert(ctx, rows...))
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Greater(t, rows[0].ID, core.ID(4))
}

func TestStore_Closed(t *testing.T) {
	store, backend, err := NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.True(t, backend.IsClosed())

	ctx := context.Background()
	assert.ErrorIs(t, store.DeleteAll(ctx), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Insert(ctx, makeRows("x")...), storage.ErrStorageClosed)
	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	// second close is a no-op
	assert.NoError(t, store.Close())
}

func TestStore_CanceledContext(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Insert(ctx, makeRows("x")...), context.Canceled)
}

func TestStore_SharedBackend(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	store, err := NewStoreWithBackend(backend)
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), makeRows("x")...))
	require.NoError(t, store.Close())

	assert.False(t, backend.IsClosed())
}

func TestNewStore_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, makeRows("a", "b")...))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
