package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

func TestAudioStore_NoIOUntilUsed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store, err := NewAudioStore(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestAudioStore_PutGet(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	key := domain.NewChapterKey("jhn", 3)
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 7)
	}

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Put(ctx, domain.AudioPayload{Key: key, Data: data, Fingerprint: "abc"}))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, data, got.Data)
	assert.Equal(t, "abc", got.Fingerprint)
	assert.Equal(t, key, got.Key)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAudioStore_PutReplaces(t *testing.T) {
	store, err := NewAudioStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	key := domain.NewChapterKey("gen", 1)

	require.NoError(t, store.Put(ctx, domain.AudioPayload{Key: key, Data: []byte("one"), Fingerprint: "1"}))
	require.NoError(t, store.Put(ctx, domain.AudioPayload{Key: key, Data: []byte("two"), Fingerprint: "2"}))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got.Data)
	assert.Equal(t, "2", got.Fingerprint)
}

func TestAudioStore_OpenFailureReadsAsAbsent(t *testing.T) {
	// A regular file where the data directory should be makes open fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store, err := NewAudioStore(blocker)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = store.Get(ctx, domain.NewChapterKey("gen", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Put(ctx, domain.AudioPayload{Key: domain.NewChapterKey("gen", 1), Data: []byte("x")})
	assert.Error(t, err)
}

func TestAudioStore_ClearAllUninitialised(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	store, err := NewAudioStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.ClearAll(context.Background()))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "clearing must not create the store")
}

func TestAudioStore_ClearAll(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := domain.NewChapterKey("gen", 1)

	writer, err := NewAudioStore(dir)
	require.NoError(t, err)
	require.NoError(t, writer.Put(ctx, domain.AudioPayload{Key: key, Data: []byte("x")}))
	require.NoError(t, writer.Close())

	// A fresh handle clears data persisted by an earlier run.
	store, err := NewAudioStore(dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.ClearAll(ctx))

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
