package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

func TestNew_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := New(ctx, Options{ConfigDir: dir, Credentials: &domain.Credentials{}})
	require.NoError(t, err)
	require.NoError(t, a.Settings.Set("storage.backend", "memory"))
	require.NoError(t, a.Close())

	a, err = New(ctx, Options{ConfigDir: dir, Credentials: &domain.Credentials{}})
	require.NoError(t, err)
	defer a.Close()

	settings, err := a.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)

	require.NotNil(t, a.Chapters)
	require.NotNil(t, a.Reader)
	assert.NotEmpty(t, a.Warnings, "missing keys are reported")
	assert.NotEmpty(t, a.Works.List())
}

func TestNew_SQLiteBackend(t *testing.T) {
	dir := t.TempDir()

	a, err := New(context.Background(), Options{ConfigDir: dir, Credentials: &domain.Credentials{GeminiAPIKey: "k"}})
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Warnings)
	_, err = a.Cache.Clear(context.Background(), true)
	assert.NoError(t, err)
}

func TestNew_PostgresWithoutDSN(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := New(ctx, Options{ConfigDir: dir, Credentials: &domain.Credentials{}})
	require.NoError(t, err)
	require.NoError(t, a.Settings.Set("storage.backend", "postgres"))
	require.NoError(t, a.Close())

	_, err = New(ctx, Options{ConfigDir: dir, Credentials: &domain.Credentials{}})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
