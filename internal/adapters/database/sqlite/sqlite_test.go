package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notifier.db")

	storage, err := NewStorage(path)
	require.NoError(t, err)

	_, found, err := storage.Get(ctx, "shown")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.Set(ctx, "shown", `["e1"]`))
	require.NoError(t, storage.Set(ctx, "shown", `["e1","e2"]`))
	require.NoError(t, storage.Close())

	reopened, err := NewStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, found, err := reopened.Get(ctx, "shown")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["e1","e2"]`, value)

	require.NoError(t, reopened.Remove(ctx, "shown"))
	_, found, err = reopened.Get(ctx, "shown")
	require.NoError(t, err)
	assert.False(t, found)
}
