package slots

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	storage := NewStorage(client, "notifier:")

	_, found, err := storage.Get(ctx, "shown")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.Set(ctx, "shown", `["e1"]`))
	value, found, err := storage.Get(ctx, "shown")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["e1"]`, value)

	raw, err := server.Get("notifier:shown")
	require.NoError(t, err)
	assert.Equal(t, `["e1"]`, raw)
	assert.Zero(t, server.TTL("notifier:shown"))

	require.NoError(t, storage.Remove(ctx, "shown"))
	assert.False(t, server.Exists("notifier:shown"))
}

func TestStorageReportsConnectionErrors(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	storage := NewStorage(client, "")
	_, _, err := storage.Get(context.Background(), "shown")
	assert.Error(t, err)
	assert.Error(t, storage.Set(context.Background(), "shown", "[]"))
}
