package storage

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	store := NewRedisStore(client)

	assert.NotNil(t, store)
	assert.Equal(t, client, store.client)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `profile:\*:\?\[x\]`, escapeGlob("profile:*:?[x]"))
	assert.Equal(t, "profile:", escapeGlob("profile:"))
}

// TestRedisStore_RoundTrip runs against a live server when TEST_REDIS_ADDR is set
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	require.NoError(t, client.FlushDB(ctx).Err())

	store := NewRedisStore(client)

	_, found, err := store.Get(ctx, "ml-academy-leads")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "profile:a:ml-academy-user", "{}"))
	require.NoError(t, store.Set(ctx, "profile:b:ml-academy-user", "{}"))
	require.NoError(t, store.Set(ctx, "ml-academy-leads", "[]"))

	value, found, err := store.Get(ctx, "ml-academy-leads")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)

	keys, err := store.Keys(ctx, "profile:")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile:a:ml-academy-user", "profile:b:ml-academy-user"}, keys)

	require.NoError(t, store.Delete(ctx, "ml-academy-leads"))
	_, found, err = store.Get(ctx, "ml-academy-leads")
	require.NoError(t, err)
	assert.False(t, found)
}
