package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/safespace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// unreachableRedis points at a port nothing listens on
func unreachableRedis() config.RedisConfig {
	return config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
}

func TestFactory_DisabledUsesInMemory(t *testing.T) {
	f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false})

	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestFactory_UnreachableFallsBackWithWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewIdempotencyStoreFactory(unreachableRedis(), WithLogger(zap.New(core)))

	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
}

func TestFactory_FallbackDisallowed(t *testing.T) {
	f := NewIdempotencyStoreFactory(unreachableRedis(), WithInMemoryFallback(false))

	store, err := f.CreateStore(context.Background())
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestFactory_SharedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	f := NewIdempotencyStoreFactory(config.RedisConfig{}, WithClient(client))
	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)

	rs, ok := store.(*RedisIdempotencyStore)
	require.True(t, ok)
	assert.Equal(t, DefaultKeyPrefix, rs.keyPrefix)
	assert.NoError(t, rs.Close(), "shared client must stay open")
}

func TestRedisIdempotencyStore_Errors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	store := NewRedisIdempotencyStoreWithClient(client, "test:")
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k", 0)
	assert.ErrorContains(t, err, "failed to reserve idempotency key")

	_, err = store.IsReserved(ctx, "k")
	assert.ErrorContains(t, err, "failed to check idempotency key")

	assert.ErrorContains(t, store.Release(ctx, "k"), "failed to release idempotency key")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	client, err := NewRedisClient(context.Background(), unreachableRedis())
	assert.Error(t, err)
	assert.Nil(t, client)
}
