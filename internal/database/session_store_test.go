package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/config"
	"github.com/pageza/pantrychef/internal/types"
)

func setupRedisStore(t *testing.T) *RedisSessionStore {
	t.Helper()
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_HOST not set")
	}

	cfg := config.Default()
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	if port := os.Getenv("REDIS_PORT"); port != "" {
		cfg.RedisPort = port
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	client, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisSessionStore(client, time.Minute, 5*time.Second)
}

func TestRedisOptions(t *testing.T) {
	t.Run("host and port", func(t *testing.T) {
		cfg := config.Default()
		cfg.RedisHost = "cache"
		cfg.RedisPort = "6380"
		cfg.RedisDB = 2

		opts, err := RedisOptions(cfg)
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("url wins", func(t *testing.T) {
		cfg := config.Default()
		cfg.RedisURL = "redis://:pw@example.com:6390/3"

		opts, err := RedisOptions(cfg)
		require.NoError(t, err)
		assert.Equal(t, "example.com:6390", opts.Addr)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 3, opts.DB)
	})

	t.Run("bad url", func(t *testing.T) {
		cfg := config.Default()
		cfg.RedisURL = "http://nope"

		_, err := RedisOptions(cfg)
		assert.Error(t, err)
	})
}

func TestRedisSessionStore(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { store.client.Del(ctx, sessionKey(id)) })

	empty, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, empty.State.HasRecipe())

	s := types.NewSession(id)
	s.State.SetRecipe("Gazpacho")
	s.State.AppendTurn("Spicy?", "Add chili.")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Gazpacho", got.State.Recipe)
	assert.Len(t, got.State.ChatHistory, 1)

	ttl, err := store.client.TTL(ctx, sessionKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisSessionStoreLock(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	release, err := store.Acquire(ctx, id)
	require.NoError(t, err)

	_, err = store.Acquire(ctx, id)
	assert.ErrorIs(t, err, types.ErrSessionBusy)

	release()

	again, err := store.Acquire(ctx, id)
	require.NoError(t, err)
	again()
}

func setupMiniredisStore(t *testing.T, lockTTL time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client, time.Minute, lockTTL), mr
}

func TestRedisSessionStoreLockOutlivesTTL(t *testing.T) {
	lockTTL := 300 * time.Millisecond
	store, mr := setupMiniredisStore(t, lockTTL)
	ctx := context.Background()
	id := uuid.NewString()

	release, err := store.Acquire(ctx, id)
	require.NoError(t, err)

	// Advance past the original TTL in two steps with renewals in between.
	mr.FastForward(lockTTL * 6 / 10)
	time.Sleep(lockTTL)
	mr.FastForward(lockTTL * 6 / 10)

	_, err = store.Acquire(ctx, id)
	assert.ErrorIs(t, err, types.ErrSessionBusy, "a running call keeps its lock")

	release()
	assert.False(t, mr.Exists(lockKey(id)))

	again, err := store.Acquire(ctx, id)
	require.NoError(t, err)
	again()
}

func TestRedisSessionStoreLockExpiresWhenAbandoned(t *testing.T) {
	lockTTL := 300 * time.Millisecond
	store, mr := setupMiniredisStore(t, lockTTL)
	ctx := context.Background()
	id := uuid.NewString()

	release, err := store.Acquire(ctx, id)
	require.NoError(t, err)
	release()

	// simulate a holder that died without releasing
	require.NoError(t, mr.Set(lockKey(id), "someone-else"))
	mr.SetTTL(lockKey(id), lockTTL)
	mr.FastForward(2 * lockTTL)

	again, err := store.Acquire(ctx, id)
	require.NoError(t, err)
	again()
}
