package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupRedis(t *testing.T) *redis.Client {
	_ = godotenv.Load("../../../.env")

	rdb, err := NewRedisClient(Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       1,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	require.NoError(t, rdb.FlushDB(context.Background()).Err(), "Failed to flush test DB")
	return rdb
}

func TestRedisClient_Integration(t *testing.T) {
	rdb := setupRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	t.Run("Connection Ping", func(t *testing.T) {
		pong, err := rdb.Ping(ctx).Result()
		assert.NoError(t, err)
		assert.Equal(t, "PONG", pong)
	})

	t.Run("Set and Get Value", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "itera_test_key", "hello", time.Minute).Err())

		val, err := rdb.Get(ctx, "itera_test_key").Result()
		require.NoError(t, err)
		assert.Equal(t, "hello", val)
	})

	t.Run("Missing key is redis.Nil", func(t *testing.T) {
		_, err := rdb.Get(ctx, "itera_missing_key").Result()
		assert.ErrorIs(t, err, redis.Nil)
	})
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(Options{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestRedisNotifier_Integration(t *testing.T) {
	rdb := setupRedis(t)
	defer rdb.Close()

	ctx := context.Background()
	n := NewRedisNotifier(rdb)

	changes, release, err := n.Watch(ctx, "u1", domain.CollectionItera)
	require.NoError(t, err)

	require.NoError(t, n.Publish(ctx, "u1", domain.CollectionHabits))
	require.NoError(t, n.Publish(ctx, "u1", domain.CollectionItera))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal received")
	}

	release()
	release()

	_, ok := <-changes
	assert.False(t, ok, "channel should be closed after release")
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "trackers:u1:habits", ChannelName("u1", domain.CollectionHabits))
}
