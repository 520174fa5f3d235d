package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseGuard(t *testing.T, g SubmissionGuard) {
	t.Helper()
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "11987654321")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, "11987654321")
	require.NoError(t, err)
	assert.False(t, ok, "second acquire for the same key must fail")

	ok, err = g.Acquire(ctx, "1198765432")
	require.NoError(t, err)
	assert.True(t, ok, "other keys are independent")

	require.NoError(t, g.Release(ctx, "11987654321"))

	ok, err = g.Acquire(ctx, "11987654321")
	require.NoError(t, err)
	assert.True(t, ok, "acquire after release must succeed")
}

func TestMemoryGuard(t *testing.T) {
	exerciseGuard(t, NewMemoryGuard(time.Minute))
}

func TestMemoryGuardExpires(t *testing.T) {
	g := NewMemoryGuard(time.Minute)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	ok, _ := g.Acquire(context.Background(), "k")
	require.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = g.Acquire(context.Background(), "k")
	assert.True(t, ok, "expired entry must not block")
}

func TestRedisGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	g := NewRedisGuard(client, 30*time.Second)
	exerciseGuard(t, g)

	assert.True(t, mr.Exists("cbs:landing:submission:1198765432"))
	assert.Equal(t, 30*time.Second, mr.TTL("cbs:landing:submission:1198765432"))

	mr.FastForward(31 * time.Second)
	ok, err := g.Acquire(context.Background(), "1198765432")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisGuardReportsConnectionErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	_, err := NewRedisGuard(client, time.Second).Acquire(context.Background(), "k")
	assert.Error(t, err)
}
