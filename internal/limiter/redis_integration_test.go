//go:build integration

package limiter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisLimiterRestoresMissingTTL(t *testing.T) {
	addr := os.Getenv("PROMO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PROMO_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	cli, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	key := ValidateKey(time.Now().UnixNano())
	t.Cleanup(func() { cli.Del(context.Background(), key) })

	// A counter already past the limit with no TTL, as a crashed writer leaves it.
	require.NoError(t, cli.Set(ctx, key, 5, 0).Err())

	l := NewRedisLimiter(cli, 2, time.Minute)
	ok, err := l.Allow(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	ttl, err := cli.PTTL(ctx, key).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)

	fresh := key + ":fresh"
	t.Cleanup(func() { cli.Del(context.Background(), fresh) })
	ok, err = l.Allow(ctx, fresh)
	require.NoError(t, err)
	require.True(t, ok)
	ttl, err = cli.PTTL(ctx, fresh).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}
