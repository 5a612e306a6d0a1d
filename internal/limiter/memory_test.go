package limiter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()
	key := ValidateKey(1001)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _ := l.Allow(ctx, key)
	require.False(t, ok)

	other, _ := l.Allow(ctx, ValidateKey(2002))
	require.True(t, other)

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, key)
	require.True(t, ok)
}

func TestMemoryLimiterEvictsEndedWindows(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1, time.Second)
	l.now = func() time.Time { return now }

	for i := 0; i < 4096; i++ {
		_, _ = l.Allow(context.Background(), fmt.Sprintf("k%d", i))
	}
	now = now.Add(2 * time.Second)
	_, _ = l.Allow(context.Background(), "fresh")

	require.Len(t, l.store, 1)
}

func TestMemoryLimiterSweepsAtMostOncePerInterval(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1, time.Second)
	l.sweepEvery = 10 * time.Second
	l.now = func() time.Time { return now }
	ctx := context.Background()

	// The insert that crosses the threshold sweeps; nothing has ended yet.
	for i := 0; i <= maxLiveWindows; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("k%d", i))
	}
	require.Len(t, l.store, maxLiveWindows+1)

	// Windows ended but the next sweep is not due.
	now = now.Add(2 * time.Second)
	_, _ = l.Allow(ctx, "early")
	require.Len(t, l.store, maxLiveWindows+2)

	now = now.Add(8 * time.Second)
	_, _ = l.Allow(ctx, "due")
	require.Len(t, l.store, 1)
	require.Contains(t, l.store, "due")
}

func TestUnlimited(t *testing.T) {
	ok, err := Unlimited{}.Allow(context.Background(), "x")
	require.NoError(t, err)
	require.True(t, ok)
}
