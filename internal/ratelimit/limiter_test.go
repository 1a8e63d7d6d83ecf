package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testMax    = 5
	testWindow = 15 * time.Minute
)

// limiterHarness runs the same property checks against both implementations.
type limiterHarness struct {
	limiter Limiter
	clock   *time.Time // advance to move the window
}

func (h *limiterHarness) advance(d time.Duration) {
	*h.clock = h.clock.Add(d)
}

func setupRedisLimiter(t *testing.T) *limiterHarness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	now := time.Now()
	l := NewRedisLimiter(client, testMax, testWindow, zap.NewNop())
	l.now = func() time.Time { return now }
	return &limiterHarness{limiter: l, clock: &now}
}

func setupMemoryLimiter(t *testing.T) *limiterHarness {
	t.Helper()
	now := time.Now()
	l := NewMemoryLimiter(testMax, testWindow)
	l.now = func() time.Time { return now }
	return &limiterHarness{limiter: l, clock: &now}
}

func forEachLimiter(t *testing.T, fn func(t *testing.T, h *limiterHarness)) {
	t.Run("redis", func(t *testing.T) { fn(t, setupRedisLimiter(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, setupMemoryLimiter(t)) })
}

func TestLimiterAllowsUpToMax(t *testing.T) {
	forEachLimiter(t, func(t *testing.T, h *limiterHarness) {
		ctx := context.Background()

		for i := 0; i < testMax; i++ {
			dec, err := h.limiter.Check(ctx, "admin_login", "a@x:1.2.3.4")
			require.NoError(t, err)
			assert.True(t, dec.Allowed, "attempt %d should be allowed", i+1)
			assert.Equal(t, testMax-i, dec.Remaining)
			require.NoError(t, h.limiter.Record(ctx, "admin_login", "a@x:1.2.3.4"))
		}

		dec, err := h.limiter.Check(ctx, "admin_login", "a@x:1.2.3.4")
		require.NoError(t, err)
		assert.False(t, dec.Allowed)
		assert.Greater(t, dec.RetryAfter, time.Duration(0))
		assert.LessOrEqual(t, dec.RetryAfter, testWindow)
	})
}

func TestLimiterWindowSlides(t *testing.T) {
	forEachLimiter(t, func(t *testing.T, h *limiterHarness) {
		ctx := context.Background()

		// Two early attempts, three late ones.
		for i := 0; i < 2; i++ {
			require.NoError(t, h.limiter.Record(ctx, "admin_login", "k"))
		}
		h.advance(10 * time.Minute)
		for i := 0; i < 3; i++ {
			require.NoError(t, h.limiter.Record(ctx, "admin_login", "k"))
		}

		dec, err := h.limiter.Check(ctx, "admin_login", "k")
		require.NoError(t, err)
		assert.False(t, dec.Allowed)

		// Another 6 minutes and the two early attempts age out.
		h.advance(6 * time.Minute)
		dec, err = h.limiter.Check(ctx, "admin_login", "k")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
		assert.Equal(t, 2, dec.Remaining)
	})
}

func TestLimiterClear(t *testing.T) {
	forEachLimiter(t, func(t *testing.T, h *limiterHarness) {
		ctx := context.Background()

		for i := 0; i < testMax; i++ {
			require.NoError(t, h.limiter.Record(ctx, "admin_login", "k"))
		}
		dec, err := h.limiter.Check(ctx, "admin_login", "k")
		require.NoError(t, err)
		require.False(t, dec.Allowed)

		require.NoError(t, h.limiter.Clear(ctx, "admin_login", "k"))
		dec, err = h.limiter.Check(ctx, "admin_login", "k")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
		assert.Equal(t, testMax, dec.Remaining)
	})
}

func TestLimiterBucketsAreIndependent(t *testing.T) {
	forEachLimiter(t, func(t *testing.T, h *limiterHarness) {
		ctx := context.Background()

		for i := 0; i < testMax; i++ {
			require.NoError(t, h.limiter.Record(ctx, "admin_login", "k1"))
		}

		// Same key under another action, and another key under the same action.
		dec, err := h.limiter.Check(ctx, "enduser_login", "k1")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)

		dec, err = h.limiter.Check(ctx, "admin_login", "k2")
		require.NoError(t, err)
		assert.True(t, dec.Allowed)
	})
}

func TestLimiterRetryAfterShrinks(t *testing.T) {
	forEachLimiter(t, func(t *testing.T, h *limiterHarness) {
		ctx := context.Background()

		for i := 0; i < testMax; i++ {
			require.NoError(t, h.limiter.Record(ctx, "admin_login", "k"))
		}

		first, err := h.limiter.Check(ctx, "admin_login", "k")
		require.NoError(t, err)
		require.False(t, first.Allowed)

		h.advance(5 * time.Minute)
		later, err := h.limiter.Check(ctx, "admin_login", "k")
		require.NoError(t, err)
		require.False(t, later.Allowed)
		assert.Less(t, later.RetryAfter, first.RetryAfter)
	})
}
