package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisLimiter keeps one ZSET per bucket, scored by attempt time in
// milliseconds. Window pruning and counting run in one pipeline, so
// concurrent logins against the same key cannot lose attempts the way the
// old read-filter-rewrite file store could.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger

	now func() time.Time // test override
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		max:    max,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

var _ Limiter = (*RedisLimiter)(nil)

func (l *RedisLimiter) Check(ctx context.Context, action, key string) (Decision, error) {
	k := bucketKey(action, key)
	now := l.now()
	cutoff := now.Add(-l.window).UnixMilli()

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(cutoff, 10))
	cardCmd := pipe.ZCard(ctx, k)
	oldestCmd := pipe.ZRangeWithScores(ctx, k, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	count := int(cardCmd.Val())
	if count < l.max {
		return Decision{Allowed: true, Remaining: l.max - count}, nil
	}

	retry := l.window
	if oldest := oldestCmd.Val(); len(oldest) > 0 {
		oldestMs := int64(oldest[0].Score)
		retry = time.Duration(oldestMs+l.window.Milliseconds()-now.UnixMilli()) * time.Millisecond
	}
	if retry <= 0 {
		retry = time.Second
	}

	l.logger.Warn("Rate limit exceeded",
		zap.String("action", action),
		zap.Int("attempts", count),
		zap.Duration("retry_after", retry),
	)
	return Decision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
}

func (l *RedisLimiter) Record(ctx context.Context, action, key string) error {
	k := bucketKey(action, key)
	now := l.now()

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, k, &redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

func (l *RedisLimiter) Clear(ctx context.Context, action, key string) error {
	if err := l.client.Del(ctx, bucketKey(action, key)).Err(); err != nil {
		return fmt.Errorf("failed to clear rate limit: %w", err)
	}
	return nil
}
