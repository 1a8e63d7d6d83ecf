package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps the sliding window as an in-process timestamp list,
// for DB-less dev mode and tests. Same semantics as RedisLimiter.
type MemoryLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	buckets map[string][]time.Time

	now func() time.Time // test override
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  window,
		buckets: map[string][]time.Time{},
		now:     time.Now,
	}
}

var _ Limiter = (*MemoryLimiter)(nil)

func (l *MemoryLimiter) prune(k string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.buckets[k][:0]
	for _, ts := range l.buckets[k] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.buckets, k)
		return nil
	}
	l.buckets[k] = kept
	return kept
}

func (l *MemoryLimiter) Check(_ context.Context, action, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	attempts := l.prune(bucketKey(action, key), now)
	if len(attempts) < l.max {
		return Decision{Allowed: true, Remaining: l.max - len(attempts)}, nil
	}

	retry := attempts[0].Add(l.window).Sub(now)
	if retry <= 0 {
		retry = time.Second
	}
	return Decision{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
}

func (l *MemoryLimiter) Record(_ context.Context, action, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := bucketKey(action, key)
	now := l.now()
	l.prune(k, now)
	l.buckets[k] = append(l.buckets[k], now)
	return nil
}

func (l *MemoryLimiter) Clear(_ context.Context, action, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, bucketKey(action, key))
	return nil
}
