package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a sliding-window attempt counter, keyed by hash(action:key).
// Check never records; callers Record after a failed attempt and Clear after
// a successful one so a later failure starts a fresh count.
type Limiter interface {
	Check(ctx context.Context, action, key string) (Decision, error)
	Record(ctx context.Context, action, key string) error
	Clear(ctx context.Context, action, key string) error
}

// bucketKey hashes action:key so raw emails/IPs never appear in the store.
func bucketKey(action, key string) string {
	sum := sha256.Sum256([]byte(action + ":" + key))
	return "ratelimit:" + hex.EncodeToString(sum[:])
}
