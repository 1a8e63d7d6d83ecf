package autherr

import (
	"errors"
	"fmt"
	"time"
)

// Pipeline error taxonomy. Handlers map these to HTTP status codes;
// callers never see which internal check produced an Unauthenticated.
var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrTenantRequired   = errors.New("tenant required")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// RateLimitedError carries the retry_after hint for 429 responses.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}
