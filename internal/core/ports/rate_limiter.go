package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides low-level atomic operations for rate limiting counters.
// It abstracts storage (e.g., Redis). Implementations should be concurrency-safe.
type RateLimitRepository interface {
	// IncrementWindow atomically increments the request counter for the subject in the
	// current window and ensures the key expires after ttl. Returns the updated count
	// and the window start time.
	IncrementWindow(ctx context.Context, subject string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RequestLimiterService is the per-subject HTTP request limiter. This is
// infrastructure-level abuse protection, separate from the access ledger that
// meters cities and support messages. It fails open on storage errors.
type RequestLimiterService interface {
	// Allow consumes one request unit for the subject and reports whether it is permitted.
	Allow(ctx context.Context, subject string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
