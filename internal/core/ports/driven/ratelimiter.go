package driven

import "context"

// RateLimiter gates outbound API calls.
// A single instance is shared by every caller in the process.
type RateLimiter interface {
	// Acquire blocks until a permit is granted or ctx is done.
	// Permits are never returned, even when the gated call fails.
	Acquire(ctx context.Context) error
}
