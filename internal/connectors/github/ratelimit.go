package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
	"github.com/custodia-labs/repodrop/internal/logger"
)

// Ensure RateLimiter implements the interface.
var _ driven.RateLimiter = (*RateLimiter)(nil)

const (
	// GitHubRateLimit is the authenticated rate limit (5000/hour).
	GitHubRateLimit = 5000

	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 100

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

var rlog = logger.For("ratelimit")

// RateLimitConfig configures a RateLimiter.
type RateLimitConfig struct {
	// MaxRequests is the number of permits granted per window.
	MaxRequests int

	// Window is the length of a permit window.
	Window time.Duration

	// PerSecond smooths bursts with a token bucket. Zero disables it.
	PerSecond float64

	// MinBuffer is the API quota held in reserve. Zero uses MinBuffer.
	MinBuffer int
}

// RateLimiter gates outbound GitHub calls.
//
// Permits come from a fixed window: up to MaxRequests grants, after which
// callers sleep until the window ends and a fresh window starts. On top of
// the window it keeps the quota GitHub reports in response headers and holds
// callers back when that quota is nearly spent.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	permits     int       // Left in the current window
	windowStart time.Time // Zero until the first grant

	remaining int       // From API header
	limit     int       // From API header
	resetTime time.Time // From API header
	minBuffer int

	bucket *rate.Limiter // Proactive smoothing
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = GitHubRateLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.MinBuffer <= 0 {
		cfg.MinBuffer = MinBuffer
	}

	limit := rate.Inf
	if cfg.PerSecond > 0 {
		limit = rate.Limit(cfg.PerSecond)
	}

	return &RateLimiter{
		maxRequests: cfg.MaxRequests,
		window:      cfg.Window,
		permits:     cfg.MaxRequests,
		remaining:   GitHubRateLimit, // Assume full quota initially
		limit:       GitHubRateLimit,
		minBuffer:   cfg.MinBuffer,
		bucket:      rate.NewLimiter(limit, 1),
		now:         time.Now,
	}
}

// Acquire blocks until a permit is granted.
// The only way to abandon the wait is to cancel ctx.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	for {
		wait, ok := r.tryAcquire()
		if ok {
			break
		}
		rlog.Debug("window exhausted, waiting %s", wait)
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}

	return r.WaitForQuota(ctx)
}

// tryAcquire takes a permit if one is left in the current window.
// Otherwise it returns the time until the window ends.
func (r *RateLimiter) tryAcquire() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.windowStart.IsZero() || !now.Before(r.windowStart.Add(r.window)) {
		r.windowStart = now
		r.permits = r.maxRequests
	}

	if r.permits > 0 {
		r.permits--
		return 0, true
	}
	return r.windowStart.Add(r.window).Sub(now), false
}

// WaitForQuota blocks while GitHub reports fewer than MinBuffer remaining
// requests and the reported reset time is still ahead.
func (r *RateLimiter) WaitForQuota(ctx context.Context) error {
	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	now := r.now()
	r.mu.Unlock()

	if remaining >= r.minBuffer || !now.Before(resetTime) {
		return nil
	}

	wait := resetTime.Sub(now)
	rlog.Warn("API quota low (%d remaining), waiting %s for reset", remaining, wait)
	return sleep(ctx, wait)
}

// Permits returns the permits left in the current window.
func (r *RateLimiter) Permits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.windowStart.IsZero() || !r.now().Before(r.windowStart.Add(r.window)) {
		return r.maxRequests
	}
	return r.permits
}

// UpdateFromResponse updates quota state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}

	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}

	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// CheckRateLimit updates state from resp and returns a RateLimitError
// if the response indicates rate limiting.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.UpdateFromResponse(resp)

	r.mu.Lock()
	resetTime := r.resetTime
	remaining := r.remaining
	limit := r.limit
	r.mu.Unlock()

	if resp.StatusCode != http.StatusTooManyRequests &&
		(resp.StatusCode != http.StatusForbidden || remaining != 0) {
		return nil
	}

	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			resetTime = r.now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return &RateLimitError{
		ResetAt:   resetTime,
		Remaining: remaining,
		Limit:     limit,
	}
}

// Remaining returns the API quota reported by GitHub.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the API limit reported by GitHub.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns when GitHub resets the API quota.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
