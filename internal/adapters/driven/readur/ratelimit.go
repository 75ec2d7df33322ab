package readur

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// DefaultRetryAfter is the back-off used when a 429 carries no
	// Retry-After header.
	DefaultRetryAfter = 5 * time.Second
)

// RateLimiter throttles requests to the server.
//
// Requests pass a token bucket (proactive) and are held back after a 429
// until the server's Retry-After has elapsed (reactive).
type RateLimiter struct {
	mu           sync.Mutex
	clock        clock.Clock
	bucket       *rate.Limiter
	blockedUntil time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// A non-positive rps disables proactive throttling.
func NewRateLimiter(rps float64, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.New()
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &RateLimiter{
		clock:  clk,
		bucket: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	blockedUntil := r.blockedUntil
	r.mu.Unlock()

	now := r.clock.Now()
	if !now.Before(blockedUntil) {
		return nil
	}

	timer := r.clock.Timer(blockedUntil.Sub(now))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CheckRateLimit inspects a response. For a 429 it records the back-off and
// returns a *RateLimitError; otherwise it returns nil.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	now := r.clock.Now()
	retryAt := now.Add(parseRetryAfter(resp.Header.Get(HeaderRetryAfter), now))

	r.mu.Lock()
	if retryAt.After(r.blockedUntil) {
		r.blockedUntil = retryAt
	}
	r.mu.Unlock()

	return &RateLimitError{RetryAt: retryAt}
}

// BlockedUntil returns the end of the current back-off, if any.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockedUntil
}

func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return DefaultRetryAfter
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return DefaultRetryAfter
}
