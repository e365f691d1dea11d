package http

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces request dispatch. Besides the steady token bucket it
// tracks the most recent Retry-After horizon announced by the service,
// so that one throttled request slows every request sharing the client.
type RateLimiter struct {
	limiter *rate.Limiter

	mu          sync.Mutex
	pausedUntil time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond sustained
// dispatches with a burst of the same size.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a dispatch slot is available or the context ends.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	pause := time.Until(r.pausedUntil)
	r.mu.Unlock()

	if pause > 0 {
		timer := time.NewTimer(pause)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRetryAfter pauses new dispatches until the service's announced
// horizon passes. Earlier horizons never shorten a recorded one.
func (r *RateLimiter) RecordRetryAfter(delay time.Duration) {
	if delay <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	until := time.Now().Add(delay)
	if until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// parseRetryAfter reads a Retry-After header in either the
// delta-seconds or the HTTP-date form.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(header); err == nil {
		return time.Until(at)
	}

	return 0
}
