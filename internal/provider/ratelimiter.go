package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding calls to free-tier upstream APIs.
type RateLimiter struct {
	mu          sync.Mutex
	tokens      int
	capacity    int
	refillEvery time.Duration
	lastRefill  time.Time
}

// NewRateLimiter allows capacity calls immediately, then one more per
// refillEvery.
func NewRateLimiter(capacity int, refillEvery time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:      capacity,
		capacity:    capacity,
		refillEvery: refillEvery,
		lastRefill:  time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.refillEvery):
		}
	}
}

func (r *RateLimiter) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if earned := int(time.Since(r.lastRefill) / r.refillEvery); earned > 0 {
		r.tokens += earned
		if r.tokens > r.capacity {
			r.tokens = r.capacity
		}
		r.lastRefill = r.lastRefill.Add(time.Duration(earned) * r.refillEvery)
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
