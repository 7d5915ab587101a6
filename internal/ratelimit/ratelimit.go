// Package ratelimit provides a keyed token-bucket limiter. Fan-out
// jobs use it to pace their document scans so a thumbnail rewrite
// can't monopolize the store.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedLimiter manages per-key rate limiting. Each unique key gets its
// own independent token bucket.
type KeyedLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed limiter allowing rps operations per second with
// the given burst per key.
func New(rps float64, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether an operation for the key may proceed right
// now, without blocking.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getLimiter(key).Allow()
}

// Wait blocks until an operation for the key is allowed or the context
// is canceled.
func (kl *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return kl.getLimiter(key).Wait(ctx)
}

func (kl *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	kl.mu.RLock()
	limiter, exists := kl.limiters[key]
	kl.mu.RUnlock()

	if exists {
		return limiter
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	if limiter, exists = kl.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(kl.limit, kl.burst)
	kl.limiters[key] = limiter
	return limiter
}
