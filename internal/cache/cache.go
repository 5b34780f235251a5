// Package cache provides the read-through TTL cache that sits in front of
// every outbound provider call. Values are stored as JSON blobs so the same
// code path works for the in-memory and Redis backends.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Store is a key -> (value, fetched-at) mapping with per-entry expiry.
// Get reports a miss for absent and expired entries alike; Set replaces any
// prior entry atomically.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// GetOrCompute returns the cached value for key when present and fresh.
// On a miss it invokes compute; a successful result is stored with a new
// timestamp and returned, a failed one is returned as-is without touching
// the cache. Expired entries are never served, even when compute fails.
//
// Two concurrent misses for the same key may both invoke compute; the later
// write wins. Coalescing was deliberately left out, duplicate upstream calls
// are tolerable at this traffic level.
func GetOrCompute[T any](ctx context.Context, s Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Printf("cache read error for %s: %v", key, err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.Printf("cache entry for %s is not decodable, refetching", key)
	}

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := s.Set(ctx, key, raw, ttl); err != nil {
			log.Printf("cache write error for %s: %v", key, err)
		}
	}
	return v, nil
}
