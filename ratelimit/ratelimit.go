// Package ratelimit caps validation requests per source address over a
// sliding time window.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits or rejects a request attributed to a key.
type Limiter interface {
	Allow(key string) bool
}

// SlidingWindowLimiter keeps, per key, the timestamps of requests within the
// trailing window. Each call purges expired entries, records the new request
// and admits it iff the window still holds at most the limit. The mutex makes
// the read-modify-write atomic per limiter, so two concurrent requests from
// the same address cannot both slip past the limit.
type SlidingWindowLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	requests map[string][]time.Time
	now      func() time.Time
	stopChan chan struct{}
}

// New creates a limiter admitting at most limit requests per key within the
// trailing window, and starts a janitor that drops idle keys.
func New(limit int, window time.Duration) *SlidingWindowLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Hour
	}

	l := &SlidingWindowLimiter{
		limit:    limit,
		window:   window,
		requests: make(map[string][]time.Time),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Allow records a request for key and reports whether it is admitted.
// Rejected requests still occupy a slot in the window.
func (l *SlidingWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.requests[key][:0]
	for _, ts := range l.requests[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	l.requests[key] = kept

	return len(kept) <= l.limit
}

// Stop terminates the janitor goroutine.
func (l *SlidingWindowLimiter) Stop() {
	close(l.stopChan)
}

// cleanup drops keys whose every timestamp has left the window, bounding
// memory for one-off source addresses.
func (l *SlidingWindowLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-l.window)
			for key, timestamps := range l.requests {
				live := false
				for _, ts := range timestamps {
					if ts.After(cutoff) {
						live = true
						break
					}
				}
				if !live {
					delete(l.requests, key)
				}
			}
			l.mu.Unlock()
		case <-l.stopChan:
			return
		}
	}
}
