// Package ratelimit admits or rejects caller requests with a fixed-window
// counter per caller token.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLimited is returned when a caller has exhausted its window.
var ErrLimited = errors.New("rate limit exceeded")

// Admission decides whether a caller's request is admitted. The check
// runs before any retrieval or provider call so throttled traffic never
// spends provider quota.
type Admission interface {
	Allow(ctx context.Context, token string) error
}

// window tracks one caller's current fixed window.
type window struct {
	count int
	start time.Time
}

// Limiter is an in-process fixed-window limiter keyed by caller token.
// A burst straddling a window boundary can admit up to twice the limit in
// a short span; that is the fixed-window tradeoff, kept intentionally.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration
	now     func() time.Time // injectable for tests
}

// New creates a Limiter admitting max requests per period per token.
func New(max int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
	}
}

// Allow admits the request or returns ErrLimited. The read-check-increment
// runs under one lock, so concurrent requests from the same token cannot
// both observe a stale count.
func (l *Limiter) Allow(ctx context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[token]
	if !ok || now.Sub(w.start) > l.period {
		l.windows[token] = &window{count: 1, start: now}
		return nil
	}

	if w.count >= l.max {
		return ErrLimited
	}
	w.count++
	return nil
}
