// Package ratelimit implements the per-identity cooldown applied to
// conversation transitions.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter remembers when each identity last made an allowed transition.
type Limiter struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[int64]time.Time
}

// New returns a Limiter with the given cooldown window. A nil clock means time.Now.
func New(window time.Duration, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		window: window,
		now:    now,
		last:   make(map[int64]time.Time),
	}
}

// Window returns the configured cooldown.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Allow reports whether id may transition now. Only allowed calls are
// recorded, so a limited identity is not pushed further out by retrying.
func (l *Limiter) Allow(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if prev, ok := l.last[id]; ok && now.Sub(prev) < l.window {
		return false
	}
	l.last[id] = now
	return true
}

// Reset forgets id.
func (l *Limiter) Reset(id int64) {
	l.mu.Lock()
	delete(l.last, id)
	l.mu.Unlock()
}

// Prune drops entries older than maxAge and returns how many were removed.
func (l *Limiter) Prune(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxAge)
	removed := 0
	for id, at := range l.last {
		if at.Before(cutoff) {
			delete(l.last, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
