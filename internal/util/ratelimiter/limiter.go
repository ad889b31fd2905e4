package ratelimiter

import (
	"sync"
	"time"
)

// Limiter allows one action per interval for each key.
// It is safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	interval    time.Duration
	lastAllowed map[string]time.Time
}

// New creates a new keyed rate limiter
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval:    interval,
		lastAllowed: make(map[string]time.Time),
	}
}

// Allow reports whether an action for key may run now.
// When blocked it returns the remaining wait duration.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	last, ok := l.lastAllowed[key]
	if !ok || now.Sub(last) >= l.interval {
		l.lastAllowed[key] = now
		l.prune(now)
		return true, 0
	}

	return false, l.interval - now.Sub(last)
}

// Forget clears the state for key, allowing its next action immediately
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	delete(l.lastAllowed, key)
	l.mu.Unlock()
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastAllowed)
}

// Interval returns the configured interval
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// prune drops keys whose interval has elapsed. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	for k, t := range l.lastAllowed {
		if now.Sub(t) >= l.interval {
			delete(l.lastAllowed, k)
		}
	}
}
