// Package ratelimit implements sliding-window admission control for
// login attempts, keyed by source IP.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks login attempt timestamps per IP. It is an explicitly
// owned object injected into the auth service, not process-global state.
// All methods are safe for concurrent use.
type Limiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	window      time.Duration
	maxAttempts int

	// now is a test seam for the clock.
	now func() time.Time
}

// New returns a Limiter that locks an IP once maxAttempts attempts have
// been recorded within the trailing window.
func New(maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		attempts:    make(map[string][]time.Time),
		window:      window,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// RecordAttempt appends the current timestamp to the IP's history.
// Both failed and successful logins are recorded.
func (l *Limiter) RecordAttempt(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[ip] = append(l.attempts[ip], l.now())
}

// IsLocked prunes entries older than the window and reports whether the
// remaining attempt count has reached the limit.
func (l *Limiter) IsLocked(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(ip)
	return len(recent) >= l.maxAttempts
}

// prune drops entries older than the window for ip and returns the rest.
// Caller must hold l.mu.
func (l *Limiter) prune(ip string) []time.Time {
	history, ok := l.attempts[ip]
	if !ok {
		return nil
	}

	cutoff := l.now().Add(-l.window)

	// Appended in call order, so history is time-ordered: find the first
	// entry still inside the window and keep the tail.
	i := 0
	for i < len(history) && !history[i].After(cutoff) {
		i++
	}

	if i == len(history) {
		delete(l.attempts, ip)
		return nil
	}
	if i > 0 {
		history = history[i:]
		l.attempts[ip] = history
	}
	return history
}
