package auth

import (
	"sync"
	"time"
)

const (
	MaxLoginAttempts = 5
	LockoutWindow    = 15 * time.Minute
)

type loginEntry struct {
	failures    int
	lastFailure time.Time
}

// LoginLimiter tracks failed admin logins per client identifier. Expiry is
// evaluated when an identifier is checked, so no background timer is needed.
type LoginLimiter struct {
	mu          sync.Mutex
	entries     map[string]*loginEntry
	maxAttempts int
	window      time.Duration
	nowFunc     func() time.Time
}

type LimiterOption func(*LoginLimiter)

// WithClock replaces time.Now as the limiter's time source.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *LoginLimiter) {
		l.nowFunc = now
	}
}

func NewLoginLimiter(opts ...LimiterOption) *LoginLimiter {
	l := &LoginLimiter{
		entries:     make(map[string]*loginEntry),
		maxAttempts: MaxLoginAttempts,
		window:      LockoutWindow,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LoginLimiter) stale(e *loginEntry, now time.Time) bool {
	return now.Sub(e.lastFailure) > l.window
}

// Check reports whether another login attempt from id is permitted.
func (l *LoginLimiter) Check(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		return true
	}
	if l.stale(e, l.nowFunc()) {
		return true
	}
	return e.failures < l.maxAttempts
}

// Begin reserves a login attempt for id. Under one lock it refuses when id
// is locked out, and otherwise counts the attempt as a failure up front so
// concurrent attempts cannot all slip past the limit. A successful login is
// reported with Record(id, true), which clears the entry.
func (l *LoginLimiter) Begin(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	e, ok := l.entries[id]
	if !ok || l.stale(e, now) {
		l.entries[id] = &loginEntry{failures: 1, lastFailure: now}
		return true
	}
	if e.failures >= l.maxAttempts {
		return false
	}
	e.failures++
	e.lastFailure = now
	return true
}

// Record registers the outcome of an attempt. A success clears the
// identifier; a failure counts toward the lockout, starting over when the
// previous failure is outside the window.
func (l *LoginLimiter) Record(id string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if success {
		delete(l.entries, id)
		return
	}

	now := l.nowFunc()
	e, ok := l.entries[id]
	if !ok || l.stale(e, now) {
		l.entries[id] = &loginEntry{failures: 1, lastFailure: now}
		return
	}
	e.failures++
	e.lastFailure = now
}

// RetryAfter returns how long id remains locked out, or 0 when it is not.
func (l *LoginLimiter) RetryAfter(id string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok || e.failures < l.maxAttempts {
		return 0
	}
	now := l.nowFunc()
	if l.stale(e, now) {
		return 0
	}
	return e.lastFailure.Add(l.window).Sub(now)
}

// Sweep removes identifiers whose lockout window has elapsed and returns how
// many were evicted.
func (l *LoginLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	n := 0
	for id, e := range l.entries {
		if l.stale(e, now) {
			delete(l.entries, id)
			n++
		}
	}
	return n
}
