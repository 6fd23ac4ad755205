// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit throttles password login attempts. Two sliding windows
// run side by side: a per-IP window that slows credential spraying, and a
// per-email window that protects individual accounts even when the attempts
// come from many addresses.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// attemptCounter is a fixed-window counter keyed by string. Safe for
// concurrent use; stale keys are swept by a background loop.
type attemptCounter struct {
	mu    sync.Mutex
	seen  map[string]*bucket
	max   int
	reset time.Duration
}

type bucket struct {
	attempts int
	until    time.Time
}

func newAttemptCounter(max int, reset time.Duration) *attemptCounter {
	c := &attemptCounter{
		seen:  make(map[string]*bucket),
		max:   max,
		reset: reset,
	}
	go c.sweep()
	return c
}

// allow records one attempt for key and reports whether it stayed under
// the window's limit.
func (c *attemptCounter) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	b, ok := c.seen[key]
	if !ok || now.After(b.until) {
		c.seen[key] = &bucket{attempts: 1, until: now.Add(c.reset)}
		return true
	}
	if b.attempts >= c.max {
		return false
	}
	b.attempts++
	return true
}

func (c *attemptCounter) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, key)
}

func (c *attemptCounter) sweep() {
	ticker := time.NewTicker(c.reset * 2)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, b := range c.seen {
			if now.After(b.until) {
				delete(c.seen, key)
			}
		}
		c.mu.Unlock()
	}
}

// ClientIP returns the originating client address: first X-Forwarded-For
// entry, then X-Real-IP, then RemoteAddr with the port stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LoginLimiter gates login attempts by client IP and by target account.
type LoginLimiter struct {
	byIP    *attemptCounter
	byEmail *attemptCounter
}

// NewLoginLimiter uses the production thresholds: 10 attempts per IP per
// minute, 5 attempts per email per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return newLoginLimiter(10, time.Minute, 5, 5*time.Minute)
}

func newLoginLimiter(ipMax int, ipReset time.Duration, emailMax int, emailReset time.Duration) *LoginLimiter {
	return &LoginLimiter{
		byIP:    newAttemptCounter(ipMax, ipReset),
		byEmail: newAttemptCounter(emailMax, emailReset),
	}
}

// Check records one attempt and reports whether it may proceed; a false
// result carries a user-safe reason.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.byIP.allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := emailKey(email); key != "" && !ll.byEmail.allow(key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the account window after a successful login so a user
// who finally remembered their password is not locked out.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := emailKey(email); key != "" {
		ll.byEmail.forget(key)
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
