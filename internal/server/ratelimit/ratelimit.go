// Package ratelimit provides fixed-window rate limiting keyed by caller
// identity, used to guard expensive layout generation and export calls.
package ratelimit

import (
	"fmt"
	"time"
)

// Config holds the configuration of one named limiter.
type Config struct {
	MaxRequests int           // Maximum requests per window
	Window      time.Duration // Window length
	Message     string        // User-facing message on exhaustion
}

// Result describes the limiter's view of one identity at one moment.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration // Zero unless the request was denied
}

// Error is the structured rate-limit error raised by Consume on exhaustion.
// It is recoverable: callers should back off for RetryAfter and try again.
type Error struct {
	Limiter    string
	Message    string
	RetryAfter time.Duration
	ResetTime  time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded on %s: %s (retry after %s)", e.Limiter, e.Message, e.RetryAfter)
}

// Limiter is a fixed-window rate limiter. The first request from an identity
// opens a window; requests inside the window count against MaxRequests and
// the counter resets on the first check after the window elapses. Each
// identity is tracked independently, so an unseen identity always succeeds.
//
// State lives in an injectable Store so tests and separate server instances
// hold isolated counters; there is no process-global state in this package.
type Limiter struct {
	name  string
	cfg   Config
	store Store
	now   func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithStore uses a caller-supplied window store.
func WithStore(s Store) Option {
	return func(l *Limiter) { l.store = s }
}

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a named limiter. The name appears in errors and lets one
// service carry several independent limiters (e.g. generation vs. export).
func New(name string, cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		name:  name,
		cfg:   cfg,
		store: NewMemoryStore(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the limiter's name.
func (l *Limiter) Name() string { return l.name }

// Check reports the identity's current standing without consuming a unit.
// Its only side effect is bookkeeping: an elapsed window is cleared.
func (l *Limiter) Check(identity string) Result {
	now := l.now()
	var res Result
	l.store.Update(identity, func(w Window, ok bool) (Window, bool) {
		if !ok || !now.Before(w.Start.Add(l.cfg.Window)) {
			// No live window: the next request would open a fresh one.
			res = Result{
				Allowed:   true,
				Limit:     l.cfg.MaxRequests,
				Remaining: l.cfg.MaxRequests,
				ResetTime: now.Add(l.cfg.Window),
			}
			return Window{}, false
		}
		reset := w.Start.Add(l.cfg.Window)
		remaining := l.cfg.MaxRequests - w.Count
		if remaining > 0 {
			res = Result{Allowed: true, Limit: l.cfg.MaxRequests, Remaining: remaining, ResetTime: reset}
		} else {
			res = Result{Allowed: false, Limit: l.cfg.MaxRequests, Remaining: 0, ResetTime: reset, RetryAfter: reset.Sub(now)}
		}
		return w, true
	})
	return res
}

// Consume performs the same check and deducts one unit on success. On
// exhaustion it leaves the counter untouched and returns a *Error carrying
// the retry hint.
func (l *Limiter) Consume(identity string) (Result, error) {
	now := l.now()
	var res Result
	l.store.Update(identity, func(w Window, ok bool) (Window, bool) {
		if !ok || !now.Before(w.Start.Add(l.cfg.Window)) {
			res = Result{
				Allowed:   true,
				Limit:     l.cfg.MaxRequests,
				Remaining: l.cfg.MaxRequests - 1,
				ResetTime: now.Add(l.cfg.Window),
			}
			return Window{Start: now, Count: 1}, true
		}
		reset := w.Start.Add(l.cfg.Window)
		if w.Count < l.cfg.MaxRequests {
			w.Count++
			res = Result{
				Allowed:   true,
				Limit:     l.cfg.MaxRequests,
				Remaining: l.cfg.MaxRequests - w.Count,
				ResetTime: reset,
			}
			return w, true
		}
		res = Result{
			Allowed:    false,
			Limit:      l.cfg.MaxRequests,
			Remaining:  0,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}
		return w, true
	})
	if !res.Allowed {
		return res, &Error{
			Limiter:    l.name,
			Message:    l.message(),
			RetryAfter: res.RetryAfter,
			ResetTime:  res.ResetTime,
		}
	}
	return res, nil
}

// Reset clears one identity's window, used by tests and admin overrides.
func (l *Limiter) Reset(identity string) {
	l.store.Delete(identity)
}

func (l *Limiter) message() string {
	if l.cfg.Message != "" {
		return l.cfg.Message
	}
	return "too many requests"
}
