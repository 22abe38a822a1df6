// File: /ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome of a single limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Limiter bounds action frequency per identifier within fixed time
// windows. Identifiers are composed by the caller, e.g. "post:" plus
// the client address. Windows reset entirely rather than sliding, so
// a burst straddling two windows can admit up to twice the cap in a
// short span; that approximation is accepted.
type Limiter interface {
	Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) Result
}

type record struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps windows in a process-local map. It constrains a
// single running instance only; a multi-instance deployment grants
// each instance its own quota unless the Redis limiter is used.
type MemoryLimiter struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	l := &MemoryLimiter{
		records: make(map[string]*record),
		now:     time.Now,
	}

	// Drop expired windows periodically to keep the map bounded.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			l.cleanup()
		}
	}()

	return l
}

// newTestLimiter wires an injectable clock; used by tests only.
func newTestLimiter(now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		records: make(map[string]*record),
		now:     now,
	}
}

func (l *MemoryLimiter) Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, exists := l.records[identifier]

	if !exists || now.After(rec.resetAt) {
		l.records[identifier] = &record{count: 1, resetAt: now.Add(window)}
		return Result{Allowed: true, Remaining: maxRequests - 1, ResetIn: window}
	}

	if rec.count >= maxRequests {
		return Result{Allowed: false, Remaining: 0, ResetIn: rec.resetAt.Sub(now)}
	}

	rec.count++
	return Result{Allowed: true, Remaining: maxRequests - rec.count, ResetIn: rec.resetAt.Sub(now)}
}

func (l *MemoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, id)
		}
	}
}
