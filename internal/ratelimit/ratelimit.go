// Package ratelimit limits how often a client may submit groups.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter provides rate limit checks.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}

type memoryEntry struct {
	window int64
	count  int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter.
type MemoryLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	counters map[string]*memoryEntry
}

// Ensure MemoryLimiter implements Limiter
var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter constructs a MemoryLimiter with the given window length.
func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		window:   window,
		counters: make(map[string]*memoryEntry),
	}
}

// Allow checks whether the request should be allowed in the current window.
// A non-positive limit or empty key always allows.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	win := now.UnixNano() / int64(l.window)
	reset := time.Unix(0, (win+1)*int64(l.window)).UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.counters[key]
	if entry == nil {
		entry = &memoryEntry{window: win}
		l.counters[key] = entry
	}
	if entry.window != win {
		entry.window = win
		entry.count = 0
	}
	if entry.count >= limit {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	return Result{Allowed: true, Remaining: limit - entry.count, Reset: reset}, nil
}

// Prune drops counters from windows before now. Call periodically to bound
// memory when many distinct clients submit.
func (l *MemoryLimiter) Prune(now time.Time) int {
	win := now.UnixNano() / int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, entry := range l.counters {
		if entry.window < win {
			delete(l.counters, key)
			removed++
		}
	}
	return removed
}

// RunPruner prunes stale counters every window until ctx is done.
func (l *MemoryLimiter) RunPruner(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Prune(now)
		}
	}
}
