package limiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

const maxLiveWindows = 4096

// MemoryLimiter is a process-local fixed-window limiter. Ended windows are
// swept at most once per sweepEvery, and only once more than maxLiveWindows
// keys are held.
type MemoryLimiter struct {
	mu         sync.Mutex
	store      map[string]*window
	limit      int
	period     time.Duration
	sweepEvery time.Duration
	nextSweep  time.Time
	now        func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		store:      make(map[string]*window),
		limit:      limit,
		period:     period,
		sweepEvery: period,
		now:        time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.store[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.store[key] = w
	}
	w.count++
	if len(l.store) > maxLiveWindows && !now.Before(l.nextSweep) {
		l.evict(now)
		l.nextSweep = now.Add(l.sweepEvery)
	}
	return w.count <= l.limit, nil
}

// evict drops windows that already ended. Caller holds mu.
func (l *MemoryLimiter) evict(now time.Time) {
	for k, w := range l.store {
		if !now.Before(w.resetAt) {
			delete(l.store, k)
		}
	}
}
