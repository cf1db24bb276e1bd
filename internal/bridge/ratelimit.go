package bridge

import (
	"sync"
	"time"
)

// Limiter is an in-memory sliding-window rate limiter keyed by Telegram
// user ID. State resets on restart, like the rest of the relay.
type Limiter struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	timestamps map[int64][]time.Time

	now func() time.Time // test hook
}

// NewLimiter allows limit actions per user per window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:      limit,
		window:     window,
		timestamps: make(map[int64][]time.Time),
		now:        time.Now,
	}
}

// Allow reports whether the user may act now, recording the action if so.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.timestamps[userID][:0]
	for _, t := range l.timestamps[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.timestamps[userID] = recent
		return false
	}

	l.timestamps[userID] = append(recent, now)
	return true
}
