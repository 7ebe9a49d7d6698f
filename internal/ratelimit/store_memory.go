package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemory keeps a sliding window of admission times per key. It is local to
// one process; use Redis when running more than one replica.
type InMemory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{windows: make(map[string][]time.Time), now: time.Now}
}

func (s *InMemory) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.windows[key], now.Add(-window))

	if len(stamps) >= limit {
		s.windows[key] = stamps
		return Result{Allowed: false, Limit: limit, ResetAt: resetAt(stamps, now, window)}, nil
	}
	stamps = append(stamps, now)
	s.windows[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   resetAt(stamps, now, window),
	}, nil
}

// prune drops admissions at or before cutoff; stamps are in admission order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}

func resetAt(stamps []time.Time, now time.Time, window time.Duration) time.Time {
	if len(stamps) == 0 {
		return now.Add(window)
	}
	return stamps[0].Add(window)
}
