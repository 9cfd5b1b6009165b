package httpapi

import (
	"sync"
	"time"
)

// RateLimiter скользящее окно на каждого студента
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) IsAllowed(studentID string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()

	if requests, exists := rl.requests[studentID]; exists {
		var valid []time.Time
		for _, t := range requests {
			if now.Sub(t) < rl.window {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(rl.requests, studentID)
		} else {
			rl.requests[studentID] = valid
		}
	}

	if len(rl.requests[studentID]) >= rl.limit {
		return false
	}

	rl.requests[studentID] = append(rl.requests[studentID], now)
	return true
}
