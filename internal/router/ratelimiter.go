package router

import (
	"container/list"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

const rateLimitWindow = 60 * time.Second

// RateLimiter enforces a per-service sliding window over the trailing
// 60 seconds. Each service name owns an ordered deque of timestamps;
// admission drops stale entries, then rejects if the remaining count
// has already reached rpm.
type RateLimiter struct {
	mu   sync.Mutex
	deqs map[string]*list.List
}

// NewRateLimiter builds an empty limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{deqs: make(map[string]*list.List)}
}

// Allow admits one call for name if fewer than rpm calls have been
// admitted in the trailing 60s window, recording the admission.
// rpm <= 0 always allows and does not record.
func (rl *RateLimiter) Allow(name string, rpm int) error {
	if rpm <= 0 {
		return nil
	}

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	deque, ok := rl.deqs[name]
	if !ok {
		deque = list.New()
		rl.deqs[name] = deque
	}

	for deque.Len() > 0 {
		front := deque.Front()
		if front.Value.(time.Time).After(cutoff) {
			break
		}
		deque.Remove(front)
	}

	if deque.Len() >= rpm {
		return newValidationError(fmt.Sprintf("rate limit exceeded: %d rpm", rpm))
	}

	deque.PushBack(now)
	return nil
}

// resolveRPM reads a descriptor's effective requests-per-minute limit:
// rate_limits.rpm first, then rate_limits.per_minute, matched
// case-insensitively and rounded to the nearest integer. Non-positive
// or non-numeric values disable the limit (rpm<=0).
func resolveRPM(desc *ServiceDescriptor) int {
	if desc.RateLimits == nil {
		return 0
	}
	lowered := make(map[string]any, len(desc.RateLimits))
	for key, val := range desc.RateLimits {
		lowered[strings.ToLower(key)] = val
	}
	for _, key := range []string{"rpm", "per_minute"} {
		val, ok := lowered[key]
		if !ok {
			continue
		}
		n, ok := numberFromAny(val)
		if !ok {
			return 0
		}
		return int(math.Round(n))
	}
	return 0
}
