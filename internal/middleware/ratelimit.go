package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"
)

// LoginRateLimiter is a sliding-window limiter keyed by client IP. It guards
// admin sign-in and the public contact form.
type LoginRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter allows maxAttempts per window for each IP
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Close stops the cleanup goroutine
func (rl *LoginRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// IsAllowed checks if a login attempt from the given IP is allowed
func (rl *LoginRateLimiter) IsAllowed(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	valid := rl.prune(ip)
	return len(valid) < rl.maxAttempts
}

// RecordAttempt records a login attempt for the given IP
func (rl *LoginRateLimiter) RecordAttempt(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.attempts[ip] = append(rl.prune(ip), rl.now())
}

// Allow records an attempt for ip when one is left in the window. Otherwise it
// returns false and the wait until the oldest attempt expires. The check and
// the record happen under one lock so concurrent requests cannot overshoot.
func (rl *LoginRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	valid := rl.prune(ip)
	if len(valid) < rl.maxAttempts {
		rl.attempts[ip] = append(valid, rl.now())
		return true, 0
	}
	return false, rl.retryAfter(valid)
}

// GetTimeUntilAllowed returns the time until the next login attempt is allowed
func (rl *LoginRateLimiter) GetTimeUntilAllowed(ip string) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	valid := rl.prune(ip)
	if len(valid) < rl.maxAttempts {
		return 0
	}
	return rl.retryAfter(valid)
}

// retryAfter is the wait until the window has room again. Callers hold the mutex.
func (rl *LoginRateLimiter) retryAfter(valid []time.Time) time.Duration {
	if len(valid) == 0 {
		return rl.window
	}

	// the oldest attempt in the window expires first
	i := len(valid) - rl.maxAttempts
	if i < 0 || rl.maxAttempts <= 0 {
		i = 0
	}
	return valid[i].Add(rl.window).Sub(rl.now())
}

// prune drops attempts outside the window. Callers hold the mutex.
func (rl *LoginRateLimiter) prune(ip string) []time.Time {
	cutoff := rl.now().Add(-rl.window)

	attempts := rl.attempts[ip]
	valid := attempts[:0]
	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}

	if len(valid) == 0 {
		delete(rl.attempts, ip)
		return nil
	}
	rl.attempts[ip] = valid
	return valid
}

func (rl *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mutex.Lock()
			for ip := range rl.attempts {
				rl.prune(ip)
			}
			rl.mutex.Unlock()
		}
	}
}

// LoginRateLimit counts every POST to the wrapped handler and answers 429 once
// an IP runs out of attempts
func LoginRateLimit(rateLimiter *LoginRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rateLimiter, "login attempts")
}

// RateLimit counts every POST to the wrapped handler against rateLimiter. A
// blocked request gets a JSON 429 naming what was limited and a Retry-After header.
func RateLimit(rateLimiter *LoginRateLimiter, what string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			allowed, wait := rateLimiter.Allow(getClientIP(r))
			if !allowed {
				seconds := int(math.Ceil(wait.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
				writeJSONError(w, http.StatusTooManyRequests,
					fmt.Sprintf("Too many %s. Please try again in %s.", what, wait.Round(time.Second)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
