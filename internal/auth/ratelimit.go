package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// AttemptLimiter throttles failed unlock attempts per client IP.
type AttemptLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

type AttemptLimitConfig struct {
	MaxAttempts     int           // default: 5
	WindowDuration  time.Duration // default: 15m
	LockoutDuration time.Duration // default: 30m
}

func DefaultAttemptLimitConfig() AttemptLimitConfig {
	return AttemptLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
	}
}

func NewAttemptLimiter(cfg AttemptLimitConfig, now func() time.Time) *AttemptLimiter {
	def := DefaultAttemptLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = def.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if now == nil {
		now = time.Now
	}

	return &AttemptLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		now:             now,
	}
}

// Allow reports whether key may try again, and if not, for how long it is
// locked out.
func (l *AttemptLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, exists := l.attempts[key]
	if !exists {
		return true, 0
	}
	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and reports whether key is now
// locked out.
func (l *AttemptLimiter) RecordFailure(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)

	record, exists := l.attempts[key]
	if !exists || now.Sub(record.firstAttempt) > l.windowDuration {
		record = &attemptRecord{firstAttempt: now}
		l.attempts[key] = record
	}

	record.count++
	if record.count >= l.maxAttempts {
		record.lockedUntil = now.Add(l.lockoutDuration)
		return true, l.lockoutDuration
	}
	return false, 0
}

func (l *AttemptLimiter) RecordSuccess(key string) {
	l.mu.Lock()
	delete(l.attempts, key)
	l.mu.Unlock()
}

func (l *AttemptLimiter) pruneLocked(now time.Time) {
	expiry := l.windowDuration + l.lockoutDuration
	for key, record := range l.attempts {
		if now.Sub(record.firstAttempt) > expiry && now.After(record.lockedUntil) {
			delete(l.attempts, key)
		}
	}
}

// Middleware rejects POSTs from locked-out clients with 429.
func (l *AttemptLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		allowed, retryAfter := l.Allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many unlock attempts",
				"code":        "rate_limited",
				"retry_after": retryAfter.String(),
			})
			return
		}

		c.Next()
	}
}
