package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FixedWindowLimiter is a best-effort, process-local rate limiter: a map of
// client identifiers to a count and a window reset timestamp. Each protected
// route owns its own instance, so limits never bleed across endpoints.
// Counters are lost on restart, which is acceptable for the operations guarded.
type FixedWindowLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	visitors map[string]*windowEntry
	now      func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewFixedWindowLimiter builds a limiter allowing max requests per window
// per identifier.
func NewFixedWindowLimiter(max int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		max:      max,
		window:   window,
		visitors: make(map[string]*windowEntry),
		now:      time.Now,
	}
}

// Allow records one request for the identifier and reports whether it is
// within the window budget.
func (l *FixedWindowLimiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.visitors[identifier]
	if !ok || now.After(entry.resetAt) {
		l.visitors[identifier] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	if entry.count >= l.max {
		return false
	}
	entry.count++
	return true
}

// RateLimit wraps the limiter as gin middleware keyed by client IP.
func RateLimit(limiter *FixedWindowLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please wait a minute.",
			})
			return
		}
		c.Next()
	}
}
