// File: internal/middleware/ratelimit.go
package middleware

import (
	"sync"
	"time"

	"strategy_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Idle clients are evicted so the per-IP limiter state cannot grow for the
// process lifetime.
const (
	limiterIdleTTL         = 10 * time.Minute
	limiterCleanupInterval = 5 * time.Minute
)

type ipLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	rps      rate.Limit
	burst    int
}

func newIPLimiter(rps rate.Limit, burst int, idleTTL, cleanupInterval time.Duration) *ipLimiter {
	return &ipLimiter{
		limiters: cache.New(idleTTL, cleanupInterval),
		rps:      rps,
		burst:    burst,
	}
}

// get returns the limiter for an IP, refreshing its idle expiry on every use.
func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(ip); ok {
		limiter := v.(*rate.Limiter)
		l.limiters.Set(ip, limiter, cache.DefaultExpiration)
		return limiter
	}

	limiter := rate.NewLimiter(l.rps, l.burst)
	l.limiters.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

// RateLimiter creates a per-client-IP rate limiting middleware, intended for
// the credential endpoints. A rate of 0 disables limiting entirely.
func RateLimiter(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newIPLimiter(rate.Limit(rps), burst, limiterIdleTTL, limiterCleanupInterval)

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			common.RespondWithError(c, common.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
