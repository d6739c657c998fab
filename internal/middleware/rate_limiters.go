package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterInfo holds a rate limiter and the last time it was seen, in unix nanoseconds.
type limiterInfo struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (i *limiterInfo) touch() {
	i.lastSeen.Store(time.Now().UnixNano())
}

func (i *limiterInfo) idleFor() time.Duration {
	return time.Since(time.Unix(0, i.lastSeen.Load()))
}

// RateLimitByIP applies a token bucket of rps tokens per second, with a burst
// of the same size, to every client IP. Idle buckets are dropped after expiration.
func RateLimitByIP(rps int, cleanupInterval time.Duration, expiration time.Duration) gin.HandlerFunc {
	var limiters sync.Map

	go func() {
		for range time.Tick(cleanupInterval) {
			limiters.Range(func(key, value interface{}) bool {
				if value.(*limiterInfo).idleFor() > expiration {
					limiters.Delete(key)
				}
				return true
			})
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		fresh := &limiterInfo{limiter: rate.NewLimiter(rate.Limit(rps), rps)}
		fresh.touch()
		actual, _ := limiters.LoadOrStore(ip, fresh)

		info := actual.(*limiterInfo)
		info.touch()

		if !info.limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
