package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "studyhub/backend/internal/errors"
)

// RateLimiter hands out one token-bucket limiter per authenticated
// user. Unauthenticated requests share a single bucket keyed by
// client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	perMinute int
	burst     int
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 240
	}
	if burst <= 0 {
		burst = 60
	}
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
		burst:     burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, ok := rl.limiters[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.burst)
	rl.limiters[key] = limiter
	return limiter
}

// Handler throttles by user when one is authenticated, falling back
// to the client IP. Runs after Auth so the user key is populated.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := UserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !rl.limiter(key).Allow() {
			abortWithError(c, apperrors.TooManyRequests("too many requests"))
			return
		}
		c.Next()
	}
}
