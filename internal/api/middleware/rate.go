package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sketchforge/studio/backend/internal/infrastructure/config"
)

// exemptPaths are never limited: the stream is one long-lived connection and
// the scraper polls on its own schedule.
var exemptPaths = map[string]struct{}{
	"/stream":  {},
	"/metrics": {},
}

const visitorTTL = 10 * time.Minute

// RateLimit creates a per-client limiting middleware from the host's rate
// settings. Idle clients are swept so the visitor map stays bounded.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	type visitor struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu        sync.Mutex
		visitors  = make(map[string]*visitor)
		lastSweep = time.Now()
	)

	sweepLocked := func(now time.Time) {
		if now.Sub(lastSweep) < visitorTTL {
			return
		}
		lastSweep = now
		for ip, v := range visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(visitors, ip)
			}
		}
	}

	return func(c *gin.Context) {
		if _, exempt := exemptPaths[c.Request.URL.Path]; exempt {
			c.Next()
			return
		}

		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		sweepLocked(now)
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			visitors[ip] = v
		}
		v.lastSeen = now
		mu.Unlock()

		if !v.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
