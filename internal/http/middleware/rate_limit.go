package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter hands each client IP its own token bucket. Entries idle past
// limiterIdleTTL are swept on the next allocation so the map stays bounded.
type RateLimiter struct {
	log   *logger.Logger
	limit rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client IP with the given
// burst. A burst below one is raised to one so a fresh client always gets
// its first request through.
func NewRateLimiter(log *logger.Logger, perMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		log:       log.With("middleware", "RateLimiter"),
		limit:     rate.Limit(float64(perMinute) / 60.0),
		burst:     burst,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			rl.log.Warn("Request rate limited", "client_ip", c.ClientIP(), "path", c.FullPath())
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		for ip, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(rl.clients, ip)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.clients[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}
