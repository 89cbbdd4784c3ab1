// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

const clientIdleTTL = 5 * time.Minute

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipThrottle keeps one token bucket per client IP. Idle entries are evicted
// so the map does not grow with every address that ever hit the server.
type ipThrottle struct {
	mu      sync.Mutex
	clients map[string]*rateClient
	limit   rate.Limit
	burst   int
}

func newIPThrottle(limit rate.Limit, burst int) *ipThrottle {
	t := &ipThrottle{
		clients: make(map[string]*rateClient),
		limit:   limit,
		burst:   burst,
	}
	go t.evictIdle()
	return t
}

func (t *ipThrottle) evictIdle() {
	for {
		time.Sleep(time.Minute)
		t.mu.Lock()
		for ip, c := range t.clients {
			if time.Since(c.lastSeen) > clientIdleTTL {
				delete(t.clients, ip)
			}
		}
		t.mu.Unlock()
	}
}

func (t *ipThrottle) limiterFor(ip string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.clients[ip]
	if !ok {
		c = &rateClient{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (t *ipThrottle) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.limiterFor(c.ClientIP()).Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests,
				"RATE_LIMITED", "Too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimits bundles the three throttle tiers the router installs: a general
// per-second budget on everything, a tight auth tier, and an upload tier.
// The budgets come from RateLimitConfig.
type RateLimits struct {
	General gin.HandlerFunc
	Auth    gin.HandlerFunc
	Upload  gin.HandlerFunc
}

func NewRateLimits(cfg *config.Config) *RateLimits {
	rl := cfg.RateLimit
	perMinute := func(n int) rate.Limit {
		if n < 1 {
			n = 1
		}
		return rate.Every(time.Minute / time.Duration(n))
	}
	return &RateLimits{
		General: newIPThrottle(rate.Limit(rl.GeneralPerSecond), rl.GeneralBurst).handler(),
		Auth:    newIPThrottle(perMinute(rl.AuthPerMinute), rl.AuthPerMinute).handler(),
		Upload:  newIPThrottle(perMinute(rl.UploadPerMinute), rl.UploadPerMinute).handler(),
	}
}
