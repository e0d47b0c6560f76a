package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter is a per-client token bucket keyed by client IP.
type RateLimiter struct {
	clients map[string]*clientBucket
	mutex   sync.Mutex
	rps     int
	burst   int
	cleanup *time.Ticker
	stop    chan struct{}
	logger  *zap.Logger
}

type clientBucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewRateLimiter allows rps sustained requests per client with the given
// burst headroom, and periodically drops idle buckets.
func NewRateLimiter(rps, burst int, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		rps:     rps,
		burst:   burst,
		cleanup: time.NewTicker(5 * time.Minute),
		stop:    make(chan struct{}),
		logger:  logger,
	}
	go rl.cleanupIdleClients()
	return rl
}

// RateLimit is the gin middleware enforcing the bucket.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !rl.allow(clientIP) {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	bucket, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientBucket{
			tokens:     float64(rl.burst) - 1,
			lastUpdate: now,
		}
		return true
	}

	bucket.tokens += now.Sub(bucket.lastUpdate).Seconds() * float64(rl.rps)
	if bucket.tokens > float64(rl.burst) {
		bucket.tokens = float64(rl.burst)
	}
	bucket.lastUpdate = now

	if bucket.tokens < 1 {
		return false
	}
	bucket.tokens--
	return true
}

func (rl *RateLimiter) cleanupIdleClients() {
	for {
		select {
		case <-rl.cleanup.C:
			rl.mutex.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for ip, bucket := range rl.clients {
				if bucket.lastUpdate.Before(cutoff) {
					delete(rl.clients, ip)
				}
			}
			rl.mutex.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Shutdown stops the cleanup goroutine.
func (rl *RateLimiter) Shutdown() {
	rl.cleanup.Stop()
	close(rl.stop)
}
