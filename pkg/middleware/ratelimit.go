package middleware

import (
	"net/http"
	"sync"
	"time"

	"barbershop-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	rps    rate.Limit
	burst  int
	idle   time.Duration
	client *ClientIP

	mu       sync.Mutex
	visitors map[string]*visitor
	log      *zap.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter returns nil when rps is not positive, which disables limiting.
// A nil client keys buckets on the peer address.
func NewRateLimiter(rps float64, burst int, client *ClientIP, log *zap.Logger) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(rps) + 1
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     3 * time.Minute,
		client:   client,
		visitors: map[string]*visitor{},
		log:      log.With(zap.String("middleware", "ratelimit")),
	}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.client.Resolve(r)
			if !rl.limiter(key).Allow() {
				rl.log.Warn("Rate limit exceeded", zap.String("ip", key), zap.String("path", r.URL.Path))
				utils.ResponseTooManyRequests(w, "Rate limit exceeded. Try again later.", rl.refill())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// refill is how long one token takes to come back.
func (rl *RateLimiter) refill() time.Duration {
	return time.Duration(float64(time.Second) / float64(rl.rps))
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	// Idle clients are swept once the map passes 1024 entries.
	if len(rl.visitors) > 1024 {
		for k, other := range rl.visitors {
			if now.Sub(other.lastSeen) > rl.idle {
				delete(rl.visitors, k)
			}
		}
	}

	return v.limiter
}
