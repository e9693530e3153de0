package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/errors"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const defaultIdleEviction = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key (an IP or an API key).
// Buckets unused for longer than the idle age are evicted in the background.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket

	perSecond rate.Limit
	burst     int
	idle      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	logger   *errors.Logger
}

// NewRateLimiter allows requestsPerMin sustained with bursts up to burst
func NewRateLimiter(requestsPerMin int, idle time.Duration, burst int, logger *errors.Logger) *RateLimiter {
	if idle <= 0 {
		idle = defaultIdleEviction
	}
	rl := &RateLimiter{
		buckets:   make(map[string]*clientBucket),
		perSecond: rate.Every(time.Minute / time.Duration(max(requestsPerMin, 1))),
		burst:     burst,
		idle:      idle,
		stop:      make(chan struct{}),
		logger:    logger,
	}
	if requestsPerMin <= 0 {
		rl.perSecond = 0
	}
	go rl.evictLoop()
	return rl
}

// Allow takes one token from key's bucket
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	rl.mu.Unlock()

	return b.limiter.Allow()
}

// GetStats reports the bucket count and configured rates for /stats
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	active := len(rl.buckets)
	rl.mu.Unlock()

	return map[string]any{
		"active_limiters": active,
		"rate_per_second": float64(rl.perSecond),
		"rate_per_minute": float64(rl.perSecond) * 60,
		"burst_capacity":  rl.burst,
		"idle_eviction":   rl.idle.String(),
	}
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			rl.evictIdle(now)
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	evicted := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.buckets, key)
			evicted++
		}
	}
	if evicted > 0 {
		rl.logger.Debug("Evicted idle rate limiters", "evicted", evicted, "remaining", len(rl.buckets))
	}
}

// Close stops background eviction. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// rateLimitMiddleware answers 429 once a client's bucket is empty. Requests
// that yield no key (for example byIP off and no API key) pass through.
func (s *Server) rateLimitMiddleware() middleware {
	if s.RateLimiter == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	byAPIKey, byIP := s.RateLimit.ByAPIKey, s.RateLimit.ByIP

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, byAPIKey, byIP)
			if key == "" || s.RateLimiter.Allow(key) {
				next(w, r)
				return
			}

			s.Logger.Info("Rate limit exceeded",
				"key", maskRateLimitKey(key),
				"endpoint", r.URL.Path,
				"request_id", RequestID(r.Context()))
			s.Observability.GetMetrics().RecordRateLimitHit(r.Context(),
				attribute.String("endpoint", r.URL.Path),
				attribute.String("method", r.Method))
			writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
		}
	}
}

// rateLimitKey prefers the API key over the client IP when both are enabled
func rateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		if key := apiKeyFromRequest(r); key != "" {
			return "api:" + key
		}
	}
	if byIP {
		return "ip:" + getClientIP(r)
	}
	return ""
}

func maskRateLimitKey(key string) string {
	if apiKey, ok := strings.CutPrefix(key, "api:"); ok {
		return "api:" + maskAPIKey(apiKey)
	}
	return key
}

// getClientIP trusts X-Forwarded-For, then X-Real-IP, then the peer address
func getClientIP(r *http.Request) string {
	for candidate := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(candidate); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
