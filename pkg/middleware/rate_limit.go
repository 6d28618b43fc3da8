package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/logger"
)

// KeyExtractor picks the identity a request is rate limited under.
type KeyExtractor func(r *http.Request) string

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket per client key. limit requests are allowed
// per window, with a burst of the same size.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	every    rate.Limit
	burst    int
	idleTTL  time.Duration
	keyOf    KeyExtractor
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(limit int, window time.Duration, keyOf KeyExtractor, log *logger.Logger) *RateLimiter {
	if keyOf == nil {
		keyOf = DefaultKeyExtractor
	}
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		every:   rate.Every(window / time.Duration(max(limit, 1))),
		burst:   max(limit, 1),
		idleTTL: max(window*2, time.Minute),
		keyOf:   keyOf,
		log:     log,
		stopCh:  make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, c := range rl.clients {
				if time.Since(c.lastSeen) > rl.idleTTL {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.keyOf(r)
			if key != "" && !rl.Allow(key) {
				rl.log.Warn("Rate limit exceeded",
					"request_id", RequestIDFrom(r.Context()),
					"client", key,
					"path", r.URL.Path,
				)
				reject(w, apperrors.TooManyRequests("rate limit exceeded, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultKeyExtractor prefers the authenticated user id set by the gateway
// and falls back to the client IP.
func DefaultKeyExtractor(r *http.Request) string {
	if user := r.Header.Get("X-User-ID"); user != "" {
		return "user:" + user
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
