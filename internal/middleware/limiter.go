package middleware

import (
	"net/http"
	"sync"
	"time"

	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Login attempts: a slow refill with a small burst.
const (
	limitLogin = rate.Limit(0.2)
	burstLogin = 5

	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client IP.
type IPLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewIPLimiter(limit rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{
		limit:    limit,
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// NewLoginLimiter returns the limiter used on the login route.
func NewLoginLimiter() *IPLimiter {
	return NewIPLimiter(limitLogin, burstLogin)
}

// StartCleanup evicts idle visitors until Stop is called.
func (l *IPLimiter) StartCleanup() {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.cleanup()
			case <-l.stop:
				return
			}
		}
	}()
}

func (l *IPLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *IPLimiter) Allow(key string) bool {
	return l.getVisitor(key).AllowN(l.now(), 1)
}

func (l *IPLimiter) getVisitor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(l.limit, l.burst)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

func (l *IPLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, ip)
		}
	}
}

// Middleware returns 429 once the client IP exhausts its bucket.
func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r)
		if !l.Allow(ip) {
			logger.FromCtx(r.Context()).Warn("rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", r.URL.Path),
			)
			utils.WriteJSONError(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
