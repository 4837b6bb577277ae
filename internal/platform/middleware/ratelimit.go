package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Limiter is a per-client-IP token bucket. It is constructed once at startup
// and shared by reference into the routes it guards; there is no package
// level state.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*tokenBucket
	rate    float64
	burst   int
}

// NewLimiter allows `events` requests per `per` interval with a burst of the
// same size. NewLimiter(5, time.Minute) reads as "5 per minute".
func NewLimiter(events int, per time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*tokenBucket),
		rate:    float64(events) / per.Seconds(),
		burst:   events,
	}
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

func (b *tokenBucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (b *tokenBucket) retryAfter() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refillRate <= 0 {
		return 1
	}
	return int((1-b.tokens)/b.refillRate) + 1
}

func (l *Limiter) bucket(key string) *tokenBucket {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	b = &tokenBucket{
		tokens:     float64(l.burst),
		maxTokens:  float64(l.burst),
		refillRate: l.rate,
		lastRefill: time.Now(),
	}
	l.buckets[key] = b
	return b
}

// Allow consumes one token for key if available.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).allow()
}

// Middleware rejects over-budget clients with 429 and a Retry-After hint.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b := l.bucket(c.RealIP())
			if !b.allow() {
				c.Response().Header().Set("Retry-After", strconv.Itoa(b.retryAfter()))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
