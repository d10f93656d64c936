package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	metrics "github.com/wjlander/choo/internal/metrics"
)

// Policy defines a simple fixed-window rate limit.
// Limit requests within Window per derived key.
type Policy struct {
	// Name is a short identifier for the limited endpoint, used for logging/metrics (e.g. "workflows:test").
	Name   string
	Window time.Duration
	Limit  int
	// Optional dynamic resolvers (if provided, override Window/Limit per request)
	WindowFunc func(echo.Context) time.Duration
	LimitFunc  func(echo.Context) int
	// Key builds the bucket key for this request.
	// Example: func(c echo.Context) string { return "test:" + c.RealIP() }
	Key func(echo.Context) string
}

// Store abstracts a shared counter store (e.g., Redis) for fixed-window limiting.
type Store interface {
	// Allow increments the counter for the key in the given window and returns whether the request is allowed.
	// If not allowed, retryAfterSec indicates seconds until the window resets.
	Allow(ctx echo.Context, key string, limit int, window time.Duration) (allowed bool, retryAfterSec int, err error)
}

func (p *Policy) defaults() {
	if p.Window <= 0 {
		p.Window = time.Minute
	}
	if p.Limit <= 0 {
		p.Limit = 60
	}
}

func (p Policy) resolve(c echo.Context) (key string, win time.Duration, lim int) {
	key = "global"
	if p.Key != nil {
		key = p.Key(c)
	}
	win, lim = p.Window, p.Limit
	if p.WindowFunc != nil {
		if w := p.WindowFunc(c); w > 0 {
			win = w
		}
	}
	if p.LimitFunc != nil {
		if l := p.LimitFunc(c); l > 0 {
			lim = l
		}
	}
	return key, win, lim
}

func reject(c echo.Context, p Policy, key string, lim int, win time.Duration, retryAfter int) error {
	src := "ip"
	if strings.Contains(key, ":org:") {
		src = "org"
	}
	metrics.IncRateLimitExceeded(p.Name, src)
	c.Logger().Warnf("rate limit exceeded: endpoint=%s key=%s limit=%d window=%s retry_after=%ds", p.Name, key, lim, win.String(), retryAfter)
	if retryAfter > 0 {
		c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
}

// Middleware returns an Echo middleware enforcing the provided Policy using an in-memory fixed window.
// Note: This is process-local. For multi-instance deployments, prefer a shared store (e.g., Redis).
func Middleware(p Policy) echo.MiddlewareFunc {
	p.defaults()
	type bucket struct {
		start time.Time
		count int
	}
	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, win, lim := p.resolve(c)

			now := time.Now()
			mu.Lock()
			b, ok := buckets[key]
			if !ok || now.Sub(b.start) >= win {
				buckets[key] = &bucket{start: now, count: 1}
				mu.Unlock()
				return next(c)
			}
			if b.count < lim {
				b.count++
				mu.Unlock()
				return next(c)
			}
			retryAfter := int((win - now.Sub(b.start) + time.Second - 1) / time.Second)
			mu.Unlock()
			return reject(c, p, key, lim, win, retryAfter)
		}
	}
}

// MiddlewareWithStore uses a shared Store (e.g., Redis) for distributed rate limiting.
// Store errors fail open.
func MiddlewareWithStore(p Policy, s Store) echo.MiddlewareFunc {
	p.defaults()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, win, lim := p.resolve(c)
			allowed, retryAfter, err := s.Allow(c, key, lim, win)
			if err != nil || allowed {
				return next(c)
			}
			return reject(c, p, key, lim, win, retryAfter)
		}
	}
}

// KeyOrgOrIP keys requests by the organization returned from orgFn, falling
// back to the request's real IP. Prefix allows per-endpoint separation.
func KeyOrgOrIP(prefix string, orgFn func(echo.Context) (uuid.UUID, bool)) func(echo.Context) string {
	return func(c echo.Context) string {
		if orgFn != nil {
			if id, ok := orgFn(c); ok && id != uuid.Nil {
				return prefix + ":org:" + id.String()
			}
		}
		return prefix + ":ip:" + c.RealIP()
	}
}
