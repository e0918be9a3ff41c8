package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware that throttles requests per client IP using a
// token bucket. Requests over the limit receive 429 Too Many Requests.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[ip]; ok {
			return l
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		limiters[ip] = l
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiterFor(c.RealIP()).Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"success": false,
					"error": map[string]string{
						"code":    "rate_limited",
						"message": "Too many requests, slow down",
					},
				})
			}
			return next(c)
		}
	}
}
