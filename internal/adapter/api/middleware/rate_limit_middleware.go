package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"agrotrust/internal/infrastructure/ratelimit"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/logger"
	"agrotrust/pkg/response"
)

// RateLimit limits an action per caller. Unauthenticated callers are keyed
// by IP.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ActorFrom(c).ID
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("Rate limit hit for %s on %s (retry in %ds)", key, action, retryAfter)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests("Too many requests, slow down", retryAfter))
			}
			return next(c)
		}
	}
}
